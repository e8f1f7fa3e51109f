// Package window - главное окно приложения. Пока оно в фокусе, диктовка
// идёт в чат.
package window

import (
	"image"
	"image/color"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"spaceduck/internal/i18n"
	"spaceduck/internal/trigger"
)

var (
	colorBG     = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	colorText   = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	colorDim    = color.NRGBA{R: 140, G: 140, B: 150, A: 255}
	colorAccent = color.NRGBA{R: 88, G: 166, B: 255, A: 255}
	colorRec    = color.NRGBA{R: 255, G: 100, B: 100, A: 255}
)

// FocusReporter получает изменения фокуса окна.
type FocusReporter interface {
	SetFocused(title string, focused bool)
}

// Window represents the main window.
type Window struct {
	mu      sync.Mutex
	title   string
	focus   FocusReporter
	onOpen  func()
	status  Status
	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	openBtn widget.Clickable
}

// New creates the main window. title is also the focus sentinel.
func New(title string, focus FocusReporter, onOpen func()) *Window {
	return &Window{
		title:  title,
		focus:  focus,
		onOpen: onOpen,
		status: Status{Available: true},
	}
}

// Show displays the window.
func (w *Window) Show() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	go w.runEventLoop(stopCh, doneCh)
}

// Hide closes the window.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.stopCh = nil
	w.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	if doneCh != nil {
		select {
		case <-doneCh:
		case <-time.After(time.Second):
		}
	}
}

// IsVisible returns true if window is currently shown.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Update changes the displayed status.
func (w *Window) Update(fn func(s *Status)) {
	w.mu.Lock()
	fn(&w.status)
	win := w.window
	w.mu.Unlock()

	if win != nil {
		win.Invalidate()
	}
}

// Status returns the displayed status.
func (w *Window) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Window) setFocused(focused bool) {
	if w.focus != nil {
		w.focus.SetFocused(w.title, focused)
	}
}

func (w *Window) runEventLoop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	// Закрытое окно не может быть в фокусе
	defer w.setFocused(false)

	win := new(app.Window)
	win.Option(
		app.Title(w.title),
		app.Size(unit.Dp(360), unit.Dp(180)),
		app.MinSize(unit.Dp(300), unit.Dp(150)),
	)

	w.mu.Lock()
	w.window = win
	w.mu.Unlock()

	var ops op.Ops

	go func() {
		<-stopCh
		win.Perform(system.ActionClose)
	}()

	// Пока запись идёт, точка мигает
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-doneCh:
				return
			case <-ticker.C:
				if w.Status().Mode != trigger.ModeIdle {
					win.Invalidate()
				}
			}
		}
	}()

	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			w.mu.Lock()
			w.window = nil
			w.running = false
			w.mu.Unlock()
			return
		case app.ConfigEvent:
			w.setFocused(e.Config.Focused)
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			w.draw(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) draw(gtx layout.Context) layout.Dimensions {
	if w.openBtn.Clicked(gtx) && w.onOpen != nil {
		go w.onOpen()
	}

	// Fill background
	rect := clip.Rect{Max: gtx.Constraints.Max}
	paint.FillShape(gtx.Ops, colorBG, rect.Op())

	status := w.Status()
	th := material.NewTheme()

	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						if status.Mode == trigger.ModeIdle {
							return layout.Dimensions{}
						}
						return layout.Inset{Right: unit.Dp(8)}.Layout(gtx, drawDot)
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						th.Palette.Fg = colorText
						lbl := material.Label(th, unit.Sp(15), status.Headline())
						lbl.Font.Weight = font.Medium
						lbl.Alignment = text.Middle
						return lbl.Layout(gtx)
					}),
				)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				th.Palette.Fg = colorDim
				lbl := material.Label(th, unit.Sp(11), status.ServerLine())
				lbl.Alignment = text.Middle
				return lbl.Layout(gtx)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				btn := material.Button(th, &w.openBtn, i18n.T("window_open_chat"))
				btn.Background = colorAccent
				btn.Color = colorText
				return btn.Layout(gtx)
			}),
		)
	})
}

// drawDot draws a pulsing recording dot.
func drawDot(gtx layout.Context) layout.Dimensions {
	size := gtx.Dp(unit.Dp(10))

	alpha := uint8(140 + time.Now().UnixMilli()%1000*115/1000)
	col := color.NRGBA{R: colorRec.R, G: colorRec.G, B: colorRec.B, A: alpha}

	circle := clip.Ellipse{Max: image.Pt(size, size)}
	paint.FillShape(gtx.Ops, col, circle.Op(gtx.Ops))
	return layout.Dimensions{Size: image.Pt(size, size)}
}
