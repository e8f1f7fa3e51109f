// Package indicator provides the floating pill shown while dictating into
// another application.
package indicator

import (
	"image"
	"image/color"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"

	"spaceduck/internal/i18n"
)

// Title is the indicator window title used to find it for positioning.
const Title = "spaceduck-indicator"

// Config holds window configuration.
type Config struct {
	Width       int           // Window width in pixels
	Height      int           // Window height in pixels
	RefreshRate time.Duration // Refresh interval
	BGColor     color.NRGBA   // Background color
	DotColor    color.NRGBA   // Recording dot color
	TextColor   color.NRGBA   // Text color
	PanelColor  color.NRGBA   // Timer badge background
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Width:       200,
		Height:      44,
		RefreshRate: 50 * time.Millisecond,
		BGColor:     color.NRGBA{R: 30, G: 30, B: 34, A: 245},
		DotColor:    color.NRGBA{R: 255, G: 100, B: 100, A: 255},
		TextColor:   color.NRGBA{R: 240, G: 240, B: 245, A: 255},
		PanelColor:  color.NRGBA{R: 45, G: 45, B: 50, A: 255},
	}
}

// Window manages the floating indicator.
type Window struct {
	mu        sync.Mutex
	config    Config
	startTime time.Time
	pos       *Positioner

	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates an indicator window.
func New(cfg Config) *Window {
	return &Window{
		config: cfg,
		pos:    NewPositioner(Title, image.Pt(cfg.Width, cfg.Height)),
	}
}

// Reposition moves the indicator under the pointer without blocking.
func (w *Window) Reposition() {
	w.pos.Reposition()
}

// Show displays the indicator (non-blocking).
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.startTime = time.Now()
	if w.running {
		if w.window != nil {
			w.window.Invalidate()
		}
		return
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.runEventLoop(w.stopCh, w.doneCh)
}

// Hide closes the indicator.
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

	// Wait for window to close
	if doneCh != nil {
		select {
		case <-doneCh:
		case <-time.After(time.Second):
		}
	}
}

// IsVisible returns true if the indicator is currently shown.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Window) runEventLoop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	win := new(app.Window)
	win.Option(
		app.Title(Title),
		app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)),
		app.Decorated(false), // Borderless
	)

	w.mu.Lock()
	w.window = win
	w.mu.Unlock()

	var ops op.Ops

	ticker := time.NewTicker(w.config.RefreshRate)
	defer ticker.Stop()

	// Invalidation and close goroutine
	go func() {
		for {
			select {
			case <-stopCh:
				win.Perform(system.ActionClose)
				return
			case <-ticker.C:
				win.Invalidate()
			}
		}
	}()

	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			w.mu.Lock()
			if w.window == win {
				w.window = nil
			}
			w.mu.Unlock()
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			w.mu.Lock()
			startTime := w.startTime
			w.mu.Unlock()

			w.draw(gtx, time.Since(startTime))
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) draw(gtx layout.Context, elapsed time.Duration) {
	drawPill(gtx, elapsed, w.config, i18n.T("indicator_recording"))
}
