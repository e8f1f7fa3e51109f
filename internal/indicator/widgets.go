package indicator

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// drawPill draws the rounded indicator: pulsing dot, label and timer.
func drawPill(gtx layout.Context, elapsed time.Duration, cfg Config, label string) layout.Dimensions {
	size := gtx.Constraints.Max
	rr := size.Y / 2
	bg := clip.RRect{
		Rect: image.Rectangle{Max: size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.BGColor, bg.Op(gtx.Ops))

	layout.Inset{Left: unit.Dp(16), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return drawRecordingDot(gtx, elapsed, cfg.DotColor)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				th := material.NewTheme()
				th.Palette.Fg = cfg.TextColor
				lbl := material.Label(th, unit.Sp(14), label)
				lbl.Font.Weight = font.Medium
				return lbl.Layout(gtx)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return drawTimerBadge(gtx, elapsed, cfg)
			}),
		)
	})

	return layout.Dimensions{Size: size}
}

// drawRecordingDot draws a pulsing recording indicator.
func drawRecordingDot(gtx layout.Context, elapsed time.Duration, col color.NRGBA) layout.Dimensions {
	size := gtx.Dp(unit.Dp(10))

	pulse := float32(math.Sin(float64(elapsed.Milliseconds())/200.0)*0.3 + 0.7)
	alpha := uint8(float32(col.A) * pulse)
	pulseCol := color.NRGBA{R: col.R, G: col.G, B: col.B, A: alpha}

	circle := clip.Ellipse{Max: image.Pt(size, size)}
	paint.FillShape(gtx.Ops, pulseCol, circle.Op(gtx.Ops))

	return layout.Dimensions{Size: image.Pt(size, size)}
}

// formatElapsed formats elapsed time as m:ss.
func formatElapsed(elapsed time.Duration) string {
	seconds := int(elapsed.Seconds())
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// drawTimerBadge draws the elapsed time in a badge.
func drawTimerBadge(gtx layout.Context, elapsed time.Duration, cfg Config) layout.Dimensions {
	// Record content to measure
	macro := op.Record(gtx.Ops)
	dims := layout.Inset{
		Top: unit.Dp(4), Bottom: unit.Dp(4),
		Left: unit.Dp(10), Right: unit.Dp(10),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		th := material.NewTheme()
		th.Palette.Fg = cfg.TextColor
		lbl := material.Label(th, unit.Sp(13), formatElapsed(elapsed))
		lbl.Font.Weight = font.Bold
		return lbl.Layout(gtx)
	})
	call := macro.Stop()

	rr := dims.Size.Y / 2
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	call.Add(gtx.Ops)
	return dims
}
