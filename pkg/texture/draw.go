// draw.go — The drawing steps: frame, panels, glass, overlays, hardware.
package texture

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/xob0t/doorstencil/pkg/door"
)

var (
	clearWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 0}
	metal      = color.NRGBA{R: 168, G: 170, B: 176, A: 255}
	metalDark  = color.NRGBA{R: 96, G: 98, B: 104, A: 255}
)

// drawFrame paints the drop-shadowed outer frame and cuts the interior out
// of it, leaving a hollow frame of thickness g.thick.
func drawFrame(dc *gg.Context, img *image.RGBA, g geometry, tone door.FrameTone) {
	b := img.Bounds()
	shadow := gg.NewContext(b.Dx(), b.Dy())
	shadow.SetColor(color.NRGBA{A: 96})
	shadow.DrawRoundedRectangle(g.outer.X, g.outer.Y+g.thick*0.15, g.outer.W, g.outer.H, g.radius)
	shadow.Fill()
	dc.DrawImage(imaging.Blur(shadow.Image(), g.thick*0.2), 0, 0)

	grad := gg.NewLinearGradient(g.outer.X, 0, g.outer.X+g.outer.W, 0)
	grad.AddColorStop(0, tone.Edge)
	grad.AddColorStop(0.5, tone.Base)
	grad.AddColorStop(1, tone.Edge)
	dc.SetFillStyle(grad)
	dc.DrawRoundedRectangle(g.outer.X, g.outer.Y, g.outer.W, g.outer.H, g.radius)
	dc.Fill()

	// Shadow rim along the opening; half of it survives the cut.
	dc.SetColor(tone.Shadow)
	dc.SetLineWidth(math.Max(1, g.thick*0.08))
	dc.DrawRoundedRectangle(g.inner.X, g.inner.Y, g.inner.W, g.inner.H, g.radius*0.5)
	dc.Stroke()

	punchOut(img, g.inner, g.radius*0.5)
}

// punchOut clears the rounded rectangle r from img (destination-out).
func punchOut(img *image.RGBA, r rect, radius float64) {
	b := img.Bounds()
	mc := gg.NewContext(b.Dx(), b.Dy())
	mc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	mc.Fill()
	mask := mc.AsMask()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			keep := uint32(255 - a)
			i := img.PixOffset(x, y)
			for c := range 4 {
				img.Pix[i+c] = uint8(uint32(img.Pix[i+c]) * keep / 255)
			}
		}
	}
}

// drawSash paints the panel's own frame in the frame's base tone and
// leaves the glass opening clear, so the glass alpha reaches the photo.
func drawSash(dc *gg.Context, img *image.RGBA, p, glass rect, g geometry, tone door.FrameTone) {
	dc.SetColor(tone.Base)
	dc.DrawRoundedRectangle(p.X, p.Y, p.W, p.H, g.radius*0.3)
	dc.Fill()

	dc.SetColor(tone.Edge)
	dc.SetLineWidth(math.Max(1, g.thick*0.06))
	dc.DrawRoundedRectangle(p.X, p.Y, p.W, p.H, g.radius*0.3)
	dc.Stroke()

	punchOut(img, glass, glassRadius(g))
}

func glassRadius(g geometry) float64 { return g.radius * 0.2 }

func drawGlass(dc *gg.Context, r rect, g geometry, finish door.GlassFinish, patterns bool) {
	rad := glassRadius(g)

	dc.SetColor(finish.Fill)
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, rad)
	dc.Fill()

	if finish.Tint != nil {
		dc.SetColor(*finish.Tint)
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, rad)
		dc.Fill()
	}

	if patterns && finish.Pattern != door.PatternNone {
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, rad)
		dc.Clip()
		drawPattern(dc, r, finish.Pattern)
		dc.ResetClip()
	}

	// Gloss.
	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 90})
	dc.SetLineWidth(math.Max(1, g.thick*0.12))
	dc.SetLineCap(gg.LineCapRound)
	dc.DrawLine(r.X+r.W*0.18, r.Y+r.H*0.03, r.X+r.W*0.05, r.Y+r.H*0.12)
	dc.Stroke()
}

func drawPattern(dc *gg.Context, r rect, p door.Pattern) {
	switch p {
	case door.PatternFlute:
		const lines = 18
		step := r.W / lines
		dc.SetLineWidth(1)
		for k := range lines {
			x := r.X + step*(float64(k)+0.5)
			dc.SetColor(color.NRGBA{A: 48})
			dc.DrawLine(x, r.Y, x, r.Y+r.H)
			dc.Stroke()
			dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 64})
			dc.DrawLine(x+1, r.Y, x+1, r.Y+r.H)
			dc.Stroke()
		}

	case door.PatternMeru:
		const lines = 10
		amp := r.H / lines * 0.18
		period := math.Max(r.W/3, 1)
		dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 80})
		dc.SetLineWidth(1.2)
		for k := range lines {
			y0 := r.Y + r.H*(float64(k)+0.5)/lines
			dc.NewSubPath()
			for x := r.X; x <= r.X+r.W; x += 2 {
				y := y0 + amp*math.Sin(2*math.Pi*(x-r.X)/period)
				if x == r.X {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
		}
		dc.Stroke()

	case door.PatternWire:
		const step = 28.0
		dc.SetColor(color.NRGBA{R: 60, G: 60, B: 60, A: 96})
		dc.SetLineWidth(1)
		for x := r.X + step/2; x < r.X+r.W; x += step {
			dc.DrawLine(x, r.Y, x, r.Y+r.H)
		}
		for y := r.Y + step/2; y < r.Y+r.H; y += step {
			dc.DrawLine(r.X, y, r.X+r.W, y)
		}
		dc.Stroke()

	case door.PatternFilm:
		grad := gg.NewLinearGradient(r.X, r.Y, r.X+r.W, r.Y+r.H)
		grad.AddColorStop(0, color.NRGBA{A: 16})
		grad.AddColorStop(1, color.NRGBA{A: 96})
		dc.SetFillStyle(grad)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Fill()

	default:
		// No pattern for this finish.
	}
}

// drawOverlay applies the design rule to one glass panel.
func drawOverlay(dc *gg.Context, r rect, g geometry, o door.Overlay, tone door.FrameTone) {
	dc.SetColor(tone.Base)
	dc.SetLineWidth(math.Max(1, g.thick*0.18))
	dc.SetLineCap(gg.LineCapButt)

	switch o {
	case door.OverlayGrid:
		for k := 1; k < 3; k++ {
			x := r.X + r.W*float64(k)/3
			dc.DrawLine(x, r.Y, x, r.Y+r.H)
		}
		for k := 1; k < 4; k++ {
			y := r.Y + r.H*float64(k)/4
			dc.DrawLine(r.X, y, r.X+r.W, y)
		}
		dc.Stroke()

	case door.OverlayBars:
		top, bottom := r.Y+r.H*0.06, r.Y+r.H*0.94
		for k := 1; k <= 6; k++ {
			x := r.X + r.W*float64(k)/7
			dc.DrawLine(x, top, x, bottom)
		}
		dc.Stroke()

	case door.OverlaySplit:
		dc.SetLineWidth(math.Max(1, g.thick*0.3))
		for _, f := range []float64{0.33, 0.66} {
			y := r.Y + r.H*f
			dc.DrawLine(r.X, y, r.X+r.W, y)
		}
		dc.Stroke()

	case door.OverlayArch:
		rad := r.W * 0.42
		dc.NewSubPath()
		dc.DrawArc(r.X+r.W/2, r.Y+r.W*0.5, rad, math.Pi, 2*math.Pi)
		dc.Stroke()

	default:
		// Plain and unrecognized designs have no overlay.
	}
}

// drawHardware draws the handle on the leading (right) edge, three hinge
// marks on the opposite edge and, for hinged doors, the centre seam.
func drawHardware(dc *gg.Context, g geometry, tone door.FrameTone, seam bool) {
	p := g.panels[0]
	sash := g.thick * 0.5

	hw, hh := g.thick*0.35, p.H*0.16
	hx := p.X + p.W - sash + (sash-hw)/2
	hy := p.Y + p.H/2 - hh/2
	dc.SetColor(metal)
	dc.DrawRoundedRectangle(hx, hy, hw, hh, hw/2)
	dc.FillPreserve()
	dc.SetColor(metalDark)
	dc.SetLineWidth(math.Max(1, g.thick*0.05))
	dc.Stroke()

	bw, bh := g.thick*0.3, g.thick*1.4
	bx := p.X + (sash-bw)/2
	for _, f := range []float64{0.28, 0.50, 0.72} {
		by := p.Y + p.H*f - bh/2
		dc.SetColor(metalDark)
		dc.DrawRectangle(bx, by, bw, bh)
		dc.Fill()
	}

	if seam {
		r := g.glass[0]
		cx := r.X + r.W/2
		dc.SetColor(tone.Shadow)
		dc.SetLineWidth(math.Max(1, g.thick*0.1))
		dc.DrawLine(cx, r.Y, cx, r.Y+r.H)
		dc.Stroke()
	}
}

// drawReflection adds one soft diagonal streak across all glass panels.
func drawReflection(dc *gg.Context, g geometry) {
	for _, r := range g.glass {
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, glassRadius(g))
	}
	dc.Clip()

	grad := gg.NewLinearGradient(0, 0, g.w, g.h)
	grad.AddColorStop(0, clearWhite)
	grad.AddColorStop(0.30, clearWhite)
	grad.AddColorStop(0.38, color.NRGBA{R: 255, G: 255, B: 255, A: 56})
	grad.AddColorStop(0.46, clearWhite)
	grad.AddColorStop(1, clearWhite)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, g.w, g.h)
	dc.Fill()
	dc.ResetClip()
}
