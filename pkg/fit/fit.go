// Package fit places a photo inside a render target and converts normalized
// quad points into the target's pixel space.
//
// Every render target (live preview, full-resolution export) goes through
// the same Layout arithmetic, so a quad lands at the same relative position
// of the photo whatever the target size.
package fit

import (
	"math"

	"github.com/xob0t/doorstencil/pkg/warp"
)

// Mode is how a photo is placed in a container of another aspect ratio.
type Mode string

const (
	// Contain letterboxes the whole photo inside the container.
	Contain Mode = "contain"
	// Cover fills the container and crops the overflow.
	Cover Mode = "cover"
)

// DetectFitMode picks the placement for a photo of iw×ih inside a cw×ch
// container. A photo with the container's orientation fills it (cover);
// a photo of the other orientation is letterboxed (contain) so a portrait
// doorway is never cropped to a landscape strip.
func DetectFitMode(cw, ch, iw, ih float64) Mode {
	if cw <= 0 || ch <= 0 || iw <= 0 || ih <= 0 {
		return Contain
	}
	if (cw >= ch) == (iw >= ih) {
		return Cover
	}
	return Contain
}

// Layout is where the photo is drawn inside the container.
type Layout struct {
	Mode  Mode
	Scale float64 // photo pixels -> container pixels
	DrawX float64 // left edge of the drawn photo, may be negative for cover
	DrawY float64
	DrawW float64
	DrawH float64
}

// Compute returns the layout of an iw×ih photo in a cw×ch container.
// Non-positive sizes yield the zero Layout.
func Compute(mode Mode, cw, ch, iw, ih float64) Layout {
	if cw <= 0 || ch <= 0 || iw <= 0 || ih <= 0 {
		return Layout{Mode: mode}
	}
	sx, sy := cw/iw, ch/ih
	scale := math.Min(sx, sy)
	if mode == Cover {
		scale = math.Max(sx, sy)
	}
	w, h := iw*scale, ih*scale
	return Layout{
		Mode:  mode,
		Scale: scale,
		DrawX: (cw - w) / 2,
		DrawY: (ch - h) / 2,
		DrawW: w,
		DrawH: h,
	}
}

// Auto detects the mode and computes the layout in one step.
func Auto(cw, ch, iw, ih float64) Layout {
	return Compute(DetectFitMode(cw, ch, iw, ih), cw, ch, iw, ih)
}

// Export is the layout of the full-resolution export canvas: the canvas is
// the photo itself.
func Export(iw, ih float64) Layout {
	return Compute(Contain, iw, ih, iw, ih)
}

// ToCanvas converts a normalized photo point to container pixels.
func (l Layout) ToCanvas(p warp.Point) warp.Point {
	return warp.Point{X: l.DrawX + p.X*l.DrawW, Y: l.DrawY + p.Y*l.DrawH}
}

// FromCanvas converts container pixels back to a normalized photo point.
func (l Layout) FromCanvas(p warp.Point) warp.Point {
	if l.DrawW == 0 || l.DrawH == 0 {
		return warp.Point{}
	}
	return warp.Point{X: (p.X - l.DrawX) / l.DrawW, Y: (p.Y - l.DrawY) / l.DrawH}
}

// QuadToCanvas converts every point of a normalized quad. The length is
// preserved so the compositor can still reject a malformed quad.
func (l Layout) QuadToCanvas(quad []warp.Point) []warp.Point {
	out := make([]warp.Point, len(quad))
	for i, p := range quad {
		out[i] = l.ToCanvas(p)
	}
	return out
}
