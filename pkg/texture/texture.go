// Package texture draws the flat, unwarped door raster for a door.Config.
//
// Drawing is deterministic: the same config and size always produce the same
// pixels, so a small live preview and the full-resolution export agree.
// Every call allocates its own canvases; nothing is shared between calls.
package texture

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/xob0t/doorstencil/pkg/door"
)

// MaxSize bounds either texture dimension.
const MaxSize = 8192

// ErrInvalidSize is returned for a non-positive or oversized texture request.
var ErrInvalidSize = errors.New("invalid texture size")

// Generate draws cfg as a w×h texture. Unknown enum members fall back to
// their default drawing (see package door) rather than failing.
func Generate(cfg door.Config, w, h int) (*image.RGBA, error) {
	return render(cfg, w, h, drawOptions{patterns: true})
}

type drawOptions struct {
	patterns bool
}

func render(cfg door.Config, w, h int, opts drawOptions) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || w > MaxSize || h > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}

	g := layoutDoor(w, h, cfg.Structure.Panels())
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(img)

	tone := cfg.FrameColor.Tone()
	finish := cfg.GlassType.Finish()
	overlay := cfg.DesignType.Overlay()

	drawFrame(dc, img, g, tone)
	for i := range g.panels {
		drawSash(dc, img, g.panels[i], g.glass[i], g, tone)
		drawGlass(dc, g.glass[i], g, finish, opts.patterns)
		drawOverlay(dc, g.glass[i], g, overlay, tone)
	}
	if cfg.Structure.HasHardware() {
		drawHardware(dc, g, tone, cfg.Structure.HasSeam())
	}
	drawReflection(dc, g)
	return img, nil
}

// rect is a float rectangle in texture pixels.
type rect struct {
	X, Y, W, H float64
}

func (r rect) inset(d float64) rect {
	return rect{X: r.X + d, Y: r.Y + d, W: math.Max(0, r.W-2*d), H: math.Max(0, r.H-2*d)}
}

// geometry holds every measurement the drawing steps share. All of it is
// proportional to min(w, h) so the door scales with the working resolution.
type geometry struct {
	w, h   float64
	margin float64
	thick  float64 // frame thickness
	radius float64 // outer corner radius
	gap    float64 // space between panels
	outer  rect
	inner  rect
	panels []rect
	glass  []rect
}

func layoutDoor(w, h, n int) geometry {
	n = max(n, 1)
	fw, fh := float64(w), float64(h)
	m := math.Min(fw, fh)

	g := geometry{
		w:      fw,
		h:      fh,
		margin: m * 0.04,
		thick:  m * 0.06,
		radius: m * 0.05,
	}
	g.gap = g.thick * 0.5
	g.outer = rect{X: g.margin, Y: g.margin, W: fw - 2*g.margin, H: fh - 2*g.margin}
	g.inner = g.outer.inset(g.thick)

	pw := (g.inner.W - g.gap*float64(n-1)) / float64(n)
	for i := range n {
		p := rect{X: g.inner.X + float64(i)*(pw+g.gap), Y: g.inner.Y, W: pw, H: g.inner.H}
		g.panels = append(g.panels, p)
		g.glass = append(g.glass, p.inset(g.thick*0.5))
	}
	return g
}
