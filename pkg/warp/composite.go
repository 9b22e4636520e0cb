// composite.go — Paint a texture into a quad of a destination canvas.
package warp

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/xob0t/doorstencil/internal/logging"
)

// Composite paints src into the quad of dst. Quad corners are in dst pixel
// coordinates, ordered top-left, top-right, bottom-right, bottom-left.
//
// Every dst pixel covered by the quad is inverse-mapped to the source and
// sampled bilinearly; the quad edge is anti-aliased by an analytic coverage
// mask. Pixels outside the quad are left untouched.
//
// Composite never fails: a quad that is not exactly four points, a
// degenerate quad or an empty source leaves dst unchanged and reports false.
func Composite(dst xdraw.Image, src image.Image, quad []Point) bool {
	log := logging.Logger()
	if len(quad) != 4 {
		log.Debug("warp skipped", "reason", "quad must have 4 points", "points", len(quad))
		return false
	}
	sb := src.Bounds()
	if sb.Empty() {
		log.Debug("warp skipped", "reason", "empty source")
		return false
	}

	var q [4]Point
	copy(q[:], quad)
	if Degenerate(q) {
		log.Debug("warp skipped", "reason", "degenerate quad", "quad", q)
		return false
	}

	inv, err := QuadToRect(float64(sb.Dx()), float64(sb.Dy()), q)
	if err != nil {
		log.Debug("warp skipped", "err", err)
		return false
	}

	r := quadBounds(q, dst.Bounds())
	if r.Empty() {
		return false
	}

	mask := coverage(q, r)
	layer := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	tex := toRGBA(src)
	sw, sh := float64(sb.Dx()), float64(sb.Dy())

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			lx, ly := x-r.Min.X, y-r.Min.Y
			if mask.AlphaAt(lx, ly).A == 0 {
				continue
			}
			u, v, ok := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			// Edge pixels may map slightly outside the texture; anything
			// further out is the far side of a folded (non-convex) quad.
			if !ok || u < -1 || v < -1 || u > sw+1 || v > sh+1 {
				continue
			}
			layer.SetRGBA(lx, ly, bilinear(tex, u, v))
		}
	}

	xdraw.DrawMask(dst, r, layer, image.Point{}, mask, image.Point{}, xdraw.Over)
	return true
}

// quadBounds is the integer pixel rectangle enclosing quad, limited to
// clip. Clamping happens before the int conversion so far-off corners
// cannot overflow.
func quadBounds(q [4]Point, clip image.Rectangle) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	clampF := func(v float64, lo, hi int) int {
		return int(math.Max(float64(lo), math.Min(float64(hi), v)))
	}
	return image.Rect(
		clampF(math.Floor(minX), clip.Min.X, clip.Max.X),
		clampF(math.Floor(minY), clip.Min.Y, clip.Max.Y),
		clampF(math.Ceil(maxX), clip.Min.X, clip.Max.X),
		clampF(math.Ceil(maxY), clip.Min.Y, clip.Max.Y),
	).Intersect(clip)
}

// coverage rasterizes q into an alpha mask whose origin is r.Min. The
// polygon is first clipped to r grown by one pixel, which keeps the
// rasterizer's float32 coordinates small without moving any edge that
// crosses r.
func coverage(q [4]Point, r image.Rectangle) *image.Alpha {
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	poly := make([]Point, len(q))
	for i, p := range q {
		poly[i] = Point{X: p.X - ox, Y: p.Y - oy}
	}
	poly = clipPolygon(poly, -1, -1, float64(r.Dx())+1, float64(r.Dy())+1)

	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	if len(poly) < 3 {
		return mask
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// clipPolygon clips poly to the axis-aligned box (x0,y0)–(x1,y1), one edge
// of the box at a time (Sutherland–Hodgman).
func clipPolygon(poly []Point, x0, y0, x1, y1 float64) []Point {
	edges := []struct {
		inside func(Point) bool
		cross  func(a, b Point) Point
	}{
		{func(p Point) bool { return p.X >= x0 }, func(a, b Point) Point { return atX(a, b, x0) }},
		{func(p Point) bool { return p.X <= x1 }, func(a, b Point) Point { return atX(a, b, x1) }},
		{func(p Point) bool { return p.Y >= y0 }, func(a, b Point) Point { return atY(a, b, y0) }},
		{func(p Point) bool { return p.Y <= y1 }, func(a, b Point) Point { return atY(a, b, y1) }},
	}
	for _, e := range edges {
		if len(poly) == 0 {
			return nil
		}
		out := make([]Point, 0, len(poly)+2)
		prev := poly[len(poly)-1]
		for _, cur := range poly {
			switch {
			case e.inside(cur) && !e.inside(prev):
				out = append(out, e.cross(prev, cur), cur)
			case e.inside(cur):
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
		poly = out
	}
	return poly
}

func atX(a, b Point, x float64) Point {
	t := (x - a.X) / (b.X - a.X)
	return Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
}

func atY(a, b Point, y float64) Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{X: a.X + t*(b.X-a.X), Y: y}
}

// toRGBA returns src as a zero-origin *image.RGBA, copying only when needed.
func toRGBA(src image.Image) *image.RGBA {
	if m, ok := src.(*image.RGBA); ok && m.Bounds().Min == (image.Point{}) {
		return m
	}
	b := src.Bounds()
	m := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(m, m.Bounds(), src, b.Min, xdraw.Src)
	return m
}

// bilinear samples premultiplied m at continuous coordinate (u, v), where
// pixel (i, j) has its centre at (i+0.5, j+0.5). Coordinates are clamped to
// the texture edge.
func bilinear(m *image.RGBA, u, v float64) color.RGBA {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	fx, fy := u-0.5, v-0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	x1, y1 := clampInt(x0+1, 0, w-1), clampInt(y0+1, 0, h-1)
	x0, y0 = clampInt(x0, 0, w-1), clampInt(y0, 0, h-1)

	c00 := m.Pix[m.PixOffset(x0, y0):]
	c10 := m.Pix[m.PixOffset(x1, y0):]
	c01 := m.Pix[m.PixOffset(x0, y1):]
	c11 := m.Pix[m.PixOffset(x1, y1):]

	var out [4]uint8
	for i := range out {
		top := float64(c00[i])*(1-tx) + float64(c10[i])*tx
		bot := float64(c01[i])*(1-tx) + float64(c11[i])*tx
		out[i] = uint8(math.Min(255, math.Max(0, top*(1-ty)+bot*ty+0.5)))
	}
	// Rounding can lift a channel above alpha; keep the value premultiplied.
	for i := range 3 {
		out[i] = min(out[i], out[3])
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
