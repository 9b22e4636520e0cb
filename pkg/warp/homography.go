// Package warp maps a flat rectangular texture onto an arbitrary
// quadrilateral of a destination canvas through a planar homography.
package warp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when no projective transform exists for the
// requested corners (zero area, collinear corners, singular system).
var ErrDegenerate = errors.New("degenerate quad")

// Point is a 2D coordinate. Quads arrive normalized to [0,1] and are
// converted to canvas pixels before warping.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Homography is a 3×3 projective matrix in row-major order.
type Homography [9]float64

// RectToQuad returns the homography taking the rectangle (0,0)–(w,h) onto
// quad. Corners are matched in order: top-left, top-right, bottom-right,
// bottom-left.
//
// The 8×8 system is solved on the unit square and a centred, scaled copy of
// the quad so its conditioning does not depend on the canvas resolution.
func RectToQuad(w, h float64, quad [4]Point) (Homography, error) {
	f, err := factorize(w, h, quad)
	if err != nil {
		return Homography{}, err
	}
	denorm := mat.NewDense(3, 3, []float64{
		f.s, 0, f.cx,
		0, f.s, f.cy,
		0, 0, 1,
	})
	rectToUnit := mat.NewDense(3, 3, []float64{
		1 / w, 0, 0,
		0, 1 / h, 0,
		0, 0, 1,
	})

	var m mat.Dense
	m.Product(denorm, f.unitToNorm, rectToUnit)
	return fromDense(&m)
}

// QuadToRect returns the inverse of RectToQuad(w, h, quad): it maps quad
// coordinates back into the rectangle (0,0)–(w,h). Only the normalized
// factor is inverted numerically, so quads many orders of magnitude larger
// than the source stay exact.
func QuadToRect(w, h float64, quad [4]Point) (Homography, error) {
	f, err := factorize(w, h, quad)
	if err != nil {
		return Homography{}, err
	}
	var normToUnit mat.Dense
	if err := normToUnit.Inverse(f.unitToNorm); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	normalize := mat.NewDense(3, 3, []float64{
		1 / f.s, 0, -f.cx / f.s,
		0, 1 / f.s, -f.cy / f.s,
		0, 0, 1,
	})
	unitToRect := mat.NewDense(3, 3, []float64{
		w, 0, 0,
		0, h, 0,
		0, 0, 1,
	})

	var m mat.Dense
	m.Product(unitToRect, &normToUnit, normalize)
	return fromDense(&m)
}

// factors splits a rect-to-quad homography into the unit-square solve and
// the centre/scale that normalizes the quad.
type factors struct {
	unitToNorm *mat.Dense
	cx, cy, s  float64
}

func factorize(w, h float64, quad [4]Point) (factors, error) {
	if !(w > 0) || !(h > 0) {
		return factors{}, fmt.Errorf("%w: source size %gx%g", ErrDegenerate, w, h)
	}

	var cx, cy float64
	for _, p := range quad {
		cx += p.X / 4
		cy += p.Y / 4
	}
	var s float64
	for _, p := range quad {
		s = math.Max(s, math.Max(math.Abs(p.X-cx), math.Abs(p.Y-cy)))
	}
	if !(s > 0) || math.IsInf(s, 0) {
		return factors{}, ErrDegenerate
	}

	unit := [4]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i, p := range unit {
		u := (quad[i].X - cx) / s
		v := (quad[i].Y - cy) / s
		a.SetRow(2*i, []float64{p.X, p.Y, 1, 0, 0, 0, -u * p.X, -u * p.Y})
		a.SetRow(2*i+1, []float64{0, 0, 0, p.X, p.Y, 1, -v * p.X, -v * p.Y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return factors{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	return factors{
		unitToNorm: mat.NewDense(3, 3, []float64{
			x.AtVec(0), x.AtVec(1), x.AtVec(2),
			x.AtVec(3), x.AtVec(4), x.AtVec(5),
			x.AtVec(6), x.AtVec(7), 1,
		}),
		cx: cx, cy: cy, s: s,
	}, nil
}

// Inverse returns the homography mapping quad coordinates back to the
// source rectangle.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, h[:])); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	return fromDense(&inv)
}

// Apply maps (x, y). ok is false when the point lands on or behind the
// line at infinity.
func (h Homography) Apply(x, y float64) (float64, float64, bool) {
	w := h[6]*x + h[7]*y + h[8]
	if math.Abs(w) < 1e-12 {
		return 0, 0, false
	}
	px := (h[0]*x + h[1]*y + h[2]) / w
	py := (h[3]*x + h[4]*y + h[5]) / w
	if math.IsNaN(px) || math.IsNaN(py) || math.IsInf(px, 0) || math.IsInf(py, 0) {
		return 0, 0, false
	}
	return px, py, true
}

func fromDense(m *mat.Dense) (Homography, error) {
	var h Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := m.At(r, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Homography{}, ErrDegenerate
			}
			h[r*3+c] = v
		}
	}
	return h, nil
}

// Degenerate reports whether quad cannot carry a texture: non-finite
// coordinates, an area under one square pixel, or three consecutive
// collinear corners.
func Degenerate(quad [4]Point) bool {
	for _, p := range quad {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return true
		}
	}
	if math.Abs(Area(quad)) < 1 {
		return true
	}
	for i := range 4 {
		a, b, c := quad[i], quad[(i+1)%4], quad[(i+2)%4]
		abx, aby := b.X-a.X, b.Y-a.Y
		bcx, bcy := c.X-b.X, c.Y-b.Y
		cross := abx*bcy - aby*bcx
		if math.Abs(cross) <= 1e-6*math.Hypot(abx, aby)*math.Hypot(bcx, bcy) {
			return true
		}
	}
	return false
}

// Area is the signed shoelace area of quad.
func Area(quad [4]Point) float64 {
	var a float64
	for i := range 4 {
		p, q := quad[i], quad[(i+1)%4]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}
