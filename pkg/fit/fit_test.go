package fit

import (
	"math"
	"testing"

	"github.com/xob0t/doorstencil/pkg/warp"
)

func TestDetectFitMode(t *testing.T) {
	tests := []struct {
		name           string
		cw, ch, iw, ih float64
		want           Mode
	}{
		{"portrait photo in portrait view", 390, 844, 3024, 4032, Cover},
		{"landscape photo in landscape view", 1280, 720, 4032, 3024, Cover},
		{"portrait photo in landscape view", 1280, 720, 3024, 4032, Contain},
		{"landscape photo in portrait view", 390, 844, 4032, 3024, Contain},
		{"square container", 500, 500, 800, 600, Cover},
		{"zero container", 0, 0, 800, 600, Contain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFitMode(tt.cw, tt.ch, tt.iw, tt.ih); got != tt.want {
				t.Errorf("DetectFitMode = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeContain(t *testing.T) {
	l := Compute(Contain, 1000, 500, 400, 400)
	if l.Scale != 1.25 || l.DrawX != 250 || l.DrawY != 0 || l.DrawW != 500 || l.DrawH != 500 {
		t.Errorf("contain layout = %+v", l)
	}
}

func TestComputeCover(t *testing.T) {
	l := Compute(Cover, 1000, 500, 400, 400)
	if l.Scale != 2.5 || l.DrawX != 0 || l.DrawY != -250 || l.DrawW != 1000 || l.DrawH != 1000 {
		t.Errorf("cover layout = %+v", l)
	}
}

func TestExportLayoutIsIdentity(t *testing.T) {
	l := Export(3024, 4032)
	p := l.ToCanvas(warp.Point{X: 0.25, Y: 0.5})
	if p.X != 756 || p.Y != 2016 {
		t.Errorf("ToCanvas = %+v, want (756, 2016)", p)
	}
	if l.Scale != 1 || l.DrawX != 0 || l.DrawY != 0 {
		t.Errorf("export layout = %+v", l)
	}
}

// The same normalized quad must land at the same relative position of the
// photo for a small preview and the full-resolution export.
func TestResolutionInvariance(t *testing.T) {
	quad := []warp.Point{{X: 0.31, Y: 0.12}, {X: 0.72, Y: 0.15}, {X: 0.70, Y: 0.91}, {X: 0.29, Y: 0.88}}
	const iw, ih = 1600, 1200

	targets := []Layout{
		Auto(400, 300, iw, ih),
		Auto(800, 600, iw, ih),
		Export(iw, ih),
	}
	canvases := [][2]float64{{400, 300}, {800, 600}, {iw, ih}}

	for i, l := range targets {
		px := l.QuadToCanvas(quad)
		for j, p := range px {
			back := l.FromCanvas(p)
			if math.Abs(back.X-quad[j].X) > 1e-9 || math.Abs(back.Y-quad[j].Y) > 1e-9 {
				t.Errorf("target %d corner %d: round trip %+v, want %+v", i, j, back, quad[j])
			}
			// Same aspect ratio: normalizing by the canvas itself agrees too.
			nx, ny := p.X/canvases[i][0], p.Y/canvases[i][1]
			if math.Abs(nx-quad[j].X) > 1e-9 || math.Abs(ny-quad[j].Y) > 1e-9 {
				t.Errorf("target %d corner %d: canvas-normalized (%g, %g), want %+v", i, j, nx, ny, quad[j])
			}
		}
	}
}

func TestQuadToCanvasKeepsLength(t *testing.T) {
	l := Export(100, 100)
	for _, n := range []int{0, 3, 5} {
		if got := len(l.QuadToCanvas(make([]warp.Point, n))); got != n {
			t.Errorf("len = %d, want %d", got, n)
		}
	}
}
