package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/xob0t/doorstencil/pkg/door"
)

func mustGenerate(t *testing.T, cfg door.Config, w, h int) *image.RGBA {
	t.Helper()
	img, err := Generate(cfg, w, h)
	if err != nil {
		t.Fatalf("Generate(%+v, %d, %d): %v", cfg, w, h, err)
	}
	return img
}

// gapRuns counts runs of near-transparent pixels along row y inside the
// frame opening.
func gapRuns(img *image.RGBA, y int) int {
	b := img.Bounds()
	g := layoutDoor(b.Dx(), b.Dy(), 1)
	x0 := int(g.inner.X) + 2
	x1 := int(g.inner.X+g.inner.W) - 2

	runs, in := 0, false
	for x := x0; x < x1; x++ {
		clear := img.RGBAAt(x, y).A < 16
		if clear && !in {
			runs++
		}
		in = clear
	}
	return runs
}

func TestGenerateInvalidSize(t *testing.T) {
	sizes := [][2]int{{0, 10}, {10, 0}, {-5, 10}, {10, -1}, {MaxSize + 1, 10}}
	for _, s := range sizes {
		if _, err := Generate(door.DefaultConfig(), s[0], s[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Generate(%dx%d) err = %v, want ErrInvalidSize", s[0], s[1], err)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := door.Config{
		Structure:  door.StructureTwoSlide,
		FrameColor: door.FrameGold,
		GlassType:  door.GlassMeru,
		DesignType: door.DesignArch,
	}
	a := mustGenerate(t, cfg, 120, 240)
	b := mustGenerate(t, cfg, 120, 240)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders of the same config differ")
	}
}

func TestGenerateIdempotentAcrossConfigs(t *testing.T) {
	a := door.Config{Structure: door.StructureFourSlide, FrameColor: door.FrameGray, GlassType: door.GlassWire, DesignType: door.DesignBars}
	b := door.Config{Structure: door.StructureSwing, FrameColor: door.FrameBlack, GlassType: door.GlassFilm, DesignType: door.DesignSplit}

	first := mustGenerate(t, a, 100, 200)
	mustGenerate(t, b, 100, 200)
	again := mustGenerate(t, a, 100, 200)
	if !bytes.Equal(first.Pix, again.Pix) {
		t.Error("rendering another config in between changed the output")
	}
}

func TestPanelCountLaw(t *testing.T) {
	for _, s := range door.AllStructures() {
		t.Run(s.Slug(), func(t *testing.T) {
			cfg := door.DefaultConfig()
			cfg.Structure = s
			img := mustGenerate(t, cfg, 150, 300)
			if got, want := gapRuns(img, 150), s.Panels()-1; got != want {
				t.Errorf("gaps between panels = %d, want %d", got, want)
			}
		})
	}
}

func TestPatternPresence(t *testing.T) {
	for _, g := range door.AllGlassTypes() {
		t.Run(g.Slug(), func(t *testing.T) {
			cfg := door.DefaultConfig()
			cfg.GlassType = g
			with, err := render(cfg, 150, 300, drawOptions{patterns: true})
			if err != nil {
				t.Fatal(err)
			}
			without, err := render(cfg, 150, 300, drawOptions{patterns: false})
			if err != nil {
				t.Fatal(err)
			}
			differ := !bytes.Equal(with.Pix, without.Pix)
			if want := g.Finish().Pattern != door.PatternNone; differ != want {
				t.Errorf("pattern drawn = %v, want %v", differ, want)
			}
		})
	}
}

func TestHardware(t *testing.T) {
	base := door.DefaultConfig()
	swing := base
	swing.Structure = door.StructureSwing
	hinged := base
	hinged.Structure = door.StructureHinged

	plain := mustGenerate(t, base, 150, 300)
	sw := mustGenerate(t, swing, 150, 300)
	hg := mustGenerate(t, hinged, 150, 300)

	// Handle on the right sash, mid-height.
	if c := plain.RGBAAt(132, 150); c.R < 230 {
		t.Errorf("sliding door sash pixel = %v, want white frame tone", c)
	}
	if c := sw.RGBAAt(132, 150); c.R > 200 || c.A != 255 {
		t.Errorf("swing handle pixel = %v, want metal", c)
	}
	// Middle hinge on the left sash.
	if c := sw.RGBAAt(17, 150); c.R > 150 {
		t.Errorf("swing hinge pixel = %v, want dark metal", c)
	}
	if bytes.Equal(sw.Pix, hg.Pix) {
		t.Error("hinged door has no seam")
	}
}

func TestScenarioThreeSlideBlackClearGrid(t *testing.T) {
	cfg := door.Config{
		Structure:  door.StructureThreeSlide,
		FrameColor: door.FrameBlack,
		GlassType:  door.GlassClear,
		DesignType: door.DesignGrid,
	}
	img := mustGenerate(t, cfg, 600, 1200)

	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 1200 {
		t.Fatalf("bounds = %v", b)
	}
	if got := gapRuns(img, 600); got != 2 {
		t.Errorf("gaps = %d, want 2 (three panels)", got)
	}

	frame := img.RGBAAt(42, 600)
	if frame.A != 255 || frame.R > 0x40 {
		t.Errorf("frame pixel = %v, want opaque black tone", frame)
	}

	glass := img.RGBAAt(134, 450)
	if glass.A <= 16 || glass.A >= 250 {
		t.Errorf("glass pixel = %v, want translucent", glass)
	}

	// The corner outside the shadow stays transparent.
	if c := img.RGBAAt(1, 1); c.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", c)
	}

	// Sliding doors carry no handle or hinges: both sash spots keep the
	// black frame tone instead of metal.
	for _, pt := range []image.Point{{199, 600}, {69, 600}} {
		if c := img.RGBAAt(pt.X, pt.Y); c.A != 255 || c.R >= 0x60 {
			t.Errorf("sash pixel at %v = %v, want black frame tone", pt, c)
		}
	}
}

// overlayPoints returns pixels that sit on the design's lines inside glass
// rect r.
func overlayPoints(d door.DesignType, r rect) []image.Point {
	at := func(x, y float64) image.Point { return image.Pt(int(x), int(y)) }
	var pts []image.Point
	switch d.Overlay() {
	case door.OverlayGrid:
		for k := 1; k < 3; k++ {
			pts = append(pts, at(r.X+r.W*float64(k)/3, r.Y+r.H*0.4))
		}
		for k := 1; k < 4; k++ {
			pts = append(pts, at(r.X+r.W*0.5, r.Y+r.H*float64(k)/4))
		}
	case door.OverlayBars:
		for k := 1; k <= 6; k++ {
			pts = append(pts, at(r.X+r.W*float64(k)/7, r.Y+r.H*0.5))
		}
	case door.OverlaySplit:
		pts = append(pts, at(r.X+r.W*0.5, r.Y+r.H*0.33), at(r.X+r.W*0.5, r.Y+r.H*0.66))
	case door.OverlayArch:
		pts = append(pts, at(r.X+r.W/2, r.Y+r.W*0.08))
	}
	return pts
}

func TestDesignOverlays(t *testing.T) {
	const w, h = 600, 1200
	g := layoutDoor(w, h, door.StructureThreeSlide.Panels())
	r := g.glass[1]

	for _, d := range door.AllDesignTypes() {
		t.Run(d.Slug(), func(t *testing.T) {
			cfg := door.Config{
				Structure:  door.StructureThreeSlide,
				FrameColor: door.FrameBlack,
				GlassType:  door.GlassClear,
				DesignType: d,
			}
			img, err := render(cfg, w, h, drawOptions{patterns: false})
			if err != nil {
				t.Fatal(err)
			}

			for _, pt := range overlayPoints(d, r) {
				if c := img.RGBAAt(pt.X, pt.Y); c.A != 255 {
					t.Errorf("line pixel at %v = %v, want opaque", pt, c)
				}
			}
			if d.Overlay() != door.OverlayNone {
				return
			}
			for _, other := range door.AllDesignTypes() {
				for _, pt := range overlayPoints(other, r) {
					if c := img.RGBAAt(pt.X, pt.Y); c.A >= 250 {
						t.Errorf("%s line pixel at %v = %v on a plain door, want glass", other.Slug(), pt, c)
					}
				}
			}
		})
	}
}

func TestUnknownConfigRendersDefaults(t *testing.T) {
	unknown := mustGenerate(t, door.Config{}, 100, 200)
	fallback := mustGenerate(t, door.Config{
		Structure:  door.StructureSingleSlide,
		FrameColor: door.FrameWhite,
		GlassType:  door.GlassClear,
		DesignType: door.DesignPlain,
	}, 100, 200)
	if !bytes.Equal(unknown.Pix, fallback.Pix) {
		t.Error("unknown members did not fall back to the default drawing")
	}
}

func writeAsset(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(imaging.New(10, 20, c), path); err != nil {
		t.Fatalf("save asset: %v", err)
	}
	return path
}

func TestResolveAndRenderStaticAsset(t *testing.T) {
	dir := t.TempDir()
	path := writeAsset(t, dir, "arch.png", color.NRGBA{R: 255, A: 255})
	reg := NewRegistry(map[door.DesignType]string{door.DesignArch: path})

	cfg := door.DefaultConfig()
	if _, ok := Resolve(cfg, reg).(Procedural); !ok {
		t.Fatal("unregistered design did not resolve to procedural")
	}

	cfg.DesignType = door.DesignArch
	src := Resolve(cfg, reg)
	asset, ok := src.(StaticAsset)
	if !ok || asset.Path != path {
		t.Fatalf("Resolve = %#v, want StaticAsset %q", src, path)
	}

	img, err := Generator{}.Render(context.Background(), src, 40, 80)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 80 {
		t.Errorf("bounds = %v, want 40x80", b)
	}
	if c := img.RGBAAt(20, 40); c.R < 250 || c.G > 5 || c.A < 250 {
		t.Errorf("asset pixel = %v, want red", c)
	}
}

func TestRenderAssetFailure(t *testing.T) {
	src := StaticAsset{Design: door.DesignGrid, Path: filepath.Join(t.TempDir(), "missing.png")}
	_, err := Generator{}.Render(context.Background(), src, 40, 80)
	if !errors.Is(err, ErrAssetLoad) {
		t.Errorf("err = %v, want ErrAssetLoad", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Generator{}).Render(ctx, src, 40, 80); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled render err = %v, want context.Canceled", err)
	}
}

func TestRenderProceduralMatchesGenerate(t *testing.T) {
	cfg := door.Config{Structure: door.StructureThreeTrack, FrameColor: door.FrameGray, GlassType: door.GlassFluted, DesignType: door.DesignGrid}
	a, err := Generator{}.Render(context.Background(), Procedural{Config: cfg}, 90, 180)
	if err != nil {
		t.Fatal(err)
	}
	if b := mustGenerate(t, cfg, 90, 180); !bytes.Equal(a.Pix, b.Pix) {
		t.Error("procedural source differs from Generate")
	}
}

func TestParseRegistry(t *testing.T) {
	data := []byte(`designs:
  아치디자인: assets/arch.png
  grid: /abs/grid.png
  stained-glass: assets/x.png
  bars: ""
`)
	reg, warnings, err := ParseRegistry(data, "/srv/doors")
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %q, want 2", warnings)
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}
	if p, _ := reg.Lookup(door.DesignArch); p != filepath.Join("/srv/doors", "assets/arch.png") {
		t.Errorf("arch path = %q", p)
	}
	if p, _ := reg.Lookup(door.DesignGrid); p != "/abs/grid.png" {
		t.Errorf("grid path = %q", p)
	}
	if _, ok := reg.Lookup(door.DesignBars); ok {
		t.Error("empty path registered")
	}

	if _, _, err := ParseRegistry([]byte("designs: [1, 2"), ""); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	if _, ok := reg.Lookup(door.DesignArch); ok || reg.Len() != 0 {
		t.Error("nil registry is not empty")
	}
	if _, ok := Resolve(door.DefaultConfig(), reg).(Procedural); !ok {
		t.Error("nil registry did not resolve to procedural")
	}
}
