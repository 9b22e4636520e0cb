// renderer.go — Render a scene to a preview canvas and a full-resolution export.
//
// Both targets share one texture and go through the same fit.Layout
// arithmetic; only the canvas size differs.
package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/fit"
	"github.com/xob0t/doorstencil/pkg/texture"
	"github.com/xob0t/doorstencil/pkg/warp"
)

// Default working texture size.
const (
	DefaultTextureW = 600
	DefaultTextureH = 1200
)

// Renderer turns scenes into frames. The zero value renders procedural
// doors at the default texture size on a black letterbox. A Renderer holds
// no per-render state and is safe for concurrent use.
type Renderer struct {
	Generator texture.Generator
	Registry  *texture.Registry

	TextureW, TextureH int
	Background         color.Color // letterbox fill for contain previews

	// FallbackProcedural draws the door procedurally when a registered
	// design asset cannot be loaded instead of failing the render.
	FallbackProcedural bool

	// Caption, when set, stamps the option summary onto exports.
	Caption *Captioner
}

// Texture resolves the texture source for cfg once and renders it.
func (r *Renderer) Texture(ctx context.Context, cfg door.Config) (*image.RGBA, error) {
	w, h := r.textureSize()
	src := texture.Resolve(cfg, r.Registry)
	img, err := r.Generator.Render(ctx, src, w, h)
	if err == nil {
		return img, nil
	}
	if r.FallbackProcedural && errors.Is(err, texture.ErrAssetLoad) {
		logging.Logger().Warn("design asset unavailable, drawing procedurally", "design", cfg.DesignType.Slug(), "err", err)
		return texture.Generate(cfg, w, h)
	}
	return nil, fmt.Errorf("render texture: %w", err)
}

// Preview renders s with cfg into a cw×ch canvas. The photo is placed by
// fit.Auto and the quad follows the same layout.
func (r *Renderer) Preview(ctx context.Context, s *Scene, cfg door.Config, cw, ch int) (*Frame, error) {
	tex, err := r.Texture(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return r.preview(s, tex, cw, ch)
}

// Export renders s with cfg at the photo's own resolution.
func (r *Renderer) Export(ctx context.Context, s *Scene, cfg door.Config) (*Frame, error) {
	tex, err := r.Texture(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return r.export(s, cfg, tex)
}

// RenderBoth renders the preview and the export from a single texture, in
// parallel.
func (r *Renderer) RenderBoth(ctx context.Context, s *Scene, cfg door.Config, cw, ch int) (preview, export *Frame, err error) {
	tex, err := r.Texture(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		preview, err = r.preview(s, tex, cw, ch)
		return err
	})
	g.Go(func() error {
		var err error
		export, err = r.export(s, cfg, tex)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return preview, export, nil
}

func (r *Renderer) preview(s *Scene, tex *image.RGBA, cw, ch int) (*Frame, error) {
	if err := checkScene(s); err != nil {
		return nil, err
	}
	if cw <= 0 || ch <= 0 {
		return nil, fmt.Errorf("preview canvas %dx%d: %w", cw, ch, texture.ErrInvalidSize)
	}

	pb := s.Photo.Bounds()
	layout := fit.Auto(float64(cw), float64(ch), float64(pb.Dx()), float64(pb.Dy()))

	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.background()), image.Point{}, draw.Src)
	dr := image.Rect(
		int(layout.DrawX+0.5), int(layout.DrawY+0.5),
		int(layout.DrawX+layout.DrawW+0.5), int(layout.DrawY+layout.DrawH+0.5),
	)
	xdraw.ApproxBiLinear.Scale(canvas, dr, s.Photo, pb, xdraw.Src, nil)

	return r.paint(canvas, layout, s.Quad, tex), nil
}

func (r *Renderer) export(s *Scene, cfg door.Config, tex *image.RGBA) (*Frame, error) {
	if err := checkScene(s); err != nil {
		return nil, err
	}
	pb := s.Photo.Bounds()
	layout := fit.Export(float64(pb.Dx()), float64(pb.Dy()))

	canvas := image.NewRGBA(image.Rect(0, 0, pb.Dx(), pb.Dy()))
	draw.Draw(canvas, canvas.Bounds(), s.Photo, pb.Min, draw.Src)

	f := r.paint(canvas, layout, s.Quad, tex)
	if r.Caption != nil {
		if err := r.Caption.Draw(f.Image, cfg); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Renderer) paint(canvas *image.RGBA, layout fit.Layout, quad []warp.Point, tex *image.RGBA) *Frame {
	painted := warp.Composite(canvas, tex, layout.QuadToCanvas(quad))
	logging.Logger().Debug("frame rendered",
		"w", canvas.Bounds().Dx(), "h", canvas.Bounds().Dy(), "mode", layout.Mode, "painted", painted)
	return &Frame{Image: canvas, Layout: layout, Painted: painted}
}

// WithTextureSize returns a copy of r that draws w×h textures. Unlike the
// zero TextureW/TextureH fields, explicit sizes are never defaulted: any
// non-positive or oversized dimension is an error.
func (r *Renderer) WithTextureSize(w, h int) (*Renderer, error) {
	if w <= 0 || h <= 0 || w > texture.MaxSize || h > texture.MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", texture.ErrInvalidSize, w, h)
	}
	c := *r
	c.TextureW, c.TextureH = w, h
	return &c, nil
}

func (r *Renderer) textureSize() (int, int) {
	w, h := r.TextureW, r.TextureH
	if w <= 0 {
		w = DefaultTextureW
	}
	if h <= 0 {
		h = DefaultTextureH
	}
	return w, h
}

func (r *Renderer) background() color.Color {
	if r.Background == nil {
		return color.Black
	}
	return r.Background
}

func checkScene(s *Scene) error {
	if s == nil || s.Photo == nil || s.Photo.Bounds().Empty() {
		return ErrNoImage
	}
	return nil
}
