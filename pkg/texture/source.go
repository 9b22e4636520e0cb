// source.go — Where a texture comes from: procedural drawing or a design asset.
package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/pkg/door"
)

// ErrAssetLoad wraps every failure to read or decode a static design asset.
var ErrAssetLoad = errors.New("load design asset")

// Source is either Procedural or StaticAsset.
type Source interface {
	isSource()
}

// Procedural draws the door from its config.
type Procedural struct {
	Config door.Config
}

// StaticAsset uses a pre-rendered image for a design instead of drawing it.
type StaticAsset struct {
	Design door.DesignType
	Path   string
}

func (Procedural) isSource()  {}
func (StaticAsset) isSource() {}

// Resolve picks the source for cfg. A registered asset for the design wins
// over procedural drawing. Resolve once per render; the result does not
// change while the render runs.
func Resolve(cfg door.Config, reg *Registry) Source {
	if path, ok := reg.Lookup(cfg.DesignType); ok {
		return StaticAsset{Design: cfg.DesignType, Path: path}
	}
	return Procedural{Config: cfg}
}

// Generator renders a Source at a requested size. The zero value is ready to
// use and safe for concurrent calls.
type Generator struct {
	// Resample scales static assets to the texture size. Nil means Lanczos.
	Resample *imaging.ResampleFilter
}

// Render produces the w×h texture for src.
func (g Generator) Render(ctx context.Context, src Source, w, h int) (*image.RGBA, error) {
	switch s := src.(type) {
	case Procedural:
		return Generate(s.Config, w, h)
	case StaticAsset:
		return g.loadAsset(ctx, s, w, h)
	default:
		return nil, fmt.Errorf("render texture: unsupported source %T", src)
	}
}

func (g Generator) loadAsset(ctx context.Context, s StaticAsset, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || w > MaxSize || h > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrAssetLoad, s.Path, err)
	}

	filter := imaging.Lanczos
	if g.Resample != nil {
		filter = *g.Resample
	}
	fitted := imaging.Resize(img, w, h, filter)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), fitted, fitted.Bounds().Min, draw.Src)

	logging.Logger().Debug("texture asset loaded", "design", s.Design.Slug(), "path", s.Path, "w", w, "h", h)
	return out, nil
}
