// caption.go - Optional option summary stamped onto exported images.
// Uses golang.org/x/image/font for OpenType rendering. Defaults to the Go
// Regular font, which has no Hangul, so the ASCII slugs are printed unless a
// custom font is configured.
package scene

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/pkg/door"
)

// Captioner draws a one-line summary of the door options in the bottom-left
// corner of a frame.
type Captioner struct {
	parsed *opentype.Font
	labels bool // print catalog labels instead of slugs
}

// NewCaptioner loads the caption font. An empty or unreadable fontPath falls
// back to the embedded Go font.
func NewCaptioner(fontPath string) (*Captioner, error) {
	var data []byte
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			logging.Logger().Warn("could not load caption font, using default", "path", fontPath, "err", err)
		} else {
			data = b
		}
	}
	labels := data != nil
	if data == nil {
		data = goregular.TTF
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse caption font: %w", err)
	}
	return &Captioner{parsed: parsed, labels: labels}, nil
}

// Text is the caption for cfg.
func (c *Captioner) Text(cfg door.Config) string {
	if c.labels {
		return strings.Join([]string{cfg.Structure.String(), cfg.FrameColor.String(), cfg.GlassType.String(), cfg.DesignType.String()}, " · ")
	}
	return strings.Join([]string{cfg.Structure.Slug(), cfg.FrameColor.Slug(), cfg.GlassType.Slug(), cfg.DesignType.Slug()}, " / ")
}

// Draw stamps the caption onto img. The font size follows the image height.
func (c *Captioner) Draw(img *image.RGBA, cfg door.Config) error {
	b := img.Bounds()
	size := max(float64(b.Dy())/40, 8)
	face, err := opentype.NewFace(c.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("create caption face: %w", err)
	}
	defer face.Close()

	text := c.Text(cfg)
	pad := int(size / 2)
	m := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	height := (m.Ascent + m.Descent).Ceil()

	box := image.Rect(b.Min.X, b.Max.Y-height-2*pad, b.Min.X+width+2*pad, b.Max.Y).Intersect(b)
	draw.Draw(img, box, image.NewUniform(color.NRGBA{A: 140}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(b.Min.X+pad, b.Max.Y-pad-m.Descent.Ceil()),
	}
	d.DrawString(text)
	return nil
}
