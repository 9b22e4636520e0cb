// loader.go — Parse capture blobs and decode their photos.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/generator"
	"github.com/xob0t/doorstencil/pkg/warp"
)

// ParseCapture decodes a capture blob. Structural problems that still allow
// a render (wrong quad length, unknown options) come back as warnings.
func ParseCapture(data []byte) (*Capture, []string, error) {
	var c Capture
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, nil, fmt.Errorf("parse capture: %w", err)
	}
	return &c, ValidateCapture(&c), nil
}

// LoadCapture reads and parses a capture file.
func LoadCapture(path string) (*Capture, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read capture: %w", err)
	}
	return ParseCapture(data)
}

// DecodePhoto decodes the capture's data URL, applying EXIF orientation so
// the quad lines up with the photo as the user saw it.
func DecodePhoto(c *Capture) (image.Image, error) {
	if c == nil || c.Image == "" {
		return nil, ErrNoImage
	}
	_, data, err := generator.ParseDataURL(c.Image)
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return img, nil
}

// Open decodes c into a renderable Scene. A missing config means the
// default door.
func Open(c *Capture) (*Scene, error) {
	photo, err := DecodePhoto(c)
	if err != nil {
		return nil, err
	}
	return &Scene{
		Photo:  photo,
		Quad:   append([]warp.Point(nil), c.Quad...),
		Config: EffectiveConfig(c, nil),
	}, nil
}

// NewCapture builds a capture blob from a photo, encoding it as a JPEG data
// URL.
func NewCapture(photo image.Image, quad []warp.Point, cfg *door.Config, quality int) (*Capture, error) {
	if photo == nil {
		return nil, ErrNoImage
	}
	url, err := generator.DataURL(photo, quality)
	if err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	c := &Capture{Quad: append([]warp.Point(nil), quad...), Image: url}
	if cfg != nil {
		cp := *cfg
		c.Config = &cp
	}
	return c, nil
}

// Marshal encodes c as the persisted JSON blob.
func (c *Capture) Marshal() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode capture: %w", err)
	}
	return data, nil
}
