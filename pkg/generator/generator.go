// Package generator encodes rendered images to files, writers and data URLs.
//
// Every output path of the module (CLI export, HTTP download, wasm bridge,
// stored capture photo) goes through Encode so format handling lives in one
// place.
package generator

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when a caller passes a quality outside 1..100.
const DefaultJPEGQuality = 92

// ErrUnsupportedFormat is returned for an extension Encode cannot write.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output encoding.
type Format = imaging.Format

// FormatFromExt maps ".png", ".jpg", ".jpeg" and ".bmp" (with or without the
// dot, any case) to a Format.
func FormatFromExt(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return imaging.PNG, nil
	case "jpg", "jpeg":
		return imaging.JPEG, nil
	case "bmp":
		return imaging.BMP, nil
	default:
		return 0, fmt.Errorf("%w %q: use .png, .jpg or .bmp", ErrUnsupportedFormat, ext)
	}
}

// MIMEType is the content type of f.
func MIMEType(f Format) string {
	switch f {
	case imaging.PNG:
		return "image/png"
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.BMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Encode writes img to w in the format named by ext.
func Encode(w io.Writer, ext string, img image.Image, quality int) error {
	f, err := FormatFromExt(ext)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(clampQuality(quality))); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// WriteFile encodes img to path; the format is inferred from the extension.
func WriteFile(path string, img image.Image, quality int) error {
	ext := filepath.Ext(path)
	if _, err := FormatFromExt(ext); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, ext, img, quality); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// DataURL encodes img as a "data:image/jpeg;base64,..." string.
func DataURL(img image.Image, quality int) (string, error) {
	return EncodeDataURL(img, "jpeg", quality)
}

// EncodeDataURL encodes img as a data URL in the format named by ext.
func EncodeDataURL(img image.Image, ext string, quality int) (string, error) {
	f, err := FormatFromExt(ext)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, ext, img, quality); err != nil {
		return "", err
	}
	return "data:" + MIMEType(f) + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ParseDataURL returns the media type and decoded payload of a base64 data
// URL.
func ParseDataURL(s string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return "", nil, errors.New("parse data URL: missing data: prefix")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("parse data URL: missing payload")
	}
	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("parse data URL: only base64 payloads are supported")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("parse data URL: %w", err)
	}
	return mediaType, data, nil
}

func clampQuality(q int) int {
	if q < 1 || q > 100 {
		return DefaultJPEGQuality
	}
	return q
}
