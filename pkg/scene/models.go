// Package scene loads a captured doorway (photo + quad + door options) and
// renders it to preview and export canvases.
package scene

import (
	"errors"
	"image"

	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/fit"
	"github.com/xob0t/doorstencil/pkg/warp"
)

// CaptureKey is the well-known key a capture blob is stored under.
const CaptureKey = "arDoorCapture"

// ErrNoImage is returned when a capture carries no photo.
var ErrNoImage = errors.New("capture has no image")

// Capture is the persisted JSON blob: the photo as a data URL and the quad
// the user marked over it, in normalized 0..1 photo coordinates.
type Capture struct {
	Quad   []warp.Point `json:"quad"`
	Image  string       `json:"image"`
	Config *door.Config `json:"config,omitempty"`
}

// Scene is a capture with its photo decoded, ready to render.
type Scene struct {
	Photo  image.Image
	Quad   []warp.Point
	Config door.Config
}

// Frame is one rendered canvas.
type Frame struct {
	Image   *image.RGBA
	Layout  fit.Layout
	Painted bool // false when the door was skipped and only the photo shows
}
