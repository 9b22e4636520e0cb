// validator.go — Check a capture before rendering.
package scene

import (
	"fmt"
	"math"

	"github.com/xob0t/doorstencil/pkg/warp"
)

// normalizedScale lifts a 0..1 quad into a pixel-like space so the pixel
// based degeneracy test applies.
const normalizedScale = 10000

// ValidateCapture returns warnings (never fatal errors). A capture with
// warnings still renders; the door is skipped when the quad is unusable.
func ValidateCapture(c *Capture) []string {
	if c == nil {
		return []string{"capture is empty"}
	}

	var warnings []string
	if c.Image == "" {
		warnings = append(warnings, "capture has no image — nothing to render")
	}

	if len(c.Quad) != 4 {
		warnings = append(warnings, fmt.Sprintf("quad has %d points, want 4 — door will not be drawn", len(c.Quad)))
	} else {
		var q [4]warp.Point
		for i, p := range c.Quad {
			if !inUnit(p.X) || !inUnit(p.Y) {
				warnings = append(warnings, fmt.Sprintf("quad point %d (%g, %g) lies outside the photo", i, p.X, p.Y))
			}
			q[i] = warp.Point{X: p.X * normalizedScale, Y: p.Y * normalizedScale}
		}
		if warp.Degenerate(q) {
			warnings = append(warnings, "quad is degenerate — door will not be drawn")
		}
	}

	if c.Config != nil {
		warnings = append(warnings, c.Config.Warnings()...)
	}
	return warnings
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
