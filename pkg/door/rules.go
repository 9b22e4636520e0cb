// rules.go — What each enum member means to the renderer.
package door

import "image/color"

// Panels is the number of glass panels laid out left to right.
// Unknown structures render as a single panel.
func (s Structure) Panels() int {
	switch s {
	case StructureSingleSlide, StructureSwing, StructureHinged:
		return 1
	case StructureTwoSlide:
		return 2
	case StructureThreeSlide, StructureThreeTrack:
		return 3
	case StructureFourSlide:
		return 4
	default:
		return 1
	}
}

// HasHardware reports whether a handle and hinge marks are drawn.
func (s Structure) HasHardware() bool {
	switch s {
	case StructureSwing, StructureHinged:
		return true
	default:
		return false
	}
}

// HasSeam reports whether a vertical centre seam is drawn.
func (s Structure) HasSeam() bool {
	return s == StructureHinged
}

// Tone maps a frame color to its fill/edge/shadow triple. Unknown colors
// get the white tone.
func (c FrameColor) Tone() FrameTone {
	switch c {
	case FrameBlack:
		return FrameTone{Base: rgb(0x2b, 0x2b, 0x2b), Edge: rgb(0x11, 0x11, 0x11), Shadow: rgb(0x00, 0x00, 0x00)}
	case FrameGray:
		return FrameTone{Base: rgb(0x8c, 0x8f, 0x93), Edge: rgb(0x6b, 0x6e, 0x72), Shadow: rgb(0x4a, 0x4c, 0x4f)}
	case FrameGold:
		return FrameTone{Base: rgb(0xc9, 0xa4, 0x4c), Edge: rgb(0xa8, 0x84, 0x2f), Shadow: rgb(0x7d, 0x61, 0x1c)}
	case FrameWhite:
		return whiteTone
	default:
		return whiteTone
	}
}

var whiteTone = FrameTone{Base: rgb(0xf4, 0xf4, 0xf2), Edge: rgb(0xd9, 0xd9, 0xd6), Shadow: rgb(0xb5, 0xb5, 0xb0)}

// Finish maps a glass type to its fill, tint and pattern. Unknown glass
// renders as clear without a pattern.
func (g GlassType) Finish() GlassFinish {
	switch g {
	case GlassClear:
		return clearFinish
	case GlassSatin:
		return GlassFinish{Fill: rgba(235, 238, 240, 217)}
	case GlassMixed:
		return GlassFinish{Fill: rgba(220, 230, 235, 153), Tint: tint(255, 255, 255, 40)}
	case GlassMist:
		return GlassFinish{Fill: rgba(230, 235, 238, 191)}
	case GlassBronze:
		return GlassFinish{Fill: rgba(150, 110, 70, 115)}
	case GlassBronzeSatin:
		return GlassFinish{Fill: rgba(170, 130, 90, 204)}
	case GlassBronzeMist:
		return GlassFinish{Fill: rgba(160, 125, 90, 166), Tint: tint(255, 255, 255, 30)}
	case GlassDarkGray:
		return GlassFinish{Fill: rgba(70, 75, 80, 128)}
	case GlassDarkGraySatin:
		return GlassFinish{Fill: rgba(90, 95, 100, 209)}
	case GlassAqua:
		return GlassFinish{Fill: rgba(200, 225, 235, 90), Tint: tint(80, 190, 200, 64)}
	case GlassFluted:
		return GlassFinish{Fill: rgba(225, 232, 236, 179), Pattern: PatternFlute}
	case GlassMeru:
		return GlassFinish{Fill: rgba(225, 232, 236, 166), Pattern: PatternMeru}
	case GlassWire:
		return GlassFinish{Fill: rgba(205, 222, 230, 115), Pattern: PatternWire}
	case GlassFilm:
		return GlassFinish{Fill: rgba(190, 210, 220, 115), Pattern: PatternFilm}
	default:
		return clearFinish
	}
}

var clearFinish = GlassFinish{Fill: rgba(200, 225, 235, 90)}

// Overlay maps a design type to its drawing rule. Plain and unknown designs
// draw nothing.
func (d DesignType) Overlay() Overlay {
	switch d {
	case DesignGrid:
		return OverlayGrid
	case DesignBars:
		return OverlayBars
	case DesignSplit:
		return OverlaySplit
	case DesignArch:
		return OverlayArch
	case DesignPlain:
		return OverlayNone
	default:
		return OverlayNone
	}
}

// Merge overlays the known fields of over onto base. Unknown members in over
// keep the base value.
func Merge(base, over Config) Config {
	if over.Structure != StructureUnknown {
		base.Structure = over.Structure
	}
	if over.FrameColor != FrameUnknown {
		base.FrameColor = over.FrameColor
	}
	if over.GlassType != GlassUnknown {
		base.GlassType = over.GlassType
	}
	if over.DesignType != DesignUnknown {
		base.DesignType = over.DesignType
	}
	return base
}

// Warnings lists the fields of c that hold values outside the catalog.
func (c Config) Warnings() []string {
	var w []string
	if c.Structure == StructureUnknown {
		w = append(w, "unknown structure — rendered as a single panel")
	}
	if c.FrameColor == FrameUnknown {
		w = append(w, "unknown frame color — using the white tone")
	}
	if c.GlassType == GlassUnknown {
		w = append(w, "unknown glass type — rendered as clear glass")
	}
	if c.DesignType == DesignUnknown {
		w = append(w, "unknown design type — no overlay drawn")
	}
	return w
}

func rgb(r, g, b uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: 255} }

func rgba(r, g, b, a uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: a} }

func tint(r, g, b, a uint8) *color.NRGBA {
	c := rgba(r, g, b, a)
	return &c
}
