// Package door describes the virtual door rendered into a photo: the
// structure, frame color, glass type and decorative design chosen from the
// catalog.
package door

import "image/color"

// ── Structure ──

// Structure is the door mechanism layout. It decides the panel count and
// whether handle and hinge marks are drawn.
type Structure int

const (
	StructureUnknown     Structure = iota
	StructureSingleSlide           // 원슬라이딩
	StructureTwoSlide              // 2연동
	StructureThreeSlide            // 3연동
	StructureFourSlide             // 4연동
	StructureThreeTrack            // 3트랙
	StructureSwing                 // 스윙
	StructureHinged                // 호페
)

// ── Frame color ──

// FrameColor is the frame finish.
type FrameColor int

const (
	FrameUnknown FrameColor = iota
	FrameWhite              // 화이트
	FrameBlack              // 블랙
	FrameGray               // 그레이
	FrameGold               // 골드
)

// FrameTone is the fill/edge/shadow color triple a frame color maps to.
type FrameTone struct {
	Base   color.NRGBA
	Edge   color.NRGBA
	Shadow color.NRGBA
}

// ── Glass ──

// GlassType is the glass finish.
type GlassType int

const (
	GlassUnknown         GlassType = iota
	GlassClear                     // 투명
	GlassSatin                     // 샤틴
	GlassMixed                     // 믹스
	GlassMist                      // 미스트
	GlassBronze                    // 브론즈
	GlassBronzeSatin               // 브론즈샤틴
	GlassBronzeMist                // 브론즈미스트
	GlassDarkGray                  // 다크그레이
	GlassDarkGraySatin             // 다크그레이샤틴
	GlassAqua                      // 아쿠아
	GlassFluted                    // 플루트
	GlassMeru                      // 메루
	GlassWire                      // 망입
	GlassFilm                      // 필름
)

// Pattern is the procedural texture drawn over a glass fill.
type Pattern int

const (
	PatternNone Pattern = iota
	PatternFlute
	PatternMeru
	PatternWire
	PatternFilm
)

// GlassFinish is what a glass type maps to. Tint is nil when the finish has
// no tint overlay.
type GlassFinish struct {
	Fill    color.NRGBA
	Tint    *color.NRGBA
	Pattern Pattern
}

// ── Design ──

// DesignType is the decorative overlay drawn on top of each glass panel.
type DesignType int

const (
	DesignUnknown DesignType = iota
	DesignGrid               // 격자디자인
	DesignBars               // 간살디자인
	DesignSplit              // 분할디자인
	DesignArch               // 아치디자인
	DesignPlain              // 기본
)

// Overlay is the drawing rule a design type maps to.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayGrid
	OverlayBars
	OverlaySplit
	OverlayArch
)

// ── Config ──

// Config is the four-field description of a door. It is a value object:
// renderers never modify it.
type Config struct {
	Structure  Structure  `json:"structure"`
	FrameColor FrameColor `json:"frameColor"`
	GlassType  GlassType  `json:"glassType"`
	DesignType DesignType `json:"designType"`
}

// DefaultConfig is the door shown before the user picks any option.
func DefaultConfig() Config {
	return Config{
		Structure:  StructureSingleSlide,
		FrameColor: FrameWhite,
		GlassType:  GlassClear,
		DesignType: DesignPlain,
	}
}
