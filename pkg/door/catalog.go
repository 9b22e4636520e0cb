// catalog.go — Labels, aliases and parsing for the door enums.
package door

import "strings"

// AllStructures lists every known structure in catalog order.
func AllStructures() []Structure {
	return []Structure{
		StructureSingleSlide, StructureTwoSlide, StructureThreeSlide,
		StructureFourSlide, StructureThreeTrack, StructureSwing, StructureHinged,
	}
}

// AllFrameColors lists every known frame color in catalog order.
func AllFrameColors() []FrameColor {
	return []FrameColor{FrameWhite, FrameBlack, FrameGray, FrameGold}
}

// AllGlassTypes lists every known glass type in catalog order.
func AllGlassTypes() []GlassType {
	return []GlassType{
		GlassClear, GlassSatin, GlassMixed, GlassMist,
		GlassBronze, GlassBronzeSatin, GlassBronzeMist,
		GlassDarkGray, GlassDarkGraySatin, GlassAqua,
		GlassFluted, GlassMeru, GlassWire, GlassFilm,
	}
}

// AllDesignTypes lists every known design type in catalog order.
func AllDesignTypes() []DesignType {
	return []DesignType{DesignGrid, DesignBars, DesignSplit, DesignArch, DesignPlain}
}

// ── Labels ──

func (s Structure) String() string {
	switch s {
	case StructureSingleSlide:
		return "원슬라이딩"
	case StructureTwoSlide:
		return "2연동"
	case StructureThreeSlide:
		return "3연동"
	case StructureFourSlide:
		return "4연동"
	case StructureThreeTrack:
		return "3트랙"
	case StructureSwing:
		return "스윙"
	case StructureHinged:
		return "호페"
	default:
		return ""
	}
}

// Slug is the ASCII alias accepted on the command line.
func (s Structure) Slug() string {
	switch s {
	case StructureSingleSlide:
		return "single-slide"
	case StructureTwoSlide:
		return "two-slide"
	case StructureThreeSlide:
		return "three-slide"
	case StructureFourSlide:
		return "four-slide"
	case StructureThreeTrack:
		return "three-track"
	case StructureSwing:
		return "swing"
	case StructureHinged:
		return "hinged"
	default:
		return "unknown"
	}
}

func (c FrameColor) String() string {
	switch c {
	case FrameWhite:
		return "화이트"
	case FrameBlack:
		return "블랙"
	case FrameGray:
		return "그레이"
	case FrameGold:
		return "골드"
	default:
		return ""
	}
}

// Slug is the ASCII alias accepted on the command line.
func (c FrameColor) Slug() string {
	switch c {
	case FrameWhite:
		return "white"
	case FrameBlack:
		return "black"
	case FrameGray:
		return "gray"
	case FrameGold:
		return "gold"
	default:
		return "unknown"
	}
}

func (g GlassType) String() string {
	switch g {
	case GlassClear:
		return "투명"
	case GlassSatin:
		return "샤틴"
	case GlassMixed:
		return "믹스"
	case GlassMist:
		return "미스트"
	case GlassBronze:
		return "브론즈"
	case GlassBronzeSatin:
		return "브론즈샤틴"
	case GlassBronzeMist:
		return "브론즈미스트"
	case GlassDarkGray:
		return "다크그레이"
	case GlassDarkGraySatin:
		return "다크그레이샤틴"
	case GlassAqua:
		return "아쿠아"
	case GlassFluted:
		return "플루트"
	case GlassMeru:
		return "메루"
	case GlassWire:
		return "망입"
	case GlassFilm:
		return "필름"
	default:
		return ""
	}
}

// Slug is the ASCII alias accepted on the command line.
func (g GlassType) Slug() string {
	switch g {
	case GlassClear:
		return "clear"
	case GlassSatin:
		return "satin"
	case GlassMixed:
		return "mixed"
	case GlassMist:
		return "mist"
	case GlassBronze:
		return "bronze"
	case GlassBronzeSatin:
		return "bronze-satin"
	case GlassBronzeMist:
		return "bronze-mist"
	case GlassDarkGray:
		return "dark-gray"
	case GlassDarkGraySatin:
		return "dark-gray-satin"
	case GlassAqua:
		return "aqua"
	case GlassFluted:
		return "fluted"
	case GlassMeru:
		return "meru"
	case GlassWire:
		return "wire"
	case GlassFilm:
		return "film"
	default:
		return "unknown"
	}
}

func (d DesignType) String() string {
	switch d {
	case DesignGrid:
		return "격자디자인"
	case DesignBars:
		return "간살디자인"
	case DesignSplit:
		return "분할디자인"
	case DesignArch:
		return "아치디자인"
	case DesignPlain:
		return "기본"
	default:
		return ""
	}
}

// Slug is the ASCII alias accepted on the command line.
func (d DesignType) Slug() string {
	switch d {
	case DesignGrid:
		return "grid"
	case DesignBars:
		return "bars"
	case DesignSplit:
		return "split"
	case DesignArch:
		return "arch"
	case DesignPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ── Parsing ──
//
// Parsers accept the catalog label or the slug. Anything else yields the
// Unknown member and ok=false; callers treat that as "skip the branch",
// never as a failure.

// ParseStructure resolves a catalog label or slug.
func ParseStructure(s string) (Structure, bool) {
	s = normalize(s)
	for _, v := range AllStructures() {
		if s == v.String() || s == v.Slug() {
			return v, true
		}
	}
	return StructureUnknown, false
}

// ParseFrameColor resolves a catalog label or slug.
func ParseFrameColor(s string) (FrameColor, bool) {
	s = normalize(s)
	for _, v := range AllFrameColors() {
		if s == v.String() || s == v.Slug() {
			return v, true
		}
	}
	return FrameUnknown, false
}

// ParseGlassType resolves a catalog label or slug.
func ParseGlassType(s string) (GlassType, bool) {
	s = normalize(s)
	for _, v := range AllGlassTypes() {
		if s == v.String() || s == v.Slug() {
			return v, true
		}
	}
	return GlassUnknown, false
}

// ParseDesignType resolves a catalog label or slug.
func ParseDesignType(s string) (DesignType, bool) {
	s = normalize(s)
	for _, v := range AllDesignTypes() {
		if s == v.String() || s == v.Slug() {
			return v, true
		}
	}
	return DesignUnknown, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ── Text encoding ──
//
// JSON carries the catalog labels. Unknown members marshal to "" and any
// unrecognized label unmarshals to Unknown without error.

func (s Structure) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Structure) UnmarshalText(b []byte) error {
	*s, _ = ParseStructure(string(b))
	return nil
}

func (c FrameColor) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *FrameColor) UnmarshalText(b []byte) error {
	*c, _ = ParseFrameColor(string(b))
	return nil
}

func (g GlassType) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *GlassType) UnmarshalText(b []byte) error {
	*g, _ = ParseGlassType(string(b))
	return nil
}

func (d DesignType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DesignType) UnmarshalText(b []byte) error {
	*d, _ = ParseDesignType(string(b))
	return nil
}

// CatalogEntry is one selectable option as served to clients.
type CatalogEntry struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// CatalogListing groups every option per config field.
type CatalogListing struct {
	Structure  []CatalogEntry `json:"structure"`
	FrameColor []CatalogEntry `json:"frameColor"`
	GlassType  []CatalogEntry `json:"glassType"`
	DesignType []CatalogEntry `json:"designType"`
}

// Catalog returns every legal option for each config field.
func Catalog() CatalogListing {
	var c CatalogListing
	for _, v := range AllStructures() {
		c.Structure = append(c.Structure, CatalogEntry{v.String(), v.Slug()})
	}
	for _, v := range AllFrameColors() {
		c.FrameColor = append(c.FrameColor, CatalogEntry{v.String(), v.Slug()})
	}
	for _, v := range AllGlassTypes() {
		c.GlassType = append(c.GlassType, CatalogEntry{v.String(), v.Slug()})
	}
	for _, v := range AllDesignTypes() {
		c.DesignType = append(c.DesignType, CatalogEntry{v.String(), v.Slug()})
	}
	return c
}
