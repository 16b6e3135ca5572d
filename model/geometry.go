package model

import "math"

// TextAlignment is a paragraph's horizontal alignment.
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// ParseAlignment parses the names produced by String, plus the OOXML and
// ODF spellings ("both", "start", "end").
func ParseAlignment(s string) (TextAlignment, bool) {
	switch s {
	case "left", "start":
		return AlignLeft, true
	case "center", "centre":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	case "justify", "both", "distribute":
		return AlignJustify, true
	}
	return AlignLeft, false
}

// TabAlignment is the alignment of text at a tab stop.
type TabAlignment int

const (
	TabLeft TabAlignment = iota
	TabCenter
	TabRight
	TabDecimal
)

func (a TabAlignment) String() string {
	switch a {
	case TabCenter:
		return "center"
	case TabRight:
		return "right"
	case TabDecimal:
		return "decimal"
	default:
		return "left"
	}
}

// Leader is the fill drawn before a tab stop.
type Leader int

const (
	LeaderNone Leader = iota
	LeaderDot
)

// TabStop is a paragraph tab stop.
type TabStop struct {
	Position  float64 // points from the leading margin
	Alignment TabAlignment
	Leader    Leader
}

// ParagraphGeometry holds paragraph-level layout.
//
// FirstLineIndent is an offset from HeadIndent, not an absolute position:
// a hanging indent has a negative FirstLineIndent.
type ParagraphGeometry struct {
	Alignment          TextAlignment
	HeadIndent         float64
	FirstLineIndent    float64
	TailIndent         float64
	SpacingBefore      float64
	SpacingAfter       float64
	LineHeightMultiple float64 // 0 and 1 both mean single spacing
	TabStops           []TabStop
}

// FirstLineStart returns the absolute position of the first line.
func (g ParagraphGeometry) FirstLineStart() float64 {
	return g.HeadIndent + g.FirstLineIndent
}

// Equal reports whether g and other describe the same layout, comparing
// lengths to within a twip.
func (g ParagraphGeometry) Equal(other ParagraphGeometry) bool {
	if g.Alignment != other.Alignment || len(g.TabStops) != len(other.TabStops) {
		return false
	}
	const eps = 0.05
	pairs := [][2]float64{
		{g.HeadIndent, other.HeadIndent},
		{g.FirstLineIndent, other.FirstLineIndent},
		{g.TailIndent, other.TailIndent},
		{g.SpacingBefore, other.SpacingBefore},
		{g.SpacingAfter, other.SpacingAfter},
		{lineOrSingle(g.LineHeightMultiple), lineOrSingle(other.LineHeightMultiple)},
	}
	for _, p := range pairs {
		if math.Abs(p[0]-p[1]) > eps {
			return false
		}
	}
	for i, ts := range g.TabStops {
		o := other.TabStops[i]
		if ts.Alignment != o.Alignment || ts.Leader != o.Leader || math.Abs(ts.Position-o.Position) > eps {
			return false
		}
	}
	return true
}

// IsZero reports whether g is the zero geometry, which callers treat as
// "inherit everything from the paragraph style".
func (g ParagraphGeometry) IsZero() bool {
	return g.Equal(ParagraphGeometry{})
}

// lineOrSingle maps the unset line height to single spacing.
func lineOrSingle(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}

// Twips converts points to twips (1/20 pt), rounded.
func Twips(points float64) int {
	return int(math.Round(points * 20))
}

// PointsFromTwips converts twips to points.
func PointsFromTwips(twips float64) float64 {
	return twips / 20
}

// HalfPoints converts points to half-points, rounded.
func HalfPoints(points float64) int {
	return int(math.Round(points * 2))
}

// PointsFromHalfPoints converts half-points to points.
func PointsFromHalfPoints(hp float64) float64 {
	return hp / 2
}
