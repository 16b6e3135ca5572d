package model

import "math"

// RunAttr is a bit set naming the attributes a Run specifies.
type RunAttr uint16

const (
	AttrFont RunAttr = 1 << iota
	AttrSize
	AttrBold
	AttrItalic
	AttrColor
	AttrBackground
	AttrBaseline
)

// AllRunAttrs has every attribute bit set except AttrBackground and
// AttrBaseline, which are absent from most runs.
const AllRunAttrs = AttrFont | AttrSize | AttrBold | AttrItalic | AttrColor

// Run is a span of text with one set of attributes. Fields are meaningful
// only when the corresponding bit is present in Set.
type Run struct {
	Text       string
	Font       string
	Size       float64 // points
	Bold       bool
	Italic     bool
	Color      Color
	Background Color
	Baseline   float64 // points; positive raises the text
	Set        RunAttr
}

// Has reports whether attribute a is specified.
func (r Run) Has(a RunAttr) bool {
	return r.Set&a != 0
}

// WithFont returns a copy of r with the font family set.
func (r Run) WithFont(name string) Run {
	r.Font = name
	r.Set |= AttrFont
	return r
}

// WithSize returns a copy of r with the font size set.
func (r Run) WithSize(points float64) Run {
	r.Size = points
	r.Set |= AttrSize
	return r
}

// WithBold returns a copy of r with bold set.
func (r Run) WithBold(bold bool) Run {
	r.Bold = bold
	r.Set |= AttrBold
	return r
}

// WithItalic returns a copy of r with italic set.
func (r Run) WithItalic(italic bool) Run {
	r.Italic = italic
	r.Set |= AttrItalic
	return r
}

// WithColor returns a copy of r with the foreground color set.
func (r Run) WithColor(c Color) Run {
	r.Color = c
	r.Set |= AttrColor
	return r
}

// WithBackground returns a copy of r with the shading color set.
func (r Run) WithBackground(c Color) Run {
	r.Background = c
	r.Set |= AttrBackground
	return r
}

// WithBaseline returns a copy of r with the baseline offset set.
func (r Run) WithBaseline(points float64) Run {
	r.Baseline = points
	r.Set |= AttrBaseline
	return r
}

// SameAttributes reports whether r and other specify exactly the same
// attributes with the same values. Text is not compared.
func (r Run) SameAttributes(other Run) bool {
	if r.Set != other.Set {
		return false
	}
	if r.Has(AttrFont) && r.Font != other.Font {
		return false
	}
	if r.Has(AttrSize) && math.Abs(r.Size-other.Size) > 0.01 {
		return false
	}
	if r.Has(AttrBold) && r.Bold != other.Bold {
		return false
	}
	if r.Has(AttrItalic) && r.Italic != other.Italic {
		return false
	}
	if r.Has(AttrColor) && r.Color != other.Color {
		return false
	}
	if r.Has(AttrBackground) && r.Background != other.Background {
		return false
	}
	if r.Has(AttrBaseline) && math.Abs(r.Baseline-other.Baseline) > 0.01 {
		return false
	}
	return true
}

// ApplyDefaults fills every attribute r leaves unset from def. Attributes
// already set on r are kept.
func (r *Run) ApplyDefaults(def StyleDefinition) {
	if !r.Has(AttrFont) && def.FontName != "" {
		r.Font = def.FontName
		r.Set |= AttrFont
	}
	if !r.Has(AttrSize) && def.FontSize > 0 {
		r.Size = def.FontSize
		r.Set |= AttrSize
	}
	if !r.Has(AttrBold) {
		r.Bold = def.Bold
		r.Set |= AttrBold
	}
	if !r.Has(AttrItalic) {
		r.Italic = def.Italic
		r.Set |= AttrItalic
	}
	if !r.Has(AttrColor) && def.TextColor != nil {
		r.Color = *def.TextColor
		r.Set |= AttrColor
	}
	if !r.Has(AttrBackground) && def.BackgroundColor != nil {
		r.Background = *def.BackgroundColor
		r.Set |= AttrBackground
	}
}

// Coalesce merges adjacent runs with identical attributes and drops runs
// with no text. The input slice is not modified.
func Coalesce(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].SameAttributes(r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
