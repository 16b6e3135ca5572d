package model

// Text colors fainter than these limits are treated as unreadable.
const (
	MinTextAlpha     = 0.25
	MaxTextLuminance = 0.92
)

// NormalizeTextColors gives every run without a readable foreground color
// the theme's default text color. A run is unreadable when its color is
// unset, nearly transparent, or nearly white. It returns the number of runs
// changed.
func NormalizeTextColors(blocks []Block, theme Color) int {
	changed := 0
	Walk(blocks, func(b Block) {
		p, ok := b.(*Paragraph)
		if !ok {
			return
		}
		for i := range p.Runs {
			r := &p.Runs[i]
			if r.Has(AttrColor) && r.Color.Alpha() >= MinTextAlpha && r.Color.Luminance() <= MaxTextLuminance {
				continue
			}
			r.Color = theme
			r.Set |= AttrColor
			changed++
		}
	})
	return changed
}
