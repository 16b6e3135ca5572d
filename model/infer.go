package model

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Inference weights. Alignment and size dominate so that, for example, a
// 24pt centred bold line prefers a 24pt title style over an 18pt heading.
const (
	scoreSizeExact = 4
	scoreSizeNear  = 2
	scoreAlignment = 3
	scoreBold      = 2
	scoreItalic    = 2
	scoreFont      = 1
)

// MaxInferenceScore is the score of a style matching on every criterion.
const MaxInferenceScore = scoreSizeExact + scoreAlignment + scoreBold + scoreItalic + scoreFont

// InferStyle picks the style in styles that best matches the paragraph's
// dominant run and alignment. It returns the chosen name and its score;
// equal scores go to the earlier style. An empty name means styles was
// empty.
func InferStyle(p *Paragraph, styles []StyleDefinition) (string, int) {
	run := dominantRun(p.Runs)
	best, bestScore := "", -1
	for _, s := range styles {
		score := scoreStyle(run, p.Geometry.Alignment, s)
		if score > bestScore {
			best, bestScore = s.Name, score
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return best, bestScore
}

func scoreStyle(run Run, align TextAlignment, s StyleDefinition) int {
	score := 0
	if run.Has(AttrSize) && s.FontSize > 0 {
		switch d := math.Abs(run.Size - s.FontSize); {
		case d < 0.5:
			score += scoreSizeExact
		case d < 2:
			score += scoreSizeNear
		}
	}
	if align == s.Alignment {
		score += scoreAlignment
	}
	if run.Bold == s.Bold {
		score += scoreBold
	}
	if run.Italic == s.Italic {
		score += scoreItalic
	}
	if run.Has(AttrFont) && strings.EqualFold(run.Font, s.FontName) {
		score += scoreFont
	}
	return score
}

// dominantRun returns the run holding the most characters; the first wins
// ties.
func dominantRun(runs []Run) Run {
	var best Run
	bestLen := -1
	for _, r := range runs {
		if n := utf8.RuneCountInString(strings.TrimSpace(r.Text)); n > bestLen {
			best, bestLen = r, n
		}
	}
	return best
}
