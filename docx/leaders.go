package docx

import (
	"regexp"
	"strings"

	"github.com/tsawler/folio/model"
)

// leaderRun matches, before the first tab of a paragraph, a title followed
// by at least six leader characters (dots or spaces) and the page reference.
// Group 2 spans the leader characters and group 3 the page reference.
var leaderRun = regexp.MustCompile(`^([^\t]*?\S)([ .\x{00A0}\x{00B7}]{6,})([^\t \x{00A0}][^\t]*)\t`)

// StripLeaderDots removes editor-drawn leader dots from a table of contents
// or index entry. The leader characters become a single tab and the tab
// that followed the page reference is dropped:
//
//	"Chapter One .......... 12\t" → "Chapter One\t12"
//
// The tab stop written for leader styles draws the dots instead. Runs are
// not modified; a new slice is returned when anything changed.
func StripLeaderDots(runs []model.Run) []model.Run {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	text := sb.String()
	m := leaderRun.FindStringSubmatchIndex(text)
	if m == nil {
		return runs
	}
	leaderStart, leaderEnd := m[4], m[5]
	tabAt := m[1] - 1

	out := spliceRuns(runs, tabAt, tabAt+1, "")
	return spliceRuns(out, leaderStart, leaderEnd, "\t")
}

// spliceRuns replaces the byte range [start, end) of the runs' joined text
// with repl, which lands in the run holding start. Runs left empty are
// dropped.
func spliceRuns(runs []model.Run, start, end int, repl string) []model.Run {
	out := make([]model.Run, 0, len(runs))
	offset := 0
	inserted := false
	for _, r := range runs {
		runStart, runEnd := offset, offset+len(r.Text)
		offset = runEnd

		lo, hi := max(start, runStart), min(end, runEnd)
		if lo >= hi && !(start >= runStart && start < runEnd) {
			out = append(out, r)
			continue
		}
		text := r.Text
		if lo < hi {
			text = text[:lo-runStart] + text[hi-runStart:]
		}
		if !inserted && start >= runStart && start <= runEnd {
			at := start - runStart
			text = text[:at] + repl + text[at:]
			inserted = true
		}
		if text == "" {
			continue
		}
		r.Text = text
		out = append(out, r)
	}
	return out
}
