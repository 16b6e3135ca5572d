package odt

import (
	"regexp"
	"strings"
)

// Leader characters: period, middle dot, tilde and no-break space.
const (
	leaderChars = `.\x{00B7}~\x{00A0}`
	pageNumber  = `(?:\d+|[ivxlcdmIVXLCDM]+)`
)

// leaderLineRe matches rendered paragraph text that ends in a leader run of
// three or more characters followed by a page number.
var leaderLineRe = regexp.MustCompile(`[^\s` + leaderChars + `][ \x{00A0}]*[` + leaderChars + `]{3,}[ \x{00A0}]*` + pageNumber + `\s*$`)

// paragraphRe matches one non-empty <text:p> or <text:h> element. The
// captured groups are the attributes and the inner markup.
var paragraphRe = regexp.MustCompile(`(?s)<text:[ph]\b([^>]*[^/>])?>(.*?)</text:[ph]>`)

var styleNameRe = regexp.MustCompile(`\btext:style-name="([^"]*)"`)

// leaderMarkupRe matches the inner markup of a leader paragraph. The leader
// run must sit in one text node; the page number may follow inside the same
// node or after span boundaries, as in
//
//	Chapter One..........12
//	<text:span text:style-name="T1">Chapter One..........12</text:span>
//	<text:span>Chapter One</text:span>..........<text:span>12</text:span>
var leaderMarkupRe = regexp.MustCompile(`(?s)^(.*?[^\s` + leaderChars + `])[ \x{00A0}]*[` + leaderChars + `]{3,}[ \x{00A0}]*((?:<[^>]+>)*)(` + pageNumber + `)((?:\s*</[^>]+>)*\s*)$`)

// isLeaderLine reports whether rendered paragraph text is a leader line.
func isLeaderLine(text string) bool {
	return leaderLineRe.MatchString(text)
}

// convertLeaderRuns replaces the literal leader run of every leader paragraph
// whose style is in styles with a <text:tab/> element. It returns the
// rewritten content and the number of paragraphs changed.
func convertLeaderRuns(content string, styles map[string]bool) (string, int) {
	count := 0
	out := paragraphRe.ReplaceAllStringFunc(content, func(para string) string {
		m := paragraphRe.FindStringSubmatchIndex(para)
		if m[2] < 0 {
			return para
		}
		sm := styleNameRe.FindStringSubmatch(para[m[2]:m[3]])
		if sm == nil || !styles[sm[1]] {
			return para
		}

		inner := para[m[4]:m[5]]
		if strings.Contains(inner, "<text:tab/>") || !leaderMarkupRe.MatchString(inner) {
			return para
		}
		count++
		inner = leaderMarkupRe.ReplaceAllString(inner, "${1}<text:tab/>${2}${3}${4}")
		return para[:m[4]] + inner + para[m[5]:]
	})
	return out, count
}
