package odt

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTabPosition is where the injected right tab stop sits: the right
// edge of a Letter text block with one-inch margins.
const DefaultTabPosition = "6.5in"

// DefaultBaselineStyles are the automatic style names the ODF exporter gives
// table-of-contents paragraphs in the common case. They are patched even when
// the content scan finds no leader lines in them.
var DefaultBaselineStyles = []string{"P1", "P2"}

var (
	tabStopsOpenRe  = regexp.MustCompile(`<style:tab-stops\s*>`)
	tabStopsEmptyRe = regexp.MustCompile(`<style:tab-stops\s*/>`)
	paraPropsEmpty  = regexp.MustCompile(`<style:paragraph-properties\b([^>]*?)\s*/>`)
)

// tabStopElement renders the dotted right tab stop at position.
func tabStopElement(position string) string {
	return fmt.Sprintf(`<style:tab-stop style:position="%s" style:type="right" style:leader-style="dotted" style:leader-text="."/>`, position)
}

// styleBlockRe matches the whole <style:style> element named name, either
// self-closing or up to its closing tag.
func styleBlockRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<style:style\s[^>]*?\bstyle:name="` + regexp.QuoteMeta(name) + `"[^>]*?(?:\s*/>|>.*?</style:style>)`)
}

// injectTabStops adds the leader tab stop to every named style block found in
// content. It returns the patched content and the names actually changed.
func injectTabStops(content string, names []string, position string) (string, []string) {
	stop := tabStopElement(position)
	var patched []string
	for _, name := range names {
		re := styleBlockRe(name)
		changed := false
		content = re.ReplaceAllStringFunc(content, func(block string) string {
			out := injectTabStop(block, stop)
			if out != block {
				changed = true
			}
			return out
		})
		if changed {
			patched = append(patched, name)
		}
	}
	return content, patched
}

// injectTabStop places stop inside one style block. An existing
// <style:tab-stops> list is preferred, then a self-closing
// <style:paragraph-properties/>, then the closing paragraph-properties tag.
// Blocks without paragraph properties get a new properties element.
func injectTabStop(block, stop string) string {
	if strings.Contains(block, stop) {
		return block
	}
	stops := "<style:tab-stops>" + stop + "</style:tab-stops>"

	switch {
	case tabStopsOpenRe.MatchString(block):
		return strings.Replace(block, "</style:tab-stops>", stop+"</style:tab-stops>", 1)
	case tabStopsEmptyRe.MatchString(block):
		return replaceFirst(tabStopsEmptyRe, block, stops)
	case paraPropsEmpty.MatchString(block):
		loc := paraPropsEmpty.FindStringSubmatchIndex(block)
		attrs := block[loc[2]:loc[3]]
		return block[:loc[0]] + "<style:paragraph-properties" + attrs + ">" + stops + "</style:paragraph-properties>" + block[loc[1]:]
	case strings.Contains(block, "</style:paragraph-properties>"):
		return strings.Replace(block, "</style:paragraph-properties>", stops+"</style:paragraph-properties>", 1)
	}

	props := "<style:paragraph-properties>" + stops + "</style:paragraph-properties>"
	if strings.HasSuffix(block, "/>") {
		return strings.TrimRight(strings.TrimSuffix(block, "/>"), " \t\r\n") + ">" + props + "</style:style>"
	}
	end := strings.IndexByte(block, '>')
	return block[:end+1] + props + block[end+1:]
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
