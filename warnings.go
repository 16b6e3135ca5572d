package folio

import (
	"fmt"
	"strings"
)

// Warning sources.
const (
	SourceDocx = "docx"
	SourceODT  = "odt"
)

// Warning is a non-fatal problem met while processing a document: content
// that was skipped, repaired or replaced with a default.
type Warning struct {
	Source  string // package that reported it
	Message string
}

func (w Warning) String() string {
	if w.Source == "" {
		return w.Message
	}
	return w.Source + ": " + w.Message
}

// FormatWarnings renders warnings one per line, prefixed with a count.
// It returns "" for no warnings.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	noun := "warnings"
	if len(warnings) == 1 {
		noun = "warning"
	}
	fmt.Fprintf(&sb, "%d %s:", len(warnings), noun)
	for _, w := range warnings {
		sb.WriteString("\n  - ")
		sb.WriteString(w.String())
	}
	return sb.String()
}

func toWarnings(source string, messages []string) []Warning {
	if len(messages) == 0 {
		return nil
	}
	out := make([]Warning, len(messages))
	for i, m := range messages {
		out[i] = Warning{Source: source, Message: m}
	}
	return out
}
