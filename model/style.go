package model

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// StyleDefinition is the concrete formatting behind a named paragraph style.
type StyleDefinition struct {
	Name               string        `yaml:"name"`
	FontName           string        `yaml:"font"`
	FontSize           float64       `yaml:"size"`
	Bold               bool          `yaml:"bold,omitempty"`
	Italic             bool          `yaml:"italic,omitempty"`
	TextColor          *Color        `yaml:"color,omitempty"`
	BackgroundColor    *Color        `yaml:"background,omitempty"`
	Alignment          TextAlignment `yaml:"alignment"`
	HeadIndent         float64       `yaml:"head_indent,omitempty"`
	FirstLineIndent    float64       `yaml:"first_line_indent,omitempty"`
	TailIndent         float64       `yaml:"tail_indent,omitempty"`
	SpacingBefore      float64       `yaml:"spacing_before,omitempty"`
	SpacingAfter       float64       `yaml:"spacing_after,omitempty"`
	LineHeightMultiple float64       `yaml:"line_height_multiple,omitempty"`
}

// Geometry returns the paragraph geometry the style defines.
func (s StyleDefinition) Geometry() ParagraphGeometry {
	return ParagraphGeometry{
		Alignment:          s.Alignment,
		HeadIndent:         s.HeadIndent,
		FirstLineIndent:    s.FirstLineIndent,
		TailIndent:         s.TailIndent,
		SpacingBefore:      s.SpacingBefore,
		SpacingAfter:       s.SpacingAfter,
		LineHeightMultiple: s.LineHeightMultiple,
	}
}

// DefaultRun returns a run carrying every run attribute the style defines.
func (s StyleDefinition) DefaultRun(text string) Run {
	r := Run{Text: text}
	r.ApplyDefaults(s)
	return r
}

// StyleResolver maps a style name to its definition. Implementations must be
// safe for concurrent reads.
type StyleResolver interface {
	Lookup(name string) (StyleDefinition, bool)
}

// Catalog is an ordered set of style definitions. Order matters for style
// inference, where earlier entries win ties.
type Catalog struct {
	styles []StyleDefinition
	index  map[string]int
}

// NewCatalog creates a catalog from defs. Later duplicates replace earlier
// definitions in place.
func NewCatalog(defs ...StyleDefinition) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, d := range defs {
		c.Add(d)
	}
	return c
}

// Add inserts or replaces a definition.
func (c *Catalog) Add(def StyleDefinition) {
	if i, ok := c.index[def.Name]; ok {
		c.styles[i] = def
		return
	}
	c.index[def.Name] = len(c.styles)
	c.styles = append(c.styles, def)
}

// Lookup implements StyleResolver.
func (c *Catalog) Lookup(name string) (StyleDefinition, bool) {
	if c == nil {
		return StyleDefinition{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return StyleDefinition{}, false
	}
	return c.styles[i], true
}

// Styles returns the definitions in catalog order.
func (c *Catalog) Styles() []StyleDefinition {
	if c == nil {
		return nil
	}
	out := make([]StyleDefinition, len(c.styles))
	copy(out, c.styles)
	return out
}

// Names returns the style names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.styles))
	for i, s := range c.styles {
		names[i] = s.Name
	}
	return names
}

// catalogFile is the YAML layout read by LoadCatalog.
type catalogFile struct {
	Styles []StyleDefinition `yaml:"styles"`
}

// LoadCatalog reads a YAML style catalog of the form
//
//	styles:
//	  - name: Body Text
//	    font: Georgia
//	    size: 12
//	    alignment: justify
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding style catalog: %w", err)
	}
	for i, s := range f.Styles {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("style catalog entry %d has no name", i)
		}
	}
	return NewCatalog(f.Styles...), nil
}

// MarshalYAML writes the alignment name.
func (a TextAlignment) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML reads an alignment name.
func (a *TextAlignment) UnmarshalYAML(value *yaml.Node) error {
	parsed, ok := ParseAlignment(strings.ToLower(value.Value))
	if !ok {
		return fmt.Errorf("model: invalid alignment %q at line %d", value.Value, value.Line)
	}
	*a = parsed
	return nil
}

// Built-in style names that carry special meaning in the codecs.
const (
	StyleBodyText   = "Body Text"
	StyleBookTitle  = "Book Title"
	StyleHeading1   = "Heading 1"
	StyleHeading2   = "Heading 2"
	StyleTOCEntry   = "TOC Entry"
	StyleIndexEntry = "Index Entry"
	StyleStanza     = "Stanza"
	StyleSceneBreak = "Scene Break"
	StyleBlockQuote = "Block Quote"
	StyleCaption    = "Caption"
)

// DefaultCatalog returns the built-in style set.
func DefaultCatalog() *Catalog {
	black := Black
	return NewCatalog(
		StyleDefinition{Name: StyleBodyText, FontName: "Georgia", FontSize: 12, TextColor: &black,
			Alignment: AlignJustify, FirstLineIndent: 18, SpacingAfter: 6, LineHeightMultiple: 1.15},
		StyleDefinition{Name: StyleBookTitle, FontName: "Georgia", FontSize: 24, Bold: true, TextColor: &black,
			Alignment: AlignCenter, SpacingBefore: 72, SpacingAfter: 24},
		StyleDefinition{Name: StyleHeading1, FontName: "Georgia", FontSize: 18, Bold: true, TextColor: &black,
			Alignment: AlignCenter, SpacingBefore: 24, SpacingAfter: 12},
		StyleDefinition{Name: StyleHeading2, FontName: "Georgia", FontSize: 14, Bold: true, TextColor: &black,
			Alignment: AlignLeft, SpacingBefore: 18, SpacingAfter: 6},
		StyleDefinition{Name: StyleTOCEntry, FontName: "Georgia", FontSize: 12, TextColor: &black,
			Alignment: AlignLeft, SpacingAfter: 4},
		StyleDefinition{Name: StyleIndexEntry, FontName: "Georgia", FontSize: 11, TextColor: &black,
			Alignment: AlignLeft, HeadIndent: 18, FirstLineIndent: -18},
		StyleDefinition{Name: StyleStanza, FontName: "Georgia", FontSize: 12, Italic: true, TextColor: &black,
			Alignment: AlignLeft, HeadIndent: 36, SpacingAfter: 12},
		StyleDefinition{Name: StyleSceneBreak, FontName: "Georgia", FontSize: 12, TextColor: &black,
			Alignment: AlignCenter, SpacingBefore: 12, SpacingAfter: 12},
		StyleDefinition{Name: StyleBlockQuote, FontName: "Georgia", FontSize: 11, Italic: true, TextColor: &black,
			Alignment: AlignJustify, HeadIndent: 36, TailIndent: 36, SpacingAfter: 6},
		StyleDefinition{Name: StyleCaption, FontName: "Georgia", FontSize: 10, Italic: true, TextColor: &black,
			Alignment: AlignCenter, SpacingAfter: 6},
	)
}

// StyleID derives an OOXML style ID from a style name by dropping every
// character that is not an ASCII letter or digit.
func StyleID(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "CustomStyle"
	}
	return sb.String()
}

// IsLeaderStyle reports whether paragraphs in the named style are table of
// contents or index entries, whose tab stops carry dot leaders.
func IsLeaderStyle(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "toc") || strings.Contains(lower, "index") ||
		strings.Contains(lower, "contents")
}
