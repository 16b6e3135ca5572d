package docx

import (
	"encoding/xml"
	"testing"

	"github.com/tsawler/folio/model"
)

func TestNewStyleResolver_Nil(t *testing.T) {
	sr := NewStyleResolver(nil, nil)
	if sr == nil {
		t.Fatal("NewStyleResolver(nil, nil) returned nil")
	}

	// Should return default style
	style := sr.Resolve("")
	if style.Run.Size != 11 {
		t.Errorf("default Size = %v, want 11", style.Run.Size)
	}
	if style.Run.Font != "Calibri" {
		t.Errorf("default Font = %v, want Calibri", style.Run.Font)
	}
}

func TestStyleResolver_DefaultStyle(t *testing.T) {
	sr := NewStyleResolver(nil, nil)
	style := sr.defaultStyle()

	if style.Run.Size != 11 {
		t.Errorf("Size = %v, want 11", style.Run.Size)
	}
	if style.Run.Font != "Calibri" {
		t.Errorf("Font = %v, want Calibri", style.Run.Font)
	}
	if style.Geometry.Alignment != model.AlignLeft {
		t.Errorf("Alignment = %v, want left", style.Geometry.Alignment)
	}
	if style.Geometry.SpacingAfter != 8 {
		t.Errorf("SpacingAfter = %v, want 8", style.Geometry.SpacingAfter)
	}
}

func TestStyleResolver_ResolveBuiltInHeading(t *testing.T) {
	sr := NewStyleResolver(nil, nil)

	tests := []struct {
		styleID       string
		wantIsHeading bool
		wantLevel     int
	}{
		{"Heading1", true, 1},
		{"Heading2", true, 2},
		{"heading1", true, 1}, // case insensitive
		{"Title", true, 1},
		{"Normal", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.styleID, func(t *testing.T) {
			style := sr.Resolve(tt.styleID)
			if style.IsHeading != tt.wantIsHeading {
				t.Errorf("IsHeading = %v, want %v", style.IsHeading, tt.wantIsHeading)
			}
			if style.HeadingLevel != tt.wantLevel {
				t.Errorf("HeadingLevel = %v, want %v", style.HeadingLevel, tt.wantLevel)
			}
		})
	}
}

func TestStyleResolver_WithStyles(t *testing.T) {
	styles := &stylesXML{
		Styles: []styleDefXML{
			{
				StyleID: "CustomHeading",
				Type:    "paragraph",
				Name:    styleNameXML{Val: "My Custom Heading"},
				PPr: paragraphPropsXML{
					OutlineLvl: outlineLvlXML{Val: "1"}, // Level 2 heading
				},
				RPr: runPropsXML{
					Bold:     boolXML{XMLName: xml.Name{Local: "b"}, Val: ""},
					FontSize: sizeXML{Val: "28"}, // 14pt
				},
			},
			{
				StyleID: "CenteredPara",
				Type:    "paragraph",
				Name:    styleNameXML{Val: "Centered Paragraph"},
				PPr: paragraphPropsXML{
					Justification: justificationXML{Val: "center"},
					Spacing:       spacingXML{Before: "240", After: "120"}, // 12pt before, 6pt after
				},
			},
		},
	}

	sr := NewStyleResolver(styles, nil)

	t.Run("custom heading", func(t *testing.T) {
		style := sr.Resolve("CustomHeading")
		if !style.IsHeading {
			t.Error("expected IsHeading = true")
		}
		if style.HeadingLevel != 2 {
			t.Errorf("HeadingLevel = %v, want 2", style.HeadingLevel)
		}
		if style.Run.Size != 14 {
			t.Errorf("Size = %v, want 14", style.Run.Size)
		}
	})

	t.Run("centered paragraph", func(t *testing.T) {
		style := sr.Resolve("CenteredPara")
		if style.Geometry.Alignment != model.AlignCenter {
			t.Errorf("Alignment = %v, want center", style.Geometry.Alignment)
		}
		if style.Geometry.SpacingBefore != 12 {
			t.Errorf("SpacingBefore = %v, want 12", style.Geometry.SpacingBefore)
		}
		if style.Geometry.SpacingAfter != 6 {
			t.Errorf("SpacingAfter = %v, want 6", style.Geometry.SpacingAfter)
		}
	})
}

func TestStyleResolver_DefaultParagraphStyle(t *testing.T) {
	styles := &stylesXML{
		Styles: []styleDefXML{
			{StyleID: "DefaultChar", Type: "character", Default: "1"},
			{
				StyleID: "Normal",
				Type:    "paragraph",
				Default: "1",
				Name:    styleNameXML{Val: "Normal"},
				PPr: paragraphPropsXML{
					Justification: justificationXML{Val: "both"},
				},
				RPr: runPropsXML{FontSize: sizeXML{Val: "24"}},
			},
			{
				StyleID: "Quote",
				Type:    "paragraph",
				Name:    styleNameXML{Val: "Quote"},
				RPr:     runPropsXML{FontSize: sizeXML{Val: "20"}},
			},
		},
	}
	if got := styles.defaultParagraphStyle(); got != "Normal" {
		t.Fatalf("defaultParagraphStyle() = %q, want Normal", got)
	}

	sr := NewStyleResolver(styles, nil)

	plain := sr.Resolve("")
	if plain.Name != "" {
		t.Errorf("unstyled Name = %q, want empty", plain.Name)
	}
	if plain.Run.Size != 12 {
		t.Errorf("unstyled Size = %v, want 12 from Normal", plain.Run.Size)
	}
	if plain.Geometry.Alignment != model.AlignJustify {
		t.Errorf("unstyled Alignment = %v, want justify from Normal", plain.Geometry.Alignment)
	}

	// A style without basedOn does not inherit from the default style.
	if quote := sr.Resolve("Quote"); quote.Geometry.Alignment != model.AlignLeft {
		t.Errorf("Quote Alignment = %v, want left", quote.Geometry.Alignment)
	}

	if got := (&stylesXML{Styles: []styleDefXML{{StyleID: "Normal", Type: "paragraph"}}}).defaultParagraphStyle(); got != "" {
		t.Errorf("defaultParagraphStyle() without a default = %q, want empty", got)
	}
}

func TestStyleResolver_Inheritance(t *testing.T) {
	styles := &stylesXML{
		Styles: []styleDefXML{
			{
				StyleID: "BaseStyle",
				Type:    "paragraph",
				Name:    styleNameXML{Val: "Base"},
				PPr: paragraphPropsXML{
					Justification: justificationXML{Val: "left"},
					Spacing:       spacingXML{After: "200"}, // 10pt
				},
				RPr: runPropsXML{
					FontSize: sizeXML{Val: "24"}, // 12pt
					Font:     fontXML{ASCII: "Arial"},
				},
			},
			{
				StyleID: "DerivedStyle",
				Type:    "paragraph",
				Name:    styleNameXML{Val: "Derived"},
				BasedOn: basedOnXML{Val: "BaseStyle"},
				PPr: paragraphPropsXML{
					Justification: justificationXML{Val: "center"}, // Override alignment
				},
				RPr: runPropsXML{
					Bold: boolXML{XMLName: xml.Name{Local: "b"}, Val: ""}, // Add bold
				},
			},
		},
	}

	sr := NewStyleResolver(styles, nil)
	style := sr.Resolve("DerivedStyle")

	// Should inherit from BaseStyle
	if style.Run.Font != "Arial" {
		t.Errorf("Font = %v, want Arial (inherited)", style.Run.Font)
	}
	if style.Run.Size != 12 {
		t.Errorf("Size = %v, want 12 (inherited)", style.Run.Size)
	}
	if style.Geometry.SpacingAfter != 10 {
		t.Errorf("SpacingAfter = %v, want 10 (inherited)", style.Geometry.SpacingAfter)
	}

	// Should override alignment
	if style.Geometry.Alignment != model.AlignCenter {
		t.Errorf("Alignment = %v, want center (overridden)", style.Geometry.Alignment)
	}

	// Should add bold
	if !style.Run.Bold {
		t.Error("Bold should be true")
	}
}

func TestStyleResolver_ResolveRun(t *testing.T) {
	styles := &stylesXML{
		Styles: []styleDefXML{
			{
				StyleID: "NormalStyle",
				Type:    "paragraph",
				Name:    styleNameXML{Val: "Normal"},
				RPr: runPropsXML{
					FontSize: sizeXML{Val: "22"}, // 11pt
					Font:     fontXML{ASCII: "Times New Roman"},
				},
			},
		},
	}

	sr := NewStyleResolver(styles, nil)

	t.Run("inherit from paragraph style", func(t *testing.T) {
		runProps := runPropsXML{}
		resolved := sr.ResolveRun("NormalStyle", runProps)

		if resolved.Font != "Times New Roman" {
			t.Errorf("Font = %v, want Times New Roman", resolved.Font)
		}
		if resolved.Size != 11 {
			t.Errorf("Size = %v, want 11", resolved.Size)
		}
	})

	t.Run("override with direct formatting", func(t *testing.T) {
		runProps := runPropsXML{
			Bold:     boolXML{XMLName: xml.Name{Local: "b"}, Val: ""}, // Simulates <w:b/>
			FontSize: sizeXML{Val: "28"},                               // 14pt
		}
		resolved := sr.ResolveRun("NormalStyle", runProps)

		// Inherited
		if resolved.Font != "Times New Roman" {
			t.Errorf("Font = %v, want Times New Roman", resolved.Font)
		}

		// Overridden
		if resolved.Size != 14 {
			t.Errorf("Size = %v, want 14", resolved.Size)
		}
		if !resolved.Bold {
			t.Error("Bold should be true")
		}
	})
}

func TestParseHalfPoints(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"24", 12},    // 24 half-points = 12pt
		{"22", 11},    // 22 half-points = 11pt
		{"0", 0},
		{"", 0},
		{"invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseHalfPoints(tt.input)
			if got != tt.want {
				t.Errorf("parseHalfPoints(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTwips(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"240", 12}, // 240 twips = 12pt
		{"200", 10}, // 200 twips = 10pt
		{"20", 1},   // 20 twips = 1pt
		{"0", 0},
		{"", 0},
		{"invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseTwips(tt.input)
			if got != tt.want {
				t.Errorf("parseTwips(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectBuiltInHeading(t *testing.T) {
	tests := []struct {
		styleID   string
		isHeading bool
		level     int
	}{
		{"Heading1", true, 1},
		{"heading1", true, 1},
		{"HEADING1", true, 1},
		{"Heading9", true, 9},
		{"Title", true, 1},
		{"Subtitle", true, 2},
		{"Normal", false, 0},
		{"BodyText", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.styleID, func(t *testing.T) {
			isHeading, level := detectBuiltInHeading(tt.styleID)
			if isHeading != tt.isHeading {
				t.Errorf("isHeading = %v, want %v", isHeading, tt.isHeading)
			}
			if level != tt.level {
				t.Errorf("level = %v, want %v", level, tt.level)
			}
		})
	}
}

func TestStyleResolver_Lookup(t *testing.T) {
	styles := &stylesXML{
		Styles: []styleDefXML{
			{
				StyleID: "Quote",
				Type:    "paragraph",
				Name:    styleNameXML{Val: "Pull Quote"},
				PPr:     paragraphPropsXML{Indent: indentXML{Left: "720", Hanging: "360"}},
				RPr:     runPropsXML{Italic: boolXML{XMLName: xml.Name{Local: "i"}}},
			},
		},
	}
	sr := NewStyleResolver(styles, nil)

	for _, name := range []string{"Pull Quote", "pull quote", "Quote"} {
		def, ok := sr.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if def.Name != "Pull Quote" || !def.Italic {
			t.Errorf("Lookup(%q) = %+v", name, def)
		}
		if def.HeadIndent != 36 || def.FirstLineIndent != -18 {
			t.Errorf("indents = %v/%v, want 36/-18", def.HeadIndent, def.FirstLineIndent)
		}
	}
	if _, ok := sr.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should fail")
	}
}

func TestLineMultiple(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"240", 0}, // single
		{"276", 1.15},
		{"360", 1.5},
		{"480", 2},
		{"", 0},
		{"junk", 0},
	}
	for _, tt := range tests {
		if got := lineMultiple(tt.input); got != tt.want {
			t.Errorf("lineMultiple(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestApplyParagraphProps(t *testing.T) {
	var g model.ParagraphGeometry
	set := applyParagraphProps(&g, paragraphPropsXML{
		Justification: justificationXML{Val: "both"},
		Spacing:       spacingXML{Before: "120", Line: "360", LineRule: "auto"},
		Indent:        indentXML{Start: "720", FirstLine: "360"},
		Tabs: tabsXML{Tabs: []tabStopXML{
			{Val: "right", Leader: "dot", Pos: "9360"},
			{Val: "clear", Pos: "720"},
		}},
	})

	if g.Alignment != model.AlignJustify {
		t.Errorf("Alignment = %v, want justify", g.Alignment)
	}
	if g.SpacingBefore != 6 || g.LineHeightMultiple != 1.5 {
		t.Errorf("spacing = %v/%v, want 6/1.5", g.SpacingBefore, g.LineHeightMultiple)
	}
	if g.HeadIndent != 36 || g.FirstLineIndent != 18 {
		t.Errorf("indent = %v/%v, want 36/18", g.HeadIndent, g.FirstLineIndent)
	}
	if len(g.TabStops) != 1 || g.TabStops[0].Alignment != model.TabRight || g.TabStops[0].Leader != model.LeaderDot {
		t.Errorf("TabStops = %+v", g.TabStops)
	}
	if set&geomAfter != 0 || set&geomTail != 0 {
		t.Errorf("set = %b marks fields not given", set)
	}

	// Unset fields come from the style.
	mergeGeometry(&g, set, model.ParagraphGeometry{SpacingAfter: 12, TailIndent: 9, SpacingBefore: 99})
	if g.SpacingAfter != 12 || g.TailIndent != 9 || g.SpacingBefore != 6 {
		t.Errorf("merged = %+v", g)
	}
}

func TestBaselineOffset(t *testing.T) {
	if b, ok := baselineOffset("", "6", 12); !ok || b != 3 {
		t.Errorf("position 6 = %v, %v; want 3", b, ok)
	}
	if b, ok := baselineOffset("superscript", "", 12); !ok || b != 4 {
		t.Errorf("superscript = %v, %v; want 4", b, ok)
	}
	if b, ok := baselineOffset("subscript", "", 12); !ok || b != -4 {
		t.Errorf("subscript = %v, %v; want -4", b, ok)
	}
	if _, ok := baselineOffset("baseline", "", 12); ok {
		t.Error("baseline should not shift")
	}
}
