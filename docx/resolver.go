package docx

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/tsawler/folio/imagecodec"
	"github.com/tsawler/folio/model"
)

// ResolvedStyle contains the fully resolved properties for a style.
type ResolvedStyle struct {
	// Identity
	ID   string
	Name string
	Type string // paragraph, character, table

	// Heading info
	IsHeading    bool
	HeadingLevel int // 1-9, 0 if not a heading

	Geometry model.ParagraphGeometry
	Run      model.Run // run defaults; every attribute is set
}

// Definition converts the resolved style to a catalog definition.
func (rs *ResolvedStyle) Definition() model.StyleDefinition {
	def := model.StyleDefinition{
		Name:               rs.Name,
		FontName:           rs.Run.Font,
		FontSize:           rs.Run.Size,
		Bold:               rs.Run.Bold,
		Italic:             rs.Run.Italic,
		Alignment:          rs.Geometry.Alignment,
		HeadIndent:         rs.Geometry.HeadIndent,
		FirstLineIndent:    rs.Geometry.FirstLineIndent,
		TailIndent:         rs.Geometry.TailIndent,
		SpacingBefore:      rs.Geometry.SpacingBefore,
		SpacingAfter:       rs.Geometry.SpacingAfter,
		LineHeightMultiple: rs.Geometry.LineHeightMultiple,
	}
	if def.Name == "" {
		def.Name = rs.ID
	}
	if rs.Run.Has(model.AttrColor) {
		c := rs.Run.Color
		def.TextColor = &c
	}
	if rs.Run.Has(model.AttrBackground) {
		c := rs.Run.Background
		def.BackgroundColor = &c
	}
	return def
}

// StyleResolver resolves the styles of a styles.xml part with basedOn
// inheritance. It implements model.StyleResolver, looking styles up by
// name or ID, and is safe for concurrent use.
type StyleResolver struct {
	styles      map[string]*styleDefXML
	byName      map[string]string // lower-case name → style ID
	defaults    *docDefaultsXML
	theme       themeColors
	defaultFont string
	defaultSize float64
	defaultPara string // style ID for paragraphs without w:pStyle

	mu       sync.Mutex
	resolved map[string]*ResolvedStyle
}

// NewStyleResolver creates a new style resolver from parsed styles. A nil
// theme uses the default Office theme.
func NewStyleResolver(styles *stylesXML, theme themeColors) *StyleResolver {
	if theme == nil {
		theme = defaultTheme()
	}
	sr := &StyleResolver{
		styles:      make(map[string]*styleDefXML),
		byName:      make(map[string]string),
		resolved:    make(map[string]*ResolvedStyle),
		theme:       theme,
		defaultFont: "Calibri", // Word default
		defaultSize: 11,        // Word default (11pt)
	}

	if styles == nil {
		return sr
	}

	for i := range styles.Styles {
		style := &styles.Styles[i]
		sr.styles[style.StyleID] = style
		if style.Name.Val != "" {
			sr.byName[strings.ToLower(style.Name.Val)] = style.StyleID
		}
	}

	sr.defaults = &styles.DocDefaults
	sr.defaultPara = styles.defaultParagraphStyle()
	if f := sr.defaults.RPrDefault.RPr.Font.Name(); f != "" {
		sr.defaultFont = f
	}
	if size := parseHalfPoints(sr.defaults.RPrDefault.RPr.FontSize.Val); size > 0 {
		sr.defaultSize = size
	}

	return sr
}

// Lookup implements model.StyleResolver.
func (sr *StyleResolver) Lookup(name string) (model.StyleDefinition, bool) {
	id, ok := sr.byName[strings.ToLower(name)]
	if !ok {
		if _, exists := sr.styles[name]; !exists {
			return model.StyleDefinition{}, false
		}
		id = name
	}
	return sr.Resolve(id).Definition(), true
}

// Name returns the display name of a style ID, or "" when unknown.
func (sr *StyleResolver) Name(styleID string) string {
	if def, ok := sr.styles[styleID]; ok {
		return def.Name.Val
	}
	return ""
}

// Resolve returns the fully resolved style for the given style ID.
// If the style doesn't exist, returns a default style.
func (sr *StyleResolver) Resolve(styleID string) *ResolvedStyle {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if resolved, ok := sr.resolved[styleID]; ok {
		return resolved
	}

	resolved := sr.defaultStyle()
	resolved.ID = styleID

	if styleID == "" {
		// An unstyled paragraph takes the default paragraph style's
		// properties but stays unnamed.
		if sr.defaultPara != "" {
			sr.applyChain(resolved, sr.defaultPara)
		}
		sr.resolved[styleID] = resolved
		return resolved
	}

	styleDef, ok := sr.styles[styleID]
	if !ok {
		// Style not found - check for built-in heading styles
		resolved.IsHeading, resolved.HeadingLevel = detectBuiltInHeading(styleID)
		sr.resolved[styleID] = resolved
		return resolved
	}

	resolved.Name = styleDef.Name.Val
	resolved.Type = styleDef.Type

	sr.applyChain(resolved, styleID)

	resolved.IsHeading, resolved.HeadingLevel = sr.detectHeading(styleDef, resolved)

	sr.resolved[styleID] = resolved
	return resolved
}

// defaultStyle returns a style with document default values.
func (sr *StyleResolver) defaultStyle() *ResolvedStyle {
	rs := &ResolvedStyle{
		Geometry: model.ParagraphGeometry{
			Alignment:    model.AlignLeft,
			SpacingAfter: 8, // Default paragraph spacing in Word
		},
		Run: model.Run{}.
			WithFont(sr.defaultFont).
			WithSize(sr.defaultSize).
			WithBold(false).
			WithItalic(false),
	}
	if sr.defaults != nil {
		applyParagraphProps(&rs.Geometry, sr.defaults.PPrDefault.PPr)
		applyRunProps(&rs.Run, sr.defaults.RPrDefault.RPr, sr.theme)
	}
	return rs
}

// applyChain applies the properties of styleID and its ancestors to
// resolved, base first.
func (sr *StyleResolver) applyChain(resolved *ResolvedStyle, styleID string) {
	for _, sid := range sr.buildInheritanceChain(styleID) {
		if def, ok := sr.styles[sid]; ok {
			applyParagraphProps(&resolved.Geometry, def.PPr)
			applyRunProps(&resolved.Run, def.RPr, sr.theme)
		}
	}
}

// buildInheritanceChain returns style IDs from base to derived.
func (sr *StyleResolver) buildInheritanceChain(styleID string) []string {
	var chain []string
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		chain = append([]string{current}, chain...) // Prepend

		if def, ok := sr.styles[current]; ok {
			current = def.BasedOn.Val
		} else {
			break
		}
	}

	return chain
}

// ResolveRun resolves run properties, combining paragraph style with direct formatting.
func (sr *StyleResolver) ResolveRun(paragraphStyle string, runProps runPropsXML) model.Run {
	run := sr.Resolve(paragraphStyle).Run
	applyRunProps(&run, runProps, sr.theme)
	return run
}

// detectHeading determines if a style represents a heading.
func (sr *StyleResolver) detectHeading(def *styleDefXML, resolved *ResolvedStyle) (bool, int) {
	if isHeading, level := detectBuiltInHeading(def.StyleID); isHeading {
		return true, level
	}

	name := strings.ToLower(def.Name.Val)
	if strings.HasPrefix(name, "heading") {
		for i := 1; i <= 9; i++ {
			if strings.Contains(name, strconv.Itoa(i)) {
				return true, i
			}
		}
		return true, 1
	}

	if def.PPr.OutlineLvl.Val != "" {
		level := parseOutlineLevel(def.PPr.OutlineLvl.Val)
		if level >= 0 && level <= 8 {
			return true, level + 1 // OutlineLvl is 0-based
		}
	}

	return false, 0
}

// detectBuiltInHeading checks for Word's built-in heading style IDs.
func detectBuiltInHeading(styleID string) (bool, int) {
	id := strings.ToLower(styleID)

	headingMap := map[string]int{
		"heading1": 1, "heading2": 2, "heading3": 3,
		"heading4": 4, "heading5": 5, "heading6": 6,
		"heading7": 7, "heading8": 8, "heading9": 9,
		"title": 1, "subtitle": 2,
	}

	if level, ok := headingMap[id]; ok {
		return true, level
	}

	return false, 0
}

// parseOutlineLevel parses an outline level string to an integer.
func parseOutlineLevel(s string) int {
	level, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || level < 0 || level > 8 {
		return -1
	}
	return level
}

// geomField is a bit set of the paragraph geometry fields given directly on
// a paragraph.
type geomField uint16

const (
	geomAlign geomField = 1 << iota
	geomBefore
	geomAfter
	geomLine
	geomHead
	geomTail
	geomFirst
	geomTabs
)

// mergeGeometry copies into g every field of def that set leaves unset.
func mergeGeometry(g *model.ParagraphGeometry, set geomField, def model.ParagraphGeometry) {
	if set&geomAlign == 0 {
		g.Alignment = def.Alignment
	}
	if set&geomBefore == 0 {
		g.SpacingBefore = def.SpacingBefore
	}
	if set&geomAfter == 0 {
		g.SpacingAfter = def.SpacingAfter
	}
	if set&geomLine == 0 {
		g.LineHeightMultiple = def.LineHeightMultiple
	}
	if set&geomHead == 0 {
		g.HeadIndent = def.HeadIndent
	}
	if set&geomTail == 0 {
		g.TailIndent = def.TailIndent
	}
	if set&geomFirst == 0 {
		g.FirstLineIndent = def.FirstLineIndent
	}
	if set&geomTabs == 0 && len(def.TabStops) > 0 {
		g.TabStops = append([]model.TabStop(nil), def.TabStops...)
	}
}

// applyParagraphProps applies direct paragraph formatting to g and returns
// the fields it set.
func applyParagraphProps(g *model.ParagraphGeometry, ppr paragraphPropsXML) geomField {
	set := applyJustification(g, ppr.Justification.Val)
	set |= applySpacing(g, ppr.Spacing)
	set |= applyIndent(g, ppr.Indent)
	if len(ppr.Tabs.Tabs) > 0 {
		for _, t := range ppr.Tabs.Tabs {
			if ts, ok := parseTabStop(t); ok {
				g.TabStops = append(g.TabStops, ts)
			}
		}
		set |= geomTabs
	}
	return set
}

func applyJustification(g *model.ParagraphGeometry, val string) geomField {
	if val == "" {
		return 0
	}
	if a, ok := model.ParseAlignment(val); ok {
		g.Alignment = a
		return geomAlign
	}
	return 0
}

func applySpacing(g *model.ParagraphGeometry, s spacingXML) geomField {
	var set geomField
	if s.Before != "" {
		g.SpacingBefore = parseTwips(s.Before)
		set |= geomBefore
	}
	if s.After != "" {
		g.SpacingAfter = parseTwips(s.After)
		set |= geomAfter
	}
	if s.Line != "" && (s.LineRule == "" || s.LineRule == "auto") {
		g.LineHeightMultiple = lineMultiple(s.Line)
		set |= geomLine
	}
	return set
}

// lineMultiple converts w:line in 240ths of a line to a multiple. Single
// spacing is reported as 0.
func lineMultiple(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	m := math.Round(v/240*100) / 100
	if m == 1 {
		return 0
	}
	return m
}

func applyIndent(g *model.ParagraphGeometry, ind indentXML) geomField {
	var set geomField
	if v := firstNonEmpty(ind.Left, ind.Start); v != "" {
		g.HeadIndent = parseTwips(v)
		set |= geomHead
	}
	if v := firstNonEmpty(ind.Right, ind.End); v != "" {
		g.TailIndent = parseTwips(v)
		set |= geomTail
	}
	if ind.FirstLine != "" {
		g.FirstLineIndent = parseTwips(ind.FirstLine)
		set |= geomFirst
	}
	if ind.Hanging != "" {
		g.FirstLineIndent = -parseTwips(ind.Hanging)
		set |= geomFirst
	}
	return set
}

// parseTabStop converts a w:tab stop definition. Cleared stops are
// skipped.
func parseTabStop(t tabStopXML) (model.TabStop, bool) {
	if t.Pos == "" || t.Val == "clear" || t.Val == "bar" {
		return model.TabStop{}, false
	}
	ts := model.TabStop{Position: parseTwips(t.Pos)}
	switch t.Val {
	case "center":
		ts.Alignment = model.TabCenter
	case "right", "end":
		ts.Alignment = model.TabRight
	case "decimal":
		ts.Alignment = model.TabDecimal
	}
	switch t.Leader {
	case "dot", "middleDot":
		ts.Leader = model.LeaderDot
	}
	return ts, true
}

// applyRunProps applies direct run formatting to r, marking each attribute
// it finds as set.
func applyRunProps(r *model.Run, rpr runPropsXML, theme themeColors) {
	if f := rpr.Font.Name(); f != "" {
		*r = r.WithFont(f)
	}
	if size := parseHalfPoints(rpr.FontSize.Val); size > 0 {
		*r = r.WithSize(size)
	}
	if rpr.Bold.Present() {
		*r = r.WithBold(rpr.Bold.Value())
	}
	if rpr.Italic.Present() {
		*r = r.WithItalic(rpr.Italic.Value())
	}
	if c, ok := theme.textColor(rpr.Color.Val, rpr.Color.ThemeColor, rpr.Color.ThemeTint, rpr.Color.ThemeShade); ok {
		*r = r.WithColor(c)
	}
	if c, ok := highlightColors[rpr.Highlight.Val]; ok {
		*r = r.WithBackground(c)
	}
	if c, ok := theme.shadingColor(rpr.Shading); ok {
		*r = r.WithBackground(c)
	}
	if b, ok := baselineOffset(rpr.VertAlign.Val, rpr.Position.Val, r.Size); ok {
		*r = r.WithBaseline(b)
	}
}

// baselineOffset derives the baseline shift in points from w:vertAlign and
// w:position (half-points). Superscript and subscript shift by a third of
// the font size.
func baselineOffset(vertAlign, position string, size float64) (float64, bool) {
	if position != "" {
		if v, err := strconv.ParseFloat(position, 64); err == nil {
			return v / 2, true
		}
	}
	if size <= 0 {
		size = 12
	}
	switch vertAlign {
	case "superscript":
		return math.Round(size/3*2) / 2, true
	case "subscript":
		return -math.Round(size/3*2) / 2, true
	}
	return 0, false
}

// imageSize resolves an image's size in points from its extent, falling back
// to a size-encoded name and then to the image's intrinsic size.
func imageSize(cx, cy, name string, data []byte) (float64, float64, error) {
	w, errW := strconv.ParseInt(cx, 10, 64)
	h, errH := strconv.ParseInt(cy, 10, 64)
	if errW == nil && errH == nil && w > 0 && h > 0 {
		return imagecodec.PointsFromEMU(w), imagecodec.PointsFromEMU(h), nil
	}
	return imagecodec.Bounds(name, data)
}

// parseOnOff parses an OOXML on/off value; an absent value means on.
func parseOnOff(s string) bool {
	switch strings.ToLower(s) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

// parseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return model.PointsFromHalfPoints(val)
}

// parseTwips parses a size in twips to points.
// 1 point = 20 twips.
func parseTwips(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return model.PointsFromTwips(val)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
