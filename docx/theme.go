package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/folio/model"
)

// themeColors maps theme color names, as used by w:themeColor and
// w:themeFill, to concrete colors.
type themeColors map[string]model.Color

// defaultTheme is the Office 2013+ default color scheme, used when the
// package has no theme part.
func defaultTheme() themeColors {
	hex := func(s string) model.Color {
		c, _ := model.ParseHex(s)
		return c
	}
	t := themeColors{
		"dark1":             hex("000000"),
		"light1":            hex("FFFFFF"),
		"dark2":             hex("44546A"),
		"light2":            hex("E7E6E6"),
		"accent1":           hex("4472C4"),
		"accent2":           hex("ED7D31"),
		"accent3":           hex("A5A5A5"),
		"accent4":           hex("FFC000"),
		"accent5":           hex("5B9BD5"),
		"accent6":           hex("70AD47"),
		"hyperlink":         hex("0563C1"),
		"followedHyperlink": hex("954F72"),
	}
	t.alias()
	return t
}

// alias adds the text/background names WordprocessingML uses for the
// dark/light slots.
func (t themeColors) alias() {
	t["text1"] = t["dark1"]
	t["background1"] = t["light1"]
	t["text2"] = t["dark2"]
	t["background2"] = t["light2"]
}

// schemeSlots maps a:clrScheme child elements to theme names.
var schemeSlots = map[string]string{
	"dk1":      "dark1",
	"lt1":      "light1",
	"dk2":      "dark2",
	"lt2":      "light2",
	"accent1":  "accent1",
	"accent2":  "accent2",
	"accent3":  "accent3",
	"accent4":  "accent4",
	"accent5":  "accent5",
	"accent6":  "accent6",
	"hlink":    "hyperlink",
	"folHlink": "followedHyperlink",
}

// loadTheme reads the color scheme of word/theme/theme1.xml over the
// default theme. Slots it cannot read keep their defaults.
func loadTheme(data []byte) themeColors {
	t := defaultTheme()
	if len(data) == 0 {
		return t
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return t
	}
	scheme := doc.FindElement("//clrScheme")
	if scheme == nil {
		return t
	}
	for _, slot := range scheme.ChildElements() {
		name, ok := schemeSlots[slot.Tag]
		if !ok {
			continue
		}
		for _, clr := range slot.ChildElements() {
			var val string
			switch clr.Tag {
			case "srgbClr":
				val = clr.SelectAttrValue("val", "")
			case "sysClr":
				val = clr.SelectAttrValue("lastClr", "")
			}
			if c, ok := model.ParseHex(val); ok {
				t[name] = c
				break
			}
		}
	}
	t.alias()
	return t
}

// resolve returns the color for a theme name with an optional tint or
// shade. Tint and shade are hex bytes; a tint of v blends toward white by
// 1-v/255 and a shade of v blends toward black by the same amount.
func (t themeColors) resolve(name, tint, shade string) (model.Color, bool) {
	c, ok := t[name]
	if !ok {
		return model.Color{}, false
	}
	if v, ok := parseHexByte(tint); ok {
		c = c.Mix(model.White, 1-v)
	}
	if v, ok := parseHexByte(shade); ok {
		c = c.Mix(model.Black, 1-v)
	}
	return c, true
}

// parseHexByte parses a two digit hex value into [0, 1].
func parseHexByte(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return float64(v) / 255, true
}

// textColor resolves a w:color element. An explicit hex value wins over
// the theme reference, which is how Word writes both.
func (t themeColors) textColor(val, theme, tint, shade string) (model.Color, bool) {
	if c, ok := model.ParseHex(val); ok && theme == "" {
		return c, true
	}
	if theme != "" {
		if c, ok := t.resolve(theme, tint, shade); ok {
			return c, true
		}
	}
	return model.ParseHex(val)
}

// shadingColor resolves the fill of a w:shd element.
func (t themeColors) shadingColor(s shadingXML) (model.Color, bool) {
	if strings.EqualFold(s.Val, "nil") {
		return model.Color{}, false
	}
	return t.textColor(s.Fill, s.ThemeFill, s.ThemeFillTint, s.ThemeFillShade)
}

// highlightColors are the fixed w:highlight palette.
var highlightColors = map[string]model.Color{
	"black":       model.RGB(0x00, 0x00, 0x00),
	"blue":        model.RGB(0x00, 0x00, 0xFF),
	"cyan":        model.RGB(0x00, 0xFF, 0xFF),
	"green":       model.RGB(0x00, 0xFF, 0x00),
	"magenta":     model.RGB(0xFF, 0x00, 0xFF),
	"red":         model.RGB(0xFF, 0x00, 0x00),
	"yellow":      model.RGB(0xFF, 0xFF, 0x00),
	"white":       model.RGB(0xFF, 0xFF, 0xFF),
	"darkBlue":    model.RGB(0x00, 0x00, 0x80),
	"darkCyan":    model.RGB(0x00, 0x80, 0x80),
	"darkGreen":   model.RGB(0x00, 0x80, 0x00),
	"darkMagenta": model.RGB(0x80, 0x00, 0x80),
	"darkRed":     model.RGB(0x80, 0x00, 0x00),
	"darkYellow":  model.RGB(0x80, 0x80, 0x00),
	"darkGray":    model.RGB(0x80, 0x80, 0x80),
	"lightGray":   model.RGB(0xC0, 0xC0, 0xC0),
}
