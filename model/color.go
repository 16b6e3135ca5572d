package model

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is an RGBA color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// Common colors.
var (
	Black = RGB(0, 0, 0)
	White = RGB(0xff, 0xff, 0xff)
)

// ParseHex parses "RRGGBB" or "#RRGGBB" into an opaque color. It reports
// false for "auto", empty strings and malformed input.
func ParseHex(s string) (Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// Hex returns the color as upper-case "RRGGBB", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Alpha returns the opacity in [0, 1].
func (c Color) Alpha() float64 {
	return float64(c.A) / 255
}

// Luminance returns the perceived brightness in [0, 1] using Rec. 709
// weights on the gamma-encoded channels.
func (c Color) Luminance() float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

// Mix interpolates linearly from c toward other; t=0 yields c, t=1 yields
// other. Alpha is taken from c.
func (c Color) Mix(other Color, t float64) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return Color{R: other.R, G: other.G, B: other.B, A: c.A}
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Color{R: lerp(c.R, other.R), G: lerp(c.G, other.G), B: lerp(c.B, other.B), A: c.A}
}

// MarshalYAML writes the color as a hex string.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// UnmarshalYAML reads a hex string.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	parsed, ok := ParseHex(value.Value)
	if !ok {
		return fmt.Errorf("model: invalid color %q at line %d", value.Value, value.Line)
	}
	*c = parsed
	return nil
}
