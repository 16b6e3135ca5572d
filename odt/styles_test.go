package odt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectTabStop(t *testing.T) {
	stop := tabStopElement(DefaultTabPosition)
	stops := "<style:tab-stops>" + stop + "</style:tab-stops>"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"existing tab stops",
			`<style:style style:name="P4" style:family="paragraph"><style:paragraph-properties><style:tab-stops><style:tab-stop style:position="1in"/></style:tab-stops></style:paragraph-properties></style:style>`,
			`<style:style style:name="P4" style:family="paragraph"><style:paragraph-properties><style:tab-stops><style:tab-stop style:position="1in"/>` + stop + `</style:tab-stops></style:paragraph-properties></style:style>`,
		},
		{
			"empty tab stops",
			`<style:style style:name="P4" style:family="paragraph"><style:paragraph-properties><style:tab-stops/></style:paragraph-properties></style:style>`,
			`<style:style style:name="P4" style:family="paragraph"><style:paragraph-properties>` + stops + `</style:paragraph-properties></style:style>`,
		},
		{
			"self-closing paragraph properties",
			`<style:style style:name="P3" style:family="paragraph"><style:paragraph-properties fo:margin-left="0in"/></style:style>`,
			`<style:style style:name="P3" style:family="paragraph"><style:paragraph-properties fo:margin-left="0in">` + stops + `</style:paragraph-properties></style:style>`,
		},
		{
			"closing paragraph properties tag",
			`<style:style style:name="P5" style:family="paragraph"><style:paragraph-properties fo:text-align="start"></style:paragraph-properties></style:style>`,
			`<style:style style:name="P5" style:family="paragraph"><style:paragraph-properties fo:text-align="start">` + stops + `</style:paragraph-properties></style:style>`,
		},
		{
			"no paragraph properties",
			`<style:style style:name="P6" style:family="paragraph"><style:text-properties fo:font-weight="bold"/></style:style>`,
			`<style:style style:name="P6" style:family="paragraph"><style:paragraph-properties>` + stops + `</style:paragraph-properties><style:text-properties fo:font-weight="bold"/></style:style>`,
		},
		{
			"self-closing style",
			`<style:style style:name="P1" style:family="paragraph" style:parent-style-name="Standard"/>`,
			`<style:style style:name="P1" style:family="paragraph" style:parent-style-name="Standard"><style:paragraph-properties>` + stops + `</style:paragraph-properties></style:style>`,
		},
		{
			"already patched",
			`<style:style style:name="P2" style:family="paragraph"><style:paragraph-properties>` + stops + `</style:paragraph-properties></style:style>`,
			`<style:style style:name="P2" style:family="paragraph"><style:paragraph-properties>` + stops + `</style:paragraph-properties></style:style>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, injectTabStop(tt.in, stop))
		})
	}
}

func TestInjectTabStops_OnlyNamedStyles(t *testing.T) {
	content := `<style:style style:name="P1" style:family="paragraph"/>` +
		`<style:style style:name="P10" style:family="paragraph"/>` +
		`<style:style style:name="P2" style:family="paragraph" style:parent-style-name="P1"><style:text-properties/></style:style>`

	out, patched := injectTabStops(content, []string{"P1", "P9"}, "5in")
	assert.Equal(t, []string{"P1"}, patched)

	stops := "<style:tab-stops>" + tabStopElement("5in") + "</style:tab-stops>"
	assert.Equal(t,
		`<style:style style:name="P1" style:family="paragraph"><style:paragraph-properties>`+stops+`</style:paragraph-properties></style:style>`+
			`<style:style style:name="P10" style:family="paragraph"/>`+
			`<style:style style:name="P2" style:family="paragraph" style:parent-style-name="P1"><style:text-properties/></style:style>`,
		out)

	again, patched := injectTabStops(out, []string{"P1"}, "5in")
	assert.Equal(t, out, again)
	assert.Empty(t, patched)
}

func TestTabStopElement(t *testing.T) {
	assert.Equal(t,
		`<style:tab-stop style:position="6.5in" style:type="right" style:leader-style="dotted" style:leader-text="."/>`,
		tabStopElement("6.5in"))
}
