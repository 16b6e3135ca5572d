package odt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLeaderLine(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Chapter One..........12", true},
		{"Chapter One .......... 12", true},
		{"Preface ....... ix", true},
		{"Appendix····· 204", true},
		{"Notes~~~~~99 ", true},
		{"Index\u00a0\u00a0\u00a0\u00a0310", true},
		{"Index    310", false},
		{"Chapter One..12", false},
		{"Chapter One..........", false},
		{"..........12", false},
		{"Wait... what 12", false},
		{"Chapter One\t12", false},
		{"Plain sentence.", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, isLeaderLine(tt.text))
		})
	}
}

func TestConvertLeaderRuns(t *testing.T) {
	styles := map[string]bool{"P3": true}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare text",
			`<text:p text:style-name="P3">Chapter One..........12</text:p>`,
			`<text:p text:style-name="P3">Chapter One<text:tab/>12</text:p>`,
		},
		{
			"spaced leader",
			`<text:p text:style-name="P3">Chapter One .......... 12</text:p>`,
			`<text:p text:style-name="P3">Chapter One<text:tab/>12</text:p>`,
		},
		{
			"span wrapped",
			`<text:p text:style-name="P3"><text:span text:style-name="T1">Chapter Two·····7</text:span></text:p>`,
			`<text:p text:style-name="P3"><text:span text:style-name="T1">Chapter Two<text:tab/>7</text:span></text:p>`,
		},
		{
			"number in its own span",
			`<text:p text:style-name="P3"><text:span text:style-name="T1">Preface</text:span> ....... <text:span text:style-name="T2">ix</text:span></text:p>`,
			`<text:p text:style-name="P3"><text:span text:style-name="T1">Preface</text:span><text:tab/><text:span text:style-name="T2">ix</text:span></text:p>`,
		},
		{
			"heading",
			`<text:h text:style-name="P3" text:outline-level="2">Part I.....3</text:h>`,
			`<text:h text:style-name="P3" text:outline-level="2">Part I<text:tab/>3</text:h>`,
		},
		{
			"other style untouched",
			`<text:p text:style-name="P9">Chapter One..........12</text:p>`,
			`<text:p text:style-name="P9">Chapter One..........12</text:p>`,
		},
		{
			"already tabbed",
			`<text:p text:style-name="P3">Chapter One<text:tab/>12 ....... 4</text:p>`,
			`<text:p text:style-name="P3">Chapter One<text:tab/>12 ....... 4</text:p>`,
		},
		{
			"not a leader line",
			`<text:p text:style-name="P3">Wait... what</text:p>`,
			`<text:p text:style-name="P3">Wait... what</text:p>`,
		},
		{
			"empty paragraph not swallowed",
			`<text:p text:style-name="P3"/><text:p text:style-name="P9">Intro.....1</text:p>`,
			`<text:p text:style-name="P3"/><text:p text:style-name="P9">Intro.....1</text:p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := convertLeaderRuns(tt.in, styles)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConvertLeaderRuns_Count(t *testing.T) {
	in := `<text:p text:style-name="P3">One.....1</text:p>` +
		`<text:p text:style-name="P3">Two.....2</text:p>` +
		`<text:p text:style-name="P3">Body text</text:p>`
	_, n := convertLeaderRuns(in, map[string]bool{"P3": true})
	assert.Equal(t, 2, n)
}
