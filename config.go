package folio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/folio/docx"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/odt"
)

// Config is the YAML configuration file read by LoadConfig. Lengths are in
// points. Every field is optional.
//
//	page:
//	  width: 612
//	  height: 792
//	  margins: {top: 72, right: 72, bottom: 72, left: 72}
//	import:
//	  importer: auto
//	  markers: [BodyText, TOCEntry]
//	  marker_threshold: 1
//	  infer_styles: true
//	  theme_text_color: "1A1A1A"
//	odt:
//	  archiver: native
//	  baseline_styles: [P1, P2]
//	  tab_position: 6.5in
//	styles:
//	  - name: Body Text
//	    font: Georgia
//	    size: 12
type Config struct {
	Page   PageConfig              `yaml:"page"`
	Import ImportConfig            `yaml:"import"`
	ODT    ODTConfig               `yaml:"odt"`
	Styles []model.StyleDefinition `yaml:"styles"`
}

// PageConfig is the page setup for export.
type PageConfig struct {
	Width   float64        `yaml:"width"`
	Height  float64        `yaml:"height"`
	Margins *MarginsConfig `yaml:"margins"`
}

// MarginsConfig holds the four page margins.
type MarginsConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// ImportConfig configures DOCX import.
type ImportConfig struct {
	Importer          string       `yaml:"importer"`
	Markers           []string     `yaml:"markers"`
	MarkerThreshold   int          `yaml:"marker_threshold"`
	InferStyles       *bool        `yaml:"infer_styles"`
	MinInferenceScore int          `yaml:"min_inference_score"`
	ThemeTextColor    *model.Color `yaml:"theme_text_color"`
}

// ODTConfig configures ODT leader postprocessing.
type ODTConfig struct {
	Archiver       string   `yaml:"archiver"` // "exec" (default) or "native"
	Unzip          string   `yaml:"unzip"`
	Zip            string   `yaml:"zip"`
	BaselineStyles []string `yaml:"baseline_styles"`
	TabPosition    string   `yaml:"tab_position"`
	TempDir        string   `yaml:"temp_dir"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Codec builds a Codec from the configuration. Unset fields keep the
// defaults of New; an empty style list keeps the built-in catalog.
func (cfg *Config) Codec() (*Codec, error) {
	c := New()

	if len(cfg.Styles) > 0 {
		catalog := model.NewCatalog()
		for i, s := range cfg.Styles {
			if s.Name == "" {
				return nil, fmt.Errorf("config: style %d has no name", i)
			}
			catalog.Add(s)
		}
		c = c.Styles(catalog)
	}

	if p := cfg.Page; p.Width > 0 || p.Height > 0 {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("config: page needs both width and height")
		}
		c = c.PageSize(p.Width, p.Height)
	}
	if m := cfg.Page.Margins; m != nil {
		c = c.Margins(m.Top, m.Right, m.Bottom, m.Left)
	}

	imp := cfg.Import
	if imp.Importer != "" {
		i, err := docx.ParseImporter(imp.Importer)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		c = c.Importer(i)
	}
	if imp.Markers != nil {
		c = c.Markers(imp.Markers...)
	}
	if imp.MarkerThreshold > 0 {
		c = c.MarkerThreshold(imp.MarkerThreshold)
	}
	if imp.InferStyles != nil && !*imp.InferStyles {
		c = c.DisableStyleInference()
	}
	if imp.MinInferenceScore > 0 {
		c = c.MinInferenceScore(imp.MinInferenceScore)
	}
	if imp.ThemeTextColor != nil {
		c = c.ThemeTextColor(*imp.ThemeTextColor)
	}

	o := cfg.ODT
	switch o.Archiver {
	case "", "exec":
		if o.Unzip != "" || o.Zip != "" {
			c = c.ODTArchiver(odt.ExecArchiver{Unzip: o.Unzip, Zip: o.Zip})
		}
	case "native":
		c = c.ODTArchiver(odt.NativeArchiver{})
	default:
		return nil, fmt.Errorf("config: unknown odt archiver %q", o.Archiver)
	}
	if o.BaselineStyles != nil {
		c = c.BaselineStyles(o.BaselineStyles...)
	}
	if o.TabPosition != "" {
		c = c.TabPosition(o.TabPosition)
	}
	if o.TempDir != "" {
		c = c.TempDir(o.TempDir)
	}
	return c, nil
}
