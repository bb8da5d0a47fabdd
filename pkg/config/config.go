// Package config loads and validates the YAML run configuration.
//
// Resolution is two-tier: a template file holds the defaults and the
// active file overrides it. A missing active file is bootstrapped as a
// copy of the template so a fresh checkout works out of the box.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/kingbosman/card-print/pkg/canvas"
	"github.com/kingbosman/card-print/pkg/geom"
)

var (
	ErrMissing = errors.New("configuration file not found")
	ErrInvalid = errors.New("invalid configuration")
)

// Default paths relative to the working directory.
const (
	ActivePath   = "config/current.yaml"
	TemplatePath = "config/default.yaml"
)

type Config struct {
	Output Output `json:"output"`
	Images Images `json:"images"`
	Paper  Paper  `json:"paper"`
	Card   Card   `json:"card"`
	Marks  Marks  `json:"marks"`
	Guides Guides `json:"guides"`
}

type Output struct {
	// File selects the format by extension: .pdf writes one multi-page
	// document, .png writes one file per page with a _N suffix.
	File string `json:"file"`
	Dir  string `json:"dir"`
}

type Images struct {
	Folder string `json:"folder"`
}

type Paper struct {
	WidthMM     float64 `json:"widthMm"`
	HeightMM    float64 `json:"heightMm"`
	Orientation string  `json:"orientation"`
	DPI         float64 `json:"dpi"`
}

type Card struct {
	WidthMM  float64 `json:"widthMm"`
	HeightMM float64 `json:"heightMm"`
	Columns  int     `json:"columns"`
	Rows     int     `json:"rows"`
	GapMM    float64 `json:"gapMm"`
	MarginMM float64 `json:"marginMm"`
}

type Marks struct {
	GapMM    float64 `json:"gapMm"`
	LengthMM float64 `json:"lengthMm"`
	WidthPx  int     `json:"widthPx"`
	Color    string  `json:"color"`
}

type Guides struct {
	Enabled bool   `json:"enabled"`
	WidthPx int    `json:"widthPx"`
	Color   string `json:"color"`
}

// Default returns the compiled-in configuration: letter paper in
// landscape at 300dpi with a 4x2 grid of standard 63x88mm cards.
func Default() Config {
	return Config{
		Output: Output{File: "sheet.png", Dir: "outputs"},
		Images: Images{Folder: "cards"},
		Paper:  Paper{WidthMM: 279.4, HeightMM: 215.9, Orientation: "landscape", DPI: 300},
		Card:   Card{WidthMM: 63, HeightMM: 88, Columns: 4, Rows: 2},
		Marks:  Marks{GapMM: 1, LengthMM: 3, WidthPx: 2, Color: "#1e1e1e"},
		Guides: Guides{Enabled: false, WidthPx: 1, Color: "#c8c8c8"},
	}
}

// Load reads one configuration file over the compiled defaults and
// validates it eagerly, before any rendering work starts.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve loads the active configuration, creating it from the template
// first if it does not exist yet. The returned bool reports whether the
// bootstrap copy happened.
func Resolve(activePath, templatePath string) (*Config, bool, error) {
	copied := false
	if _, err := os.Stat(activePath); os.IsNotExist(err) {
		if _, terr := os.Stat(templatePath); terr != nil {
			return nil, false, fmt.Errorf("%w: searched %s and %s", ErrMissing, activePath, templatePath)
		}
		if err := copyFile(templatePath, activePath); err != nil {
			return nil, false, fmt.Errorf("bootstrap %s: %w", activePath, err)
		}
		copied = true
	}
	cfg, err := Load(activePath)
	return cfg, copied, err
}

func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}

// Validate checks every field before the run starts. Errors name the
// offending key so a bad config is fixable without reading source.
func (c *Config) Validate() error {
	fail := func(key, format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalid, key, fmt.Sprintf(format, args...))
	}

	ext := strings.ToLower(filepath.Ext(c.Output.File))
	if c.Output.File == "" || (ext != ".png" && ext != ".pdf") {
		return fail("output.file", "%q must end in .png or .pdf", c.Output.File)
	}
	if c.Images.Folder == "" {
		return fail("images.folder", "must not be empty")
	}
	if c.Paper.WidthMM <= 0 || c.Paper.HeightMM <= 0 {
		return fail("paper", "size %gx%gmm must be positive", c.Paper.WidthMM, c.Paper.HeightMM)
	}
	if c.Paper.DPI <= 0 {
		return fail("paper.dpi", "%g must be positive", c.Paper.DPI)
	}
	switch geom.Orientation(c.Paper.Orientation) {
	case geom.Portrait, geom.Landscape:
	default:
		return fail("paper.orientation", "%q must be portrait or landscape", c.Paper.Orientation)
	}
	if c.Card.WidthMM <= 0 || c.Card.HeightMM <= 0 {
		return fail("card", "size %gx%gmm must be positive", c.Card.WidthMM, c.Card.HeightMM)
	}
	if c.Card.Columns < 1 || c.Card.Rows < 1 {
		return fail("card", "grid %dx%d needs at least one column and row", c.Card.Columns, c.Card.Rows)
	}
	if c.Card.GapMM < 0 {
		return fail("card.gapMm", "%g must not be negative", c.Card.GapMM)
	}
	if c.Card.MarginMM < 0 {
		return fail("card.marginMm", "%g must not be negative", c.Card.MarginMM)
	}
	if c.Marks.GapMM < 0 || c.Marks.LengthMM < 0 {
		return fail("marks", "gap %gmm and length %gmm must not be negative", c.Marks.GapMM, c.Marks.LengthMM)
	}
	if c.Marks.WidthPx < 1 {
		return fail("marks.widthPx", "%d must be at least 1", c.Marks.WidthPx)
	}
	if _, err := canvas.Hex(c.Marks.Color); err != nil {
		return fail("marks.color", "%v", err)
	}
	if c.Guides.WidthPx < 1 {
		return fail("guides.widthPx", "%d must be at least 1", c.Guides.WidthPx)
	}
	if _, err := canvas.Hex(c.Guides.Color); err != nil {
		return fail("guides.color", "%v", err)
	}
	return nil
}

// PageSpec builds the geometry spec for the paper.
func (c *Config) PageSpec() geom.PageSpec {
	return geom.PageSpec{
		WidthMM:     c.Paper.WidthMM,
		HeightMM:    c.Paper.HeightMM,
		DPI:         c.Paper.DPI,
		Orientation: geom.Orientation(c.Paper.Orientation),
	}
}

// CardSpec builds the geometry spec for the card grid.
func (c *Config) CardSpec() geom.CardSpec {
	return geom.CardSpec{
		WidthMM:  c.Card.WidthMM,
		HeightMM: c.Card.HeightMM,
		Columns:  c.Card.Columns,
		Rows:     c.Card.Rows,
		GapMM:    c.Card.GapMM,
		MarginMM: c.Card.MarginMM,
	}
}

// MarkSpec builds the cut-mark spec. Call after Validate; color strings
// are known to parse.
func (c *Config) MarkSpec() geom.MarkSpec {
	col, _ := canvas.Hex(c.Marks.Color)
	return geom.MarkSpec{
		GapMM:    c.Marks.GapMM,
		LengthMM: c.Marks.LengthMM,
		WidthPx:  c.Marks.WidthPx,
		Color:    col,
	}
}

// GuideSpec builds the guide-line spec.
func (c *Config) GuideSpec() geom.GuideSpec {
	col, _ := canvas.Hex(c.Guides.Color)
	return geom.GuideSpec{
		Enabled: c.Guides.Enabled,
		WidthPx: c.Guides.WidthPx,
		Color:   col,
	}
}
