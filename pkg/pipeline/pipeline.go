// Package pipeline builds displays from scenes and renders them.
//
// A scene goes through two stages:
//
//  1. Build: plan and install the grid, load layers, attach series charts
//     and legends. The result is a [Display] holding the widget root.
//  2. Render: turn the display into SVG, PNG, PDF or terminal text.
//
// Both the CLI and the preview server go through a [Runner], which caches
// reduced series and rendered artifacts:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	d, err := runner.Build(ctx, s, pipeline.Options{})
//	svg, hit, err := runner.Render(ctx, d, pipeline.FormatSVG, pipeline.Options{})
//	err = d.Click(ctx, 0, date) // swap panel 0 to the image taken on date
package pipeline

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/mapvis/pkg/cache"
	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/grid"
	"github.com/matzehuels/mapvis/pkg/observability"
	"github.com/matzehuels/mapvis/pkg/render/svg"
	"github.com/matzehuels/mapvis/pkg/render/term"
	"github.com/matzehuels/mapvis/pkg/scene"
	"github.com/matzehuels/mapvis/pkg/series"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultPNGScale is the rsvg-convert zoom used for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatTXT = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatTXT: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list. Empty input means SVG.
func ParseFormats(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}, nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// =============================================================================
// Options
// =============================================================================

// Options carries defaults that scenes do not set, usually from the config
// file and command-line flags.
type Options struct {
	// Strict turns a grid that cannot fit every panel into a build error.
	Strict bool `toml:"strict"`

	// Series defaults
	Scale       float64 `toml:"scale"`
	ChartWidth  int     `toml:"chart_width"`
	ChartHeight int     `toml:"chart_height"`

	// LegendPosition applies to legends without a position.
	LegendPosition ui.Position `toml:"legend_position"`

	// Render size
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	PNGScale float64 `toml:"png_scale"`
	Columns  int     `toml:"columns"`
	Rows     int     `toml:"rows"`

	// Refresh skips cache lookups but still stores results.
	Refresh bool `toml:"-"`
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Scale <= 0 {
		o.Scale = series.DefaultScale
	}
	if o.ChartWidth <= 0 {
		o.ChartWidth = series.DefaultWidth
	}
	if o.ChartHeight <= 0 {
		o.ChartHeight = series.DefaultHeight
	}
	if !o.LegendPosition.Valid() {
		o.LegendPosition = ui.BottomLeft
	}
	if o.Width <= 0 {
		o.Width = svg.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = svg.DefaultHeight
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Columns <= 0 {
		o.Columns = term.DefaultColumns
	}
	if o.Rows <= 0 {
		o.Rows = term.DefaultRows
	}
}

// ArtifactKeyOpts returns cache key options for a format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Width: o.Width, Height: o.Height}
	if format == FormatPNG {
		opts.Scale = o.PNGScale
	}
	return opts
}

// =============================================================================
// Display
// =============================================================================

// Display is a built scene: the widget root and the handles needed to
// interact with it.
type Display struct {
	Scene       *scene.Scene
	Root        *ui.Root
	Arrangement grid.Arrangement

	// Hash identifies the scene and the content of every file it read.
	Hash string

	// Inspectors by panel index.
	Inspectors map[int]*series.Inspector

	// Warnings are problems that did not stop the build, such as panels
	// dropped from an undersized grid.
	Warnings []error

	Stats Stats
}

// Stats contains build statistics.
type Stats struct {
	Panels    int
	Layers    int
	Legends   int
	Series    int
	BuildTime time.Duration
}

// Click dispatches a chart click on the inspector of panel. A zero date
// clears the selection.
func (d *Display) Click(ctx context.Context, panel int, date time.Time) error {
	in, ok := d.Inspectors[panel]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "panel %d has no series chart", panel)
	}
	err := in.Click(date)
	observability.Pipeline().OnClick(ctx, panel, date, err)
	return err
}

// ClickDay is Click for a calendar day: it selects the first image taken on
// the UTC day of day, whatever its time of day.
func (d *Display) ClickDay(ctx context.Context, panel int, day time.Time) error {
	in, ok := d.Inspectors[panel]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "panel %d has no series chart", panel)
	}
	err := in.ClickDay(day)
	observability.Pipeline().OnClick(ctx, panel, day, err)
	return err
}

// Panels returns the panel indices that have inspectors, in order.
func (d *Display) Panels() []int {
	out := make([]int, 0, len(d.Inspectors))
	for p := range d.Inspectors {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// StateHash identifies what the display currently shows: the scene hash
// plus the date selected on every inspector.
func (d *Display) StateHash() string {
	var b strings.Builder
	b.WriteString(d.Hash)
	for _, p := range d.Panels() {
		sel := d.Inspectors[p].Selected()
		if !sel.IsZero() {
			b.WriteString("|")
			b.WriteString(strconv.FormatInt(sel.UnixMilli(), 10))
		} else {
			b.WriteString("|-")
		}
	}
	return cache.Hash([]byte(b.String()))
}
