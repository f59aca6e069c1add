// Package legend builds map legend panels: a continuous colour ramp for
// stretched rasters, a discrete swatch list for classified rasters, and a
// combiner that lays several legends side by side.
//
// Legends are ordinary ui panels. By default they are returned to the
// caller; the [Plot] option also adds them to a map or display root.
package legend

import (
	"strconv"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/palette"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Defaults shared by all legends.
const (
	DefaultPosition = ui.BottomLeft

	// GradientSteps is the number of colour bands in a gradient ramp.
	GradientSteps = 100
	// Gradient thumbnail size in display pixels.
	GradientWidth  = 20
	GradientHeight = 200

	loadingText = "Loading legend..."
)

// Option configures a legend.
type Option func(*options)

type options struct {
	title    string
	position ui.Position
	target   ui.Container
}

// Title sets the legend heading. The default is empty.
func Title(title string) Option { return func(o *options) { o.title = title } }

// Position anchors the legend inside its map. Unknown positions are ignored.
func Position(p ui.Position) Option {
	return func(o *options) {
		if p.Valid() {
			o.position = p
		}
	}
}

// Plot adds the legend to target once it is built.
func Plot(target ui.Container) Option { return func(o *options) { o.target = target } }

func newOptions(opts []Option) options {
	o := options{position: DefaultPosition}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) plot(p *ui.Panel) *ui.Panel {
	if o.target != nil {
		o.target.Add(p)
	}
	return p
}

// Gradient builds a colour-ramp legend for vis: a title, the maximum value,
// a ramp of [GradientSteps] colours from max (top) to min (bottom), and the
// minimum value. A "bands" entry is dropped when vis sets more than three
// keys; the ramp thumbnail carries the parameters it was drawn with.
// Equal min and max draw a flat ramp in the first palette colour. Only a
// non-finite range or an unknown colour is an error.
func Gradient(vis ui.VisParams, opts ...Option) (*ui.Panel, error) {
	o := newOptions(opts)
	if len(vis.Keys()) > 3 {
		vis = vis.Without(ui.VisBands)
	}

	lo, hi := vis.Range()
	if err := errors.ValidateRange(lo, hi); err != nil {
		return nil, err
	}
	ramp, err := palette.NewRamp(vis.Palette)
	if err != nil {
		return nil, err
	}
	if lo == hi {
		ramp = ramp.Flat()
	}

	legend := ui.NewPanel(ui.Vertical, ui.Style{
		ui.KeyPosition: string(o.position),
		ui.KeyPadding:  "2px 6px",
	})
	legend.Add(ui.NewLabel(o.title, ui.Style{
		ui.KeyFontWeight: "bold",
		ui.KeyFontSize:   "12px",
		ui.KeyMargin:     "0 0 0 0",
		ui.KeyPadding:    "0",
	}))
	legend.Add(valuePanel(hi))
	legend.Add(ui.NewThumbnail(
		palette.Gradient(ramp, GradientWidth, GradientHeight, GradientSteps),
		ui.ThumbnailParams{
			BBox:   [4]float64{0, 0, GradientWidth, GradientSteps},
			Width:  GradientWidth,
			Height: GradientHeight,
			Vis:    vis,
		},
		ui.Style{
			ui.KeyPadding:  "0 0 0 10px",
			ui.KeyPosition: string(ui.BottomCenter),
			ui.KeyMargin:   "0 0 0px 0",
		},
	))
	legend.Add(valuePanel(lo))
	return o.plot(legend), nil
}

func valuePanel(v float64) *ui.Panel {
	return ui.NewPanel(ui.Vertical, ui.Style{
		ui.KeyFontSize: "14px",
		ui.KeyMargin:   "0 0 0px 0",
		ui.KeyPadding:  "0 0 0 6px",
	}, ui.NewLabel(FormatValue(v), nil))
}

// FormatValue renders a legend number in its shortest exact form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Discrete builds a legend with one row per class: a colour swatch followed
// by the class name. names and colors must have the same length.
func Discrete(names, colors []string, opts ...Option) (*ui.Panel, error) {
	o := newOptions(opts)
	if err := errors.ValidateSameLength("names", len(names), "palette", len(colors)); err != nil {
		return nil, err
	}
	hexes := make([]string, len(colors))
	for i, c := range colors {
		h, err := palette.Hex(c)
		if err != nil {
			return nil, err
		}
		hexes[i] = h
	}

	legend := ui.NewPanel(ui.Vertical, ui.Style{
		ui.KeyPosition: string(o.position),
		ui.KeyPadding:  "8px 15px",
	})
	legend.Add(ui.NewLabel(o.title, ui.Style{
		ui.KeyFontWeight: "bold",
		ui.KeyFontSize:   "14px",
		ui.KeyMargin:     "0 0 4px 0",
		ui.KeyPadding:    "0",
	}))

	loading := ui.NewLabel(loadingText, ui.Style{ui.KeyMargin: "2px 0 4px 0"})
	legend.Add(loading)
	// Rows are built synchronously, so the placeholder is hidden at once.
	loading.Style().Set(ui.KeyShown, "false")

	for i, name := range names {
		legend.Add(row(hexes[i], name))
	}
	return o.plot(legend), nil
}

func row(color, name string) *ui.Panel {
	box := ui.NewLabel("", ui.Style{
		ui.KeyBackgroundColor: color,
		ui.KeyMargin:          "0 0 2px 0",
		ui.KeyPadding:         "8px",
	})
	description := ui.NewLabel(name, ui.Style{ui.KeyMargin: "0 0 4px 6px"})
	return ui.NewPanel(ui.Horizontal, nil, box, description)
}

// Combine lays legends out horizontally in one bottom-left panel, adds it to
// target when target is non-nil, and returns it.
func Combine(target ui.Container, legends ...ui.Widget) *ui.Panel {
	p := ui.NewPanel(ui.Horizontal, ui.Style{
		ui.KeyFontSize: "14px",
		ui.KeyMargin:   "0 0 0px 0",
		ui.KeyPadding:  "0 0 0 6px",
		ui.KeyPosition: string(ui.BottomLeft),
	}, legends...)
	if target != nil {
		target.Add(p)
	}
	return p
}
