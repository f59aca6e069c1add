// Package series attaches a click-to-inspect time-series chart to a map.
//
// [Attach] shows the first image of a collection on a map, charts the
// region-reduced value of every band over time, and wires the chart so that
// clicking a date swaps the map layer to the image taken on that date:
//
//	label := ui.NewLabel("", nil)
//	m.Add(label)
//	in, err := series.Attach(m, coll, vis, "NDVI", region, series.WithLabel(label))
//	// later, from a host click event:
//	err = in.Click(date)
package series

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/imagery"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Defaults for attached charts.
const (
	// DefaultScale is the sampling distance in projected map units.
	DefaultScale = 2000.0
	// DefaultWidth and DefaultHeight are the chart size in display pixels.
	DefaultWidth  = 500
	DefaultHeight = 300

	// DateLayout formats the date shown in the optional label.
	DateLayout = "2006-01-02"
	// TitleLayout formats the chart title after a click, in UTC.
	TitleLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// Option configures [Attach].
type Option func(*options)

type options struct {
	label   *ui.Label
	scale   float64
	reducer imagery.Reducer
	width   int
	height  int
	data    []ui.ChartSeries
}

// WithLabel sets a label that shows the clicked date.
func WithLabel(l *ui.Label) Option { return func(o *options) { o.label = l } }

// WithScale sets the sampling distance. Non-positive values keep the default.
func WithScale(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.scale = scale
		}
	}
}

// WithReducer sets how samples inside the region are summarized.
func WithReducer(r imagery.Reducer) Option {
	return func(o *options) {
		if r != nil {
			o.reducer = r
		}
	}
}

// WithSize sets the chart size in display pixels. Non-positive values keep
// the defaults.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// WithData supplies precomputed series, for example from a cache, so the
// region is not sampled again.
func WithData(data []ui.ChartSeries) Option { return func(o *options) { o.data = data } }

// Inspector connects a chart to the map it controls.
type Inspector struct {
	Map        *ui.Map
	Chart      *ui.Chart
	Label      *ui.Label
	Collection *imagery.Collection
	Vis        ui.VisParams
	Name       string

	selected time.Time
}

// Attach adds the collection's first image as a layer on m, builds the
// region time series, overlays the chart at the bottom right of m, and
// registers the click handler.
func Attach(m *ui.Map, coll *imagery.Collection, vis ui.VisParams, name string, region orb.Geometry, opts ...Option) (*Inspector, error) {
	o := options{
		scale:   DefaultScale,
		reducer: imagery.Mean,
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}

	first, err := coll.First()
	if err != nil {
		return nil, err
	}
	m.AddLayer(ui.NewLayer(first, vis, name))

	data := o.data
	if data == nil {
		if data, err = imagery.Series(coll, region, o.reducer, o.scale); err != nil {
			return nil, err
		}
	}
	chart := ui.NewChart(data, ui.Style{
		ui.KeyPosition: string(ui.BottomRight),
		ui.KeyWidth:    fmt.Sprintf("%dpx", o.width),
		ui.KeyHeight:   fmt.Sprintf("%dpx", o.height),
	})

	in := &Inspector{
		Map:        m,
		Chart:      chart,
		Label:      o.label,
		Collection: coll,
		Vis:        vis,
		Name:       name,
	}
	chart.OnClick(in.handle)
	m.Add(chart)
	return in, nil
}

// Click simulates a click on the chart at date x. A zero x clears the
// selection and changes nothing.
func (in *Inspector) Click(x time.Time) error {
	return in.Chart.Click(ui.ChartClick{X: x})
}

// ClickDay clicks the first image date on the UTC calendar day of day.
// Front ends that list dates as days use it instead of Click.
func (in *Inspector) ClickDay(day time.Time) error {
	if day.IsZero() {
		return in.Click(day)
	}
	x, ok := in.Collection.DateOn(day)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no image on %s", day.UTC().Format(DateLayout))
	}
	return in.Click(x)
}

// Selected returns the last clicked date, or the zero time.
func (in *Inspector) Selected() time.Time { return in.selected }

// Dates returns the dates that can be clicked.
func (in *Inspector) Dates() []time.Time { return in.Collection.Dates() }

func (in *Inspector) handle(click ui.ChartClick) error {
	if click.X.IsZero() {
		return nil
	}
	x := click.X.UTC()

	img, err := in.Collection.FilterDate(x).First()
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, err, "no image at %s", x.Format(time.RFC3339))
	}

	in.Chart.SetTitle(x.Format(TitleLayout))
	in.Map.ResetLayers(ui.NewLayer(img, in.Vis, in.Name))
	if in.Label != nil {
		in.Label.SetValue(x.Format(DateLayout))
	}
	in.selected = x
	return nil
}
