package ui

import (
	"slices"
	"time"
)

// ChartPoint is one sample of a series.
type ChartPoint struct {
	X time.Time
	Y float64
}

// ChartSeries is a named sequence of points ordered by X.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartClick describes a click on a chart. A zero X means the selection was
// cleared.
type ChartClick struct {
	X      time.Time
	Y      float64
	Series string
}

// ClickHandler reacts to chart clicks.
type ClickHandler func(ChartClick) error

// Chart is a time-series chart widget.
type Chart struct {
	Title    string
	Series   []ChartSeries
	handlers []ClickHandler
	style    Style
}

// NewChart creates a chart over the given series.
func NewChart(series []ChartSeries, style Style) *Chart {
	return &Chart{Series: series, style: style.Clone()}
}

func (c *Chart) Kind() Kind   { return KindChart }
func (c *Chart) Style() Style { return c.style }

// SetTitle replaces the chart title.
func (c *Chart) SetTitle(title string) { c.Title = title }

// OnClick registers a click handler. Handlers run in registration order.
func (c *Chart) OnClick(h ClickHandler) {
	c.handlers = append(c.handlers, h)
}

// Click dispatches a click to every handler, stopping at the first error.
func (c *Chart) Click(click ChartClick) error {
	for _, h := range c.handlers {
		if err := h(click); err != nil {
			return err
		}
	}
	return nil
}

// Dates returns the distinct X values of all series in ascending order.
func (c *Chart) Dates() []time.Time {
	seen := make(map[int64]bool)
	var out []time.Time
	for _, s := range c.Series {
		for _, p := range s.Points {
			k := p.X.UnixMilli()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, p.X)
		}
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}
