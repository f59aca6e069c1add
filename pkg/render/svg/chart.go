package svg

import (
	"bytes"
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Chart renders c as an SVG fragment of the given size. Series with a single
// point are widened to a short segment so go-chart accepts them. A chart with
// no points renders as an empty frame with its title.
func Chart(c *ui.Chart, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "chart size %dx%d is empty", width, height)
	}

	series, lo, hi := chartSeries(c)
	if len(series) == 0 {
		return emptyChart(c.Title, width, height), nil
	}

	ch := chart.Chart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 10}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series:     series,
	}
	if lo == hi {
		ch.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render chart")
	}
	return buf.Bytes(), nil
}

func chartSeries(c *ui.Chart) ([]chart.Series, float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	var out []chart.Series
	for i, s := range c.Series {
		var xs []time.Time
		var ys []float64
		for _, p := range s.Points {
			if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
				continue
			}
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			lo, hi = math.Min(lo, p.Y), math.Max(hi, p.Y)
		}
		if len(xs) == 0 {
			continue
		}
		if len(xs) == 1 {
			xs = append(xs, xs[0].Add(time.Hour))
			ys = append(ys, ys[0])
		}
		color := chart.GetDefaultColor(i)
		out = append(out, chart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}
	return out, lo, hi
}

func emptyChart(title string, width, height int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, width, height)
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%d" height="%d" fill="#ffffff" stroke="%s"/>`, width, height, mapBorder)
	fmt.Fprintf(&buf, `<text x="%d" y="20" font-size="12" text-anchor="middle" fill="%s">%s</text>`, width/2, textColor, EscapeXML(title))
	fmt.Fprintf(&buf, `<text x="%d" y="%d" font-size="11" text-anchor="middle" fill="#888888">no data</text>`, width/2, height/2)
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}
