package imagery

import (
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
)

// Field computes a band value at a map location and time.
type Field func(pt orb.Point, t time.Time) float64

// Synthesize builds a collection with one image per date, evaluating field at
// each pixel centre. It is used by the demo scene and by tests.
func Synthesize(bounds orb.Bound, width, height int, dates []time.Time, band string, field Field) (*Collection, error) {
	images := make([]*Image, 0, len(dates))
	dx := (bounds.Max[0] - bounds.Min[0]) / float64(width)
	dy := (bounds.Max[1] - bounds.Min[1]) / float64(height)

	for i, date := range dates {
		img, err := NewImage(fmt.Sprintf("%s_%03d", band, i), date, bounds, width, height)
		if err != nil {
			return nil, err
		}
		values := make([]float64, width*height)
		for row := 0; row < height; row++ {
			y := bounds.Max[1] - (float64(row)+0.5)*dy
			for col := 0; col < width; col++ {
				x := bounds.Min[0] + (float64(col)+0.5)*dx
				values[row*width+col] = field(orb.Point{x, y}, date)
			}
		}
		if err := img.SetBand(band, values); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return NewCollection(images...), nil
}

// Monthly returns n dates one month apart starting at start.
func Monthly(start time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, i, 0).UTC()
	}
	return dates
}

// Seasonal returns a field that oscillates once a year around base with the
// given amplitude, peaking in mid-July. The phase drifts west to east across
// bounds so that neighbouring pixels differ.
func Seasonal(bounds orb.Bound, base, amplitude float64) Field {
	width := bounds.Max[0] - bounds.Min[0]
	return func(pt orb.Point, t time.Time) float64 {
		shift := 0.0
		if width > 0 {
			shift = (pt[0] - bounds.Min[0]) / width * 0.5
		}
		phase := (float64(t.YearDay())-196)/365*2*math.Pi + shift
		return base + amplitude*math.Cos(phase)
	}
}
