package imagery

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// maxSamples bounds the sampling lattice per image; finer scales are
// coarsened to stay under it.
const maxSamples = 250_000

// Series reduces each band of each image over region. It returns one series
// per band, with points in image order; images that yield no value for a band
// are skipped in that band's series.
func Series(c *Collection, region orb.Geometry, reducer Reducer, scale float64) ([]ui.ChartSeries, error) {
	if region == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "region is required")
	}
	if err := errors.ValidatePositive("scale", scale); err != nil {
		return nil, err
	}
	if reducer == nil {
		reducer = Mean
	}

	points := SamplePoints(region, scale)
	bands := c.BandNames()
	out := make([]ui.ChartSeries, 0, len(bands))
	for _, band := range bands {
		s := ui.ChartSeries{Name: band}
		for _, img := range c.images {
			values := make([]float64, 0, len(points))
			for _, pt := range points {
				if v, ok := img.Sample(band, pt); ok {
					values = append(values, v)
				}
			}
			if v, ok := reducer.Reduce(values); ok {
				s.Points = append(s.Points, ui.ChartPoint{X: img.TimeStart, Y: v})
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// SamplePoints returns lattice points spaced scale apart that fall inside
// region. When none do, the centre of the region's bounds is returned so
// that small regions still produce a sample.
func SamplePoints(region orb.Geometry, scale float64) []orb.Point {
	if p, ok := region.(orb.Point); ok {
		return []orb.Point{p}
	}

	b := region.Bound()
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if n := (w / scale) * (h / scale); n > maxSamples {
		scale *= math.Sqrt(n / maxSamples)
	}

	var pts []orb.Point
	for y := b.Min[1] + scale/2; y < b.Max[1]; y += scale {
		for x := b.Min[0] + scale/2; x < b.Max[0]; x += scale {
			pt := orb.Point{x, y}
			if contains(region, pt) {
				pts = append(pts, pt)
			}
		}
	}
	if len(pts) == 0 {
		pts = append(pts, b.Center())
	}
	return pts
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch g := g.(type) {
	case orb.Bound:
		return g.Contains(pt)
	case orb.Ring:
		return planar.RingContains(g, pt)
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	case orb.Collection:
		for _, sub := range g {
			if contains(sub, pt) {
				return true
			}
		}
		return false
	default:
		return g.Bound().Contains(pt)
	}
}
