package render

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/mapvis/pkg/ui"
)

// View returns the geographic extent shown by m: the union of its shown
// layer footprints, or an empty bound when it has none.
func View(m *ui.Map) orb.Bound {
	var view orb.Bound
	first := true
	for _, l := range m.Layers() {
		if !l.Shown || l.Source == nil {
			continue
		}
		if first {
			view = l.Source.Footprint()
			first = false
			continue
		}
		view = view.Union(l.Source.Footprint())
	}
	return view
}

// Project maps a geographic bound inside view onto rect. North is up.
// An empty view maps everything onto rect.
func Project(b, view orb.Bound, rect Rect) Rect {
	vw, vh := view.Max[0]-view.Min[0], view.Max[1]-view.Min[1]
	if vw <= 0 || vh <= 0 {
		return rect
	}
	sx, sy := rect.W/vw, rect.H/vh
	return Rect{
		X: rect.X + (b.Min[0]-view.Min[0])*sx,
		Y: rect.Y + (view.Max[1]-b.Max[1])*sy,
		W: (b.Max[0] - b.Min[0]) * sx,
		H: (b.Max[1] - b.Min[1]) * sy,
	}
}
