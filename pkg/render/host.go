package render

import "github.com/matzehuels/mapvis/pkg/ui"

// Rect is an axis-aligned rectangle in display pixels.
type Rect struct {
	X, Y, W, H float64
}

// Inset shrinks r by the given insets, never below zero size.
func (r Rect) Inset(in Insets) Rect {
	out := Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: r.W - in.Left - in.Right,
		H: r.H - in.Top - in.Bottom,
	}
	out.W = max(out.W, 0)
	out.H = max(out.H, 0)
	return out
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Host draws individual widgets. The compositor calls RenderMap once per map
// before its layers, then RenderLayer for each shown layer bottom to top,
// then one of the overlay methods for every visible widget on the map.
type Host interface {
	RenderMap(m *ui.Map, r Rect) error
	RenderLayer(m *ui.Map, l *ui.Layer, r Rect) error
	RenderChart(c *ui.Chart, r Rect) error
	RenderLegendPanel(p *ui.Panel, r Rect) error
	RenderLabel(l *ui.Label, r Rect) error
}
