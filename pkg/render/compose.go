package render

import (
	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// OverlayMargin is the gap between an overlay and the edge of its map.
const OverlayMargin = 8.0

// Compose lays out every widget of root inside bounds and draws it through h.
// Top-level widgets without a position share bounds vertically. Widgets with
// a position are overlays and are anchored inside the rectangle of their
// parent.
func Compose(root *ui.Root, bounds Rect, h Host) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "root is required")
	}
	if bounds.Empty() {
		return errors.New(errors.ErrCodeInvalidInput, "render area %.0fx%.0f is empty", bounds.W, bounds.H)
	}
	return compose(ui.NewPanel(ui.Vertical, nil, root.Widgets()...), bounds, h)
}

func compose(w ui.Widget, r Rect, h Host) error {
	if !w.Style().Shown() || r.Empty() {
		return nil
	}
	switch w := w.(type) {
	case *ui.Map:
		return composeMap(w, r, h)
	case *ui.Panel:
		if isFlowContainer(w) {
			return composePanel(w, r, h)
		}
		return h.RenderLegendPanel(w, r)
	case *ui.Chart:
		return h.RenderChart(w, r)
	case *ui.Label:
		return h.RenderLabel(w, r)
	case *ui.Thumbnail:
		return h.RenderLegendPanel(ui.NewPanel(ui.Vertical, nil, w), r)
	}
	return errors.New(errors.ErrCodeUnsupported, "cannot render widget of kind %q", w.Kind())
}

// isFlowContainer reports whether p holds maps or stretched children, as
// grid panels do, rather than being a self-contained legend.
func isFlowContainer(p *ui.Panel) bool {
	if p.Style().Get(ui.KeyStretch) != "" {
		return true
	}
	for _, c := range p.Widgets() {
		switch c := c.(type) {
		case *ui.Map:
			return true
		case *ui.Panel:
			if isFlowContainer(c) {
				return true
			}
		}
	}
	return false
}

func stretches(w ui.Widget) bool {
	if _, ok := w.(*ui.Map); ok {
		return true
	}
	if p, ok := w.(*ui.Panel); ok {
		return isFlowContainer(p)
	}
	return w.Style().Get(ui.KeyStretch) != ""
}

func composePanel(p *ui.Panel, r Rect, h Host) error {
	inner := r.Inset(Padding(p.Style()))
	horizontal := p.Layout == ui.Horizontal

	var flowing, overlays []ui.Widget
	for _, c := range p.Widgets() {
		if !c.Style().Shown() {
			continue
		}
		if c.Style().Position() != "" {
			overlays = append(overlays, c)
		} else {
			flowing = append(flowing, c)
		}
	}

	// Fixed children take their natural size; stretched children share the rest.
	var fixed float64
	var nstretch int
	for _, c := range flowing {
		if stretches(c) {
			nstretch++
			continue
		}
		s := Measure(c)
		if horizontal {
			fixed += s.W
		} else {
			fixed += s.H
		}
	}
	total := inner.H
	if horizontal {
		total = inner.W
	}
	share := 0.0
	if nstretch > 0 {
		share = max(total-fixed, 0) / float64(nstretch)
	}

	offset := 0.0
	for _, c := range flowing {
		extent := share
		if !stretches(c) {
			s := Measure(c)
			extent = s.H
			if horizontal {
				extent = s.W
			}
		}
		cr := Rect{X: inner.X, Y: inner.Y + offset, W: inner.W, H: extent}
		if horizontal {
			cr = Rect{X: inner.X + offset, Y: inner.Y, W: extent, H: inner.H}
		}
		if err := compose(c, cr, h); err != nil {
			return err
		}
		offset += extent
	}
	return composeOverlays(overlays, inner, h)
}

func composeMap(m *ui.Map, r Rect, h Host) error {
	if err := h.RenderMap(m, r); err != nil {
		return err
	}
	for _, l := range m.Layers() {
		if !l.Shown {
			continue
		}
		if err := h.RenderLayer(m, l, r); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render layer %q", l.Name)
		}
	}
	var overlays []ui.Widget
	for _, w := range m.Widgets() {
		if w.Style().Shown() {
			overlays = append(overlays, w)
		}
	}
	return composeOverlays(overlays, r, h)
}

// composeOverlays anchors widgets inside r by position. Widgets sharing a
// position stack away from the anchored edge in insertion order.
func composeOverlays(ws []ui.Widget, r Rect, h Host) error {
	stacked := make(map[ui.Position]float64)
	for _, w := range ws {
		pos := w.Style().Position()
		if !pos.Valid() {
			pos = ui.TopLeft
		}
		s := Measure(w)
		s.W = min(s.W, max(r.W-2*OverlayMargin, 0))
		s.H = min(s.H, max(r.H-2*OverlayMargin, 0))

		cr := Anchor(pos, s, r, stacked[pos])
		stacked[pos] += s.H
		if err := compose(w, cr, h); err != nil {
			return err
		}
	}
	return nil
}

// Anchor positions a widget of size s inside r. offset shifts it away from
// the anchored edge (downwards for top and middle anchors, upwards for
// bottom anchors).
func Anchor(pos ui.Position, s Size, r Rect, offset float64) Rect {
	left := r.X + OverlayMargin
	right := r.X + r.W - OverlayMargin - s.W
	center := r.X + (r.W-s.W)/2
	top := r.Y + OverlayMargin + offset
	bottom := r.Y + r.H - OverlayMargin - s.H - offset
	middle := r.Y + (r.H-s.H)/2 + offset

	out := Rect{W: s.W, H: s.H}
	switch pos {
	case ui.TopCenter:
		out.X, out.Y = center, top
	case ui.TopRight:
		out.X, out.Y = right, top
	case ui.MiddleLeft:
		out.X, out.Y = left, middle
	case ui.MiddleRight:
		out.X, out.Y = right, middle
	case ui.BottomLeft:
		out.X, out.Y = left, bottom
	case ui.BottomCenter:
		out.X, out.Y = center, bottom
	case ui.BottomRight:
		out.X, out.Y = right, bottom
	default:
		out.X, out.Y = left, top
	}
	return out
}
