package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/mapvis/pkg/ui"
)

// Text metrics used when measuring labels.
const (
	DefaultFontSize = 12.0
	// CharWidth is the average glyph advance as a fraction of the font size.
	CharWidth = 0.6
	// LineHeight is the line box height as a multiple of the font size.
	LineHeight = 1.4

	DefaultChartWidth  = 500.0
	DefaultChartHeight = 300.0
)

// Size is a measured widget extent.
type Size struct {
	W, H float64
}

// Insets are per-edge distances, as parsed from CSS-like padding and margin.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns the sum of left and right insets.
func (in Insets) Horizontal() float64 { return in.Left + in.Right }

// Vertical returns the sum of top and bottom insets.
func (in Insets) Vertical() float64 { return in.Top + in.Bottom }

// ParsePx parses a length such as "12px" or "12". Unparseable values are 0.
func ParsePx(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseInsets parses CSS box shorthand with one to four lengths.
func ParseInsets(s string) Insets {
	f := strings.Fields(s)
	v := make([]float64, len(f))
	for i, p := range f {
		v[i] = ParsePx(p)
	}
	switch len(v) {
	case 1:
		return Insets{v[0], v[0], v[0], v[0]}
	case 2:
		return Insets{v[0], v[1], v[0], v[1]}
	case 3:
		return Insets{v[0], v[1], v[2], v[1]}
	case 4:
		return Insets{v[0], v[1], v[2], v[3]}
	}
	return Insets{}
}

// Padding returns the parsed padding of a style.
func Padding(s ui.Style) Insets { return ParseInsets(s.Get(ui.KeyPadding)) }

// Margin returns the parsed margin of a style.
func Margin(s ui.Style) Insets { return ParseInsets(s.Get(ui.KeyMargin)) }

// FontSize returns the style's font size, or DefaultFontSize.
func FontSize(s ui.Style) float64 {
	if v := ParsePx(s.Get(ui.KeyFontSize)); v > 0 {
		return v
	}
	return DefaultFontSize
}

// Measure returns the natural size of w including its padding and margin.
// Hidden widgets measure zero. Maps have no natural size unless their style
// sets one.
func Measure(w ui.Widget) Size {
	return measure(w, DefaultFontSize)
}

func measure(w ui.Widget, inherited float64) Size {
	style := w.Style()
	if !style.Shown() {
		return Size{}
	}
	pad, margin := Padding(style), Margin(style)
	fs := inherited
	if v := ParsePx(style.Get(ui.KeyFontSize)); v > 0 {
		fs = v
	}

	var content Size
	switch w := w.(type) {
	case *ui.Label:
		if w.Value() != "" {
			content = Size{
				W: float64(utf8.RuneCountInString(w.Value())) * fs * CharWidth,
				H: fs * LineHeight,
			}
		}
	case *ui.Thumbnail:
		content = Size{W: float64(w.Params.Width), H: float64(w.Params.Height)}
	case *ui.Panel:
		for _, child := range w.Widgets() {
			s := measure(child, fs)
			if w.Layout == ui.Horizontal {
				content.W += s.W
				content.H = max(content.H, s.H)
			} else {
				content.H += s.H
				content.W = max(content.W, s.W)
			}
		}
	case *ui.Chart:
		content = Size{W: DefaultChartWidth, H: DefaultChartHeight}
	}

	if v := ParsePx(style.Get(ui.KeyWidth)); v > 0 {
		content.W = v
	}
	if v := ParsePx(style.Get(ui.KeyHeight)); v > 0 {
		content.H = v
	}
	return Size{
		W: content.W + pad.Horizontal() + margin.Horizontal(),
		H: content.H + pad.Vertical() + margin.Vertical(),
	}
}

// Placement is a widget assigned to a rectangle.
type Placement struct {
	Widget ui.Widget
	Rect   Rect
}

// Arrange places the visible children of p inside r along the panel's flow
// using their natural sizes. r is the panel's border box; padding is applied
// here. Children keep their margins inside their rectangles.
func Arrange(p *ui.Panel, r Rect) []Placement {
	inner := r.Inset(Padding(p.Style()))
	fs := FontSize(p.Style())
	var out []Placement
	x, y := inner.X, inner.Y
	for _, child := range p.Widgets() {
		if !child.Style().Shown() {
			continue
		}
		s := measure(child, fs)
		if p.Layout == ui.Horizontal {
			out = append(out, Placement{child, Rect{X: x, Y: y, W: s.W, H: inner.H}})
			x += s.W
		} else {
			out = append(out, Placement{child, Rect{X: x, Y: y, W: inner.W, H: s.H}})
			y += s.H
		}
	}
	return out
}
