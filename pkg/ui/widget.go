package ui

import "image"

// Kind identifies a widget type for renderers.
type Kind string

// Widget kinds.
const (
	KindPanel     Kind = "panel"
	KindLabel     Kind = "label"
	KindThumbnail Kind = "thumbnail"
	KindChart     Kind = "chart"
	KindMap       Kind = "map"
)

// Widget is anything a host can display.
type Widget interface {
	Kind() Kind
	Style() Style
}

// Container is a widget that holds other widgets.
type Container interface {
	Add(w Widget)
	Widgets() []Widget
}

// Panel lays out child widgets along its flow.
type Panel struct {
	Layout  Flow
	widgets []Widget
	style   Style
}

// NewPanel creates a panel with the given flow, style and children.
// A nil style is replaced by an empty one.
func NewPanel(layout Flow, style Style, widgets ...Widget) *Panel {
	if layout == "" {
		layout = Vertical
	}
	return &Panel{Layout: layout, widgets: widgets, style: style.Clone()}
}

func (p *Panel) Kind() Kind { return KindPanel }
func (p *Panel) Style() Style { return p.style }
func (p *Panel) Add(w Widget) { p.widgets = append(p.widgets, w) }
func (p *Panel) Len() int { return len(p.widgets) }
func (p *Panel) Widgets() []Widget {
	return append([]Widget(nil), p.widgets...)
}

// Label is a single line of text.
type Label struct {
	value string
	style Style
}

// NewLabel creates a label.
func NewLabel(value string, style Style) *Label {
	return &Label{value: value, style: style.Clone()}
}

func (l *Label) Kind() Kind { return KindLabel }
func (l *Label) Style() Style { return l.style }
func (l *Label) Value() string { return l.value }
func (l *Label) SetValue(value string) { l.value = value }

// ThumbnailParams describes how a thumbnail samples its image.
type ThumbnailParams struct {
	BBox   [4]float64 // minX, minY, maxX, maxY in image space
	Width  int        // output pixels
	Height int        // output pixels
	// Vis holds the visualization parameters the image was drawn with.
	Vis VisParams
}

// Thumbnail is a small raster preview, such as a legend colour ramp.
type Thumbnail struct {
	Image  image.Image
	Params ThumbnailParams
	style  Style
}

// NewThumbnail creates a thumbnail widget.
func NewThumbnail(img image.Image, params ThumbnailParams, style Style) *Thumbnail {
	return &Thumbnail{Image: img, Params: params, style: style.Clone()}
}

func (t *Thumbnail) Kind() Kind { return KindThumbnail }
func (t *Thumbnail) Style() Style { return t.style }
