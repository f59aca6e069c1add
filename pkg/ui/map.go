package ui

import (
	"image"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Raster is a georeferenced image that can be visualized as a layer.
type Raster interface {
	// Footprint is the geographic extent covered by the raster.
	Footprint() orb.Bound
	// Visualize stretches the raster onto colours.
	Visualize(vis VisParams) (*image.RGBA, error)
}

// Layer is a raster drawn on a map with visualization parameters.
type Layer struct {
	Name   string
	Source Raster
	Vis    VisParams
	Shown  bool
}

// NewLayer creates a visible layer.
func NewLayer(src Raster, vis VisParams, name string) *Layer {
	return &Layer{Name: name, Source: src, Vis: vis, Shown: true}
}

// Map is one map display surface. Maps are identified by a random ID and by
// the index they were created with.
type Map struct {
	ID      uuid.UUID
	Index   int
	layers  []*Layer
	widgets []Widget
	center  orb.Point
	zoom    int
	linker  *Linker
	style   Style
}

// NewMap creates an empty map with the given creation index.
func NewMap(index int) *Map {
	return &Map{
		ID:    uuid.New(),
		Index: index,
		zoom:  2,
		style: Style{KeyStretch: "both"},
	}
}

func (m *Map) Kind() Kind   { return KindMap }
func (m *Map) Style() Style { return m.style }

// Add overlays a widget on the map.
func (m *Map) Add(w Widget) { m.widgets = append(m.widgets, w) }

// Widgets returns the overlaid widgets in insertion order.
func (m *Map) Widgets() []Widget {
	return append([]Widget(nil), m.widgets...)
}

// AddLayer appends a layer on top of the existing ones.
func (m *Map) AddLayer(l *Layer) { m.layers = append(m.layers, l) }

// ResetLayers replaces all layers.
func (m *Map) ResetLayers(layers ...*Layer) {
	m.layers = append([]*Layer(nil), layers...)
}

// Layers returns the layers bottom to top.
func (m *Map) Layers() []*Layer {
	return append([]*Layer(nil), m.layers...)
}

// Center returns the viewport centre and zoom.
func (m *Map) Center() (orb.Point, int) {
	return m.center, m.zoom
}

// SetCenter moves the viewport. Linked maps follow.
func (m *Map) SetCenter(center orb.Point, zoom int) {
	if m.linker != nil {
		m.linker.sync(center, zoom)
		return
	}
	m.center, m.zoom = center, zoom
}

// Linker returns the linker this map belongs to, or nil.
func (m *Map) Linker() *Linker { return m.linker }

// Linker keeps a group of maps on a shared viewport.
type Linker struct {
	maps []*Map
}

// NewLinker links maps together. A map belongs to at most one linker; linking
// it again moves it to the new group. The first map's viewport is applied to
// all others.
func NewLinker(maps ...*Map) *Linker {
	l := &Linker{maps: append([]*Map(nil), maps...)}
	for _, m := range l.maps {
		m.linker = l
	}
	if len(l.maps) > 0 {
		l.sync(l.maps[0].center, l.maps[0].zoom)
	}
	return l
}

// Maps returns the linked maps. A nil linker links nothing.
func (l *Linker) Maps() []*Map {
	if l == nil {
		return nil
	}
	return append([]*Map(nil), l.maps...)
}

func (l *Linker) sync(center orb.Point, zoom int) {
	for _, m := range l.maps {
		m.center, m.zoom = center, zoom
	}
}
