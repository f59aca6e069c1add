package ui

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

func TestVisParamsKeys(t *testing.T) {
	tests := []struct {
		name string
		vis  VisParams
		want []string
	}{
		{"empty", VisParams{}, nil},
		{"range only", VisParams{Min: Float(0), Max: Float(1)}, []string{"min", "max"}},
		{
			name: "all",
			vis: VisParams{
				Bands: []string{"ndvi"}, Min: Float(0), Max: Float(1),
				Palette: []string{"red"}, Opacity: Float(0.5), Gamma: Float(1.2),
			},
			want: []string{"bands", "min", "max", "palette", "opacity", "gamma"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vis.Keys(); !slices.Equal(got, tt.want) {
				t.Errorf("Keys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisParamsWithout(t *testing.T) {
	vis := VisParams{Bands: []string{"b1"}, Min: Float(0), Max: Float(10), Palette: []string{"000000", "ffffff"}}
	got := vis.Without(VisBands)

	if got.Bands != nil {
		t.Errorf("Bands = %v, want nil", got.Bands)
	}
	if len(vis.Bands) != 1 {
		t.Error("Without should not modify the receiver")
	}
	if min, max := got.Range(); min != 0 || max != 10 {
		t.Errorf("Range() = (%g, %g), want (0, 10)", min, max)
	}
}

func TestVisParamsDefaults(t *testing.T) {
	var vis VisParams
	if min, max := vis.Range(); min != 0 || max != 1 {
		t.Errorf("Range() = (%g, %g), want (0, 1)", min, max)
	}
	if vis.Alpha() != 1 {
		t.Errorf("Alpha() = %g, want 1", vis.Alpha())
	}
	if (VisParams{Opacity: Float(3)}).Alpha() != 1 {
		t.Error("Alpha() should clamp to 1")
	}
	if vis.Band() != "" {
		t.Errorf("Band() = %q, want empty", vis.Band())
	}
}

func TestNilLinkerMaps(t *testing.T) {
	var l *Linker
	if got := l.Maps(); got != nil {
		t.Errorf("nil linker Maps() = %v, want nil", got)
	}
}

func TestLinkerSyncsViewport(t *testing.T) {
	a, b, c := NewMap(0), NewMap(1), NewMap(2)
	NewLinker(a, b)

	a.SetCenter(orb.Point{10, 20}, 6)

	for _, m := range []*Map{a, b} {
		center, zoom := m.Center()
		if center != (orb.Point{10, 20}) || zoom != 6 {
			t.Errorf("map %d viewport = %v/%d, want [10 20]/6", m.Index, center, zoom)
		}
	}
	if center, _ := c.Center(); center == (orb.Point{10, 20}) {
		t.Error("unlinked map should not move")
	}
	if a.ID == b.ID {
		t.Error("maps should have distinct IDs")
	}
}

func TestMapLayers(t *testing.T) {
	m := NewMap(0)
	l1 := NewLayer(nil, VisParams{}, "first")
	l2 := NewLayer(nil, VisParams{}, "second")

	m.AddLayer(l1)
	m.AddLayer(l2)
	if got := len(m.Layers()); got != 2 {
		t.Fatalf("len(Layers()) = %d, want 2", got)
	}

	m.ResetLayers(l2)
	layers := m.Layers()
	if len(layers) != 1 || layers[0] != l2 {
		t.Errorf("ResetLayers did not replace layers: %v", layers)
	}
}

func TestChartClick(t *testing.T) {
	c := NewChart(nil, Style{})
	var calls []string
	c.OnClick(func(ChartClick) error { calls = append(calls, "a"); return nil })
	c.OnClick(func(ChartClick) error { calls = append(calls, "b"); return errors.New("stop") })
	c.OnClick(func(ChartClick) error { calls = append(calls, "c"); return nil })

	if err := c.Click(ChartClick{X: time.Unix(0, 0)}); err == nil {
		t.Error("Click() should return the handler error")
	}
	if !slices.Equal(calls, []string{"a", "b"}) {
		t.Errorf("handlers called = %v, want [a b]", calls)
	}
}

func TestChartDates(t *testing.T) {
	d1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	c := NewChart([]ChartSeries{
		{Name: "a", Points: []ChartPoint{{X: d2, Y: 1}, {X: d1, Y: 2}}},
		{Name: "b", Points: []ChartPoint{{X: d1, Y: 3}}},
	}, nil)

	got := c.Dates()
	if len(got) != 2 || !got[0].Equal(d1) || !got[1].Equal(d2) {
		t.Errorf("Dates() = %v, want [%v %v]", got, d1, d2)
	}
}

func TestRoot(t *testing.T) {
	r := NewRoot()
	m := NewMap(0)
	p := NewPanel(Horizontal, nil, m)
	m.Add(NewLabel("x", nil))

	v0 := r.Version()
	r.Add(p)
	if r.Version() == v0 {
		t.Error("Add should bump the version")
	}

	var kinds []Kind
	r.Walk(func(w Widget) bool {
		kinds = append(kinds, w.Kind())
		return true
	})
	if want := []Kind{KindPanel, KindMap, KindLabel}; !slices.Equal(kinds, want) {
		t.Errorf("Walk kinds = %v, want %v", kinds, want)
	}
	if maps := r.Maps(); len(maps) != 1 || maps[0] != m {
		t.Errorf("Maps() = %v, want [m]", maps)
	}

	r.Clear()
	if len(r.Widgets()) != 0 {
		t.Error("Clear should remove all widgets")
	}
}

func TestStyle(t *testing.T) {
	s := Style{}.Set(KeyPosition, string(BottomLeft))
	if s.Position() != BottomLeft {
		t.Errorf("Position() = %q, want %q", s.Position(), BottomLeft)
	}
	if !s.Shown() {
		t.Error("Shown() should default to true")
	}
	s.Set(KeyShown, "false")
	if s.Shown() {
		t.Error("Shown() should be false after hiding")
	}
	c := s.Clone()
	c.Set(KeyPosition, string(TopRight))
	if s.Position() != BottomLeft {
		t.Error("Clone should be independent")
	}
	if !TopRight.Valid() || Position("middle").Valid() {
		t.Error("Valid() misclassified positions")
	}
	if Horizontal.Other() != Vertical || Vertical.Other() != Horizontal {
		t.Error("Other() should return the perpendicular flow")
	}
}
