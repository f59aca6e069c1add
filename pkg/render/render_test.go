package render

import (
	"testing"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/grid"
	"github.com/matzehuels/mapvis/pkg/legend"
	"github.com/matzehuels/mapvis/pkg/ui"
)

type call struct {
	kind string
	rect Rect
}

type recorder struct {
	calls []call
	maps  map[int]Rect
	fail  string
}

func newRecorder() *recorder { return &recorder{maps: make(map[int]Rect)} }

func (r *recorder) add(kind string, rect Rect) error {
	r.calls = append(r.calls, call{kind, rect})
	if kind == r.fail {
		return errors.New(errors.ErrCodeInternal, "%s failed", kind)
	}
	return nil
}

func (r *recorder) RenderMap(m *ui.Map, rect Rect) error {
	r.maps[m.Index] = rect
	return r.add("map", rect)
}
func (r *recorder) RenderLayer(_ *ui.Map, _ *ui.Layer, rect Rect) error { return r.add("layer", rect) }
func (r *recorder) RenderChart(_ *ui.Chart, rect Rect) error            { return r.add("chart", rect) }
func (r *recorder) RenderLegendPanel(_ *ui.Panel, rect Rect) error      { return r.add("legend", rect) }
func (r *recorder) RenderLabel(_ *ui.Label, rect Rect) error            { return r.add("label", rect) }

func (r *recorder) count(kind string) int {
	n := 0
	for _, c := range r.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

func TestParseInsets(t *testing.T) {
	tests := []struct {
		in   string
		want Insets
	}{
		{"", Insets{}},
		{"8px", Insets{8, 8, 8, 8}},
		{"8px 15px", Insets{8, 15, 8, 15}},
		{"0 0 4px", Insets{0, 0, 4, 0}},
		{"0 0 0 6px", Insets{0, 0, 0, 6}},
		{"bogus", Insets{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseInsets(tt.in); got != tt.want {
				t.Errorf("ParseInsets(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	label := ui.NewLabel("abcd", ui.Style{ui.KeyFontSize: "10px", ui.KeyPadding: "2px"})
	if got := Measure(label); got.W != 4*10*CharWidth+4 || got.H != 10*LineHeight+4 {
		t.Errorf("Measure(label) = %+v", got)
	}

	hidden := ui.NewLabel("x", ui.Style{ui.KeyShown: "false"})
	if got := Measure(hidden); got != (Size{}) {
		t.Errorf("Measure(hidden) = %+v, want zero", got)
	}

	chart := ui.NewChart(nil, ui.Style{ui.KeyWidth: "500px", ui.KeyHeight: "300px"})
	if got := Measure(chart); got != (Size{500, 300}) {
		t.Errorf("Measure(chart) = %+v, want 500x300", got)
	}

	col := ui.NewPanel(ui.Vertical, nil,
		ui.NewLabel("", ui.Style{ui.KeyPadding: "8px"}),
		ui.NewLabel("", ui.Style{ui.KeyPadding: "8px"}))
	if got := Measure(col); got != (Size{16, 32}) {
		t.Errorf("Measure(vertical panel) = %+v, want 16x32", got)
	}
	row := ui.NewPanel(ui.Horizontal, nil, col.Widgets()...)
	if got := Measure(row); got != (Size{32, 16}) {
		t.Errorf("Measure(horizontal panel) = %+v, want 32x16", got)
	}
}

func TestAnchor(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	s := Size{W: 20, H: 10}
	tests := []struct {
		pos  ui.Position
		x, y float64
	}{
		{ui.TopLeft, 8, 8},
		{ui.TopRight, 72, 8},
		{ui.BottomLeft, 8, 82},
		{ui.BottomRight, 72, 82},
		{ui.BottomCenter, 40, 82},
		{ui.MiddleLeft, 8, 45},
		{"", 8, 8},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			got := Anchor(tt.pos, s, r, 0)
			if got.X != tt.x || got.Y != tt.y || got.W != 20 || got.H != 10 {
				t.Errorf("Anchor(%s) = %+v, want (%v,%v)", tt.pos, got, tt.x, tt.y)
			}
		})
	}
	if got := Anchor(ui.BottomLeft, s, r, 10); got.Y != 72 {
		t.Errorf("stacked bottom anchor Y = %v, want 72", got.Y)
	}
}

func TestComposeGrid(t *testing.T) {
	root := ui.NewRoot()
	arr, err := grid.Plan(4)
	if err != nil {
		t.Fatal(err)
	}
	grid.Install(root, arr)

	rec := newRecorder()
	if err := Compose(root, Rect{W: 800, H: 600}, rec); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got := rec.count("map"); got != 4 {
		t.Fatalf("maps rendered = %d, want 4", got)
	}

	// Row-major 2x2: panel k sits at row k/2, column k%2.
	for k, m := range arr.Panels {
		r := rec.maps[m.Index]
		wantX, wantY := float64(k%2)*400, float64(k/2)*300
		if r.X != wantX || r.Y != wantY || r.W != 400 || r.H != 300 {
			t.Errorf("panel %d rect = %+v, want (%v,%v) 400x300", k, r, wantX, wantY)
		}
	}
}

func TestComposeColumnMajor(t *testing.T) {
	root := ui.NewRoot()
	arr, _ := grid.Plan(3, grid.Columns(3), grid.Rows(1), grid.ColumnMajor())
	grid.Install(root, arr)

	rec := newRecorder()
	if err := Compose(root, Rect{W: 900, H: 300}, rec); err != nil {
		t.Fatal(err)
	}
	for k, m := range arr.Panels {
		r := rec.maps[m.Index]
		if r.X != float64(k)*300 || r.W != 300 || r.H != 300 {
			t.Errorf("panel %d rect = %+v, want column %d of 3", k, r, k)
		}
	}
}

func TestComposeOverlays(t *testing.T) {
	root := ui.NewRoot()
	m := ui.NewMap(0)
	root.Add(m)

	vis := ui.VisParams{Min: ui.Float(0), Max: ui.Float(1), Palette: []string{"white", "green"}}
	if _, err := legend.Gradient(vis, legend.Plot(m)); err != nil {
		t.Fatal(err)
	}
	m.Add(ui.NewChart(nil, ui.Style{ui.KeyPosition: string(ui.BottomRight), ui.KeyWidth: "200px", ui.KeyHeight: "100px"}))
	m.Add(ui.NewLabel("2019-06-01", ui.Style{ui.KeyPosition: string(ui.TopCenter)}))
	m.Add(ui.NewLabel("hidden", ui.Style{ui.KeyShown: "false"}))

	rec := newRecorder()
	if err := Compose(root, Rect{W: 800, H: 600}, rec); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if rec.count("legend") != 1 || rec.count("chart") != 1 || rec.count("label") != 1 {
		t.Fatalf("calls = %+v, want one legend, chart and label", rec.calls)
	}
	for _, c := range rec.calls {
		if c.kind == "chart" {
			want := Rect{X: 800 - 8 - 200, Y: 600 - 8 - 100, W: 200, H: 100}
			if c.rect != want {
				t.Errorf("chart rect = %+v, want %+v", c.rect, want)
			}
		}
	}
}

func TestComposeLayers(t *testing.T) {
	root := ui.NewRoot()
	m := ui.NewMap(0)
	m.AddLayer(&ui.Layer{Name: "a", Shown: true})
	m.AddLayer(&ui.Layer{Name: "b", Shown: false})
	root.Add(m)

	rec := newRecorder()
	if err := Compose(root, Rect{W: 100, H: 100}, rec); err != nil {
		t.Fatal(err)
	}
	if got := rec.count("layer"); got != 1 {
		t.Errorf("layers rendered = %d, want only shown layers", got)
	}

	rec = newRecorder()
	rec.fail = "layer"
	if err := Compose(root, Rect{W: 100, H: 100}, rec); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("host failure error = %v, want INTERNAL_ERROR", err)
	}
}

func TestComposeRootOverlay(t *testing.T) {
	root := ui.NewRoot()
	arr, _ := grid.Plan(2)
	grid.Install(root, arr)
	legend.Combine(root, ui.NewLabel("a", nil))

	rec := newRecorder()
	if err := Compose(root, Rect{W: 800, H: 400}, rec); err != nil {
		t.Fatal(err)
	}
	if rec.count("map") != 2 || rec.count("legend") != 1 {
		t.Fatalf("calls = %+v, want 2 maps and 1 combined legend", rec.calls)
	}
	// The combined legend overlays the grid rather than taking space from it.
	if r := rec.maps[arr.Panels[0].Index]; r.H != 400 {
		t.Errorf("map height = %v, want the full 400", r.H)
	}
}

func TestComposeErrors(t *testing.T) {
	if err := Compose(nil, Rect{W: 1, H: 1}, newRecorder()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil root error = %v", err)
	}
	if err := Compose(ui.NewRoot(), Rect{}, newRecorder()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty bounds error = %v", err)
	}
}

func TestArrange(t *testing.T) {
	p := ui.NewPanel(ui.Vertical, ui.Style{ui.KeyPadding: "2px 6px"},
		ui.NewLabel("", ui.Style{ui.KeyPadding: "8px"}),
		ui.NewLabel("gone", ui.Style{ui.KeyShown: "false"}),
		ui.NewLabel("", ui.Style{ui.KeyPadding: "4px"}),
	)
	got := Arrange(p, Rect{X: 10, Y: 10, W: 40, H: 40})
	if len(got) != 2 {
		t.Fatalf("len(Arrange()) = %d, want 2 visible children", len(got))
	}
	if got[0].Rect != (Rect{X: 16, Y: 12, W: 28, H: 16}) {
		t.Errorf("first child = %+v", got[0].Rect)
	}
	if got[1].Rect.Y != 28 || got[1].Rect.H != 8 {
		t.Errorf("second child = %+v, want Y=28 H=8", got[1].Rect)
	}
}
