package term

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapvis/pkg/grid"
	"github.com/matzehuels/mapvis/pkg/imagery"
	"github.com/matzehuels/mapvis/pkg/legend"
	"github.com/matzehuels/mapvis/pkg/render"
	"github.com/matzehuels/mapvis/pkg/ui"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"ramp", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 8, "▁▂▃▄▅▆▇█"},
		{"flat", []float64{3, 3, 3}, 3, "▅▅▅"},
		{"downsampled", []float64{0, 0, 7, 7}, 2, "▁█"},
		{"empty", nil, 5, ""},
		{"no width", []float64{1}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("Sparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderRoot(t *testing.T) {
	root := ui.NewRoot()
	arr, err := grid.Plan(2)
	if err != nil {
		t.Fatal(err)
	}
	grid.Install(root, arr)

	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}
	dates := imagery.Monthly(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	coll, err := imagery.Synthesize(bounds, 4, 4, dates, "v", func(pt orb.Point, _ time.Time) float64 { return pt[0] / 100 })
	if err != nil {
		t.Fatal(err)
	}
	img, _ := coll.First()
	arr.Panels[0].AddLayer(ui.NewLayer(img, ui.VisParams{Min: ui.Float(0), Max: ui.Float(1)}, "v"))

	if _, err := legend.Discrete([]string{"water"}, []string{"blue"}, legend.Title("Classes"), legend.Plot(arr.Panels[1])); err != nil {
		t.Fatal(err)
	}
	c := ui.NewChart([]ui.ChartSeries{{Name: "v", Points: []ui.ChartPoint{{X: dates[0], Y: 1}, {X: dates[1], Y: 2}}}},
		ui.Style{ui.KeyPosition: string(ui.BottomRight), ui.KeyWidth: "200px", ui.KeyHeight: "48px"})
	c.SetTitle("Trend")
	arr.Panels[0].Add(c)

	out, err := RenderRoot(root, WithSize(80, 20))
	if err != nil {
		t.Fatalf("RenderRoot() error = %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Fatalf("rows = %d, want 20", len(lines))
	}
	for i, l := range lines {
		// Plain text when the test output is not a terminal.
		if n := utf8.RuneCountInString(l); n != 80 && !strings.Contains(l, "\x1b[") {
			t.Errorf("row %d has %d cells, want 80", i, n)
		}
	}
	for _, want := range []string{"╭", "╯", "▀", "Classes", "water", "■", "Trend"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(out, "╭") != 2 {
		t.Errorf("want two framed maps, got %d", strings.Count(out, "╭"))
	}
}

func TestWithSize(t *testing.T) {
	r := NewRenderer(WithSize(0, -3))
	if r.cols != DefaultColumns || r.rows != DefaultRows {
		t.Errorf("size = %dx%d, want defaults", r.cols, r.rows)
	}
}

func TestCellRect(t *testing.T) {
	r := NewRenderer(WithSize(10, 5))
	tests := []struct {
		name           string
		x, y, w, h     float64
		x0, y0, x1, y1 int
	}{
		{"aligned", 0, 0, 16, 32, 0, 0, 2, 2},
		{"partial cells", 4, 8, 8, 8, 0, 0, 2, 1},
		{"clipped", 72, 64, 100, 100, 9, 4, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1 := r.cellRect(renderRect(tt.x, tt.y, tt.w, tt.h))
			if x0 != tt.x0 || y0 != tt.y0 || x1 != tt.x1 || y1 != tt.y1 {
				t.Errorf("cellRect() = (%d,%d,%d,%d), want (%d,%d,%d,%d)", x0, y0, x1, y1, tt.x0, tt.y0, tt.x1, tt.y1)
			}
		})
	}
}

func renderRect(x, y, w, h float64) render.Rect { return render.Rect{X: x, Y: y, W: w, H: h} }
