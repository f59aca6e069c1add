package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/mapvis/pkg/cache"
	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/imagery"
	"github.com/matzehuels/mapvis/pkg/scene"
	"github.com/matzehuels/mapvis/pkg/series"
	"github.com/matzehuels/mapvis/pkg/ui"
)

const testScene = `
name: Seasons
grid: {count: 2, columns: 2}
panels:
  - layers:
      - source:
          synthetic: {band: ndvi, bounds: [0, 0, 10000, 10000], width: 8, height: 8, start: "2020-01-01", months: 6, base: 0.5, amplitude: 0.3}
        name: NDVI
        date: "2020-03-01"
        vis: {min: 0, max: 1, palette: [white, green]}
    center: [5000, 5000]
    zoom: 4
legends:
  - type: gradient
    panel: 0
    title: NDVI
    vis: {min: 0, max: 1, palette: [white, green]}
  - type: discrete
    names: [water, forest]
    palette: [blue, green]
  - type: discrete
    names: [urban]
    palette: [grey]
combine: true
series:
  - panel: 1
    source:
      synthetic: {band: ndvi, bounds: [0, 0, 10000, 10000], width: 8, height: 8, start: "2020-01-01", months: 6, base: 0.5, amplitude: 0.3}
    region: field.geojson
    name: NDVI
    scale: 1000
    label: true
`

const testRegion = `{"type": "Polygon", "coordinates": [[[2000, 2000], [8000, 2000], [8000, 8000], [2000, 8000], [2000, 2000]]]}`

func loadScene(t *testing.T, text string) *scene.Scene {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "field.geojson"), []byte(testRegion), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := scene.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(&bytes.Buffer{}))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"txt", false},
		{"SVG", true},
		{"jpg", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %v, want INVALID_FORMAT", errors.GetCode(err))
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", []string{"svg"}, false},
		{"svg", []string{"svg"}, false},
		{"svg, PNG,svg", []string{"svg", "png"}, false},
		{"svg,gif", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.Scale != 2000 || o.ChartWidth != 500 || o.ChartHeight != 300 {
		t.Errorf("series defaults = %v %d %d", o.Scale, o.ChartWidth, o.ChartHeight)
	}
	if o.LegendPosition != ui.BottomLeft || o.PNGScale != DefaultPNGScale {
		t.Errorf("defaults = %+v", o)
	}

	o = Options{LegendPosition: ui.TopRight, Width: 640}
	o.SetDefaults()
	if o.LegendPosition != ui.TopRight || o.Width != 640 {
		t.Errorf("set values overwritten: %+v", o)
	}
}

func TestBuild(t *testing.T) {
	s := loadScene(t, testScene)
	d, err := quietRunner(nil).Build(context.Background(), s, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if d.Stats.Panels != 2 || d.Stats.Layers != 2 || d.Stats.Series != 1 || d.Stats.Legends != 3 {
		t.Errorf("stats = %+v", d.Stats)
	}
	if len(d.Warnings) != 0 {
		t.Errorf("warnings = %v", d.Warnings)
	}
	if d.Hash == "" {
		t.Error("empty scene hash")
	}

	m0 := d.Arrangement.Panels[0]
	if layers := m0.Layers(); len(layers) != 1 || layers[0].Name != "NDVI" {
		t.Fatalf("panel 0 layers = %v", layers)
	}
	if center, zoom := m0.Center(); center[0] != 5000 || zoom != 4 {
		t.Errorf("panel 0 center = %v %d", center, zoom)
	}
	// Linked maps share the viewport.
	if center, _ := d.Arrangement.Panels[1].Center(); center[0] != 5000 {
		t.Errorf("panel 1 center = %v, want linked", center)
	}

	// Root holds the grid plus the combined legend panel.
	if got := len(d.Root.Widgets()); got != 2 {
		t.Errorf("root widgets = %d, want 2", got)
	}
	if got := d.Panels(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Panels() = %v", got)
	}
	in := d.Inspectors[1]
	if in.Label == nil || len(in.Chart.Series) != 1 || len(in.Chart.Series[0].Points) != 6 {
		t.Fatalf("inspector = %+v", in)
	}
}

func TestBuildTruncated(t *testing.T) {
	text := strings.Replace(testScene, "grid: {count: 2, columns: 2}", "grid: {count: 2, columns: 1, rows: 1}", 1)
	s := loadScene(t, text)

	d, err := quietRunner(nil).Build(context.Background(), s, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if d.Stats.Panels != 1 || d.Stats.Series != 0 {
		t.Errorf("stats = %+v", d.Stats)
	}
	// One warning from the planner, one for the series on panel 1.
	if len(d.Warnings) != 2 {
		t.Errorf("warnings = %v", d.Warnings)
	}

	_, err = quietRunner(nil).Build(context.Background(), s, Options{Strict: true})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("strict Build() error = %v, want INVALID_CONFIG", err)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := quietRunner(nil).Build(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil scene error = %v", err)
	}

	missing := loadScene(t, strings.Replace(testScene, "region: field.geojson", "region: nowhere.geojson", 1))
	if _, err := quietRunner(nil).Build(context.Background(), missing, Options{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing region error = %v, want FILE_NOT_FOUND", err)
	}

	noImage := loadScene(t, strings.Replace(testScene, `date: "2020-03-01"`, `date: "2021-03-01"`, 1))
	if _, err := quietRunner(nil).Build(context.Background(), noImage, Options{}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing date error = %v, want NOT_FOUND", err)
	}
}

func TestDisplayClick(t *testing.T) {
	s := loadScene(t, testScene)
	d, err := quietRunner(nil).Build(context.Background(), s, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	before := d.StateHash()
	version := d.Root.Version()

	date := time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)
	if err := d.Click(context.Background(), 1, date); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	in := d.Inspectors[1]
	if got := in.Label.Value(); got != "2020-04-01" {
		t.Errorf("label = %q", got)
	}
	if !in.Selected().Equal(date) {
		t.Errorf("Selected() = %v", in.Selected())
	}
	if d.Root.Version() == version {
		t.Error("root version not bumped by click")
	}
	if d.StateHash() == before {
		t.Error("state hash unchanged after click")
	}

	if err := d.Click(context.Background(), 0, date); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("click on panel without chart error = %v, want NOT_FOUND", err)
	}
	if err := d.Click(context.Background(), 1, date.AddDate(5, 0, 0)); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("click on unknown date error = %v, want NOT_FOUND", err)
	}
}

func TestDisplayClickDay(t *testing.T) {
	d, err := quietRunner(nil).Build(context.Background(), loadScene(t, testScene), Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	day := time.Date(2020, 4, 1, 15, 0, 0, 0, time.UTC)
	if err := d.ClickDay(ctx, 1, day); err != nil {
		t.Fatalf("ClickDay() error = %v", err)
	}
	if got := d.Inspectors[1].Label.Value(); got != "2020-04-01" {
		t.Errorf("label = %q", got)
	}
	if err := d.ClickDay(ctx, 0, day); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("panel without chart error = %v, want NOT_FOUND", err)
	}
}

func TestStateHashSubSecond(t *testing.T) {
	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}
	t0 := time.Date(2021, 1, 5, 10, 30, 0, 0, time.UTC)
	t1 := t0.Add(250 * time.Millisecond)
	coll, err := imagery.Synthesize(bounds, 2, 2, []time.Time{t0, t1}, "v", func(orb.Point, time.Time) float64 { return 1 })
	if err != nil {
		t.Fatal(err)
	}
	region := orb.Polygon{{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}}}
	in, err := series.Attach(ui.NewMap(0), coll, ui.VisParams{}, "v", region, series.WithScale(10))
	if err != nil {
		t.Fatal(err)
	}
	d := &Display{Hash: "scene", Inspectors: map[int]*series.Inspector{0: in}}

	ctx := context.Background()
	if err := d.Click(ctx, 0, t0); err != nil {
		t.Fatal(err)
	}
	first := d.StateHash()
	if err := d.Click(ctx, 0, t1); err != nil {
		t.Fatal(err)
	}
	if d.StateHash() == first {
		t.Error("selections 250ms apart share a state hash")
	}
}

func TestRenderCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(c)
	defer r.Close()

	ctx := context.Background()
	d, err := r.Build(ctx, loadScene(t, testScene), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	first, hit, err := r.Render(ctx, d, FormatSVG, Options{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if hit {
		t.Error("first render was a cache hit")
	}
	if !bytes.HasPrefix(bytes.TrimSpace(first), []byte("<svg")) {
		t.Errorf("output is not svg: %.40s", first)
	}

	second, hit, err := r.Render(ctx, d, FormatSVG, Options{Width: 800, Height: 600})
	if err != nil || !hit || !bytes.Equal(first, second) {
		t.Errorf("second render hit = %v err = %v", hit, err)
	}

	// A different size is a different artifact.
	if _, hit, _ := r.Render(ctx, d, FormatSVG, Options{Width: 400, Height: 300}); hit {
		t.Error("resized render was a cache hit")
	}

	// So is a different selection.
	if err := d.Click(ctx, 1, time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	clicked, hit, err := r.Render(ctx, d, FormatSVG, Options{Width: 800, Height: 600})
	if err != nil || hit {
		t.Errorf("render after click hit = %v err = %v", hit, err)
	}
	if !bytes.Contains(clicked, []byte("2020-05-01")) {
		t.Error("clicked render does not show the selected date")
	}

	// Refresh bypasses the lookup.
	if _, hit, _ := r.Render(ctx, d, FormatSVG, Options{Width: 800, Height: 600, Refresh: true}); hit {
		t.Error("refresh render was a cache hit")
	}
}

func TestRenderText(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()
	d, err := r.Build(ctx, loadScene(t, testScene), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	out, hit, err := r.Render(ctx, d, FormatTXT, Options{Columns: 100, Rows: 30})
	if err != nil || hit {
		t.Fatalf("Render(txt) hit = %v err = %v", hit, err)
	}
	if !strings.Contains(string(out), "water") {
		t.Errorf("terminal output misses the legend:\n%s", out)
	}

	if _, _, err := r.Render(ctx, d, "gif", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
	if _, _, err := r.Render(ctx, nil, FormatSVG, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render(nil) error = %v", err)
	}
}

func TestRenderAll(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()
	d, err := r.Build(ctx, loadScene(t, testScene), Options{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.RenderAll(ctx, d, []string{FormatSVG, FormatTXT}, Options{})
	if err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}
	if len(out[FormatSVG]) == 0 || len(out[FormatTXT]) == 0 {
		t.Errorf("missing artifacts: %d svg, %d txt bytes", len(out[FormatSVG]), len(out[FormatTXT]))
	}
}
