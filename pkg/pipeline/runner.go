package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/mapvis/pkg/cache"
	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/grid"
	"github.com/matzehuels/mapvis/pkg/imagery"
	"github.com/matzehuels/mapvis/pkg/legend"
	"github.com/matzehuels/mapvis/pkg/observability"
	"github.com/matzehuels/mapvis/pkg/scene"
	"github.com/matzehuels/mapvis/pkg/series"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Runner builds and renders scenes with caching.
//
// The Runner is stateless except for the cache and logger: it does not keep
// displays. Multiple goroutines can use the same Runner with different
// scenes.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// =============================================================================
// Build
// =============================================================================

// Build turns a scene into a display: it plans and installs the grid, adds
// the panel layers, attaches series charts and legends.
func (r *Runner) Build(ctx context.Context, s *scene.Scene, opts Options) (d *Display, err error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene is nil")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	opts.SetDefaults()

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, s.Name, s.Grid.Count)
	defer func() { hooks.OnBuildComplete(ctx, s.Name, time.Since(start), err) }()

	b := &builder{
		runner:  r,
		scene:   s,
		opts:    opts,
		sources: make(map[string]*imagery.Collection),
		hashes:  make(map[string]string),
	}
	d, err = b.build(ctx)
	if err != nil {
		return nil, err
	}
	d.Stats.BuildTime = time.Since(start)

	r.Logger.Info("built display",
		"scene", s.Name,
		"panels", d.Stats.Panels,
		"layers", d.Stats.Layers,
		"series", d.Stats.Series,
		"legends", d.Stats.Legends,
		"duration", d.Stats.BuildTime)
	return d, nil
}

// builder holds per-build state. Sources are loaded once per build even when
// several panels share them.
type builder struct {
	runner  *Runner
	scene   *scene.Scene
	opts    Options
	display *Display

	sources map[string]*imagery.Collection
	hashes  map[string]string
}

func (b *builder) build(ctx context.Context) (*Display, error) {
	s := b.scene
	arr, err := grid.Plan(s.Grid.Count, s.Grid.Options()...)
	if err != nil {
		if b.opts.Strict {
			return nil, err
		}
		b.runner.Logger.Warn("grid truncated", "error", errors.UserMessage(err))
	}

	root := ui.NewRoot()
	grid.Install(root, arr)
	b.display = &Display{
		Scene:       s,
		Root:        root,
		Arrangement: arr,
		Inspectors:  make(map[int]*series.Inspector),
	}
	if err != nil {
		b.display.Warnings = append(b.display.Warnings, err)
	}
	b.display.Stats.Panels = len(arr.Panels)

	for i, p := range s.Panels {
		m := b.panel(i, "panel")
		if m == nil {
			continue
		}
		if err := b.addLayers(m, i, p); err != nil {
			return nil, err
		}
	}
	for i, sr := range s.Series {
		if err := b.addSeries(ctx, i, sr); err != nil {
			return nil, err
		}
	}
	if err := b.addLegends(); err != nil {
		return nil, err
	}

	hash, err := b.sceneHash()
	if err != nil {
		return nil, err
	}
	b.display.Hash = hash
	return b.display, nil
}

// panel returns the map at index i, or nil with a warning when the grid
// dropped it.
func (b *builder) panel(i int, what string) *ui.Map {
	arr := b.display.Arrangement
	if i >= 0 && i < len(arr.Panels) {
		return arr.Panels[i]
	}
	err := errors.New(errors.ErrCodeInvalidConfig, "%s on panel %d skipped: grid holds %d panels", what, i, len(arr.Panels))
	b.display.Warnings = append(b.display.Warnings, err)
	b.runner.Logger.Warn("panel not in grid", "panel", i, "what", what)
	return nil
}

func (b *builder) addLayers(m *ui.Map, i int, p scene.Panel) error {
	for _, l := range p.Layers {
		coll, _, err := b.source(l.Source)
		if err != nil {
			return fmt.Errorf("panel %d layer %q: %w", i, l.Name, err)
		}
		when, err := l.When()
		if err != nil {
			return err
		}
		if !when.IsZero() {
			coll = coll.FilterDay(when)
		}
		img, err := coll.First()
		if err != nil {
			return errors.Wrap(errors.ErrCodeNotFound, err, "panel %d layer %q: no image on %s", i, l.Name, l.Date)
		}
		m.AddLayer(ui.NewLayer(img, l.Vis, l.Name))
		b.display.Stats.Layers++
	}
	if p.Center != nil {
		m.SetCenter(orb.Point{p.Center[0], p.Center[1]}, p.Zoom)
	}
	return nil
}

func (b *builder) addSeries(ctx context.Context, i int, sr scene.Series) error {
	m := b.panel(sr.Panel, "series")
	if m == nil {
		return nil
	}
	coll, collHash, err := b.source(sr.Source)
	if err != nil {
		return fmt.Errorf("series %d: %w", i, err)
	}
	regionPath := b.scene.Path(sr.Region)
	regionData, regionHash, err := b.read(regionPath)
	if err != nil {
		return fmt.Errorf("series %d: %w", i, err)
	}
	region, err := imagery.ParseRegion(regionData)
	if err != nil {
		return fmt.Errorf("series %d region %s: %w", i, sr.Region, err)
	}
	reducer, err := imagery.ReducerByName(sr.Reducer)
	if err != nil {
		return err
	}
	scale := sr.Scale
	if scale <= 0 {
		scale = b.opts.Scale
	}

	data, err := b.runner.reduce(ctx, coll, collHash, region, cache.SeriesKeyOpts{
		Region:  regionHash,
		Reducer: reducer.Name(),
		Scale:   scale,
	}, b.opts.Refresh)
	if err != nil {
		return fmt.Errorf("series %d: %w", i, err)
	}

	opts := []series.Option{
		series.WithData(data),
		series.WithScale(scale),
		series.WithReducer(reducer),
		series.WithSize(b.opts.ChartWidth, b.opts.ChartHeight),
	}
	if sr.Label {
		label := ui.NewLabel("", ui.Style{
			ui.KeyPosition:   string(ui.TopCenter),
			ui.KeyFontWeight: "bold",
		})
		m.Add(label)
		opts = append(opts, series.WithLabel(label))
	}
	in, err := series.Attach(m, coll, sr.Vis, sr.Name, region, opts...)
	if err != nil {
		return fmt.Errorf("series %d: %w", i, err)
	}
	root := b.display.Root
	in.Chart.OnClick(func(ui.ChartClick) error {
		root.Touch()
		return nil
	})
	b.display.Inspectors[sr.Panel] = in
	b.display.Stats.Series++
	b.display.Stats.Layers++
	return nil
}

func (b *builder) addLegends() error {
	var combined []ui.Widget
	for i, l := range b.scene.Legends {
		var target ui.Container = b.display.Root
		if l.Panel != nil {
			m := b.panel(*l.Panel, "legend")
			if m == nil {
				continue
			}
			target = m
		}
		pos := l.Position
		if pos == "" {
			pos = b.opts.LegendPosition
		}
		opts := []legend.Option{legend.Title(l.Title), legend.Position(pos)}
		deferred := l.Panel == nil && b.scene.Combine
		if !deferred {
			opts = append(opts, legend.Plot(target))
		}

		var (
			p   *ui.Panel
			err error
		)
		switch l.Type {
		case scene.LegendGradient:
			p, err = legend.Gradient(l.Vis, opts...)
		case scene.LegendDiscrete:
			p, err = legend.Discrete(l.Names, l.Palette, opts...)
		default:
			err = errors.New(errors.ErrCodeInvalidScene, "unknown legend type %q", l.Type)
		}
		if err != nil {
			return fmt.Errorf("legend %d: %w", i, err)
		}
		if deferred {
			combined = append(combined, p)
		}
		b.display.Stats.Legends++
	}
	if len(combined) > 0 {
		legend.Combine(b.display.Root, combined...)
	}
	return nil
}

// source loads a collection once per build and returns it with its content
// hash.
func (b *builder) source(src scene.Source) (*imagery.Collection, string, error) {
	if src.Synthetic != nil {
		key := fmt.Sprintf("synthetic:%+v", *src.Synthetic)
		if c, ok := b.sources[key]; ok {
			return c, b.hashes[key], nil
		}
		c, err := src.Synthetic.Generate()
		if err != nil {
			return nil, "", err
		}
		b.sources[key] = c
		b.hashes[key] = cache.Hash([]byte(key))
		return c, b.hashes[key], nil
	}

	path := b.scene.Path(src.Collection)
	if c, ok := b.sources[path]; ok {
		return c, b.hashes[path], nil
	}
	data, hash, err := b.read(path)
	if err != nil {
		return nil, "", err
	}
	c, err := imagery.ReadCollection(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", src.Collection, err)
	}
	b.sources[path] = c
	return c, hash, nil
}

// read loads a file and records its hash.
func (b *builder) read(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	hash := cache.Hash(data)
	b.hashes[path] = hash
	return data, hash, nil
}

// sceneHash covers the scene text and the content of every file it reads,
// so editing a collection invalidates cached artifacts.
func (b *builder) sceneHash() (string, error) {
	text, err := b.scene.Marshal()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.Write(text)
	for _, p := range b.scene.Files() {
		hash, ok := b.hashes[p]
		if !ok {
			// Files on panels dropped by the grid were never read.
			continue
		}
		fmt.Fprintf(&buf, "\n%s=%s", p, hash)
	}
	return cache.Hash(buf.Bytes()), nil
}

// reduce computes region series with caching.
func (r *Runner) reduce(ctx context.Context, coll *imagery.Collection, collHash string, region orb.Geometry, key cache.SeriesKeyOpts, refresh bool) ([]ui.ChartSeries, error) {
	cacheKey := r.Keyer.SeriesKey(collHash, key)
	hooks := observability.Cache()

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []ui.ChartSeries
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, "series")
				r.Logger.Debug("series cache hit", "reducer", key.Reducer, "scale", key.Scale)
				return cached, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}
	hooks.OnCacheMiss(ctx, "series")

	start := time.Now()
	out, err := imagery.Series(coll, region, reducerOf(key.Reducer), key.Scale)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("reduced series", "series", len(out), "images", coll.Len(), "duration", time.Since(start))

	if data, err := json.Marshal(out); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSeries); err == nil {
			hooks.OnCacheSet(ctx, "series", len(data))
		}
	}
	return out, nil
}

func reducerOf(name string) imagery.Reducer {
	red, err := imagery.ReducerByName(name)
	if err != nil {
		return imagery.Mean
	}
	return red
}
