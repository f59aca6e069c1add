// Package scene describes a complete display in YAML: the grid, the layers
// of every panel, legends, and click-to-inspect series charts.
//
//	name: Vegetation 2020
//	grid: {count: 4, columns: 2}
//	panels:
//	  - layers:
//	      - source: {collection: data/ndvi.json}
//	        name: NDVI
//	        vis: {min: 0, max: 1, palette: [white, green]}
//	legends:
//	  - type: gradient
//	    panel: 0
//	    title: NDVI
//	    vis: {min: 0, max: 1, palette: [white, green]}
//	series:
//	  - panel: 0
//	    source: {collection: data/ndvi.json}
//	    region: data/field.geojson
//	    name: NDVI
//
// Relative paths are resolved against the directory of the scene file.
package scene

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/grid"
	"github.com/matzehuels/mapvis/pkg/imagery"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Legend types.
const (
	LegendGradient = "gradient"
	LegendDiscrete = "discrete"
)

// DateLayout is the layout of dates in scene files.
const DateLayout = "2006-01-02"

// Scene is a display description.
type Scene struct {
	Name    string   `yaml:"name,omitempty"`
	Grid    Grid     `yaml:"grid"`
	Panels  []Panel  `yaml:"panels,omitempty"`
	Legends []Legend `yaml:"legends,omitempty"`
	// Combine gathers every legend without a panel into one bottom-left
	// panel on the display root.
	Combine bool     `yaml:"combine,omitempty"`
	Series  []Series `yaml:"series,omitempty"`

	// Dir is the directory relative paths are resolved against.
	Dir string `yaml:"-"`
}

// countUnset marks a grid count the scene file did not set.
const countUnset = math.MinInt

// Grid is the panel arrangement. An omitted count is grid.DefaultCount; an
// explicit 0 plans no panels.
type Grid struct {
	Count   int `yaml:"count"`
	Columns int `yaml:"columns,omitempty"`
	Rows    int `yaml:"rows,omitempty"`
	// RowMajor defaults to true when omitted.
	RowMajor *bool `yaml:"row_major,omitempty"`
}

// Options converts the grid into planner options.
func (g Grid) Options() []grid.Option {
	opts := []grid.Option{grid.Columns(g.Columns), grid.Rows(g.Rows)}
	if g.RowMajor != nil {
		opts = append(opts, grid.RowMajor(*g.RowMajor))
	}
	return opts
}

// Panel configures one map panel by creation index.
type Panel struct {
	Layers []Layer `yaml:"layers,omitempty"`
	// Center is [x, y] in map units; the zoom applies with it.
	Center *[2]float64 `yaml:"center,omitempty"`
	Zoom   int         `yaml:"zoom,omitempty"`
}

// Layer selects one image of a source.
type Layer struct {
	Source Source       `yaml:"source"`
	Name   string       `yaml:"name"`
	Date   string       `yaml:"date,omitempty"`
	Vis    ui.VisParams `yaml:"vis,omitempty"`
}

// Source is where an image collection comes from: a JSON file or a
// synthetic seasonal field.
type Source struct {
	Collection string     `yaml:"collection,omitempty"`
	Synthetic  *Synthetic `yaml:"synthetic,omitempty"`
}

// Synthetic describes a generated collection.
type Synthetic struct {
	Band      string     `yaml:"band"`
	Bounds    [4]float64 `yaml:"bounds"`
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	Start     string     `yaml:"start"`
	Months    int        `yaml:"months"`
	Base      float64    `yaml:"base"`
	Amplitude float64    `yaml:"amplitude"`
}

// Legend is a gradient or discrete legend. Panel selects the map it is
// drawn on; nil puts it on the display root.
type Legend struct {
	Type     string       `yaml:"type"`
	Panel    *int         `yaml:"panel,omitempty"`
	Title    string       `yaml:"title,omitempty"`
	Position ui.Position  `yaml:"position,omitempty"`
	Vis      ui.VisParams `yaml:"vis,omitempty"`
	Names    []string     `yaml:"names,omitempty"`
	Palette  []string     `yaml:"palette,omitempty"`
}

// Series attaches a click-to-inspect chart to a panel.
type Series struct {
	Panel   int          `yaml:"panel"`
	Source  Source       `yaml:"source"`
	Region  string       `yaml:"region"`
	Name    string       `yaml:"name"`
	Vis     ui.VisParams `yaml:"vis,omitempty"`
	Scale   float64      `yaml:"scale,omitempty"`
	Reducer string       `yaml:"reducer,omitempty"`
	// Label adds a date label to the panel that follows chart clicks.
	Label bool `yaml:"label,omitempty"`
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, err
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// Read decodes and validates a scene. Unknown fields are rejected.
func Read(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	// Keys the file leaves out keep their preset value.
	s := Scene{Grid: Grid{Count: countUnset}}
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	if s.Grid.Count == countUnset {
		s.Grid.Count = grid.DefaultCount
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the scene as YAML.
func (s *Scene) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks references and required fields. It does not open any
// files.
func (s *Scene) Validate() error {
	if s.Grid.Count < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "grid count %d is negative", s.Grid.Count)
	}
	if len(s.Panels) > s.Grid.Count {
		return errors.New(errors.ErrCodeInvalidScene, "%d panels configured for a grid of %d", len(s.Panels), s.Grid.Count)
	}
	for i, p := range s.Panels {
		for j, l := range p.Layers {
			if err := l.Source.validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "panel %d layer %d", i, j)
			}
			if err := errors.ValidateName(l.Name); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "panel %d layer %d", i, j)
			}
			if _, err := l.When(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "panel %d layer %d", i, j)
			}
		}
	}
	for i, l := range s.Legends {
		switch l.Type {
		case LegendGradient, LegendDiscrete:
		default:
			return errors.New(errors.ErrCodeInvalidScene, "legend %d: unknown type %q (must be gradient or discrete)", i, l.Type)
		}
		if l.Panel != nil && !s.hasPanel(*l.Panel) {
			return errors.New(errors.ErrCodeInvalidScene, "legend %d: panel %d does not exist", i, *l.Panel)
		}
		if l.Position != "" && !l.Position.Valid() {
			return errors.New(errors.ErrCodeInvalidScene, "legend %d: unknown position %q", i, l.Position)
		}
	}
	for i, sr := range s.Series {
		if !s.hasPanel(sr.Panel) {
			return errors.New(errors.ErrCodeInvalidScene, "series %d: panel %d does not exist", i, sr.Panel)
		}
		if err := sr.Source.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "series %d", i)
		}
		if sr.Region == "" {
			return errors.New(errors.ErrCodeInvalidScene, "series %d: region is required", i)
		}
		if _, err := imagery.ReducerByName(sr.Reducer); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "series %d", i)
		}
	}
	return nil
}

func (s *Scene) hasPanel(i int) bool { return i >= 0 && i < s.Grid.Count }

// Path resolves p against the scene directory.
func (s *Scene) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || s.Dir == "" {
		return p
	}
	return filepath.Join(s.Dir, p)
}

// Files returns the resolved paths of every file the scene reads, in
// declaration order without duplicates.
func (s *Scene) Files() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if p == "" {
			return
		}
		p = s.Path(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range s.Panels {
		for _, l := range p.Layers {
			add(l.Source.Collection)
		}
	}
	for _, sr := range s.Series {
		add(sr.Source.Collection)
		add(sr.Region)
	}
	return out
}

// When parses the layer date. The layer shows the first image taken on that
// UTC day; a zero time selects the first image.
func (l Layer) When() (time.Time, error) {
	if l.Date == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, l.Date)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "date %q", l.Date)
	}
	return t, nil
}

func (src Source) validate() error {
	switch {
	case src.Collection != "" && src.Synthetic != nil:
		return errors.New(errors.ErrCodeInvalidScene, "source sets both collection and synthetic")
	case src.Collection == "" && src.Synthetic == nil:
		return errors.New(errors.ErrCodeInvalidScene, "source needs a collection or synthetic")
	case src.Synthetic != nil:
		return src.Synthetic.validate()
	}
	return nil
}

func (syn *Synthetic) validate() error {
	if err := errors.ValidateName(syn.Band); err != nil {
		return err
	}
	if syn.Width <= 0 || syn.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "synthetic grid %dx%d must be positive", syn.Width, syn.Height)
	}
	if syn.Months <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "synthetic months must be positive")
	}
	if _, err := time.Parse(DateLayout, syn.Start); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "synthetic start %q", syn.Start)
	}
	return nil
}

// Generate builds the synthetic collection.
func (syn *Synthetic) Generate() (*imagery.Collection, error) {
	if err := syn.validate(); err != nil {
		return nil, err
	}
	start, _ := time.Parse(DateLayout, syn.Start)
	b := orb.Bound{Min: orb.Point{syn.Bounds[0], syn.Bounds[1]}, Max: orb.Point{syn.Bounds[2], syn.Bounds[3]}}
	return imagery.Synthesize(b, syn.Width, syn.Height, imagery.Monthly(start, syn.Months), syn.Band,
		imagery.Seasonal(b, syn.Base, syn.Amplitude))
}
