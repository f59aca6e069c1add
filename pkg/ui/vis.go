package ui

// VisParams controls how a raster band is stretched onto a palette.
// Nil pointer fields are unset, which keeps a deliberate zero distinct from
// "not given".
type VisParams struct {
	Bands   []string `yaml:"bands,omitempty" json:"bands,omitempty" toml:"bands,omitempty"`
	Min     *float64 `yaml:"min,omitempty" json:"min,omitempty" toml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty" json:"max,omitempty" toml:"max,omitempty"`
	Palette []string `yaml:"palette,omitempty" json:"palette,omitempty" toml:"palette,omitempty"`
	Opacity *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty" toml:"opacity,omitempty"`
	Gamma   *float64 `yaml:"gamma,omitempty" json:"gamma,omitempty" toml:"gamma,omitempty"`
}

// Vis parameter keys as returned by [VisParams.Keys].
const (
	VisBands   = "bands"
	VisMin     = "min"
	VisMax     = "max"
	VisPalette = "palette"
	VisOpacity = "opacity"
	VisGamma   = "gamma"
)

// Float returns a pointer to f, for filling optional VisParams fields.
func Float(f float64) *float64 {
	return &f
}

// Keys returns the names of the set fields in a stable order.
func (v VisParams) Keys() []string {
	var keys []string
	if len(v.Bands) > 0 {
		keys = append(keys, VisBands)
	}
	if v.Min != nil {
		keys = append(keys, VisMin)
	}
	if v.Max != nil {
		keys = append(keys, VisMax)
	}
	if len(v.Palette) > 0 {
		keys = append(keys, VisPalette)
	}
	if v.Opacity != nil {
		keys = append(keys, VisOpacity)
	}
	if v.Gamma != nil {
		keys = append(keys, VisGamma)
	}
	return keys
}

// Without returns a copy of v with the named keys cleared.
func (v VisParams) Without(keys ...string) VisParams {
	out := v
	for _, k := range keys {
		switch k {
		case VisBands:
			out.Bands = nil
		case VisMin:
			out.Min = nil
		case VisMax:
			out.Max = nil
		case VisPalette:
			out.Palette = nil
		case VisOpacity:
			out.Opacity = nil
		case VisGamma:
			out.Gamma = nil
		}
	}
	return out
}

// Range returns the stretch range, defaulting to [0, 1] for unset bounds.
func (v VisParams) Range() (min, max float64) {
	min, max = 0, 1
	if v.Min != nil {
		min = *v.Min
	}
	if v.Max != nil {
		max = *v.Max
	}
	return min, max
}

// Band returns the first requested band, or "" when none is set.
func (v VisParams) Band() string {
	if len(v.Bands) == 0 {
		return ""
	}
	return v.Bands[0]
}

// Alpha returns the layer opacity in [0, 1], defaulting to 1.
func (v VisParams) Alpha() float64 {
	if v.Opacity == nil {
		return 1
	}
	return min(max(*v.Opacity, 0), 1)
}
