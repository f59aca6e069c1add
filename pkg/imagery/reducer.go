package imagery

import (
	"slices"
	"strings"

	"github.com/matzehuels/mapvis/pkg/errors"
)

// Reducer summarizes sampled values into one number.
type Reducer interface {
	Name() string
	// Reduce returns false when values is empty.
	Reduce(values []float64) (float64, bool)
}

type reducerFunc struct {
	name string
	fn   func([]float64) float64
}

func (r reducerFunc) Name() string { return r.name }

func (r reducerFunc) Reduce(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return r.fn(values), true
}

// Built-in reducers.
var (
	Mean Reducer = reducerFunc{"mean", func(vs []float64) float64 {
		var sum float64
		for _, v := range vs {
			sum += v
		}
		return sum / float64(len(vs))
	}}
	Min Reducer = reducerFunc{"min", func(vs []float64) float64 { return slices.Min(vs) }}
	Max Reducer = reducerFunc{"max", func(vs []float64) float64 { return slices.Max(vs) }}
	Median Reducer = reducerFunc{"median", func(vs []float64) float64 {
		sorted := slices.Clone(vs)
		slices.Sort(sorted)
		n := len(sorted)
		if n%2 == 1 {
			return sorted[n/2]
		}
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}}
)

var reducers = map[string]Reducer{
	"mean":   Mean,
	"min":    Min,
	"max":    Max,
	"median": Median,
}

// ReducerByName looks up a built-in reducer. An empty name selects Mean.
func ReducerByName(name string) (Reducer, error) {
	if name == "" {
		return Mean, nil
	}
	r, ok := reducers[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown reducer %q (must be mean, min, max or median)", name)
	}
	return r, nil
}
