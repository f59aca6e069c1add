// Package palette parses colour lists and turns them into continuous ramps.
//
// Palettes follow the conventions of map styling: colours may be written as
// hex with or without a leading '#', in 3 or 6 digit form, or as a basic CSS
// colour name.
//
//	r, err := palette.NewRamp([]string{"blue", "ffffff", "#ff0000"})
//	c := r.At(0.25) // halfway between blue and white
package palette

import (
	"image"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/mapvis/pkg/errors"
)

var named = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"brown":   "#a52a2a",
	"navy":    "#000080",
	"teal":    "#008080",
	"olive":   "#808000",
	"maroon":  "#800000",
}

// Parse converts a colour string into a colour.
func Parse(s string) (colorful.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[v]; ok {
		v = hex
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid colour %q", s)
	}
	return c, nil
}

// Hex normalizes a colour string to "#rrggbb".
func Hex(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Ramp interpolates linearly in RGB between evenly spaced colour stops.
type Ramp struct {
	stops []colorful.Color
}

// NewRamp parses the palette into a ramp. An empty palette yields a
// black-to-white ramp.
func NewRamp(colors []string) (Ramp, error) {
	if len(colors) == 0 {
		colors = []string{"000000", "ffffff"}
	}
	stops := make([]colorful.Color, len(colors))
	for i, s := range colors {
		c, err := Parse(s)
		if err != nil {
			return Ramp{}, err
		}
		stops[i] = c
	}
	return Ramp{stops: stops}, nil
}

// Len returns the number of stops.
func (r Ramp) Len() int { return len(r.stops) }

// At returns the colour at t in [0, 1]. Values outside are clamped.
func (r Ramp) At(t float64) colorful.Color {
	if len(r.stops) == 0 {
		return colorful.Color{}
	}
	if math.IsNaN(t) || t <= 0 {
		return r.stops[0]
	}
	if t >= 1 || len(r.stops) == 1 {
		return r.stops[len(r.stops)-1]
	}
	idx := t * float64(len(r.stops)-1)
	lower := int(idx)
	return r.stops[lower].BlendRgb(r.stops[lower+1], idx-float64(lower)).Clamped()
}

// Flat returns a ramp that is the first stop of r everywhere.
func (r Ramp) Flat() Ramp {
	if len(r.stops) == 0 {
		return r
	}
	return Ramp{stops: r.stops[:1]}
}

// Steps samples n evenly spaced colours from the start to the end of the
// ramp.
func (r Ramp) Steps(n int) []colorful.Color {
	if n <= 0 {
		return nil
	}
	out := make([]colorful.Color, n)
	for i := range out {
		if n == 1 {
			out[i] = r.At(0)
			continue
		}
		out[i] = r.At(float64(i) / float64(n-1))
	}
	return out
}

// Stretch maps v from [min, max] onto [0, 1] and applies gamma. A gamma of 0
// is treated as 1.
func Stretch(v, min, max, gamma float64) float64 {
	if max == min {
		return 0
	}
	t := (v - min) / (max - min)
	t = math.Max(0, math.Min(1, t))
	if gamma > 0 && gamma != 1 {
		t = math.Pow(t, 1/gamma)
	}
	return t
}

// Gradient draws a vertical colour bar of the given size, quantized into
// steps bands. The end of the ramp is at the top.
func Gradient(r Ramp, width, height, steps int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	if steps <= 0 {
		steps = height
	}
	colors := r.Steps(steps)
	for y := 0; y < height; y++ {
		// Row 0 is the top of the image, which shows the highest step.
		step := (height - 1 - y) * steps / height
		c := colors[step]
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
