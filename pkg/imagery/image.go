package imagery

import (
	"image"
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/palette"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Image is a multi-band raster captured at one time.
type Image struct {
	ID        string
	TimeStart time.Time
	Bounds    orb.Bound
	Width     int
	Height    int
	// Bands maps a band name to Width*Height values in row-major order.
	Bands map[string][]float64
}

// NewImage creates an empty image and validates its grid.
func NewImage(id string, start time.Time, bounds orb.Bound, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image %s: grid must be positive, got %dx%d", id, width, height)
	}
	if bounds.Max[0] <= bounds.Min[0] || bounds.Max[1] <= bounds.Min[1] {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image %s: bounds have no area", id)
	}
	return &Image{
		ID:        id,
		TimeStart: start.UTC(),
		Bounds:    bounds,
		Width:     width,
		Height:    height,
		Bands:     make(map[string][]float64),
	}, nil
}

// SetBand stores a band. values must hold Width*Height entries.
func (img *Image) SetBand(name string, values []float64) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if len(values) != img.Width*img.Height {
		return errors.New(errors.ErrCodeInvalidInput, "band %s: got %d values, want %d", name, len(values), img.Width*img.Height)
	}
	img.Bands[name] = values
	return nil
}

// BandNames returns the band names in sorted order.
func (img *Image) BandNames() []string {
	names := make([]string, 0, len(img.Bands))
	for name := range img.Bands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Footprint implements ui.Raster.
func (img *Image) Footprint() orb.Bound { return img.Bounds }

// Sample returns the value of the pixel containing pt. It reports false when
// pt lies outside the image, the band is missing, or the pixel is NaN.
func (img *Image) Sample(band string, pt orb.Point) (float64, bool) {
	values, ok := img.Bands[band]
	if !ok || !img.Bounds.Contains(pt) {
		return 0, false
	}
	col, row := img.pixel(pt)
	v := values[row*img.Width+col]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func (img *Image) pixel(pt orb.Point) (col, row int) {
	dx := img.Bounds.Max[0] - img.Bounds.Min[0]
	dy := img.Bounds.Max[1] - img.Bounds.Min[1]
	col = int((pt[0] - img.Bounds.Min[0]) / dx * float64(img.Width))
	row = int((img.Bounds.Max[1] - pt[1]) / dy * float64(img.Height))
	return min(max(col, 0), img.Width-1), min(max(row, 0), img.Height-1)
}

// Visualize implements ui.Raster. It stretches the first requested band (or
// the first band by name) through the palette; missing pixels are
// transparent.
func (img *Image) Visualize(vis ui.VisParams) (*image.RGBA, error) {
	band := vis.Band()
	if band == "" {
		names := img.BandNames()
		if len(names) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "image %s has no bands", img.ID)
		}
		band = names[0]
	}
	values, ok := img.Bands[band]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "image %s has no band %q", img.ID, band)
	}

	ramp, err := palette.NewRamp(vis.Palette)
	if err != nil {
		return nil, err
	}
	lo, hi := vis.Range()
	gamma := 1.0
	if vis.Gamma != nil {
		gamma = *vis.Gamma
	}
	alpha := uint8(math.Round(vis.Alpha() * 255))

	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for row := 0; row < img.Height; row++ {
		for col := 0; col < img.Width; col++ {
			v := values[row*img.Width+col]
			if math.IsNaN(v) {
				continue
			}
			r, g, b := ramp.At(palette.Stretch(v, lo, hi, gamma)).RGB255()
			out.SetRGBA(col, row, premultiply(r, g, b, alpha))
		}
	}
	return out, nil
}

func premultiply(r, g, b, a uint8) color.RGBA {
	scale := func(c uint8) uint8 { return uint8(uint16(c) * uint16(a) / 255) }
	return color.RGBA{R: scale(r), G: scale(g), B: scale(b), A: a}
}

// Ensure Image implements ui.Raster.
var _ ui.Raster = (*Image)(nil)
