package imagery

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/mapvis/pkg/errors"
)

// collectionFile is the on-disk form of a collection. Images inherit the
// collection's grid unless they set their own.
type collectionFile struct {
	Bounds [4]float64  `json:"bounds"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Images []imageFile `json:"images"`
}

type imageFile struct {
	ID        string                `json:"id"`
	TimeStart time.Time             `json:"time_start"`
	Bounds    *[4]float64           `json:"bounds,omitempty"`
	Width     int                   `json:"width,omitempty"`
	Height    int                   `json:"height,omitempty"`
	Bands     map[string][]*float64 `json:"bands"`
}

// LoadCollection reads a JSON collection file.
func LoadCollection(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open collection %s", path)
	}
	defer f.Close()
	c, err := ReadCollection(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ReadCollection decodes a JSON collection.
func ReadCollection(r io.Reader) (*Collection, error) {
	var cf collectionFile
	if err := json.NewDecoder(r).Decode(&cf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode collection")
	}

	images := make([]*Image, 0, len(cf.Images))
	for i, f := range cf.Images {
		bounds, width, height := cf.Bounds, cf.Width, cf.Height
		if f.Bounds != nil {
			bounds = *f.Bounds
		}
		if f.Width > 0 {
			width = f.Width
		}
		if f.Height > 0 {
			height = f.Height
		}
		id := f.ID
		if id == "" {
			id = fmt.Sprintf("%d", i)
		}

		img, err := NewImage(id, f.TimeStart, boundOf(bounds), width, height)
		if err != nil {
			return nil, err
		}
		for name, values := range f.Bands {
			if err := img.SetBand(name, fromNullable(values)); err != nil {
				return nil, fmt.Errorf("image %s: %w", id, err)
			}
		}
		images = append(images, img)
	}
	return NewCollection(images...), nil
}

// WriteCollection encodes c in the format ReadCollection accepts. Every
// image carries its own grid.
func WriteCollection(w io.Writer, c *Collection) error {
	cf := collectionFile{Images: make([]imageFile, 0, c.Len())}
	for _, img := range c.images {
		b := [4]float64{img.Bounds.Min[0], img.Bounds.Min[1], img.Bounds.Max[0], img.Bounds.Max[1]}
		cf.Images = append(cf.Images, imageFile{
			ID:        img.ID,
			TimeStart: img.TimeStart,
			Bounds:    &b,
			Width:     img.Width,
			Height:    img.Height,
			Bands:     toNullable(img.Bands),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cf)
}

func boundOf(b [4]float64) orb.Bound {
	return orb.Bound{Min: orb.Point{b[0], b[1]}, Max: orb.Point{b[2], b[3]}}
}

// JSON has no NaN, so missing pixels are written as null.
func fromNullable(values []*float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return out
}

func toNullable(bands map[string][]float64) map[string][]*float64 {
	out := make(map[string][]*float64, len(bands))
	for name, values := range bands {
		vs := make([]*float64, len(values))
		for i, v := range values {
			if !math.IsNaN(v) {
				vs[i] = &v
			}
		}
		out[name] = vs
	}
	return out
}

// LoadRegion reads a GeoJSON geometry, feature, or feature collection. A
// feature collection becomes an orb.Collection of its geometries.
func LoadRegion(path string) (orb.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read region %s", path)
	}
	return ParseRegion(data)
}

// ParseRegion decodes GeoJSON into a region geometry.
func ParseRegion(data []byte) (orb.Geometry, error) {
	var kind struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &kind); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode region")
	}

	switch kind.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode feature collection")
		}
		if len(fc.Features) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "feature collection has no features")
		}
		if len(fc.Features) == 1 {
			return fc.Features[0].Geometry, nil
		}
		coll := make(orb.Collection, 0, len(fc.Features))
		for _, f := range fc.Features {
			coll = append(coll, f.Geometry)
		}
		return coll, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode feature")
		}
		return f.Geometry, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidFormat, "region has no GeoJSON type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode geometry")
		}
		return g.Geometry(), nil
	}
}
