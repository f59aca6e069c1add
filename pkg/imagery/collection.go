package imagery

import (
	"slices"
	"time"

	"github.com/matzehuels/mapvis/pkg/errors"
)

// Collection is an ordered set of images.
type Collection struct {
	images []*Image
}

// NewCollection creates a collection sorted by image time.
func NewCollection(images ...*Image) *Collection {
	c := &Collection{images: append([]*Image(nil), images...)}
	c.Sort()
	return c
}

// Sort orders images by time, keeping insertion order for equal times.
func (c *Collection) Sort() {
	slices.SortStableFunc(c.images, func(a, b *Image) int {
		return a.TimeStart.Compare(b.TimeStart)
	})
}

// Len returns the number of images.
func (c *Collection) Len() int { return len(c.images) }

// Images returns the images in order.
func (c *Collection) Images() []*Image {
	return append([]*Image(nil), c.images...)
}

// First returns the earliest image.
func (c *Collection) First() (*Image, error) {
	if len(c.images) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "collection is empty")
	}
	return c.images[0], nil
}

// FilterDate returns the images whose start time equals t to the
// millisecond, which is the resolution of chart X values.
func (c *Collection) FilterDate(t time.Time) *Collection {
	want := t.UnixMilli()
	out := &Collection{}
	for _, img := range c.images {
		if img.TimeStart.UnixMilli() == want {
			out.images = append(out.images, img)
		}
	}
	return out
}

// FilterDay returns the images that start on the UTC calendar day of day.
// Front ends list dates without a time of day and resolve them here.
func (c *Collection) FilterDay(day time.Time) *Collection {
	y, m, d := day.UTC().Date()
	out := &Collection{}
	for _, img := range c.images {
		iy, im, id := img.TimeStart.UTC().Date()
		if iy == y && im == m && id == d {
			out.images = append(out.images, img)
		}
	}
	return out
}

// DateOn returns the earliest image time on the UTC calendar day of day.
func (c *Collection) DateOn(day time.Time) (time.Time, bool) {
	img, err := c.FilterDay(day).First()
	if err != nil {
		return time.Time{}, false
	}
	return img.TimeStart, true
}

// Dates returns the distinct image times in order.
func (c *Collection) Dates() []time.Time {
	var out []time.Time
	for _, img := range c.images {
		if n := len(out); n > 0 && out[n-1].Equal(img.TimeStart) {
			continue
		}
		out = append(out, img.TimeStart)
	}
	return out
}

// BandNames returns the union of band names across images, sorted.
func (c *Collection) BandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, img := range c.images {
		for name := range img.Bands {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names
}
