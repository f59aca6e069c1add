// Package svg renders a widget tree to a standalone SVG document.
package svg

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/matzehuels/mapvis/pkg/palette"
	"github.com/matzehuels/mapvis/pkg/render"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Default document size in pixels.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
)

const (
	mapBackground    = "#e8eef2"
	mapBorder        = "#9aa5ad"
	legendBackground = "#ffffff"
	textColor        = "#222222"
	fontFamily       = "Helvetica, Arial, sans-serif"
)

type SVGOption func(*Renderer)

// WithSize sets the document size. Non-positive values keep the defaults.
func WithSize(width, height float64) SVGOption {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithBackground sets the page colour behind all panels.
func WithBackground(color string) SVGOption { return func(r *Renderer) { r.background = color } }

// Renderer is a render.Host that writes SVG elements into a buffer.
type Renderer struct {
	buf        bytes.Buffer
	width      float64
	height     float64
	background string
	clipID     int
}

var _ render.Host = (*Renderer)(nil)

// NewRenderer creates an SVG host.
func NewRenderer(opts ...SVGOption) *Renderer {
	r := &Renderer{width: DefaultWidth, height: DefaultHeight, background: "#ffffff"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderRoot composes root and returns the SVG document.
func RenderRoot(root *ui.Root, opts ...SVGOption) ([]byte, error) {
	r := NewRenderer(opts...)
	return r.Document(root)
}

// Document lays out root across the renderer's size and returns the SVG.
func (r *Renderer) Document(root *ui.Root) ([]byte, error) {
	r.buf.Reset()
	fmt.Fprintf(&r.buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		r.width, r.height, r.width, r.height, fontFamily)
	fmt.Fprintf(&r.buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", r.width, r.height, EscapeXML(r.background))

	if err := render.Compose(root, render.Rect{W: r.width, H: r.height}, r); err != nil {
		return nil, err
	}
	r.buf.WriteString("</svg>\n")
	return bytes.Clone(r.buf.Bytes()), nil
}

// RenderMap draws the map frame.
func (r *Renderer) RenderMap(m *ui.Map, rect render.Rect) error {
	fmt.Fprintf(&r.buf, `  <rect id="map-%s" class="map" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		m.ID, rect.X, rect.Y, rect.W, rect.H, mapBackground, mapBorder)
	return nil
}

// RenderLayer draws a layer's visualized raster at its footprint inside the
// map's view, clipped to the map rectangle.
func (r *Renderer) RenderLayer(m *ui.Map, l *ui.Layer, rect render.Rect) error {
	if l.Source == nil {
		return nil
	}
	img, err := l.Source.Visualize(l.Vis)
	if err != nil {
		return err
	}
	uri, err := DataURI(img)
	if err != nil {
		return err
	}

	dst := render.Project(l.Source.Footprint(), render.View(m), rect)
	r.clipID++
	fmt.Fprintf(&r.buf, `  <clipPath id="clip-%d"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath>`+"\n",
		r.clipID, rect.X, rect.Y, rect.W, rect.H)
	fmt.Fprintf(&r.buf, `  <image class="layer" data-name="%s" clip-path="url(#clip-%d)" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="none" style="image-rendering:pixelated" xlink:href="%s"/>`+"\n",
		EscapeXML(l.Name), r.clipID, dst.X, dst.Y, dst.W, dst.H, uri)
	return nil
}

// RenderChart draws a chart through go-chart and nests the result.
func (r *Renderer) RenderChart(c *ui.Chart, rect render.Rect) error {
	w, h := int(math.Round(rect.W)), int(math.Round(rect.H))
	data, err := Chart(c, w, h)
	if err != nil {
		return err
	}
	fmt.Fprintf(&r.buf, `  <g class="chart" transform="translate(%.1f,%.1f)">`+"\n", rect.X, rect.Y)
	r.buf.Write(data)
	r.buf.WriteString("\n  </g>\n")
	return nil
}

// RenderLegendPanel draws a panel on a white card and lays out its children.
func (r *Renderer) RenderLegendPanel(p *ui.Panel, rect render.Rect) error {
	fmt.Fprintf(&r.buf, `  <g class="legend">`+"\n")
	box := rect.Inset(render.Margin(p.Style()))
	fill := legendBackground
	if bg := p.Style().Get(ui.KeyBackgroundColor); bg != "" {
		fill = bg
	}
	fmt.Fprintf(&r.buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s" fill-opacity="0.9"/>`+"\n",
		box.X, box.Y, box.W, box.H, EscapeXML(fill))
	if err := r.panelContent(p, box); err != nil {
		return err
	}
	r.buf.WriteString("  </g>\n")
	return nil
}

func (r *Renderer) panelContent(p *ui.Panel, rect render.Rect) error {
	for _, pl := range render.Arrange(p, rect) {
		var err error
		switch w := pl.Widget.(type) {
		case *ui.Panel:
			err = r.panelContent(w, pl.Rect.Inset(render.Margin(w.Style())))
		case *ui.Label:
			err = r.RenderLabel(w, pl.Rect)
		case *ui.Thumbnail:
			err = r.thumbnail(w, pl.Rect)
		case *ui.Chart:
			err = r.RenderChart(w, pl.Rect)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderLabel draws a label. A label with a background colour is drawn as a
// filled box, which is how discrete legends show their swatches.
func (r *Renderer) RenderLabel(l *ui.Label, rect render.Rect) error {
	style := l.Style()
	box := rect.Inset(render.Margin(style))
	if bg := style.Get(ui.KeyBackgroundColor); bg != "" {
		fill, err := palette.Hex(bg)
		if err != nil {
			return err
		}
		size := render.Measure(l)
		fmt.Fprintf(&r.buf, `    <rect class="swatch" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			box.X, box.Y, min(box.W, size.W), min(box.H, size.H), fill)
	}
	if l.Value() == "" {
		return nil
	}

	text := box.Inset(render.Padding(style))
	fs := render.FontSize(style)
	weight := "normal"
	if w := style.Get(ui.KeyFontWeight); w != "" {
		weight = w
	}
	fmt.Fprintf(&r.buf, `    <text x="%.1f" y="%.1f" font-size="%.0f" font-weight="%s" fill="%s">%s</text>`+"\n",
		text.X, text.Y+fs, fs, EscapeXML(weight), textColor, EscapeXML(l.Value()))
	return nil
}

func (r *Renderer) thumbnail(t *ui.Thumbnail, rect render.Rect) error {
	if t.Image == nil {
		return nil
	}
	uri, err := DataURI(t.Image)
	if err != nil {
		return err
	}
	box := rect.Inset(render.Margin(t.Style())).Inset(render.Padding(t.Style()))
	w, h := float64(t.Params.Width), float64(t.Params.Height)
	opacity := ""
	if a := t.Params.Vis.Alpha(); a < 1 {
		opacity = fmt.Sprintf(` opacity="%.2f"`, a)
	}
	fmt.Fprintf(&r.buf, `    <image class="thumbnail" x="%.1f" y="%.1f" width="%.1f" height="%.1f"%s preserveAspectRatio="none" xlink:href="%s"/>`+"\n",
		box.X, box.Y, min(w, box.W), min(h, box.H), opacity, uri)
	return nil
}

// DataURI encodes img as a base64 PNG data URI.
func DataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EscapeXML escapes text for use in SVG content and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
