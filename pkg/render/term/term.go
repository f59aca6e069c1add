// Package term renders a widget tree to coloured terminal cells.
//
// Each cell stands for a block of display pixels (8x16 by default), so the
// same compositor that drives the SVG host lays out the terminal view.
// Layers are drawn with upper-half blocks, giving two raster rows per cell.
// Charts become one sparkline per series. Colours go through lipgloss and
// degrade to plain characters when the output is not a colour terminal.
package term

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/mapvis/pkg/palette"
	"github.com/matzehuels/mapvis/pkg/render"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Defaults for the terminal grid.
const (
	DefaultColumns = 120
	DefaultRows    = 40
	CellWidth      = 8.0
	CellHeight     = 16.0
)

const (
	upperHalf = '▀'
	fullBlock = '█'
	swatch    = '■'
)

var sparks = []rune("▁▂▃▄▅▆▇█")

var seriesColors = []string{"#4e79a7", "#f28e2b", "#59a14f", "#e15759", "#76b7b2"}

type cell struct {
	ch     rune
	fg, bg string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the grid size in cells. Non-positive values keep the defaults.
func WithSize(cols, rows int) Option {
	return func(r *Renderer) {
		if cols > 0 {
			r.cols = cols
		}
		if rows > 0 {
			r.rows = rows
		}
	}
}

// Renderer is a render.Host drawing into a cell grid.
type Renderer struct {
	cols, rows int
	cells      [][]cell
}

var _ render.Host = (*Renderer)(nil)

// NewRenderer creates a terminal host.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{cols: DefaultColumns, rows: DefaultRows}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderRoot composes root onto a fresh grid and returns the styled text.
func RenderRoot(root *ui.Root, opts ...Option) (string, error) {
	return NewRenderer(opts...).Document(root)
}

// Document lays out root across the grid and returns the styled text.
func (r *Renderer) Document(root *ui.Root) (string, error) {
	r.cells = make([][]cell, r.rows)
	for y := range r.cells {
		r.cells[y] = make([]cell, r.cols)
		for x := range r.cells[y] {
			r.cells[y][x] = cell{ch: ' '}
		}
	}
	bounds := render.Rect{W: float64(r.cols) * CellWidth, H: float64(r.rows) * CellHeight}
	if err := render.Compose(root, bounds, r); err != nil {
		return "", err
	}
	return r.String(), nil
}

// String renders the grid, merging runs of equally styled cells.
func (r *Renderer) String() string {
	var b strings.Builder
	for y, row := range r.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bg == row[start].bg {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.ch)
			}
			b.WriteString(styleFor(row[start]).Render(string(run)))
			start = x
		}
	}
	return b.String()
}

func styleFor(c cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.fg != "" {
		s = s.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		s = s.Background(lipgloss.Color(c.bg))
	}
	return s
}

// cellRect converts a pixel rectangle into a half-open cell range clipped to
// the grid.
func (r *Renderer) cellRect(rect render.Rect) (x0, y0, x1, y1 int) {
	x0 = clamp(int(math.Floor(rect.X/CellWidth)), 0, r.cols)
	y0 = clamp(int(math.Floor(rect.Y/CellHeight)), 0, r.rows)
	x1 = clamp(int(math.Ceil((rect.X+rect.W)/CellWidth)), x0, r.cols)
	y1 = clamp(int(math.Ceil((rect.Y+rect.H)/CellHeight)), y0, r.rows)
	return
}

func clamp(v, lo, hi int) int { return max(lo, min(v, hi)) }

func (r *Renderer) set(x, y int, ch rune, fg, bg string) {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows {
		return
	}
	c := &r.cells[y][x]
	c.ch = ch
	if fg != "" {
		c.fg = fg
	}
	if bg != "" {
		c.bg = bg
	}
}

func (r *Renderer) text(x, y, limit int, s, fg string) {
	for i, ch := range []rune(s) {
		if i >= limit {
			return
		}
		r.set(x+i, y, ch, fg, "")
	}
}

// RenderMap draws a rounded frame around the map.
func (r *Renderer) RenderMap(m *ui.Map, rect render.Rect) error {
	x0, y0, x1, y1 := r.cellRect(rect)
	if x1-x0 < 2 || y1-y0 < 2 {
		return nil
	}
	border := lipgloss.RoundedBorder()
	rune0 := func(s string) rune { return []rune(s)[0] }
	const frame = "#9aa5ad"
	for x := x0 + 1; x < x1-1; x++ {
		r.set(x, y0, rune0(border.Top), frame, "")
		r.set(x, y1-1, rune0(border.Bottom), frame, "")
	}
	for y := y0 + 1; y < y1-1; y++ {
		r.set(x0, y, rune0(border.Left), frame, "")
		r.set(x1-1, y, rune0(border.Right), frame, "")
	}
	r.set(x0, y0, rune0(border.TopLeft), frame, "")
	r.set(x1-1, y0, rune0(border.TopRight), frame, "")
	r.set(x0, y1-1, rune0(border.BottomLeft), frame, "")
	r.set(x1-1, y1-1, rune0(border.BottomRight), frame, "")
	return nil
}

// RenderLayer draws the layer raster inside the map frame with half blocks.
func (r *Renderer) RenderLayer(m *ui.Map, l *ui.Layer, rect render.Rect) error {
	if l.Source == nil {
		return nil
	}
	img, err := l.Source.Visualize(l.Vis)
	if err != nil {
		return err
	}
	mx0, my0, mx1, my1 := r.cellRect(rect)
	dst := render.Project(l.Source.Footprint(), render.View(m), rect)
	x0, y0, x1, y1 := r.cellRect(dst)
	x0, y0 = max(x0, mx0+1), max(y0, my0+1)
	x1, y1 = min(x1, mx1-1), min(y1, my1-1)

	b := img.Bounds()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			// Pixel coordinates of the cell's upper and lower halves.
			px := (float64(x)+0.5)*CellWidth - dst.X
			upper := (float64(y)+0.25)*CellHeight - dst.Y
			lower := (float64(y)+0.75)*CellHeight - dst.Y
			u := sample(img, b, px/dst.W, upper/dst.H)
			d := sample(img, b, px/dst.W, lower/dst.H)
			if u == "" && d == "" {
				continue
			}
			if u == "" {
				u = d
			}
			if d == "" {
				d = u
			}
			r.set(x, y, upperHalf, u, d)
		}
	}
	return nil
}

// sample returns the hex colour of img at fractional position (fx, fy), or
// "" when the pixel is transparent or outside the image.
func sample(img image.Image, b image.Rectangle, fx, fy float64) string {
	if fx < 0 || fy < 0 || fx >= 1 || fy >= 1 {
		return ""
	}
	x := b.Min.X + int(fx*float64(b.Dx()))
	y := b.Min.Y + int(fy*float64(b.Dy()))
	return hexOf(img.At(x, y))
}

func hexOf(c color.Color) string {
	_, _, _, a := c.RGBA()
	if a == 0 {
		return ""
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}

// RenderChart draws the title and one sparkline row per series.
func (r *Renderer) RenderChart(c *ui.Chart, rect render.Rect) error {
	x0, y0, x1, y1 := r.cellRect(rect)
	width := x1 - x0
	if width <= 0 || y1 <= y0 {
		return nil
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.set(x, y, ' ', "", "#1c1c1c")
		}
	}
	row := y0
	if c.Title != "" {
		r.text(x0, row, width, c.Title, "#ffffff")
		row++
	}
	for i, s := range c.Series {
		if row >= y1 {
			break
		}
		name := s.Name
		if len(name) > width/3 {
			name = name[:width/3]
		}
		r.text(x0, row, width, name, "#cccccc")
		values := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			values = append(values, p.Y)
		}
		line := Sparkline(values, width-len(name)-1)
		r.text(x0+len(name)+1, row, width, line, seriesColors[i%len(seriesColors)])
		row++
	}
	return nil
}

// Sparkline maps values onto eight block heights, resampled to width runes.
// Non-finite values become spaces.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	n := min(width, len(values))
	out := make([]rune, n)
	for i := range out {
		v := values[i*len(values)/n]
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			out[i] = ' '
		case hi == lo:
			out[i] = sparks[len(sparks)/2]
		default:
			level := int((v - lo) / (hi - lo) * float64(len(sparks)-1))
			out[i] = sparks[clamp(level, 0, len(sparks)-1)]
		}
	}
	return string(out)
}

// RenderLegendPanel draws a panel and its children on a dark card.
func (r *Renderer) RenderLegendPanel(p *ui.Panel, rect render.Rect) error {
	x0, y0, x1, y1 := r.cellRect(rect)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.set(x, y, ' ', "", "#262626")
		}
	}
	return r.panelContent(p, rect)
}

func (r *Renderer) panelContent(p *ui.Panel, rect render.Rect) error {
	for _, pl := range render.Arrange(p, rect) {
		var err error
		switch w := pl.Widget.(type) {
		case *ui.Panel:
			err = r.panelContent(w, pl.Rect)
		case *ui.Label:
			err = r.RenderLabel(w, pl.Rect)
		case *ui.Thumbnail:
			r.thumbnail(w, pl.Rect)
		case *ui.Chart:
			err = r.RenderChart(w, pl.Rect)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderLabel writes the label text. Labels with a background colour become
// a coloured swatch.
func (r *Renderer) RenderLabel(l *ui.Label, rect render.Rect) error {
	x0, y0, x1, _ := r.cellRect(rect)
	if bg := l.Style().Get(ui.KeyBackgroundColor); bg != "" {
		hex, err := palette.Hex(bg)
		if err != nil {
			return err
		}
		r.set(x0, y0, swatch, hex, "")
		return nil
	}
	fg := "#eeeeee"
	if l.Style().Get(ui.KeyFontWeight) == "bold" {
		fg = "#ffffff"
	}
	r.text(x0, y0, max(x1-x0, len([]rune(l.Value()))), l.Value(), fg)
	return nil
}

// thumbnail paints one full block per cell row, sampled down the image.
func (r *Renderer) thumbnail(t *ui.Thumbnail, rect render.Rect) {
	if t.Image == nil {
		return
	}
	inner := rect.Inset(render.Padding(t.Style()))
	x0, y0, x1, y1 := r.cellRect(render.Rect{X: inner.X, Y: inner.Y, W: float64(t.Params.Width), H: float64(t.Params.Height)})
	b := t.Image.Bounds()
	for y := y0; y < y1; y++ {
		fy := (float64(y-y0) + 0.5) / float64(y1-y0)
		hex := sample(t.Image, b, 0.5, fy)
		for x := x0; x < x1; x++ {
			r.set(x, y, fullBlock, hex, "")
		}
	}
}
