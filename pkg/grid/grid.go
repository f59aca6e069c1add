package grid

import (
	"math"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// DefaultCount is the panel count front ends use when none is given.
const DefaultCount = 2

// Option configures [Plan].
type Option func(*options)

type options struct {
	columns  int
	rows     int
	rowMajor bool
}

// Columns sets the column count. Non-positive values leave it unset.
func Columns(n int) Option { return func(o *options) { o.columns = n } }

// Rows sets the row count. Non-positive values leave it unset.
func Rows(n int) Option { return func(o *options) { o.rows = n } }

// RowMajor selects row-major (true, the default) or column-major filling.
func RowMajor(byRow bool) Option { return func(o *options) { o.rowMajor = byRow } }

// ColumnMajor fills panels down each column first.
func ColumnMajor() Option { return RowMajor(false) }

// Arrangement is a planned grid.
type Arrangement struct {
	Count    int  // Requested panel count
	Columns  int  // Columns as requested or defaulted, before any swap
	Rows     int  // Rows as requested or defaulted, before any swap
	RowMajor bool // Whether panels fill rows first

	// Outer is the direction groups are stacked in; Inner is the direction
	// panels flow within a group.
	Outer ui.Flow
	Inner ui.Flow

	// Groups holds the panels by outer-axis group, each in inner-axis order.
	Groups [][]*ui.Map
	// Panels holds every created panel in creation order.
	Panels []*ui.Map
	// Linker ties all panels to one viewport.
	Linker *ui.Linker
}

// Plan assigns count panels to grid cells.
//
// The returned error is non-nil only when the grid is too small for count; it
// is an *errors.OverflowError and the arrangement holds the panels that fit.
func Plan(count int, opts ...Option) (Arrangement, error) {
	o := options{rowMajor: true}
	for _, opt := range opts {
		opt(&o)
	}

	if count <= 0 {
		return Arrangement{
			RowMajor: o.rowMajor,
			Outer:    outerFlow(o.rowMajor),
			Inner:    innerFlow(o.rowMajor),
			Linker:   ui.NewLinker(),
		}, nil
	}

	columns, rows := Dimensions(count, o.columns, o.rows)
	arr := Arrangement{
		Count:    count,
		Columns:  columns,
		Rows:     rows,
		RowMajor: o.rowMajor,
		Outer:    outerFlow(o.rowMajor),
		Inner:    innerFlow(o.rowMajor),
	}

	outer, inner := arr.effective()
	for i := 0; i < outer; i++ {
		var group []*ui.Map
		for j := 0; j < inner; j++ {
			k := i*inner + j
			if k >= count {
				break
			}
			m := ui.NewMap(k)
			group = append(group, m)
			arr.Panels = append(arr.Panels, m)
		}
		if len(group) == 0 {
			break
		}
		arr.Groups = append(arr.Groups, group)
	}
	arr.Linker = ui.NewLinker(arr.Panels...)

	if rows*columns < count {
		return arr, &errors.OverflowError{Count: count, Rows: rows, Columns: columns}
	}
	return arr, nil
}

// Dimensions resolves the column and row counts for count panels. Non-positive
// columns or rows are replaced by the defaults.
func Dimensions(count, columns, rows int) (int, int) {
	if count <= 0 {
		return 0, 0
	}
	if columns <= 0 {
		columns = int(math.Ceil(math.Sqrt(float64(count))))
	}
	if rows <= 0 {
		rows = (count + columns - 1) / columns
	}
	return columns, rows
}

// effective returns the group count and group capacity used for indexing.
// Column-major grids swap rows and columns.
func (a Arrangement) effective() (outer, inner int) {
	if a.RowMajor {
		return a.Rows, a.Columns
	}
	return a.Columns, a.Rows
}

// Indices returns the creation index of each panel by group. Two plans with
// the same arguments have equal indices even though their panels differ.
func (a Arrangement) Indices() [][]int {
	out := make([][]int, len(a.Groups))
	for i, g := range a.Groups {
		out[i] = make([]int, len(g))
		for j, m := range g {
			out[i][j] = m.Index
		}
	}
	return out
}

// Cell returns the group and position of panel k, and false when k was not
// placed.
func (a Arrangement) Cell(k int) (group, pos int, ok bool) {
	if k < 0 || k >= len(a.Panels) {
		return 0, 0, false
	}
	_, inner := a.effective()
	return k / inner, k % inner, true
}

// Empty reports whether the arrangement has no panels.
func (a Arrangement) Empty() bool { return len(a.Panels) == 0 }

func outerFlow(rowMajor bool) ui.Flow {
	if rowMajor {
		return ui.Vertical
	}
	return ui.Horizontal
}

func innerFlow(rowMajor bool) ui.Flow {
	return outerFlow(rowMajor).Other()
}
