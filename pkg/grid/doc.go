// Package grid arranges map panels into a row/column grid.
//
// [Plan] is a pure function from a panel count and optional row/column
// counts to an [Arrangement]: panels grouped along an outer axis, each group
// ordered along the inner axis. It never touches a display. [Install] is the
// separate, side-effecting step that replaces a display root's content with
// the composed arrangement.
//
// # Defaults
//
// Columns default to ceil(sqrt(count)) and rows to ceil(count/columns).
// Options that are not given, or given as zero or negative, fall back to
// these defaults:
//
//	arr, err := grid.Plan(5, grid.Columns(2)) // rows default to 3
//	// arr.Indices() == [[0 1] [2 3] [4]]
//
// # Column-Major Grids
//
// [ColumnMajor] fills panels down a column before moving to the next one. The
// planner swaps rows and columns, applies the same index formula, and swaps
// the outer and inner flows, so each group is one column:
//
//	arr, _ := grid.Plan(6, grid.Columns(3), grid.Rows(2), grid.ColumnMajor())
//	// arr.Indices() == [[0 1] [2 3] [4 5]]
//
// # Overflow
//
// When explicit rows and columns hold fewer cells than count, the panels that
// do not fit are not created. Plan still returns the truncated arrangement,
// together with an [errors.OverflowError] so callers can decide whether to
// accept it.
package grid
