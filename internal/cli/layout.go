package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/grid"
)

// layoutCommand creates the layout command for planning panel grids.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		count       int
		columns     int
		rows        int
		columnMajor bool
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the grid arrangement for a number of panels",
		Long: `Print the grid arrangement for a number of panels.

Columns default to ceil(sqrt(count)) and rows to ceil(count/columns). Panels
are numbered in creation order; each table row is one group of the outer
axis. When rows x columns cannot hold every panel the arrangement is
truncated and a warning is printed (an error with --strict).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []grid.Option{grid.Columns(columns), grid.Rows(rows), grid.RowMajor(!columnMajor)}
			arr, err := grid.Plan(count, opts...)
			if err != nil {
				if strict {
					return err
				}
				printWarning("%s", errors.UserMessage(err))
			}
			fmt.Println(layoutTable(arr))
			printLayoutSummary(arr)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", grid.DefaultCount, "number of panels")
	cmd.Flags().IntVar(&columns, "columns", 0, "number of columns (default ceil(sqrt(count)))")
	cmd.Flags().IntVar(&rows, "rows", 0, "number of rows (default ceil(count/columns))")
	cmd.Flags().BoolVar(&columnMajor, "column-major", false, "fill columns first")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the grid cannot hold every panel")

	return cmd
}

// layoutTable renders the arrangement as a table of panel indices, one row
// per group.
func layoutTable(arr grid.Arrangement) string {
	indices := arr.Indices()
	width := 0
	for _, g := range indices {
		width = max(width, len(g))
	}

	headers := make([]string, width+1)
	headers[0] = string(arr.Outer)
	for i := 1; i <= width; i++ {
		headers[i] = strconv.Itoa(i - 1)
	}

	rows := make([][]string, len(indices))
	for i, g := range indices {
		row := make([]string, width+1)
		row[0] = strconv.Itoa(i)
		for j, k := range g {
			row[j+1] = strconv.Itoa(k)
		}
		rows[i] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cellStyle.Foreground(colorMuted)
			}
			return cellStyle.Foreground(colorAccent)
		}).
		Render()
}

func printLayoutSummary(arr grid.Arrangement) {
	order := "row-major"
	if !arr.RowMajor {
		order = "column-major"
	}
	printKeyValue("Panels", fmt.Sprintf("%d of %d", len(arr.Panels), arr.Count))
	printKeyValue("Grid", fmt.Sprintf("%d columns x %d rows", arr.Columns, arr.Rows))
	printKeyValue("Order", order)
	printKeyValue("Flow", fmt.Sprintf("%s outer, %s inner", arr.Outer, arr.Inner))
}
