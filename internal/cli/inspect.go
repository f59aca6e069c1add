package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [scene.yaml]",
		Short: "Step through series dates in the terminal",
		Long: `Step through series dates in the terminal.

The scene is drawn with terminal blocks. Arrow keys move along the dates of
the focused panel's chart and click it, swapping the panel's layer to the
image taken on that date. Tab moves focus to the next panel with a chart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.Config.Options()
	d, err := c.buildScene(ctx, runner, input, opts)
	if err != nil {
		return err
	}
	if len(d.Inspectors) == 0 {
		printWarning("%s has no series charts; showing the static display", input)
	}

	opts.SetDefaults()
	model := NewInspectModel(ctx, runner, d, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}

var _ tea.Model = InspectModel{}
