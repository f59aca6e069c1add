package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/pipeline"
	"github.com/matzehuels/mapvis/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // output formats: svg, png, pdf, txt
	clicks  []string // panel=date selections applied before rendering
	noCache bool
	refresh bool
	strict  bool
	width   float64
	height  float64
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [scene.yaml]",
		Short: "Render a scene to SVG, PNG, PDF or terminal text",
		Long: `Render a scene to SVG, PNG, PDF or terminal text.

The scene file describes the panel grid, the layers of each panel, legends and
series charts. Use --click to select a date on a panel's chart before
rendering, exactly as a click on the chart would:

  mapvis render scene.yaml -f svg,png --click 1=2020-07-01

PNG and PDF output need rsvg-convert (librsvg). Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			if opts.output == "-" && len(formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "stdout output takes a single format")
			}
			opts.formats = formats
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, txt (comma-separated)")
	cmd.Flags().StringArrayVar(&opts.clicks, "click", nil, "select a date on a panel chart: PANEL=YYYY-MM-DD (repeatable)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when the grid cannot hold every panel")

	return cmd
}

// runRender builds the scene, applies clicks and writes every format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := c.Config.Options()
	popts.Strict = opts.strict
	popts.Refresh = opts.refresh
	if opts.width > 0 {
		popts.Width = opts.width
	}
	if opts.height > 0 {
		popts.Height = opts.height
	}

	prog := newProgress(logger)
	d, err := c.buildScene(ctx, runner, input, popts)
	if err != nil {
		return err
	}
	for _, click := range opts.clicks {
		panel, date, err := parseClick(click)
		if err != nil {
			return err
		}
		if err := d.ClickDay(ctx, panel, date); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	allCached := true
	paths := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		data, hit, err := runner.Render(ctx, d, format, popts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("%s: %w", format, err)
		}
		allCached = allCached && hit

		path := outputPath(opts.output, input, format, len(opts.formats) == 1)
		if err := writeFile(path, data); err != nil {
			spinner.Stop()
			return err
		}
		paths = append(paths, path)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Render complete", "formats", len(paths))
	if opts.output == "-" {
		return nil
	}

	for _, p := range paths {
		printFile(p)
	}
	printStats(d.Stats, allCached)
	if len(d.Inspectors) > 0 {
		printNewline()
		printNextStep("Inspect interactively", "mapvis inspect "+input)
	}
	return nil
}

// parseClick parses "PANEL=YYYY-MM-DD".
func parseClick(s string) (int, time.Time, error) {
	p, d, ok := strings.Cut(s, "=")
	if !ok {
		return 0, time.Time{}, errors.New(errors.ErrCodeInvalidInput, "click %q must be PANEL=YYYY-MM-DD", s)
	}
	panel, err := strconv.Atoi(strings.TrimSpace(p))
	if err != nil {
		return 0, time.Time{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "click panel %q", p)
	}
	date, err := time.Parse(scene.DateLayout, strings.TrimSpace(d))
	if err != nil {
		return 0, time.Time{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "click date %q", d)
	}
	return panel, date, nil
}
