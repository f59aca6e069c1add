package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapvis/pkg/legend"
	"github.com/matzehuels/mapvis/pkg/pipeline"
	"github.com/matzehuels/mapvis/pkg/render"
	"github.com/matzehuels/mapvis/pkg/render/svg"
	"github.com/matzehuels/mapvis/pkg/render/term"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// legendOpts holds flags shared by the legend subcommands.
type legendOpts struct {
	title    string
	position string
	palette  []string
	format   string
	output   string
}

// legendCommand creates the legend command.
func (c *CLI) legendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Render a legend on its own",
		Long: `Render a gradient or discrete legend on its own, sized to fit.

  mapvis legend gradient --min 0 --max 1 --palette white,green --title NDVI
  mapvis legend discrete --names water,forest --palette blue,228B22 -o classes.svg`,
	}

	cmd.AddCommand(c.legendGradientCommand())
	cmd.AddCommand(c.legendDiscreteCommand())

	return cmd
}

func addLegendFlags(cmd *cobra.Command, opts *legendOpts) {
	cmd.Flags().StringVar(&opts.title, "title", "", "legend title")
	cmd.Flags().StringVar(&opts.position, "position", "", "legend position (default from config)")
	cmd.Flags().StringSliceVar(&opts.palette, "palette", nil, "colours: CSS names or hex (comma-separated)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatTXT, "output format: txt (default), svg, png, pdf")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file; - for stdout")
}

// legendGradientCommand creates the "legend gradient" subcommand.
func (c *CLI) legendGradientCommand() *cobra.Command {
	var (
		opts   legendOpts
		lo, hi float64
		band   string
	)

	cmd := &cobra.Command{
		Use:   "gradient",
		Short: "Colour ramp legend for a stretched band",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vis := ui.VisParams{Min: ui.Float(lo), Max: ui.Float(hi), Palette: opts.palette}
			if band != "" {
				vis.Bands = []string{band}
			}
			p, err := legend.Gradient(vis, c.legendOptions(opts)...)
			if err != nil {
				return err
			}
			return c.writeLegend(p, opts)
		},
	}

	addLegendFlags(cmd, &opts)
	cmd.Flags().Float64Var(&lo, "min", 0, "value at the bottom of the ramp")
	cmd.Flags().Float64Var(&hi, "max", 1, "value at the top of the ramp")
	cmd.Flags().StringVar(&band, "band", "", "band name")

	return cmd
}

// legendDiscreteCommand creates the "legend discrete" subcommand.
func (c *CLI) legendDiscreteCommand() *cobra.Command {
	var (
		opts  legendOpts
		names []string
	)

	cmd := &cobra.Command{
		Use:   "discrete",
		Short: "Swatch legend for classified values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := legend.Discrete(names, opts.palette, c.legendOptions(opts)...)
			if err != nil {
				return err
			}
			return c.writeLegend(p, opts)
		},
	}

	addLegendFlags(cmd, &opts)
	cmd.Flags().StringSliceVar(&names, "names", nil, "class names, one per palette colour (comma-separated)")

	return cmd
}

func (c *CLI) legendOptions(opts legendOpts) []legend.Option {
	pos := ui.Position(opts.position)
	if pos == "" {
		pos = c.Config.Legend.Position
	}
	return []legend.Option{legend.Title(opts.title), legend.Position(pos)}
}

// writeLegend renders a single legend on a canvas that just fits it.
func (c *CLI) writeLegend(p *ui.Panel, opts legendOpts) error {
	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}
	root := ui.NewRoot()
	root.Add(p)

	size := render.Measure(p)
	w := math.Ceil(size.W + 2*render.OverlayMargin)
	h := math.Ceil(size.H + 2*render.OverlayMargin)

	var (
		data []byte
		err  error
	)
	switch opts.format {
	case pipeline.FormatTXT:
		cols := int(math.Ceil(w / term.CellWidth))
		rows := int(math.Ceil(h / term.CellHeight))
		var s string
		s, err = term.RenderRoot(root, term.WithSize(cols, rows))
		data = []byte(s + "\n")
	default:
		data, err = svg.RenderRoot(root, svg.WithSize(w, h))
		switch {
		case err != nil:
		case opts.format == pipeline.FormatPNG:
			data, err = render.ToPNG(data, c.Config.Render.PNGScale)
		case opts.format == pipeline.FormatPDF:
			data, err = render.ToPDF(data)
		}
	}
	if err != nil {
		return fmt.Errorf("render legend: %w", err)
	}

	if err := writeFile(opts.output, data); err != nil {
		return err
	}
	if opts.output != "-" {
		printSuccess("Legend written")
		printFile(opts.output)
	}
	c.Logger.Debug("legend", "width", w, "height", h, "format", opts.format, "bytes", len(data))
	return nil
}
