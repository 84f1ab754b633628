package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgroleau/thalweg/pkg/pipeline"
	"github.com/dgroleau/thalweg/pkg/vector"
)

// xsectOpts holds the command-line flags for the cross-sections command.
type xsectOpts struct {
	output   string
	interval string // station spacing between consecutive transects
	width    string // full transect width, bank to bank
	noCache  bool
	refresh  bool
}

// xsectCommand creates the cross-sections command.
func (c *CLI) xsectCommand() *cobra.Command {
	var opts xsectOpts

	cmd := &cobra.Command{
		Use:     "cross-sections <lines>",
		Aliases: []string{"xsect"},
		Short:   "Generate perpendicular transects along a centerline",
		Long: `Generate perpendicular transects along a centerline.

Transects are placed at a fixed station interval from the start of each
line, plus one clamped to the line's end, and written as two-point lines
running from the left bank to the right bank (facing downstream).

Examples:
  thalweg cross-sections relaxed.geojson
  thalweg xsect relaxed.shp --interval 100ft --width 50ft -o xs.shp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runXSect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.xsect.<ext>)")
	cmd.Flags().StringVar(&opts.interval, "interval", "", "station spacing between transects (default from config)")
	cmd.Flags().StringVar(&opts.width, "width", "", "full transect width (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite any cached result")

	return cmd
}

// runXSect loads the lines, generates transects, and writes output.
func (c *CLI) runXSect(ctx context.Context, input string, opts xsectOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	xsOpts := pipeline.XSectOptions{
		Interval: cfg.XSect.Interval,
		Width:    cfg.XSect.Width,
		Refresh:  opts.refresh,
	}
	if err := overrideDistance(&xsOpts.Interval, "interval", opts.interval); err != nil {
		return err
	}
	if err := overrideDistance(&xsOpts.Width, "width", opts.width); err != nil {
		return err
	}

	lines, err := vector.ReadLines(input)
	if err != nil {
		return fmt.Errorf("load lines %s: %w", input, err)
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating cross-sections...")
	spinner.Start()

	result, err := runner.CrossSections(ctx, lines, xsOpts)
	if err != nil {
		spinner.StopWithError("Cross-section generation failed")
		return fmt.Errorf("generate cross-sections: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutput(input, "xsect", "")
	}

	if err := vector.WriteLines(outputPath, result.Transects); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Cross-sections complete")
	printFile(outputPath)
	printStats(result.CacheHit,
		fmt.Sprintf("%d reaches", len(lines)),
		fmt.Sprintf("%d transects", len(result.Transects)),
	)
	printNewline()
	printNextStep("Profiles", fmt.Sprintf("thalweg profile %s --dem <surface.asc>", input))

	return nil
}
