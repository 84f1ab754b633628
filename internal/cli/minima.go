package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgroleau/thalweg/pkg/pipeline"
	"github.com/dgroleau/thalweg/pkg/vector"
)

// minimaOpts holds the command-line flags for the minima command.
type minimaOpts struct {
	dem       string
	output    string
	interval  string // densification interval along each line
	threshold string // minimum prominence for a reportable low point
	noCache   bool
	refresh   bool
}

// minimaCommand creates the minima command for locating local channel low points.
func (c *CLI) minimaCommand() *cobra.Command {
	var opts minimaOpts

	cmd := &cobra.Command{
		Use:   "minima <lines>",
		Short: "Locate local low points along a centerline",
		Long: `Locate local low points along a centerline.

Each line is densified at a fixed interval and scanned downstream; a low
point is reported when the elevation climbs back up by at least the
prominence threshold on both sides. Pool tails in ripple-pool sequences
show up as separate minima when the threshold is small enough.

Output is a point layer with elevation and reach attributes.

Examples:
  thalweg minima relaxed.geojson --dem valley.asc
  thalweg minima relaxed.shp --dem valley.asc --threshold 6in -o pools.shp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMinima(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dem, "dem", "d", "", "elevation surface, Esri ASCII grid (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.minima.<ext>)")
	cmd.Flags().StringVar(&opts.interval, "interval", "", "densification interval (default from config)")
	cmd.Flags().StringVar(&opts.threshold, "threshold", "", "prominence threshold (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite any cached result")
	_ = cmd.MarkFlagRequired("dem")

	return cmd
}

// runMinima loads the inputs, scans for minima, and writes the point layer.
func (c *CLI) runMinima(ctx context.Context, input string, opts minimaOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	mOpts := pipeline.MinimaOptions{
		Interval:  cfg.Minima.Interval,
		Threshold: cfg.Minima.Threshold,
		Refresh:   opts.refresh,
	}
	if err := overrideDistance(&mOpts.Interval, "interval", opts.interval); err != nil {
		return err
	}
	if err := overrideDistance(&mOpts.Threshold, "threshold", opts.threshold); err != nil {
		return err
	}

	lines, err := vector.ReadLines(input)
	if err != nil {
		return fmt.Errorf("load lines %s: %w", input, err)
	}

	surface, err := pipeline.LoadSurface(opts.dem)
	if err != nil {
		return fmt.Errorf("load surface %s: %w", opts.dem, err)
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Scanning for local minima...")
	spinner.Start()

	result, err := runner.Minima(ctx, lines, surface, mOpts)
	if err != nil {
		spinner.StopWithError("Minimum scan failed")
		return fmt.Errorf("scan minima: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	pts := make([]vector.PointFeature, 0, len(result.Minima))
	for _, m := range result.Minima {
		pts = append(pts, vector.PointFeature{
			Point: m.Point,
			Properties: map[string]any{
				"elevation": m.Elevation,
				"reach":     m.Reach,
			},
		})
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutput(input, "minima", "")
	}

	if err := vector.WritePoints(outputPath, pts); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Minimum scan complete")
	printFile(outputPath)
	printStats(result.CacheHit,
		fmt.Sprintf("%d reaches", len(lines)),
		fmt.Sprintf("%d minima", len(pts)),
	)

	return nil
}
