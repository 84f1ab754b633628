package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgroleau/thalweg/pkg/pipeline"
	"github.com/dgroleau/thalweg/pkg/vector"
)

// relaxOpts holds the command-line flags for the relax command.
// Distance flags are unit-aware strings; see parseDistance.
type relaxOpts struct {
	dem            string // elevation surface (Esri ASCII grid)
	output         string // output file path
	searchDistance string // half-width of the perpendicular search window
	spacing        string // sample spacing along each transect
	minDelta       string // minimum elevation drop required to move a vertex
	noCache        bool
	refresh        bool
	progress       bool // interactive per-reach progress display
}

// relaxCommand creates the relax command for pulling centerlines onto the thalweg.
func (c *CLI) relaxCommand() *cobra.Command {
	var opts relaxOpts

	cmd := &cobra.Command{
		Use:   "relax <lines>",
		Short: "Pull centerline vertices toward the channel thalweg",
		Long: `Pull centerline vertices toward the channel thalweg.

At every vertex a transect is sampled perpendicular to the line and the
vertex is moved to the sample with the best depth-weighted elevation drop.
Vertices stay put when no sample drops more than --min-delta below the
current elevation, or when the surface has no data there.

Input lines may be GeoJSON (.geojson/.json) or a shapefile (.shp); the
output format follows the output extension.

Results are cached locally for faster subsequent runs.

Examples:
  thalweg relax streams.geojson --dem valley.asc
  thalweg relax streams.shp --dem valley.asc -o relaxed.shp --search-distance 30ft`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRelax(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dem, "dem", "d", "", "elevation surface, Esri ASCII grid (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.relaxed.<ext>)")
	cmd.Flags().StringVar(&opts.searchDistance, "search-distance", "", "perpendicular search half-width (default from config)")
	cmd.Flags().StringVar(&opts.spacing, "spacing", "", "transect sample spacing (default from config)")
	cmd.Flags().StringVar(&opts.minDelta, "min-delta", "", "minimum elevation drop to move a vertex (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite any cached result")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show interactive per-reach progress")
	_ = cmd.MarkFlagRequired("dem")

	return cmd
}

// runRelax loads the inputs, runs the relaxation pipeline, and writes output.
func (c *CLI) runRelax(ctx context.Context, input string, opts relaxOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	rOpts := pipeline.RelaxOptions{
		SearchDistance: cfg.Relax.SearchDistance,
		Spacing:        cfg.Relax.Spacing,
		MinDelta:       cfg.Relax.MinDelta,
		Refresh:        opts.refresh,
	}
	if err := overrideDistance(&rOpts.SearchDistance, "search-distance", opts.searchDistance); err != nil {
		return err
	}
	if err := overrideDistance(&rOpts.Spacing, "spacing", opts.spacing); err != nil {
		return err
	}
	if err := overrideDistance(&rOpts.MinDelta, "min-delta", opts.minDelta); err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	logger.Debug("relax options",
		"search-distance", formatMeters(rOpts.SearchDistance),
		"spacing", formatMeters(rOpts.Spacing),
		"min-delta", formatMeters(rOpts.MinDelta),
	)

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

	prog := newProgress(logger)

	var result *pipeline.RelaxResult
	if opts.progress {
		result, err = runRelaxWithProgress(ctx, runner, lines, surface, rOpts)
	} else {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Relaxing %d reaches...", len(lines)))
		spinner.Start()
		result, err = runner.Relax(ctx, lines, surface, rOpts)
		if err != nil {
			spinner.StopWithError("Relaxation failed")
			return fmt.Errorf("relax centerlines: %w", err)
		}
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("relax centerlines: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutput(input, "relaxed", "")
	}

	if err := vector.WriteLines(outputPath, result.Lines); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done(fmt.Sprintf("Relaxed %d reaches", result.Stats.Reaches))

	printSuccess("Relaxation complete")
	printFile(outputPath)
	printStats(result.CacheHit,
		fmt.Sprintf("%d reaches", result.Stats.Reaches),
		fmt.Sprintf("%d/%d moved", result.Stats.Moved, result.Stats.Vertices),
		fmt.Sprintf("%d no-data", result.Stats.NoData),
	)
	printNewline()
	printNextStep("Cross-sections", fmt.Sprintf("thalweg cross-sections %s", outputPath))

	return nil
}

// overrideDistance replaces dst with a parsed flag value when one was given.
func overrideDistance(dst *float64, name, flag string) error {
	if flag == "" {
		return nil
	}
	v, err := parseDistance(name, flag)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
