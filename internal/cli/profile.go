package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgroleau/thalweg/pkg/pipeline"
	"github.com/dgroleau/thalweg/pkg/profile"
	"github.com/dgroleau/thalweg/pkg/vector"
)

// profileOpts holds the command-line flags for the profile command.
type profileOpts struct {
	dem      string
	output   string
	interval string
	width    string
	spacing  string
	title    string
}

// profileCommand creates the profile command for rendering cross-section
// elevation profiles.
func (c *CLI) profileCommand() *cobra.Command {
	var opts profileOpts

	cmd := &cobra.Command{
		Use:   "profile <lines>",
		Short: "Render cross-section elevation profiles as SVG",
		Long: `Render cross-section elevation profiles as SVG.

Transects are sampled at a fixed station interval along each line and each
one becomes a stacked panel showing the ground surface across the channel,
with the centerline position marked. Gaps appear where the surface has no
data.

Examples:
  thalweg profile relaxed.geojson --dem valley.asc
  thalweg profile relaxed.shp --dem valley.asc --interval 100ft -o profiles.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProfile(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dem, "dem", "d", "", "elevation surface, Esri ASCII grid (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.profile.svg)")
	cmd.Flags().StringVar(&opts.interval, "interval", "", "station spacing between profiles (default from config)")
	cmd.Flags().StringVar(&opts.width, "width", "", "full profile width (default from config)")
	cmd.Flags().StringVar(&opts.spacing, "spacing", "", "elevation sample spacing (default from config)")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (default: input file name)")
	_ = cmd.MarkFlagRequired("dem")

	return cmd
}

// runProfile extracts profiles along the lines and renders them to SVG.
func (c *CLI) runProfile(ctx context.Context, input string, opts profileOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	pOpts := profile.Options{
		Interval: cfg.XSect.Interval,
		Width:    cfg.XSect.Width,
		Spacing:  cfg.XSect.Spacing,
	}
	if err := overrideDistance(&pOpts.Interval, "interval", opts.interval); err != nil {
		return err
	}
	if err := overrideDistance(&pOpts.Width, "width", opts.width); err != nil {
		return err
	}
	if err := overrideDistance(&pOpts.Spacing, "spacing", opts.spacing); err != nil {
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

	spinner := newSpinnerWithContext(ctx, "Extracting profiles...")
	spinner.Start()

	profiles, err := profile.Extract(ctx, lines, surface.Source, pOpts)
	if err != nil {
		spinner.StopWithError("Profile extraction failed")
		return fmt.Errorf("extract profiles: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	title := opts.title
	if title == "" {
		title = filepath.Base(input)
	}
	svg := profile.RenderSVG(profiles, profile.WithTitle(title))

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutput(input, "profile", ".svg")
	}

	if err := os.WriteFile(outputPath, svg, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Profiles rendered")
	printFile(outputPath)
	printStats(false, fmt.Sprintf("%d reaches", len(lines)), fmt.Sprintf("%d profiles", len(profiles)))

	return nil
}
