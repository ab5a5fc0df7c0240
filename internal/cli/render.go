package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sproutworks/furrow/pkg/pipeline"
)

// renderCommand creates the render command for generating diagram
// artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		categories string
		noCache    bool
	)
	opts := pipeline.Options{
		SheetsDir: defaultSheetsDir,
		ShowEdges: true,
		LaneNames: true,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the progression diagram from balance sheets",
		Long: `Render the progression diagram from balance sheets.

Runs the full load, layout, and render pipeline and writes one artifact
per requested format. SVG is the swim-lane diagram; DOT is a Graphviz
node-link export of the progression graph; JSON is the layout document.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if categories != "" {
				opts.Categories = strings.Split(categories, ",")
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.SheetsDir, "sheets", "s", opts.SheetsDir, "balance sheet directory")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Theme, "theme", pipeline.DefaultTheme, "color theme: light (default), dark")
	cmd.Flags().StringVar(&opts.ConstantsPath, "constants", "", "TOML file with layout constant overrides")
	cmd.Flags().StringVar(&categories, "categories", "", "restrict to items with these category tags (comma-separated)")
	cmd.Flags().BoolVar(&opts.ShowEdges, "edges", opts.ShowEdges, "draw prerequisite edges")
	cmd.Flags().BoolVar(&opts.LaneNames, "lanes", opts.LaneNames, "draw lane name labels")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include lane, tier, and cost in DOT labels")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := outputPath(output, format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return nil
}

// outputPath resolves the destination for one artifact. With multiple
// formats the flag value acts as a base path and each artifact gets the
// format as its extension.
func outputPath(output, format string, multi bool) string {
	if output == "" {
		return "diagram." + format
	}
	if !multi {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "." + format
}
