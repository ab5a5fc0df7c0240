package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sproutworks/furrow/pkg/graphio"
	"github.com/sproutworks/furrow/pkg/layout"
	"github.com/sproutworks/furrow/pkg/pipeline"
)

// layoutCommand creates the layout command for computing swim-lane layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		categories string
		noCache    bool
		check      bool
	)
	opts := pipeline.Options{SheetsDir: defaultSheetsDir}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the swim-lane layout from balance sheets",
		Long: `Compute the swim-lane layout from balance sheets.

The layout command reads every CSV balance sheet in the sheets directory,
assigns items to feature lanes, resolves prerequisite tiers, and writes
the positioned diagram as a layout.json document. The document can be
rendered with 'furrow render' or served by 'furrow serve'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if categories != "" {
				opts.Categories = strings.Split(categories, ",")
			}
			return c.runLayout(cmd.Context(), opts, output, noCache, check)
		},
	}

	cmd.Flags().StringVarP(&opts.SheetsDir, "sheets", "s", opts.SheetsDir, "balance sheet directory")
	cmd.Flags().StringVarP(&output, "output", "o", "layout.json", "output file")
	cmd.Flags().StringVar(&opts.ConstantsPath, "constants", "", "TOML file with layout constant overrides")
	cmd.Flags().StringVar(&categories, "categories", "", "restrict to items with these category tags (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&check, "check", false, "verify the result against the layout invariants")

	return cmd
}

// runLayout loads the sheets, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache, check bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	prog := newProgress(logger)
	items, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load sheets: %w", err)
	}
	prog.done(fmt.Sprintf("Loaded %d items", items.Len()))

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, consts, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, items, "", opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := graphio.ExportJSON(graphio.NewDocument(res, consts), output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(res.Nodes), len(res.Edges), cacheHit)
	if n := len(res.Recoveries); n > 0 {
		printWarning("%d nodes needed crowding recovery", n)
	}

	if check {
		report := layout.Validate(res, consts)
		for _, chk := range report.Checks {
			if chk.Passed {
				continue
			}
			for _, issue := range chk.Issues {
				printWarning("%s: %s", chk.Name, issue)
			}
		}
		if report.Passed() {
			printSuccess("All layout invariants hold")
		} else {
			return fmt.Errorf("layout validation failed: %d checks with issues", len(report.Failed()))
		}
	}

	printNewline()
	printNextStep("Render", "furrow render -s "+opts.SheetsDir)
	return nil
}
