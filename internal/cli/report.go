package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sproutworks/furrow/pkg/pipeline"
	"github.com/sproutworks/furrow/pkg/sim/report"
)

// reportCommand creates the report command for analyzing simulation runs.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		sheetsDir    string
		personaName  string
		personasFile string
		ticks        int
		seed         int64
		format       string
		output       string
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyze a simulation run for pacing bottlenecks",
		Long: `Analyze a simulation run for pacing bottlenecks.

Simulates the given persona, then grades each unlock by how long the
player waited for it and summarizes when each swim lane opened up. Long
waits point at balance problems: items priced out of reach of the
income available when they unlock.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "markdown" && format != "json" {
				return fmt.Errorf("unknown report format %q (markdown, json)", format)
			}
			return c.runReport(cmd.Context(), reportParams{
				sheetsDir:    sheetsDir,
				personaName:  personaName,
				personasFile: personasFile,
				ticks:        ticks,
				seed:         seed,
				format:       format,
				output:       output,
				noCache:      noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&sheetsDir, "sheets", "s", defaultSheetsDir, "balance sheet directory")
	cmd.Flags().StringVarP(&personaName, "persona", "p", "", "persona name (interactive picker when omitted)")
	cmd.Flags().StringVar(&personasFile, "personas-file", "", "YAML file with custom persona definitions")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "tick budget (default thirty simulated days)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for tie-breaking and the random strategy")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "report format: markdown (default), json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when omitted)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type reportParams struct {
	sheetsDir    string
	personaName  string
	personasFile string
	ticks        int
	seed         int64
	format       string
	output       string
	noCache      bool
}

// runReport simulates and analyzes one run.
func (c *CLI) runReport(ctx context.Context, params reportParams) error {
	persona, err := resolvePersona(params.personaName, params.personasFile)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(params.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	items, err := runner.Load(ctx, pipeline.Options{SheetsDir: params.sheetsDir, Logger: loggerFromContext(ctx)})
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating persona %q...", persona.Name))
	spinner.Start()

	run, cached, err := runner.Simulate(ctx, items, pipeline.SimOptions{
		Persona:  persona,
		MaxTicks: params.ticks,
		Seed:     params.seed,
	})
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return err
	}
	spinner.Stop()

	rep := report.Analyze(run, items)

	var buf bytes.Buffer
	switch params.format {
	case "json":
		err = rep.WriteJSON(&buf)
	default:
		err = rep.WriteMarkdown(&buf)
	}
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if params.output == "" {
		fmt.Print(buf.String())
		return nil
	}
	if err := os.WriteFile(params.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", params.output, err)
	}

	printSuccess("Report written")
	printFile(params.output)
	if worst, ok := rep.Worst(); ok {
		printWarning("Worst bottleneck: %s waited %d ticks", worst.ItemID, worst.Wait)
	}
	if cached {
		printDetail("Run served from cache")
	}
	return nil
}
