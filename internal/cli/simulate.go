package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sproutworks/furrow/pkg/pipeline"
	"github.com/sproutworks/furrow/pkg/sim"
)

// simulateCommand creates the simulate command for running progression
// playthroughs.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		sheetsDir    string
		personaName  string
		personasFile string
		ticks        int
		seed         int64
		output       string
		refresh      bool
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a player progressing through the unlock graph",
		Long: `Simulate a player progressing through the unlock graph.

A persona defines how the simulated player banks income and which
affordable unlock it buys each tick. Without --persona an interactive
picker lists the available personas.

Runs are deterministic for a given item set, persona, tick budget, and
seed, and are cached accordingly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), simulateParams{
				sheetsDir:    sheetsDir,
				personaName:  personaName,
				personasFile: personasFile,
				ticks:        ticks,
				seed:         seed,
				output:       output,
				refresh:      refresh,
				noCache:      noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&sheetsDir, "sheets", "s", defaultSheetsDir, "balance sheet directory")
	cmd.Flags().StringVarP(&personaName, "persona", "p", "", "persona name (interactive picker when omitted)")
	cmd.Flags().StringVar(&personasFile, "personas-file", "", "YAML file with custom persona definitions")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "tick budget (default thirty simulated days)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for tie-breaking and the random strategy")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the run as JSON to this file")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-run even when a cached run exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type simulateParams struct {
	sheetsDir    string
	personaName  string
	personasFile string
	ticks        int
	seed         int64
	output       string
	refresh      bool
	noCache      bool
}

// runSimulate resolves the persona, runs the simulation, and reports the
// outcome.
func (c *CLI) runSimulate(ctx context.Context, params simulateParams) error {
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
		Refresh:  params.refresh,
	})
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return err
	}
	spinner.Stop()

	printRunSummary(run, items.Len(), cached)

	if params.output != "" {
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("encode run: %w", err)
		}
		data = append(data, '\n')
		if err := os.WriteFile(params.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", params.output, err)
		}
		printFile(params.output)
	}

	printNextStep("Analyze bottlenecks", fmt.Sprintf("furrow report -s %s -p %s", params.sheetsDir, persona.Name))
	return nil
}

// resolvePersona picks the persona to simulate: by name from the given
// set, or interactively when no name is supplied.
func resolvePersona(name, personasFile string) (sim.Persona, error) {
	personas := sim.DefaultPersonas()
	if personasFile != "" {
		loaded, err := sim.LoadPersonas(personasFile)
		if err != nil {
			return sim.Persona{}, err
		}
		personas = loaded
	}

	if name != "" {
		return sim.FindPersona(personas, name)
	}

	persona, selected, err := selectPersona(personas)
	if err != nil {
		return sim.Persona{}, err
	}
	if !selected {
		return sim.Persona{}, fmt.Errorf("no persona selected")
	}
	return persona, nil
}

// printRunSummary prints the outcome of one simulation run.
func printRunSummary(run sim.Run, itemCount int, cached bool) {
	if run.Completed {
		printSuccess("Run complete: all %d items unlocked", itemCount)
	} else {
		printWarning("Run incomplete: %d of %d items unlocked", len(run.Unlocks), itemCount)
	}
	printKeyValue("run", run.ID)
	printKeyValue("persona", run.Persona)
	printKeyValue("ticks", strconv.Itoa(run.Ticks))
	printKeyValue("balance", fmt.Sprintf("%.1f", run.Balance))
	if cached {
		printDetail("Served from cache")
	}
}
