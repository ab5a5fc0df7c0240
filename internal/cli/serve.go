package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sproutworks/furrow/internal/server"
	"github.com/sproutworks/furrow/pkg/cache"
	"github.com/sproutworks/furrow/pkg/pipeline"
	"github.com/sproutworks/furrow/pkg/sim"
	"github.com/sproutworks/furrow/pkg/store"
)

// serveCommand creates the serve command for the viewer API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		sheetsDir     string
		constantsPath string
		personasFile  string
		redisURL      string
		cachePrefix   string
		mongoURI      string
		mongoDB       string
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram and simulation API over HTTP",
		Long: `Serve the diagram and simulation API over HTTP.

Endpoints read the balance sheets from disk on every request, so edits
show up on the next reload without restarting the server. With --redis
the artifact cache is shared across instances; with --mongo completed
simulation runs are archived and served from /api/runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), serveParams{
				addr:          addr,
				sheetsDir:     sheetsDir,
				constantsPath: constantsPath,
				personasFile:  personasFile,
				redisURL:      redisURL,
				cachePrefix:   cachePrefix,
				mongoURI:      mongoURI,
				mongoDB:       mongoDB,
				noCache:       noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVarP(&sheetsDir, "sheets", "s", defaultSheetsDir, "balance sheet directory")
	cmd.Flags().StringVar(&constantsPath, "constants", "", "TOML file with layout constant overrides")
	cmd.Flags().StringVar(&personasFile, "personas-file", "", "YAML file with custom persona definitions")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared artifact cache")
	cmd.Flags().StringVar(&cachePrefix, "cache-prefix", "", "namespace prefix for cache keys, e.g. per balance branch")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the simulation run archive")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", store.DefaultDatabase, "MongoDB database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type serveParams struct {
	addr          string
	sheetsDir     string
	constantsPath string
	personasFile  string
	redisURL      string
	cachePrefix   string
	mongoURI      string
	mongoDB       string
	noCache       bool
}

// runServe wires the cache, run store, and personas together and runs
// the server until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, params serveParams) error {
	logger := loggerFromContext(ctx)
	artifactCache, err := serveCache(ctx, params)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if params.cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, params.cachePrefix)
	}
	runner := pipeline.NewRunner(artifactCache, keyer, logger)
	defer runner.Close()

	var personas []sim.Persona
	if params.personasFile != "" {
		personas, err = sim.LoadPersonas(params.personasFile)
		if err != nil {
			return err
		}
	}

	var runs *store.RunStore
	if params.mongoURI != "" {
		runs, err = store.NewRunStore(ctx, params.mongoURI, params.mongoDB)
		if err != nil {
			return fmt.Errorf("connect run store: %w", err)
		}
		defer runs.Close(context.Background())
		logger.Info("run archive connected", "database", params.mongoDB)
	}

	srv := server.New(server.Config{
		Addr:          params.addr,
		SheetsDir:     params.sheetsDir,
		ConstantsPath: params.constantsPath,
		Personas:      personas,
		Runs:          runs,
		Logger:        logger,
	}, runner)

	printInfo("Serving on %s", params.addr)
	printDetail("Sheets: %s", params.sheetsDir)
	return srv.ListenAndServe(ctx)
}

// serveCache picks the artifact cache backend for the server.
func serveCache(ctx context.Context, params serveParams) (cache.Cache, error) {
	if params.noCache {
		return cache.NewNullCache(), nil
	}
	if params.redisURL != "" {
		return cache.NewRedisCache(ctx, params.redisURL)
	}
	return newCache(false)
}
