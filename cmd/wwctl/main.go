// Command wwctl manages the waste wrangler database and runs scheduling
// operations from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"waste-wrangler-service/internal/adapters/repositories"
	"waste-wrangler-service/internal/config"
	"waste-wrangler-service/internal/platform/db"
	"waste-wrangler-service/internal/platform/obs"
	"waste-wrangler-service/internal/services"
)

var (
	cfgPath     string
	driver      string
	databaseURL string
)

var rootCmd = &cobra.Command{
	Use:          "wwctl",
	Short:        "Waste wrangler database and scheduling tool",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", `database driver, "pgx" or "sqlite"`)
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database connection string")

	rootCmd.AddCommand(
		initDBCmd(),
		seedCmd(),
		scheduleTripCmd(),
		scheduleTripsCmd(),
		scheduleMaintenanceCmd(),
		workmateSphereCmd(),
		rerouteWasteCmd(),
		updateTechniciansCmd(),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// env bundles what every subcommand needs.
type env struct {
	store *repositories.SQLStore
	sched *services.Scheduler
	log   zerolog.Logger
	close func()
}

// openEnv loads configuration, applying --driver and --database-url over
// the file and environment, and opens the store.
func openEnv(ctx context.Context) (*env, error) {
	if driver != "" {
		os.Setenv("WW_DATABASE__DRIVER", driver)
	}
	if databaseURL != "" {
		os.Setenv("WW_DATABASE__URL", databaseURL)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	obs.SetLevel(cfg.Log.Level)
	log := obs.NewLogger("wwctl")

	conn, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.URL, db.Options{MaxOpenConns: cfg.Database.MaxOpenConns})
	if err != nil {
		return nil, err
	}
	store, err := repositories.NewStore(conn, cfg.Database.Driver)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("wwctl: %w", err)
	}

	return &env{
		store: store,
		sched: services.NewScheduler(store, log, nil),
		log:   log,
		close: func() { _ = conn.Close() },
	}, nil
}

// withEnv adapts fn into a cobra RunE that opens and closes the store.
func withEnv(fn func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()
		return fn(cmd, e, args)
	}
}
