package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waste-wrangler-service/internal/adapters/repositories"
	"waste-wrangler-service/internal/api"
	"waste-wrangler-service/internal/config"
	"waste-wrangler-service/internal/platform/db"
	"waste-wrangler-service/internal/platform/obs"
	"waste-wrangler-service/internal/ports"
	"waste-wrangler-service/internal/services"
)

// main is the application composition root.
// It wires the SQL store, scheduler and metrics behind the HTTP router.
func main() {
	log := obs.NewLogger("server")

	cfg, err := config.Load(os.Getenv("WW_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	obs.SetLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.URL, db.Options{MaxOpenConns: cfg.Database.MaxOpenConns})
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	store, err := repositories.NewStore(conn, cfg.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("select dialect")
	}

	// Initialize schema and optionally seed demo data on startup for local runs.
	if err := store.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}
	if cfg.Seed.Path != "" {
		if err := store.SeedFromYAML(ctx, cfg.Seed.Path); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Seed.Path).Msg("seed")
		}
		log.Info().Str("path", cfg.Seed.Path).Msg("seeded")
	}

	var (
		recorder ports.MetricsRecorder = ports.NopRecorder{}
		metrics  http.Handler
	)
	if cfg.Metrics.Enabled {
		prom, err := obs.NewPromRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			log.Fatal().Err(err).Msg("register metrics")
		}
		recorder, metrics = prom, promhttp.Handler()
	}

	sched := services.NewScheduler(store, obs.NewLogger("scheduler"), recorder)
	router := api.NewRouter(sched, conn, obs.NewLogger("http"), metrics)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", srv.Addr).Str("driver", cfg.Database.Driver).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}
