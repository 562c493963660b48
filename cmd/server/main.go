package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/eduplex/perfmetrics/internal/cfg"
	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/server"
	"github.com/eduplex/perfmetrics/internal/services"
	"github.com/eduplex/perfmetrics/internal/sink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runner, ctx := errgroup.WithContext(ctx)

	config, err := cfg.NewConfig()
	if err != nil {
		log.Fatal(err, "Load config")
	}

	appLogger, err := logger.Initialize(config.Logger)
	if err != nil {
		log.Fatal(err, "Init logger")
	}
	ctx = appLogger.Zerolog().WithContext(ctx)

	store := sink.NewPostgresStore(config.DatabaseDSN, config.WriteTimeout)
	reports := services.NewReportService(store)

	srv := server.NewServer(config.ServerAddress, store, reports, config.HashKey)
	srv.Run(ctx, runner)

	runner.Go(func() error {
		<-ctx.Done()

		if err := store.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("store close failed")
		}
		return srv.Shutdown(ctx)
	})

	runner.Wait()
}
