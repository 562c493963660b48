// The collector is a sample instrumented application: it embeds the
// metrics pipeline, times its own API calls through the instrumented
// HTTP client, and samples its process runtime. It stands in for the
// web application the pipeline normally runs inside.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eduplex/perfmetrics/internal/cfg"
	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
	"github.com/eduplex/perfmetrics/internal/observer"
	"github.com/eduplex/perfmetrics/internal/pipeline"
	"github.com/eduplex/perfmetrics/internal/sink"
	"github.com/eduplex/perfmetrics/internal/transport"
)

func parseFlags(config *cfg.Config) (serverAddr string, pollInterval time.Duration) {
	addr := flag.String("a", config.ServerAddress, "metrics server address")
	poll := flag.Int("p", 15, "API poll interval in seconds")

	flag.Parse()

	return *addr, time.Duration(*poll) * time.Second
}

func main() {
	config, err := cfg.NewConfig()
	if err != nil {
		log.Fatal(err, "Load config")
	}

	appLogger, err := logger.Initialize(config.Logger)
	if err != nil {
		log.Fatal(err, "Init logger")
	}

	serverAddr, pollInterval := parseFlags(config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	ctx = appLogger.Zerolog().WithContext(ctx)

	beacon := sink.NewBeaconSink(config.BeaconURL, config.HashKey)

	var primary pipeline.Sink = beacon
	if config.DatabaseDSN != "" {
		store := sink.NewPostgresStore(config.DatabaseDSN, config.WriteTimeout)
		defer store.Close()
		primary = store
	}

	startedAt := time.Now()

	p := pipeline.New(primary, pipeline.Options{
		BatchSize:     config.BatchSize,
		FlushInterval: config.FlushInterval,
		QueueCap:      config.QueueCap,
		Beacon:        beacon,
		Page: model.PageContext{
			PageURL:   "app://collector",
			UserAgent: "perfmetrics-collector/1.0",
		},
	})
	p.Start(ctx)

	if config.RuntimeInterval > 0 {
		rt := observer.NewRuntime(p, config.RuntimeInterval)
		rt.Start()
		defer rt.Stop()
	}

	client := &http.Client{Timeout: 5 * time.Second}
	transport.InstrumentClient(client, p, serverAddr)

	p.TrackPageLoadTime(time.Since(startedAt))

	go pollServer(ctx, client, "http://"+serverAddr, pollInterval)

	<-ctx.Done()
	p.Stop()
}

// pollServer exercises the instrumented client against the metrics
// server, producing api_response_time and api_error records.
func pollServer(ctx context.Context, client *http.Client, baseURL string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			url := fmt.Sprintf("%s/api/performance-metrics/report", baseURL)
			resp, err := client.Get(url)
			if err != nil {
				logger.Log.Debug().Err(err).Msg("poll failed")
				continue
			}
			resp.Body.Close()
		case <-ctx.Done():
			return
		}
	}
}
