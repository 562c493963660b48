package cfg

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/vrischmann/envconfig"

	"github.com/eduplex/perfmetrics/pkg/log"
)

// Config carries the settings shared by the collector and the server.
// DatabaseDSN may be empty, in which case the collector delivers through
// the beacon endpoint only and the server runs without storage.
type Config struct {
	Logger          *log.Config
	ServerAddress   string        `envconfig:"ADDRESS"`
	DatabaseDSN     string        `envconfig:"optional,DATABASE_DSN"`
	BeaconURL       string        `envconfig:"BEACON_URL"`
	HashKey         string        `envconfig:"optional,HASH_KEY"`
	BatchSize       int           `envconfig:"BATCH_SIZE"`
	FlushInterval   time.Duration `envconfig:"FLUSH_INTERVAL"`
	QueueCap        int           `envconfig:"QUEUE_CAP"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT"`
	RuntimeInterval time.Duration `envconfig:"optional,RUNTIME_INTERVAL"`
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Logger: &log.Config{},
	}

	defaults := map[string]string{
		"ADDRESS":        "localhost:8080",
		"BEACON_URL":     "http://localhost:8080/api/performance-metrics",
		"BATCH_SIZE":     "10",
		"FLUSH_INTERVAL": "30s",
		"QUEUE_CAP":      "1000",
		"WRITE_TIMEOUT":  "10s",
	}

	for key, value := range defaults {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	// Bare integers in interval variables are taken as seconds.
	for _, key := range []string{"FLUSH_INTERVAL", "WRITE_TIMEOUT", "RUNTIME_INTERVAL"} {
		if val := os.Getenv(key); val != "" {
			if sec, err := strconv.Atoi(val); err == nil {
				os.Setenv(key, strconv.Itoa(sec)+"s")
			}
		}
	}

	if err := envconfig.Init(config); err != nil {
		return nil, err
	}

	config.Logger.SetDefault()

	return config, nil
}
