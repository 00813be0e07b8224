// Package server parses life protocol flags and launches the API process.
package server

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/lifeprotocol/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/lifeprotocol/internal/platform/grpc"
	app "github.com/louisbranch/lifeprotocol/internal/services/protocol/app"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/suggest"
)

// Config holds life protocol command configuration.
type Config struct {
	Port          int           `env:"LIFE_PROTOCOL_PORT" envDefault:"3001"`
	HealthPort    int           `env:"LIFE_PROTOCOL_HEALTH_PORT" envDefault:"8091"`
	DBPath        string        `env:"LIFE_PROTOCOL_DB_PATH" envDefault:"data/lifeprotocol.db"`
	Interval      time.Duration `env:"LIFE_PROTOCOL_DAILY_INTERVAL" envDefault:"24h"`
	DefaultLocale string        `env:"LIFE_PROTOCOL_DEFAULT_LOCALE" envDefault:"ru"`
	SweepInterval time.Duration `env:"LIFE_PROTOCOL_SWEEP_INTERVAL" envDefault:"1m"`
	BatchSize     int           `env:"LIFE_PROTOCOL_TASK_BATCH_SIZE" envDefault:"3"`

	AIModel        string        `env:"LIFE_PROTOCOL_AI_MODEL" envDefault:"gpt-4o-mini"`
	AIAPIKey       string        `env:"LIFE_PROTOCOL_AI_API_KEY"`
	AIResponsesURL string        `env:"LIFE_PROTOCOL_AI_RESPONSES_URL"`
	AIGeminiURL    string        `env:"LIFE_PROTOCOL_AI_GEMINI_URL"`
	AITemperature  float64       `env:"LIFE_PROTOCOL_AI_TEMPERATURE" envDefault:"0.4"`
	AITimeout      time.Duration `env:"LIFE_PROTOCOL_AI_TIMEOUT" envDefault:"15s"`

	// HealthCheck probes a running instance instead of serving.
	HealthCheck bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP API port")
	fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "The gRPC health port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the SQLite database")
	fs.BoolVar(&cfg.HealthCheck, "healthcheck", false, "Probe the local health endpoint and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the life protocol API, or probes it when HealthCheck is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.HealthCheck {
		addr := fmt.Sprintf("127.0.0.1:%d", cfg.HealthPort)
		return platformgrpc.CheckHealth(ctx, addr, app.HealthService, 3*time.Second)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceProtocol, func(ctx context.Context) error {
		return app.Run(ctx, cfg.appConfig())
	})
}

func (cfg Config) appConfig() app.Config {
	return app.Config{
		HTTPAddr:          fmt.Sprintf(":%d", cfg.Port),
		HealthAddr:        fmt.Sprintf(":%d", cfg.HealthPort),
		DBPath:            cfg.DBPath,
		Interval:          cfg.Interval,
		SweepInterval:     cfg.SweepInterval,
		BatchSize:         cfg.BatchSize,
		DefaultLocale:     cfg.DefaultLocale,
		GenerationTimeout: cfg.AITimeout,
		Suggest: suggest.Config{
			Model:        cfg.AIModel,
			APIKey:       cfg.AIAPIKey,
			ResponsesURL: cfg.AIResponsesURL,
			GeminiURL:    cfg.AIGeminiURL,
			Temperature:  cfg.AITemperature,
		},
	}
}
