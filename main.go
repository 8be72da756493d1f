package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/connect4-backend/internal"
	"github.com/rocketscienceinc/connect4-backend/internal/config"
)

const serviceName = "connect4-backend"

// main - loads config.yml from the working directory, builds the logger and serves until a signal arrives.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := loadConfig()
	logger := newLogger(conf)

	logger.Info("starting",
		"socket_port", conf.SocketPort,
		"http_port", conf.HTTPPort,
		"redis_enabled", conf.Redis.Enabled,
		"max_sessions", conf.MaxSessions,
	)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

func loadConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "config.yml"))
}

func newLogger(conf *config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.SlogLevel()})

	return slog.New(handler).With("service", serviceName)
}
