package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/connect4-backend/internal/config"
	"github.com/rocketscienceinc/connect4-backend/internal/repository"
	"github.com/rocketscienceinc/connect4-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connect4-backend/internal/server/socket"
	"github.com/rocketscienceinc/connect4-backend/internal/service"
	"github.com/rocketscienceinc/connect4-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sessionRepo, closeStorage, err := newSessionRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	botService := service.NewBotService()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		sessionsHandler := rest.NewSessionsHandler(logger, sessionRepo)
		if httpErr := rest.Start(ctx, conf.HTTPPort, sessionsHandler); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run socket server
	socketErrCh := make(chan error, 1)
	socketDone := make(chan struct{})
	go func() {
		defer close(socketDone)

		log.Info("Starting socket server", "port", conf.SocketPort)
		socketServer := socket.New(logger, sessionRepo, botService, socket.Options{
			Rows:        conf.Board.Rows,
			Columns:     conf.Board.Columns,
			MaxSessions: conf.MaxSessions,
		})
		if socketErr := socketServer.Start(ctx, conf.SocketPort); socketErr != nil {
			log.Error("Socket server error", "error", socketErr)
			socketErrCh <- socketErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-socketErrCh:
		return fmt.Errorf("socket server error: %w", err)
	case <-ctx.Done():
		<-socketDone
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newSessionRepository picks the redis registry when enabled and the in-memory one otherwise.
func newSessionRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.SessionRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis disabled, using in-memory session registry")
		return repository.NewMemorySessionRepository(), func() {}, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewSessionRepository(redisStorage.Connection, conf.Redis.SessionTTL), closeStorage, nil
}
