package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/watchtogether/server/internal/controller"
	connectionInmemory "github.com/watchtogether/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/watchtogether/server/internal/repository/room/inmemory"
	"github.com/watchtogether/server/internal/service/room"
	"github.com/watchtogether/server/pkg/ctxlogger"
)

type AppConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	LogLevel     string        `json:"log_level"`
	MembersLimit int           `json:"members_limit"`
	EmptyRoomTTL time.Duration `json:"empty_room_ttl"`
	CatchUpDelay time.Duration `json:"catch_up_delay"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.EmptyRoomTTL < 0 {
		return fmt.Errorf("empty room ttl must not be negative")
	}
	if cfg.CatchUpDelay < 0 {
		return fmt.Errorf("catch up delay must not be negative")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	roomRepo := roomInmemory.NewRepo(cfg.MembersLimit)
	connectionRepo := connectionInmemory.NewRepo()
	roomService := room.NewService(roomRepo, connectionRepo, &room.Config{
		EmptyRoomTTL: cfg.EmptyRoomTTL,
		CatchUpDelay: cfg.CatchUpDelay,
	}, logger)
	controller := controller.NewController(roomService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
