package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexus-manager/backend/internal/ai"
	"github.com/nexus-manager/backend/internal/config"
	httpapi "github.com/nexus-manager/backend/internal/http"
	"github.com/nexus-manager/backend/internal/service"
	"github.com/nexus-manager/backend/internal/store"
	"github.com/nexus-manager/backend/internal/trello"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "nexus-backend").Logger()

	st := store.New(cfg.DataPath, logger)

	trelloClient := &trello.Client{}

	var factory ai.Factory
	if cfg.AIMode == "mock" {
		factory = ai.NewMock()
		logger.Info().Msg("using mock AI generator")
	} else {
		factory = ai.New(cfg.GeminiAPIKey)
	}

	auditor := &service.Auditor{Store: st, Trello: trelloClient, AI: factory, Logger: logger}
	advisor := &service.Advisor{Store: st, AI: factory, Logger: logger}

	router := httpapi.Router(cfg, st, trelloClient, auditor, advisor, logger)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("data", cfg.DataPath).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
