package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/config"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/infra"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/router"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Async plumbing: alert emails and PDF reports run on the goroutine
	// worker pool. Handlers are wired here (composition root) so the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	herramientaRepo := repository.NewHerramientaRepository(db)
	transaccionRepo := repository.NewTransaccionRepository(db)

	var destinatarios []string
	for _, addr := range strings.Split(cfg.AlertEmails, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			destinatarios = append(destinatarios, addr)
		}
	}

	handlers := worker.WorkerHandlers{
		AlertaStock: worker.NewAlertaStockWorker(mailer, smtpCB, destinatarios),
		Reporte:     worker.NewReporteWorker(transaccionRepo, mailer, smtpCB, cfg.ReportStoragePath),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Periodic low-stock sweep — catches drifts outside the movement path
	worker.StartAlertaCron(ctx, worker.AlertaCronConfig{
		HerramientaRepo: herramientaRepo,
		Dispatcher:      dispatcher,
		CB:              smtpCB,
		RDB:             rdb,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("eines backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
