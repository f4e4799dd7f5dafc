package worker

// alerta_cron.go
// Background goroutine that periodically sweeps for tools under their stock
// minimum and enqueues alert jobs. Catches tools that drifted below the
// threshold outside the movement path (manual adjustments, edits, restores).
// A Redis SETNX key throttles alerts so each tool notifies at most once per
// window.

import (
	"context"
	"time"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/infra"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	alertaTickInterval = 5 * time.Minute
	alertaThrottleTTL  = 12 * time.Hour
)

// AlertaCronConfig holds all dependencies for the sweep goroutine.
type AlertaCronConfig struct {
	HerramientaRepo repository.HerramientaRepository
	Dispatcher      *Dispatcher
	CB              *infra.CircuitBreaker
	RDB             *redis.Client
}

// StartAlertaCron launches a background goroutine that ticks every few
// minutes and enqueues a low-stock alert per tool under its minimum.
// It respects the context for graceful shutdown.
func StartAlertaCron(ctx context.Context, cfg AlertaCronConfig) {
	go func() {
		ticker := time.NewTicker(alertaTickInterval)
		defer ticker.Stop()

		log.Info().Msg("alerta_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerta_cron: shutting down")
				return
			case <-ticker.C:
				processSweep(ctx, cfg)
			}
		}
	}()
}

func processSweep(ctx context.Context, cfg AlertaCronConfig) {
	// If the SMTP breaker is open the alert emails would fail anyway.
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("alerta_cron: circuit breaker is open, skipping tick")
		return
	}

	herramientas, err := cfg.HerramientaRepo.ListBajoStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to query low-stock tools")
		return
	}
	if len(herramientas) == 0 {
		return
	}

	for i := range herramientas {
		h := &herramientas[i]

		throttleKey := "alerted:herramienta:" + h.ID.String()
		ok, err := cfg.RDB.SetNX(ctx, throttleKey, 1, alertaThrottleTTL).Result()
		if err != nil {
			log.Error().Err(err).Str("herramienta", h.Nombre).Msg("alerta_cron: throttle check failed")
			continue
		}
		if !ok {
			continue // already alerted within the window
		}

		payload := AlertaStockPayload{
			HerramientaID: h.ID.String(),
			Herramienta:   h.Nombre,
			Disponible:    h.CantidadDisponible,
			StockMinimo:   h.StockMinimo,
		}
		if err := cfg.Dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			// Drop the throttle key so the next tick retries.
			_ = cfg.RDB.Del(ctx, throttleKey).Err()
			log.Error().Err(err).Str("herramienta", h.Nombre).Msg("alerta_cron: failed to enqueue alert")
		}
	}
}
