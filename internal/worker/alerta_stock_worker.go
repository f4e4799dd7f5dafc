package worker

// alerta_stock_worker.go
// Processes low-stock alert jobs from QueueAlertaStock: one email to the
// warehouse distribution list per tool that dropped under its minimum.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlertaStock.
type AlertaStockPayload struct {
	HerramientaID string `json:"herramienta_id"`
	Herramienta   string `json:"herramienta"`
	Disponible    int    `json:"disponible"`
	StockMinimo   int    `json:"stock_minimo"`
}

// AlertaStockWorker sends low-stock notifications through the SMTP relay,
// guarded by the shared circuit breaker.
type AlertaStockWorker struct {
	mailer        *infra.Mailer
	cb            *infra.CircuitBreaker
	destinatarios []string
}

func NewAlertaStockWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, destinatarios []string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, cb: cb, destinatarios: destinatarios}
}

func (w *AlertaStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_stock_worker: invalid payload")
		return nil // unparseable, retrying won't help
	}
	if len(w.destinatarios) == 0 {
		log.Warn().Str("herramienta", payload.Herramienta).Msg("alerta_stock_worker: no recipients configured, dropping alert")
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s (%d disponibles)", payload.Herramienta, payload.Disponible)
	body := fmt.Sprintf(
		"La herramienta %q quedo con %d unidades disponibles, por debajo del minimo de %d.\n\nID: %s\n",
		payload.Herramienta, payload.Disponible, payload.StockMinimo, payload.HerramientaID,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.destinatarios, subject, body, "")
	})
	if err != nil {
		log.Error().Err(err).Str("herramienta", payload.Herramienta).Msg("alerta_stock_worker: failed to send alert")
		return err
	}
	log.Info().Str("herramienta", payload.Herramienta).Int("disponible", payload.Disponible).Msg("alerta_stock_worker: alert sent")
	return nil
}
