package worker

// reporte_worker.go
// Processes report jobs from QueueReporte: renders the recent-movements PDF
// and mails it to the requester.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/infra"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportePayload is the job envelope sent to QueueReporte.
type ReportePayload struct {
	ToEmail string `json:"to_email"`
	Limit   int    `json:"limit"`
}

type ReporteWorker struct {
	transacciones repository.TransaccionRepository
	mailer        *infra.Mailer
	cb            *infra.CircuitBreaker
	storagePath   string
}

func NewReporteWorker(transacciones repository.TransaccionRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, storagePath string) *ReporteWorker {
	return &ReporteWorker{transacciones: transacciones, mailer: mailer, cb: cb, storagePath: storagePath}
}

func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("reporte_worker: empty to_email, dropping job")
		return nil
	}

	transacciones, err := w.transacciones.Recientes(ctx, payload.Limit)
	if err != nil {
		return fmt.Errorf("reporte_worker: query transacciones: %w", err)
	}

	pdfPath, err := infra.GenerarReporteTransacciones(transacciones, w.storagePath)
	if err != nil {
		return fmt.Errorf("reporte_worker: generar pdf: %w", err)
	}
	// The attachment is already in memory once sent; the file on disk is
	// only a staging artifact.
	defer func() { _ = os.Remove(pdfPath) }()

	subject := fmt.Sprintf("Reporte de movimientos (%d registros)", len(transacciones))
	body := "Se adjunta el reporte de movimientos recientes del panol."

	err = w.cb.Execute(func() error {
		return w.mailer.Send([]string{payload.ToEmail}, subject, body, pdfPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("reporte_worker: failed to send report")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Int("registros", len(transacciones)).Msg("reporte_worker: report sent")
	return nil
}
