package service

import (
	"context"
	"time"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/worker"
)

// TransaccionService is the read side of the ledger plus the async report
// request. Nothing here mutates history.
type TransaccionService interface {
	Recientes(ctx context.Context, limit int) ([]dto.TransaccionResponse, error)
	Listar(ctx context.Context, filter repository.TransaccionFilter) ([]dto.TransaccionResponse, int64, error)
	Resumen(ctx context.Context) ([]dto.ResumenTipoResponse, error)
	SolicitarReporte(ctx context.Context, req dto.SolicitarReporteRequest) error
}

type transaccionService struct {
	repo       repository.TransaccionRepository
	dispatcher *worker.Dispatcher
}

func NewTransaccionService(repo repository.TransaccionRepository, dispatcher *worker.Dispatcher) TransaccionService {
	return &transaccionService{repo: repo, dispatcher: dispatcher}
}

func mapTransaccion(t *model.Transaccion) dto.TransaccionResponse {
	resp := dto.TransaccionResponse{
		ID:                 t.ID.String(),
		Tipo:               t.Tipo,
		Cantidad:           t.Cantidad,
		DisponibleAnterior: t.DisponibleAnterior,
		DisponibleNuevo:    t.DisponibleNuevo,
		Proyecto:           t.Proyecto,
		CreatedAt:          t.CreatedAt.Format(time.RFC3339),
	}
	if t.Herramienta != nil {
		resp.Herramienta = t.Herramienta.Nombre
		resp.Ubicacion = t.Herramienta.Ubicacion
	}
	if t.Operario != nil {
		resp.Operario = &t.Operario.Nombre
	}
	return resp
}

func (s *transaccionService) Recientes(ctx context.Context, limit int) ([]dto.TransaccionResponse, error) {
	transacciones, err := s.repo.Recientes(ctx, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TransaccionResponse, 0, len(transacciones))
	for i := range transacciones {
		data = append(data, mapTransaccion(&transacciones[i]))
	}
	return data, nil
}

func (s *transaccionService) Listar(ctx context.Context, filter repository.TransaccionFilter) ([]dto.TransaccionResponse, int64, error) {
	transacciones, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	data := make([]dto.TransaccionResponse, 0, len(transacciones))
	for i := range transacciones {
		data = append(data, mapTransaccion(&transacciones[i]))
	}
	return data, total, nil
}

func (s *transaccionService) Resumen(ctx context.Context) ([]dto.ResumenTipoResponse, error) {
	resumen, err := s.repo.ResumenPorTipoHerramienta(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ResumenTipoResponse, 0, len(resumen))
	for _, r := range resumen {
		data = append(data, dto.ResumenTipoResponse{
			TipoHerramienta: r.TipoHerramienta,
			EnUso:           r.EnUso,
			Devueltas:       r.Devueltas,
		})
	}
	return data, nil
}

func (s *transaccionService) SolicitarReporte(ctx context.Context, req dto.SolicitarReporteRequest) error {
	limit := req.Limit
	if limit == 0 {
		limit = 100
	}
	return s.dispatcher.EnqueueReporte(ctx, worker.ReportePayload{
		ToEmail: req.Email,
		Limit:   limit,
	})
}
