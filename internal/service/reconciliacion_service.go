package service

import (
	"context"
	"errors"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReconciliacionService repairs drift between a tool's stored counters and
// what the ledger implies. Because the ledger is append-only and every
// movement commits atomically, the sums are always over fully written rows;
// running this concurrently with movements can at worst use a slightly stale
// snapshot, which the next run corrects.
type ReconciliacionService interface {
	Reconciliar(ctx context.Context, herramientaID uuid.UUID) (*dto.ReconciliacionResponse, error)
}

type reconciliacionService struct {
	herramientas  repository.HerramientaRepository
	transacciones repository.TransaccionRepository
}

func NewReconciliacionService(
	herramientas repository.HerramientaRepository,
	transacciones repository.TransaccionRepository,
) ReconciliacionService {
	return &reconciliacionService{herramientas: herramientas, transacciones: transacciones}
}

// Reconciliar recomputes en_uso and disponible from the ledger:
//
//	en_uso     = sum(retiros) - sum(devoluciones)
//	disponible = cantidad_total - en_uso
//
// cantidad_mantenimiento is untouched: maintenance transitions do not flow
// through the ledger. Idempotent — a second run with no intervening
// movements writes the same values.
func (s *reconciliacionService) Reconciliar(ctx context.Context, herramientaID uuid.UUID) (*dto.ReconciliacionResponse, error) {
	var resp *dto.ReconciliacionResponse

	txErr := runTx(ctx, s.herramientas.DB(), func(tx *gorm.DB) error {
		h, err := s.herramientas.FindByIDForUpdateTx(tx, herramientaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHerramientaNoEncontrada
			}
			return err
		}

		sumas, err := s.transacciones.SumPorTipoTx(tx, herramientaID)
		if err != nil {
			return err
		}

		enUso := sumas.Retiros - sumas.Devoluciones
		disponible := h.CantidadTotal - enUso
		corregida := disponible != h.CantidadDisponible || enUso != h.CantidadEnUso

		resp = &dto.ReconciliacionResponse{
			HerramientaID: h.ID.String(),
			Nombre:        h.Nombre,
			Antes: dto.StockSnapshot{
				Total:         h.CantidadTotal,
				Disponible:    h.CantidadDisponible,
				EnUso:         h.CantidadEnUso,
				Mantenimiento: h.CantidadMantenimiento,
			},
			Despues: dto.StockSnapshot{
				Total:         h.CantidadTotal,
				Disponible:    disponible,
				EnUso:         enUso,
				Mantenimiento: h.CantidadMantenimiento,
			},
			Corregida: corregida,
		}

		if !corregida {
			return nil
		}
		return s.herramientas.UpdateCantidadesTx(tx, h.ID, map[string]interface{}{
			"cantidad_disponible": disponible,
			"cantidad_en_uso":     enUso,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	if resp.Corregida {
		log.Warn().
			Str("herramienta_id", resp.HerramientaID).
			Str("nombre", resp.Nombre).
			Int("disponible_antes", resp.Antes.Disponible).
			Int("disponible_despues", resp.Despues.Disponible).
			Int("en_uso_antes", resp.Antes.EnUso).
			Int("en_uso_despues", resp.Despues.EnUso).
			Msg("deriva de stock corregida desde el libro de movimientos")
	}
	return resp, nil
}
