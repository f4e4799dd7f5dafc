package service

import (
	"context"
	"errors"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MovimientoService is the sole authorized path that mutates tool quantities.
// Every movement validates, applies the bucket transfer, and appends the
// matching ledger row inside one database transaction, so a failure leaves no
// partial state (no quantity change without its ledger entry, and vice versa).
//
// Retirar/Devolver are NOT idempotent: retrying a timed-out call risks a
// double movement. Callers must confirm via the stock lookup or the ledger
// before retrying.
type MovimientoService interface {
	Retirar(ctx context.Context, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
	Devolver(ctx context.Context, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
}

type movimientoService struct {
	herramientas  repository.HerramientaRepository
	transacciones repository.TransaccionRepository
	operarios     repository.OperarioRepository
	rdb           *redis.Client
	dispatcher    *worker.Dispatcher
}

func NewMovimientoService(
	herramientas repository.HerramientaRepository,
	transacciones repository.TransaccionRepository,
	operarios repository.OperarioRepository,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
) MovimientoService {
	return &movimientoService{
		herramientas:  herramientas,
		transacciones: transacciones,
		operarios:     operarios,
		rdb:           rdb,
		dispatcher:    dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Retirar ───────────────────────────────────────────────────────────────────
// Checkout: moves cantidad from disponible to en_uso.
//   1. Resolve operario by access code (re-authenticates on every call — the
//      kiosk has no session)
//   2. BEGIN TX: lock the tool row, validate disponible >= cantidad, apply the
//      transfer, append the ledger row with before/after snapshots
//   3. COMMIT
//   4. (async) invalidate the stock cache; enqueue a low-stock alert if the
//      movement crossed stock_minimo

func (s *movimientoService) Retirar(ctx context.Context, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	op, herramientaID, err := s.autenticar(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp *dto.MovimientoResponse
	var alerta *worker.AlertaStockPayload

	txErr := runTx(ctx, s.herramientas.DB(), func(tx *gorm.DB) error {
		h, err := s.lockHerramienta(tx, herramientaID)
		if err != nil {
			return err
		}
		if h.CantidadDisponible < req.Cantidad {
			return &StockInsuficienteError{Disponible: h.CantidadDisponible}
		}

		anterior := h.CantidadDisponible
		nuevo := anterior - req.Cantidad
		if err := s.herramientas.UpdateCantidadesTx(tx, h.ID, map[string]interface{}{
			"cantidad_disponible": nuevo,
			"cantidad_en_uso":     h.CantidadEnUso + req.Cantidad,
		}); err != nil {
			return err
		}

		opID := op.ID
		if err := s.transacciones.CreateTx(tx, &model.Transaccion{
			HerramientaID:      h.ID,
			OperarioID:         &opID,
			Tipo:               model.TransaccionRetiro,
			Cantidad:           req.Cantidad,
			DisponibleAnterior: anterior,
			DisponibleNuevo:    nuevo,
			Proyecto:           req.Proyecto,
		}); err != nil {
			return err
		}

		if nuevo < h.StockMinimo {
			alerta = &worker.AlertaStockPayload{
				HerramientaID: h.ID.String(),
				Herramienta:   h.Nombre,
				Disponible:    nuevo,
				StockMinimo:   h.StockMinimo,
			}
		}
		resp = &dto.MovimientoResponse{
			Herramienta: h.Nombre,
			Operario:    op.Nombre,
			Tipo:        model.TransaccionRetiro,
			Cantidad:    req.Cantidad,
			Disponible:  nuevo,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidarCacheStock(ctx, herramientaID)

	// Alert dispatch is best-effort — fire & forget
	if alerta != nil && s.dispatcher != nil {
		if err := s.dispatcher.EnqueueAlertaStock(ctx, alerta); err != nil {
			log.Error().Err(err).Str("herramienta", alerta.Herramienta).Msg("no se pudo encolar alerta de stock")
		}
	}
	return resp, nil
}

// ── Devolver ──────────────────────────────────────────────────────────────────
// Checkin: the exact mirror of Retirar — moves cantidad from en_uso back to
// disponible. Never touches cantidad_mantenimiento.

func (s *movimientoService) Devolver(ctx context.Context, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	op, herramientaID, err := s.autenticar(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp *dto.MovimientoResponse
	txErr := runTx(ctx, s.herramientas.DB(), func(tx *gorm.DB) error {
		h, err := s.lockHerramienta(tx, herramientaID)
		if err != nil {
			return err
		}
		if h.CantidadEnUso < req.Cantidad {
			return &EnUsoInsuficienteError{EnUso: h.CantidadEnUso}
		}

		anterior := h.CantidadDisponible
		nuevo := anterior + req.Cantidad
		if err := s.herramientas.UpdateCantidadesTx(tx, h.ID, map[string]interface{}{
			"cantidad_disponible": nuevo,
			"cantidad_en_uso":     h.CantidadEnUso - req.Cantidad,
		}); err != nil {
			return err
		}

		opID := op.ID
		if err := s.transacciones.CreateTx(tx, &model.Transaccion{
			HerramientaID:      h.ID,
			OperarioID:         &opID,
			Tipo:               model.TransaccionDevolucion,
			Cantidad:           req.Cantidad,
			DisponibleAnterior: anterior,
			DisponibleNuevo:    nuevo,
			Proyecto:           req.Proyecto,
		}); err != nil {
			return err
		}

		resp = &dto.MovimientoResponse{
			Herramienta: h.Nombre,
			Operario:    op.Nombre,
			Tipo:        model.TransaccionDevolucion,
			Cantidad:    req.Cantidad,
			Disponible:  nuevo,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidarCacheStock(ctx, herramientaID)
	return resp, nil
}

// autenticar runs the pre-flight checks shared by both movements: positive
// quantity, valid active operario, well-formed tool id.
func (s *movimientoService) autenticar(ctx context.Context, req dto.MovimientoRequest) (*model.Operario, uuid.UUID, error) {
	if req.Cantidad <= 0 {
		return nil, uuid.Nil, ErrCantidadInvalida
	}
	op, err := s.operarios.FindByCodigo(ctx, req.CodigoOperario)
	if err != nil {
		return nil, uuid.Nil, ErrOperarioInvalido
	}
	herramientaID, err := uuid.Parse(req.HerramientaID)
	if err != nil {
		return nil, uuid.Nil, ErrHerramientaNoEncontrada
	}
	return op, herramientaID, nil
}

func (s *movimientoService) lockHerramienta(tx *gorm.DB, id uuid.UUID) (*model.Herramienta, error) {
	h, err := s.herramientas.FindByIDForUpdateTx(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHerramientaNoEncontrada
		}
		return nil, err
	}
	if !h.Activo {
		return nil, ErrHerramientaNoEncontrada
	}
	return h, nil
}

// StockCacheKey is shared with the public stock lookup handler so movements
// can invalidate what the kiosk caches.
func StockCacheKey(herramientaID uuid.UUID) string {
	return "stock:" + herramientaID.String()
}

func (s *movimientoService) invalidarCacheStock(ctx context.Context, herramientaID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, StockCacheKey(herramientaID)).Err(); err != nil {
		log.Debug().Err(err).Msg("no se pudo invalidar cache de stock")
	}
}
