package service

import (
	"context"
	"errors"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HerramientaService covers the administrative lifecycle of tools. Quantity
// edits here go through the same transactional discipline as movements: the
// row is locked, disponible is recomputed, and stock adjustments write their
// own ledger rows.
type HerramientaService interface {
	Crear(ctx context.Context, req dto.CrearHerramientaRequest) (*dto.HerramientaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.HerramientaResponse, error)
	Listar(ctx context.Context, filter dto.HerramientaFilter) (*dto.HerramientaListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarHerramientaRequest) (*dto.HerramientaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.EliminarHerramientaResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.HerramientaResponse, error)
	Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type herramientaService struct {
	repo          repository.HerramientaRepository
	transacciones repository.TransaccionRepository
	categorias    repository.CategoriaRepository
	rdb           *redis.Client
}

func NewHerramientaService(
	repo repository.HerramientaRepository,
	transacciones repository.TransaccionRepository,
	categorias repository.CategoriaRepository,
	rdb *redis.Client,
) HerramientaService {
	return &herramientaService{repo: repo, transacciones: transacciones, categorias: categorias, rdb: rdb}
}

func mapHerramienta(h *model.Herramienta) *dto.HerramientaResponse {
	var categoriaID, categoria *string
	if h.CategoriaID != nil {
		s := h.CategoriaID.String()
		categoriaID = &s
	}
	if h.Categoria != nil {
		categoria = &h.Categoria.Nombre
	}
	return &dto.HerramientaResponse{
		ID:                    h.ID.String(),
		Nombre:                h.Nombre,
		Descripcion:           h.Descripcion,
		CategoriaID:           categoriaID,
		Categoria:             categoria,
		Tipo:                  h.Tipo,
		CantidadTotal:         h.CantidadTotal,
		CantidadDisponible:    h.CantidadDisponible,
		CantidadEnUso:         h.CantidadEnUso,
		CantidadMantenimiento: h.CantidadMantenimiento,
		StockMinimo:           h.StockMinimo,
		Ubicacion:             h.Ubicacion,
		ValorReposicion:       h.ValorReposicion,
		Activo:                h.Activo,
	}
}

// resolverCategoria validates that the referenced category exists, is active,
// and matches the tool kind.
func (s *herramientaService) resolverCategoria(ctx context.Context, idStr string, tipoHerramienta string) (*uuid.UUID, error) {
	catID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrCategoriaNoEncontrada
	}
	cat, err := s.categorias.ObtenerPorID(ctx, catID)
	if err != nil || !cat.Activo {
		return nil, ErrCategoriaNoEncontrada
	}
	if cat.Tipo != tipoHerramienta {
		return nil, ErrCategoriaTipoDistinto
	}
	return &catID, nil
}

func (s *herramientaService) Crear(ctx context.Context, req dto.CrearHerramientaRequest) (*dto.HerramientaResponse, error) {
	h := &model.Herramienta{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Tipo:        req.Tipo,
		// Una herramienta nueva nace con todo su stock disponible.
		CantidadTotal:      req.CantidadTotal,
		CantidadDisponible: req.CantidadTotal,
		StockMinimo:        req.StockMinimo,
		Ubicacion:          req.Ubicacion,
		ValorReposicion:    req.ValorReposicion,
		Activo:             true,
	}
	if req.CategoriaID != nil {
		catID, err := s.resolverCategoria(ctx, *req.CategoriaID, req.Tipo)
		if err != nil {
			return nil, err
		}
		h.CategoriaID = catID
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return mapHerramienta(h), nil
}

func (s *herramientaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.HerramientaResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHerramientaNoEncontrada
		}
		return nil, err
	}
	return mapHerramienta(h), nil
}

func (s *herramientaService) Listar(ctx context.Context, filter dto.HerramientaFilter) (*dto.HerramientaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	herramientas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HerramientaResponse, 0, len(herramientas))
	for i := range herramientas {
		data = append(data, *mapHerramienta(&herramientas[i]))
	}
	return &dto.HerramientaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Actualizar edits display metadata and cantidad_total. Changing the total
// recomputes disponible = total - en_uso - mantenimiento under the row lock;
// the edit is rejected when the new total is below the committed units.
func (s *herramientaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarHerramientaRequest) (*dto.HerramientaResponse, error) {
	var resp *dto.HerramientaResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		h, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHerramientaNoEncontrada
			}
			return err
		}

		if req.Nombre != nil {
			h.Nombre = *req.Nombre
		}
		if req.Descripcion != nil {
			h.Descripcion = req.Descripcion
		}
		if req.CategoriaID != nil {
			catID, err := s.resolverCategoria(ctx, *req.CategoriaID, h.Tipo)
			if err != nil {
				return err
			}
			h.CategoriaID = catID
		}
		if req.StockMinimo != nil {
			h.StockMinimo = *req.StockMinimo
		}
		if req.Ubicacion != nil {
			h.Ubicacion = *req.Ubicacion
		}
		if req.ValorReposicion != nil {
			h.ValorReposicion = *req.ValorReposicion
		}
		if req.CantidadTotal != nil {
			comprometido := h.CantidadEnUso + h.CantidadMantenimiento
			nuevaDisponible := *req.CantidadTotal - comprometido
			if nuevaDisponible < 0 {
				return &DisponibleNegativoError{Comprometido: comprometido}
			}
			h.CantidadTotal = *req.CantidadTotal
			h.CantidadDisponible = nuevaDisponible
		}

		if tx != nil {
			if err := tx.Save(h).Error; err != nil {
				return err
			}
		} else if err := s.repo.Update(ctx, h); err != nil {
			return err
		}
		resp = mapHerramienta(h)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.invalidarCache(ctx, id)
	return resp, nil
}

// Eliminar rejects while units are in the field; soft-deletes when ledger
// history references the tool (append-only history must keep resolving) and
// hard-deletes otherwise.
func (s *herramientaService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.EliminarHerramientaResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHerramientaNoEncontrada
		}
		return nil, err
	}
	if h.CantidadEnUso > 0 {
		return nil, ErrHerramientaEnUso
	}

	historial, err := s.transacciones.CountByHerramienta(ctx, id)
	if err != nil {
		return nil, err
	}
	if historial > 0 {
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return nil, err
		}
		s.invalidarCache(ctx, id)
		return &dto.EliminarHerramientaResponse{
			Eliminada:    false,
			SoloInactiva: true,
			Detalle:      "la herramienta tiene historial de movimientos; se marco como inactiva",
		}, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx, id)
	return &dto.EliminarHerramientaResponse{
		Eliminada: true,
		Detalle:   "herramienta eliminada",
	}, nil
}

// AjustarStock raises or lowers cantidad_total through the ledger so the
// adjustment is auditable like any other movement. Altas add to disponible;
// bajas come out of disponible and are rejected beyond it.
func (s *herramientaService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.HerramientaResponse, error) {
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	var resp *dto.HerramientaResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		h, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHerramientaNoEncontrada
			}
			return err
		}

		anterior := h.CantidadDisponible
		var nuevo, nuevoTotal int
		var tipo string
		switch req.Tipo {
		case "alta":
			tipo = model.TransaccionAltaStock
			nuevo = anterior + req.Cantidad
			nuevoTotal = h.CantidadTotal + req.Cantidad
		case "baja":
			tipo = model.TransaccionBajaStock
			if anterior < req.Cantidad {
				return &StockInsuficienteError{Disponible: anterior}
			}
			nuevo = anterior - req.Cantidad
			nuevoTotal = h.CantidadTotal - req.Cantidad
		default:
			return ErrCantidadInvalida
		}

		if err := s.repo.UpdateCantidadesTx(tx, h.ID, map[string]interface{}{
			"cantidad_total":      nuevoTotal,
			"cantidad_disponible": nuevo,
		}); err != nil {
			return err
		}
		if err := s.transacciones.CreateTx(tx, &model.Transaccion{
			HerramientaID:      h.ID,
			Tipo:               tipo,
			Cantidad:           req.Cantidad,
			DisponibleAnterior: anterior,
			DisponibleNuevo:    nuevo,
			Proyecto:           req.Motivo,
		}); err != nil {
			return err
		}

		h.CantidadTotal = nuevoTotal
		h.CantidadDisponible = nuevo
		resp = mapHerramienta(h)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.invalidarCache(ctx, id)
	return resp, nil
}

func (s *herramientaService) Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	herramientas, err := s.repo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(herramientas))
	for _, h := range herramientas {
		alertas = append(alertas, dto.AlertaStockResponse{
			HerramientaID: h.ID.String(),
			Nombre:        h.Nombre,
			Disponible:    h.CantidadDisponible,
			StockMinimo:   h.StockMinimo,
			Ubicacion:     h.Ubicacion,
		})
	}
	return alertas, nil
}

func (s *herramientaService) invalidarCache(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, StockCacheKey(id)).Err()
}
