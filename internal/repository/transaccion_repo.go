package repository

import (
	"context"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SumasPorTipo carries the ledger aggregates the reconciler works from.
type SumasPorTipo struct {
	Retiros      int
	Devoluciones int
}

// ResumenTipo aggregates movement per tool kind for dashboard counters.
type ResumenTipo struct {
	TipoHerramienta string
	EnUso           int
	Devueltas       int
}

// TransaccionFilter defines filters for listing ledger entries.
type TransaccionFilter struct {
	HerramientaID *uuid.UUID
	OperarioID    *uuid.UUID
	Tipo          string
	Page          int
	Limit         int
}

// TransaccionRepository is the append-only ledger. There are deliberately no
// Update or Delete methods: history only grows.
type TransaccionRepository interface {
	Create(ctx context.Context, t *model.Transaccion) error
	CreateTx(tx *gorm.DB, t *model.Transaccion) error
	Recientes(ctx context.Context, limit int) ([]model.Transaccion, error)
	List(ctx context.Context, filter TransaccionFilter) ([]model.Transaccion, int64, error)
	SumPorTipo(ctx context.Context, herramientaID uuid.UUID) (SumasPorTipo, error)
	SumPorTipoTx(tx *gorm.DB, herramientaID uuid.UUID) (SumasPorTipo, error)
	CountByHerramienta(ctx context.Context, herramientaID uuid.UUID) (int64, error)
	CountByOperario(ctx context.Context, operarioID uuid.UUID) (int64, error)
	ResumenPorTipoHerramienta(ctx context.Context) ([]ResumenTipo, error)
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository { return &transaccionRepo{db: db} }

func (r *transaccionRepo) Create(ctx context.Context, t *model.Transaccion) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transaccionRepo) CreateTx(tx *gorm.DB, t *model.Transaccion) error {
	return tx.Create(t).Error
}

func (r *transaccionRepo) Recientes(ctx context.Context, limit int) ([]model.Transaccion, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var transacciones []model.Transaccion
	err := r.db.WithContext(ctx).
		Preload("Herramienta").
		Preload("Operario").
		Order("created_at DESC").
		Limit(limit).
		Find(&transacciones).Error
	return transacciones, err
}

func (r *transaccionRepo) List(ctx context.Context, filter TransaccionFilter) ([]model.Transaccion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaccion{}).
		Preload("Herramienta").
		Preload("Operario")
	if filter.HerramientaID != nil {
		q = q.Where("herramienta_id = ?", *filter.HerramientaID)
	}
	if filter.OperarioID != nil {
		q = q.Where("operario_id = ?", *filter.OperarioID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var transacciones []model.Transaccion
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&transacciones).Error
	return transacciones, total, err
}

const sumPorTipoSQL = `
SELECT
  COALESCE(SUM(CASE WHEN tipo = 'retiro'     THEN cantidad ELSE 0 END), 0) AS retiros,
  COALESCE(SUM(CASE WHEN tipo = 'devolucion' THEN cantidad ELSE 0 END), 0) AS devoluciones
FROM transacciones
WHERE herramienta_id = ?`

func (r *transaccionRepo) SumPorTipo(ctx context.Context, herramientaID uuid.UUID) (SumasPorTipo, error) {
	var sumas SumasPorTipo
	err := r.db.WithContext(ctx).Raw(sumPorTipoSQL, herramientaID).Scan(&sumas).Error
	return sumas, err
}

func (r *transaccionRepo) SumPorTipoTx(tx *gorm.DB, herramientaID uuid.UUID) (SumasPorTipo, error) {
	var sumas SumasPorTipo
	err := tx.Raw(sumPorTipoSQL, herramientaID).Scan(&sumas).Error
	return sumas, err
}

func (r *transaccionRepo) CountByHerramienta(ctx context.Context, herramientaID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaccion{}).
		Where("herramienta_id = ?", herramientaID).
		Count(&count).Error
	return count, err
}

func (r *transaccionRepo) CountByOperario(ctx context.Context, operarioID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaccion{}).
		Where("operario_id = ?", operarioID).
		Count(&count).Error
	return count, err
}

func (r *transaccionRepo) ResumenPorTipoHerramienta(ctx context.Context) ([]ResumenTipo, error) {
	var resumen []ResumenTipo
	err := r.db.WithContext(ctx).Raw(`
SELECT h.tipo AS tipo_herramienta,
  COALESCE(SUM(CASE WHEN t.tipo = 'retiro'     THEN t.cantidad
                    WHEN t.tipo = 'devolucion' THEN -t.cantidad
                    ELSE 0 END), 0) AS en_uso,
  COALESCE(SUM(CASE WHEN t.tipo = 'devolucion' THEN t.cantidad ELSE 0 END), 0) AS devueltas
FROM transacciones t
JOIN herramientas h ON h.id = t.herramienta_id
GROUP BY h.tipo
ORDER BY h.tipo`).Scan(&resumen).Error
	return resumen, err
}
