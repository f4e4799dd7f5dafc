package repository

import (
	"context"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HerramientaRepository defines the data access contract for tools.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type HerramientaRepository interface {
	Create(ctx context.Context, h *model.Herramienta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Herramienta, error)
	List(ctx context.Context, filter dto.HerramientaFilter) ([]model.Herramienta, int64, error)
	ListBajoStock(ctx context.Context) ([]model.Herramienta, error)
	Update(ctx context.Context, h *model.Herramienta) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// Delete removes the row physically. Only valid when the tool has no
	// ledger history; the service layer enforces that.
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategoria(ctx context.Context, categoriaID uuid.UUID) (int64, error)

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDForUpdateTx takes a row lock (SELECT … FOR UPDATE) so two
	// concurrent movements on the same tool serialize at the store.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Herramienta, error)
	UpdateCantidadesTx(tx *gorm.DB, id uuid.UUID, cantidades map[string]interface{}) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type herramientaRepo struct{ db *gorm.DB }

func NewHerramientaRepository(db *gorm.DB) HerramientaRepository { return &herramientaRepo{db: db} }

func (r *herramientaRepo) Create(ctx context.Context, h *model.Herramienta) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *herramientaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Herramienta, error) {
	var h model.Herramienta
	err := r.db.WithContext(ctx).Preload("Categoria").First(&h, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *herramientaRepo) List(ctx context.Context, filter dto.HerramientaFilter) ([]model.Herramienta, int64, error) {
	var herramientas []model.Herramienta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Herramienta{})

	// Activo filter: "false" = inactivas, "all" = todas, anything else = activas (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

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
	err := q.Preload("Categoria").Order("nombre ASC").Limit(limit).Offset(offset).Find(&herramientas).Error
	return herramientas, total, err
}

func (r *herramientaRepo) ListBajoStock(ctx context.Context) ([]model.Herramienta, error) {
	var herramientas []model.Herramienta
	err := r.db.WithContext(ctx).
		Where("activo = true AND cantidad_disponible < stock_minimo").
		Order("nombre ASC").
		Find(&herramientas).Error
	return herramientas, err
}

func (r *herramientaRepo) Update(ctx context.Context, h *model.Herramienta) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *herramientaRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Herramienta{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *herramientaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Herramienta{}, "id = ?", id).Error
}

func (r *herramientaRepo) CountByCategoria(ctx context.Context, categoriaID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Herramienta{}).
		Where("categoria_id = ? AND activo = true", categoriaID).
		Count(&count).Error
	return count, err
}

func (r *herramientaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Herramienta, error) {
	var h model.Herramienta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&h, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *herramientaRepo) UpdateCantidadesTx(tx *gorm.DB, id uuid.UUID, cantidades map[string]interface{}) error {
	return tx.Model(&model.Herramienta{}).Where("id = ?", id).Updates(cantidades).Error
}

func (r *herramientaRepo) DB() *gorm.DB { return r.db }
