package repository

import (
	"context"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperarioRepository interface {
	Create(ctx context.Context, o *model.Operario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operario, error)
	// FindByCodigo only matches active operarios: a deactivated worker's
	// code stops authenticating immediately.
	FindByCodigo(ctx context.Context, codigo string) (*model.Operario, error)
	ExisteCodigo(ctx context.Context, codigo string) (bool, error)
	List(ctx context.Context) ([]model.Operario, error)
	ListAll(ctx context.Context) ([]model.Operario, error)
	Update(ctx context.Context, o *model.Operario) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type operarioRepo struct{ db *gorm.DB }

func NewOperarioRepository(db *gorm.DB) OperarioRepository { return &operarioRepo{db: db} }

func (r *operarioRepo) Create(ctx context.Context, o *model.Operario) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *operarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Operario, error) {
	var o model.Operario
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *operarioRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Operario, error) {
	var o model.Operario
	err := r.db.WithContext(ctx).
		Where("codigo_acceso = ? AND activo = true", codigo).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *operarioRepo) ExisteCodigo(ctx context.Context, codigo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Operario{}).
		Where("codigo_acceso = ?", codigo).
		Count(&count).Error
	return count > 0, err
}

func (r *operarioRepo) List(ctx context.Context) ([]model.Operario, error) {
	var operarios []model.Operario
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&operarios).Error
	return operarios, err
}

func (r *operarioRepo) ListAll(ctx context.Context) ([]model.Operario, error) {
	var operarios []model.Operario
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&operarios).Error
	return operarios, err
}

func (r *operarioRepo) Update(ctx context.Context, o *model.Operario) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *operarioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Operario{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *operarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Operario{}, "id = ?", id).Error
}
