package service

import (
	"context"
	"errors"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoriaDuplicada = errors.New("ya existe una categoria con ese nombre y tipo")

type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context, tipo string) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo         repository.CategoriaRepository
	herramientas repository.HerramientaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository, herramientas repository.HerramientaRepository) CategoriaService {
	return &categoriaService{repo: repo, herramientas: herramientas}
}

func mapCategoria(c *model.Categoria) *dto.CategoriaResponse {
	return &dto.CategoriaResponse{
		ID:     c.ID,
		Nombre: c.Nombre,
		Tipo:   c.Tipo,
		Color:  c.Color,
		Activo: c.Activo,
	}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	existente, err := s.repo.ObtenerPorNombreYTipo(ctx, req.Nombre, req.Tipo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existente != nil {
		return nil, ErrCategoriaDuplicada
	}

	c := &model.Categoria{
		Nombre: req.Nombre,
		Tipo:   req.Tipo,
		Activo: true,
	}
	if req.Color != "" {
		c.Color = req.Color
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, err
	}
	return mapCategoria(c), nil
}

func (s *categoriaService) Listar(ctx context.Context, tipo string) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.Listar(ctx, tipo)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		data = append(data, *mapCategoria(&categorias[i]))
	}
	return data, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoriaNoEncontrada
		}
		return nil, err
	}
	if req.Nombre != nil && *req.Nombre != c.Nombre {
		existente, err := s.repo.ObtenerPorNombreYTipo(ctx, *req.Nombre, c.Tipo)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existente != nil && existente.ID != c.ID {
			return nil, ErrCategoriaDuplicada
		}
		c.Nombre = *req.Nombre
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Actualizar(ctx, c); err != nil {
		return nil, err
	}
	return mapCategoria(c), nil
}

// Desactivar refuses while active tools still reference the category.
func (s *categoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoriaNoEncontrada
		}
		return err
	}
	count, err := s.herramientas.CountByCategoria(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoriaConHerramientas
	}
	return s.repo.Desactivar(ctx, id)
}
