package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxIntentosCodigo bounds the retry loop when generating an unused access
// code. With 4 digits and realistic headcounts a collision streak this long
// means the code space is effectively exhausted.
const maxIntentosCodigo = 25

var ErrCodigosAgotados = errors.New("no se pudo generar un codigo de acceso libre")

type OperarioService interface {
	Crear(ctx context.Context, req dto.CrearOperarioRequest) (*dto.OperarioResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OperarioResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.OperarioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOperarioRequest) (*dto.OperarioResponse, error)
	RegenerarCodigo(ctx context.Context, id uuid.UUID) (*dto.OperarioResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.EliminarOperarioResponse, error)
}

type operarioService struct {
	repo          repository.OperarioRepository
	transacciones repository.TransaccionRepository
	codigoLen     int
}

func NewOperarioService(repo repository.OperarioRepository, transacciones repository.TransaccionRepository, codigoLen int) OperarioService {
	if codigoLen < 4 {
		codigoLen = 4
	}
	return &operarioService{repo: repo, transacciones: transacciones, codigoLen: codigoLen}
}

func mapOperario(o *model.Operario) *dto.OperarioResponse {
	return &dto.OperarioResponse{
		ID:           o.ID.String(),
		Nombre:       o.Nombre,
		Email:        o.Email,
		CodigoAcceso: o.CodigoAcceso,
		Activo:       o.Activo,
	}
}

// generarCodigo draws a random numeric code and retries on collision against
// existing codes, active or not.
func (s *operarioService) generarCodigo(ctx context.Context) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s.codigoLen)), nil)
	for i := 0; i < maxIntentosCodigo; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		codigo := fmt.Sprintf("%0*d", s.codigoLen, n)
		existe, err := s.repo.ExisteCodigo(ctx, codigo)
		if err != nil {
			return "", err
		}
		if !existe {
			return codigo, nil
		}
	}
	return "", ErrCodigosAgotados
}

func (s *operarioService) Crear(ctx context.Context, req dto.CrearOperarioRequest) (*dto.OperarioResponse, error) {
	codigo, err := s.generarCodigo(ctx)
	if err != nil {
		return nil, err
	}
	o := &model.Operario{
		Nombre:       req.Nombre,
		Email:        req.Email,
		CodigoAcceso: codigo,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return mapOperario(o), nil
}

func (s *operarioService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OperarioResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperarioNoEncontrado
		}
		return nil, err
	}
	return mapOperario(o), nil
}

func (s *operarioService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.OperarioResponse, error) {
	var (
		operarios []model.Operario
		err       error
	)
	if incluirInactivos {
		operarios, err = s.repo.ListAll(ctx)
	} else {
		operarios, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	data := make([]dto.OperarioResponse, 0, len(operarios))
	for i := range operarios {
		data = append(data, *mapOperario(&operarios[i]))
	}
	return data, nil
}

func (s *operarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOperarioRequest) (*dto.OperarioResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperarioNoEncontrado
		}
		return nil, err
	}
	if req.Nombre != nil {
		o.Nombre = *req.Nombre
	}
	if req.Email != nil {
		o.Email = req.Email
	}
	if req.Activo != nil {
		o.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return mapOperario(o), nil
}

// RegenerarCodigo replaces the access code, e.g. when a worker's card with
// the printed code is lost. The old code stops working as soon as the row
// is saved.
func (s *operarioService) RegenerarCodigo(ctx context.Context, id uuid.UUID) (*dto.OperarioResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperarioNoEncontrado
		}
		return nil, err
	}
	codigo, err := s.generarCodigo(ctx)
	if err != nil {
		return nil, err
	}
	o.CodigoAcceso = codigo
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return mapOperario(o), nil
}

// Eliminar soft-deletes when the operario appears in the ledger so that
// history keeps resolving, and hard-deletes otherwise.
func (s *operarioService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.EliminarOperarioResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperarioNoEncontrado
		}
		return nil, err
	}

	historial, err := s.transacciones.CountByOperario(ctx, id)
	if err != nil {
		return nil, err
	}
	if historial > 0 {
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return nil, err
		}
		return &dto.EliminarOperarioResponse{
			Eliminado:    false,
			SoloInactivo: true,
			Detalle:      "el operario tiene historial de movimientos; se marco como inactivo",
		}, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &dto.EliminarOperarioResponse{
		Eliminado: true,
		Detalle:   "operario eliminado",
	}, nil
}
