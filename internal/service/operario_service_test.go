package service_test

import (
	"context"
	"testing"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearOperario_GeneraCodigoNumerico(t *testing.T) {
	operarioRepo := newStubOperarioRepo()
	svc := service.NewOperarioService(operarioRepo, &stubTransaccionRepo{}, 4)

	resp, err := svc.Crear(context.Background(), dto.CrearOperarioRequest{Nombre: "Marc Vidal"})
	require.NoError(t, err)
	require.Len(t, resp.CodigoAcceso, 4)
	for _, r := range resp.CodigoAcceso {
		assert.GreaterOrEqual(t, r, '0')
		assert.LessOrEqual(t, r, '9')
	}
	assert.True(t, resp.Activo)
}

func TestCrearOperario_CodigosUnicos(t *testing.T) {
	operarioRepo := newStubOperarioRepo()
	svc := service.NewOperarioService(operarioRepo, &stubTransaccionRepo{}, 4)

	vistos := make(map[string]bool)
	for i := 0; i < 30; i++ {
		resp, err := svc.Crear(context.Background(), dto.CrearOperarioRequest{Nombre: "Operario"})
		require.NoError(t, err)
		assert.False(t, vistos[resp.CodigoAcceso], "codigo repetido: %s", resp.CodigoAcceso)
		vistos[resp.CodigoAcceso] = true
	}
}

func TestRegenerarCodigo_InvalidaElAnterior(t *testing.T) {
	operarioRepo := newStubOperarioRepo()
	svc := service.NewOperarioService(operarioRepo, &stubTransaccionRepo{}, 4)
	o := seedOperario(operarioRepo, "Marc Vidal", "4821", true)

	resp, err := svc.RegenerarCodigo(context.Background(), o.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "4821", resp.CodigoAcceso)
	assert.Len(t, resp.CodigoAcceso, 4)

	// The old code no longer resolves
	_, err = operarioRepo.FindByCodigo(context.Background(), "4821")
	assert.Error(t, err)
}

func TestEliminarOperario_ConHistorialSoloDesactiva(t *testing.T) {
	operarioRepo := newStubOperarioRepo()
	transaccionRepo := &stubTransaccionRepo{}
	svc := service.NewOperarioService(operarioRepo, transaccionRepo, 4)

	o := seedOperario(operarioRepo, "Marc Vidal", "4821", true)
	opID := o.ID
	_ = transaccionRepo.CreateTx(nil, &model.Transaccion{
		HerramientaID: uuid.New(),
		OperarioID:    &opID,
		Tipo:          model.TransaccionRetiro,
		Cantidad:      1,
	})

	resp, err := svc.Eliminar(context.Background(), o.ID)
	require.NoError(t, err)
	assert.False(t, resp.Eliminado)
	assert.True(t, resp.SoloInactivo)

	stored := operarioRepo.operarios[o.ID]
	require.NotNil(t, stored)
	assert.False(t, stored.Activo)
}

func TestEliminarOperario_SinHistorialBorra(t *testing.T) {
	operarioRepo := newStubOperarioRepo()
	svc := service.NewOperarioService(operarioRepo, &stubTransaccionRepo{}, 4)
	o := seedOperario(operarioRepo, "Marc Vidal", "4821", true)

	resp, err := svc.Eliminar(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, resp.Eliminado)
	assert.NotContains(t, operarioRepo.operarios, o.ID)
}

func TestEliminarOperario_NoEncontrado(t *testing.T) {
	svc := service.NewOperarioService(newStubOperarioRepo(), &stubTransaccionRepo{}, 4)
	_, err := svc.Eliminar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrOperarioNoEncontrado)
}

func TestActualizarOperario_Desactivar(t *testing.T) {
	operarioRepo := newStubOperarioRepo()
	svc := service.NewOperarioService(operarioRepo, &stubTransaccionRepo{}, 4)
	o := seedOperario(operarioRepo, "Marc Vidal", "4821", true)

	inactivo := false
	resp, err := svc.Actualizar(context.Background(), o.ID, dto.ActualizarOperarioRequest{Activo: &inactivo})
	require.NoError(t, err)
	assert.False(t, resp.Activo)

	// A deactivated operario stops authenticating at the kiosk
	_, err = operarioRepo.FindByCodigo(context.Background(), "4821")
	assert.Error(t, err)
}
