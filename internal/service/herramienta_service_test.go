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

func buildHerramientaSvc() (service.HerramientaService, *stubHerramientaRepo, *stubTransaccionRepo, *stubCategoriaRepo) {
	herramientaRepo := newStubHerramientaRepo()
	transaccionRepo := &stubTransaccionRepo{}
	categoriaRepo := newStubCategoriaRepo()
	svc := service.NewHerramientaService(herramientaRepo, transaccionRepo, categoriaRepo, nil)
	return svc, herramientaRepo, transaccionRepo, categoriaRepo
}

func TestCrearHerramienta_DisponibleIgualTotal(t *testing.T) {
	svc, herramientaRepo, _, _ := buildHerramientaSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearHerramientaRequest{
		Nombre:        "Taladro percutor",
		Tipo:          "individual",
		CantidadTotal: 12,
		StockMinimo:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.CantidadTotal)
	assert.Equal(t, 12, resp.CantidadDisponible)
	assert.Equal(t, 0, resp.CantidadEnUso)
	assert.Equal(t, 0, resp.CantidadMantenimiento)
	assert.True(t, resp.Activo)

	stored := herramientaRepo.herramientas[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored)
	assert.Equal(t, 12, stored.CantidadDisponible)
}

func TestCrearHerramienta_CategoriaDeOtroTipo(t *testing.T) {
	svc, _, _, categoriaRepo := buildHerramientaSvc()
	cat := &model.Categoria{ID: uuid.New(), Nombre: "Electricas", Tipo: "comun", Activo: true}
	categoriaRepo.categorias[cat.ID] = cat

	catID := cat.ID.String()
	_, err := svc.Crear(context.Background(), dto.CrearHerramientaRequest{
		Nombre:        "Taladro",
		Tipo:          "individual",
		CantidadTotal: 2,
		CategoriaID:   &catID,
	})
	assert.ErrorIs(t, err, service.ErrCategoriaTipoDistinto)
}

func TestActualizarHerramienta_RecalculaDisponible(t *testing.T) {
	svc, herramientaRepo, _, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Andamio", 20, 12, 6, 2, 0)

	nuevoTotal := 15
	resp, err := svc.Actualizar(context.Background(), h.ID, dto.ActualizarHerramientaRequest{
		CantidadTotal: &nuevoTotal,
	})
	require.NoError(t, err)
	// disponible = 15 - 6 en uso - 2 mantenimiento = 7
	assert.Equal(t, 15, resp.CantidadTotal)
	assert.Equal(t, 7, resp.CantidadDisponible)
	assert.Equal(t, 6, resp.CantidadEnUso)
}

func TestActualizarHerramienta_TotalMenorQueComprometido(t *testing.T) {
	svc, herramientaRepo, _, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Andamio", 20, 12, 6, 2, 0)

	nuevoTotal := 5 // 6 en uso + 2 mantenimiento = 8 comprometidas
	_, err := svc.Actualizar(context.Background(), h.ID, dto.ActualizarHerramientaRequest{
		CantidadTotal: &nuevoTotal,
	})
	var negErr *service.DisponibleNegativoError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, 8, negErr.Comprometido)

	// Nothing changed
	assert.Equal(t, 20, h.CantidadTotal)
	assert.Equal(t, 12, h.CantidadDisponible)
}

func TestEliminarHerramienta_EnUsoRechaza(t *testing.T) {
	svc, herramientaRepo, _, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Amoladora", 5, 3, 2, 0, 0)

	_, err := svc.Eliminar(context.Background(), h.ID)
	assert.ErrorIs(t, err, service.ErrHerramientaEnUso)
	assert.True(t, h.Activo)
}

func TestEliminarHerramienta_ConHistorialSoloDesactiva(t *testing.T) {
	svc, herramientaRepo, transaccionRepo, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Amoladora", 5, 5, 0, 0, 0)
	appendMovimiento(transaccionRepo, h.ID, model.TransaccionRetiro, 1)
	appendMovimiento(transaccionRepo, h.ID, model.TransaccionDevolucion, 1)

	resp, err := svc.Eliminar(context.Background(), h.ID)
	require.NoError(t, err)
	assert.False(t, resp.Eliminada)
	assert.True(t, resp.SoloInactiva)

	// Row stays: ledger history keeps resolving
	stored := herramientaRepo.herramientas[h.ID]
	require.NotNil(t, stored)
	assert.False(t, stored.Activo)
}

func TestEliminarHerramienta_SinHistorialBorra(t *testing.T) {
	svc, herramientaRepo, _, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Nivel laser", 2, 2, 0, 0, 0)

	resp, err := svc.Eliminar(context.Background(), h.ID)
	require.NoError(t, err)
	assert.True(t, resp.Eliminada)
	assert.False(t, resp.SoloInactiva)
	assert.NotContains(t, herramientaRepo.herramientas, h.ID)
}

func TestAjustarStock_Alta(t *testing.T) {
	svc, herramientaRepo, transaccionRepo, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Pala", 4, 3, 1, 0, 0)

	resp, err := svc.AjustarStock(context.Background(), h.ID, dto.AjustarStockRequest{
		Tipo:     "alta",
		Cantidad: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.CantidadTotal)
	assert.Equal(t, 9, resp.CantidadDisponible)
	assert.Equal(t, 1, resp.CantidadEnUso)

	require.Len(t, transaccionRepo.transacciones, 1)
	tx := transaccionRepo.transacciones[0]
	assert.Equal(t, model.TransaccionAltaStock, tx.Tipo)
	assert.Equal(t, 3, tx.DisponibleAnterior)
	assert.Equal(t, 9, tx.DisponibleNuevo)
	assert.Nil(t, tx.OperarioID) // admin adjustment, not a worker movement
}

func TestAjustarStock_BajaMasQueDisponible(t *testing.T) {
	svc, herramientaRepo, transaccionRepo, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Pala", 10, 2, 8, 0, 0)

	_, err := svc.AjustarStock(context.Background(), h.ID, dto.AjustarStockRequest{
		Tipo:     "baja",
		Cantidad: 5,
	})
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Disponible)
	assert.Empty(t, transaccionRepo.transacciones)
	assert.Equal(t, 10, h.CantidadTotal)
}

func TestAjustarStock_Baja(t *testing.T) {
	svc, herramientaRepo, transaccionRepo, _ := buildHerramientaSvc()
	h := seedHerramienta(herramientaRepo, "Pala", 10, 6, 4, 0, 0)

	resp, err := svc.AjustarStock(context.Background(), h.ID, dto.AjustarStockRequest{
		Tipo:     "baja",
		Cantidad: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.CantidadTotal)
	assert.Equal(t, 4, resp.CantidadDisponible)

	require.Len(t, transaccionRepo.transacciones, 1)
	assert.Equal(t, model.TransaccionBajaStock, transaccionRepo.transacciones[0].Tipo)
}

func TestAlertas_BajoStockMinimo(t *testing.T) {
	svc, herramientaRepo, _, _ := buildHerramientaSvc()
	seedHerramienta(herramientaRepo, "Taladro", 10, 2, 8, 0, 5)  // 2 < 5: alerta
	seedHerramienta(herramientaRepo, "Sierra", 10, 7, 3, 0, 5)   // 7 >= 5: no
	baja := seedHerramienta(herramientaRepo, "Pala", 4, 0, 4, 0, 2) // 0 < 2: alerta
	inactiva := seedHerramienta(herramientaRepo, "Vieja", 1, 0, 0, 1, 5)
	inactiva.Activo = false
	_ = baja

	alertas, err := svc.Alertas(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 2)
	for _, a := range alertas {
		assert.Less(t, a.Disponible, a.StockMinimo)
	}
}
