package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/apierror"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HerramientasHandler struct {
	svc           service.HerramientaService
	reconciliador service.ReconciliacionService
}

func NewHerramientasHandler(svc service.HerramientaService, reconciliador service.ReconciliacionService) *HerramientasHandler {
	return &HerramientasHandler{svc: svc, reconciliador: reconciliador}
}

func (h *HerramientasHandler) Crear(c *gin.Context) {
	var req dto.CrearHerramientaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeHerramientaError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HerramientasHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := dto.HerramientaFilter{
		Nombre:      c.Query("nombre"),
		CategoriaID: c.Query("categoria_id"),
		Tipo:        c.Query("tipo"),
		Activo:      c.Query("activo"),
		Page:        page,
		Limit:       limit,
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar herramientas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HerramientasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Herramienta no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HerramientasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarHerramientaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		writeHerramientaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HerramientasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		writeHerramientaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock (alta/baja)
// @Description  Modifica cantidad_total escribiendo un movimiento alta_stock o baja_stock en el libro.
// @Tags         herramientas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID de la herramienta"
// @Param        body body dto.AjustarStockRequest true "Ajuste"
// @Success      200  {object} dto.HerramientaResponse
// @Failure      409  {object} apierror.ConflictoStock
// @Router       /v1/herramientas/{id}/stock [patch]
func (h *HerramientasHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), id, req)
	if err != nil {
		writeHerramientaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconciliar godoc
// @Summary      Reconciliar contadores contra el libro de movimientos
// @Description  Recalcula en_uso y disponible desde las sumas de retiros y devoluciones, bajo lock de fila.
// @Tags         herramientas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la herramienta"
// @Success      200 {object} dto.ReconciliacionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/herramientas/{id}/reconciliar [post]
func (h *HerramientasHandler) Reconciliar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.reconciliador.Reconciliar(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrHerramientaNoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New("Herramienta no encontrada"))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HerramientasHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeHerramientaError(c *gin.Context, err error) {
	var stockErr *service.StockInsuficienteError
	var negErr *service.DisponibleNegativoError

	switch {
	case errors.Is(err, service.ErrHerramientaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New("Herramienta no encontrada"))
	case errors.Is(err, service.ErrCategoriaNoEncontrada),
		errors.Is(err, service.ErrCategoriaTipoDistinto),
		errors.Is(err, service.ErrCantidadInvalida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrHerramientaEnUso):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, apierror.NewConflictoStock(err.Error(), stockErr.Disponible))
	case errors.As(err, &negErr):
		c.JSON(http.StatusConflict, apierror.NewConflictoStock(err.Error(), negErr.Comprometido))
	default:
		_ = c.Error(err)
	}
}
