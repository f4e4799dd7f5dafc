package handler

import (
	"errors"
	"net/http"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/apierror"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// MovimientosHandler serves the kiosk checkout/checkin endpoints. These are
// the only write endpoints outside the JWT perimeter: they authenticate per
// call with the operario access code.
type MovimientosHandler struct{ svc service.MovimientoService }

func NewMovimientosHandler(svc service.MovimientoService) *MovimientosHandler {
	return &MovimientosHandler{svc: svc}
}

// Retiro godoc
// @Summary      Retirar herramientas (kiosco)
// @Description  Registra un retiro ACID: descuenta disponible, suma en_uso y escribe el movimiento en el libro.
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Param        body body dto.MovimientoRequest true "Retiro"
// @Success      201  {object} dto.MovimientoResponse
// @Failure      401  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.ConflictoStock
// @Router       /v1/movimientos/retiro [post]
func (h *MovimientosHandler) Retiro(c *gin.Context) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Retirar(c.Request.Context(), req)
	if err != nil {
		writeMovimientoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Devolucion godoc
// @Summary      Devolver herramientas (kiosco)
// @Description  Registra una devolucion ACID: suma disponible, descuenta en_uso y escribe el movimiento en el libro.
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Param        body body dto.MovimientoRequest true "Devolucion"
// @Success      201  {object} dto.MovimientoResponse
// @Failure      401  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.ConflictoStock
// @Router       /v1/movimientos/devolucion [post]
func (h *MovimientosHandler) Devolucion(c *gin.Context) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Devolver(c.Request.Context(), req)
	if err != nil {
		writeMovimientoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func writeMovimientoError(c *gin.Context, err error) {
	var stockErr *service.StockInsuficienteError
	var enUsoErr *service.EnUsoInsuficienteError

	switch {
	case errors.Is(err, service.ErrOperarioInvalido):
		c.JSON(http.StatusUnauthorized, apierror.New("Codigo de operario invalido"))
	case errors.Is(err, service.ErrHerramientaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New("Herramienta no encontrada"))
	case errors.Is(err, service.ErrCantidadInvalida):
		c.JSON(http.StatusBadRequest, apierror.New("Cantidad invalida"))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, apierror.NewConflictoStock(err.Error(), stockErr.Disponible))
	case errors.As(err, &enUsoErr):
		c.JSON(http.StatusConflict, apierror.NewConflictoStock(err.Error(), enUsoErr.EnUso))
	default:
		_ = c.Error(err)
	}
}
