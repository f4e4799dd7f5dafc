package handler

import (
	"net/http"
	"strconv"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/apierror"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransaccionesHandler struct{ svc service.TransaccionService }

func NewTransaccionesHandler(svc service.TransaccionService) *TransaccionesHandler {
	return &TransaccionesHandler{svc: svc}
}

func (h *TransaccionesHandler) Recientes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.Recientes(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransaccionesHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := repository.TransaccionFilter{
		Tipo:  c.Query("tipo"),
		Page:  page,
		Limit: limit,
	}
	if raw := c.Query("herramienta_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("herramienta_id invalido"))
			return
		}
		filter.HerramientaID = &id
	}
	if raw := c.Query("operario_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("operario_id invalido"))
			return
		}
		filter.OperarioID = &id
	}

	data, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *TransaccionesHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SolicitarReporte godoc
// @Summary      Solicitar reporte PDF de movimientos por email
// @Description  Encola un job asincrono que genera el PDF y lo envia por SMTP.
// @Tags         transacciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SolicitarReporteRequest true "Destino"
// @Success      202
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/transacciones/reporte [post]
func (h *TransaccionesHandler) SolicitarReporte(c *gin.Context) {
	var req dto.SolicitarReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SolicitarReporte(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo encolar el reporte"))
		return
	}
	c.Status(http.StatusAccepted)
}
