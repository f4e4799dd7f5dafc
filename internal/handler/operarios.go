package handler

import (
	"errors"
	"net/http"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/apierror"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OperariosHandler struct{ svc service.OperarioService }

func NewOperariosHandler(svc service.OperarioService) *OperariosHandler {
	return &OperariosHandler{svc: svc}
}

func (h *OperariosHandler) Crear(c *gin.Context) {
	var req dto.CrearOperarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OperariosHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar operarios"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OperariosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Operario no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OperariosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarOperarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		writeOperarioError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegenerarCodigo issues a fresh access code, invalidating the old one.
func (h *OperariosHandler) RegenerarCodigo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.RegenerarCodigo(c.Request.Context(), id)
	if err != nil {
		writeOperarioError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OperariosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		writeOperarioError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeOperarioError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOperarioNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Operario no encontrado"))
	case errors.Is(err, service.ErrCodigosAgotados):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
