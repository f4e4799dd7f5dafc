package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/apierror"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stockCacheTTL = 30 * time.Second

// ConsultaStockHandler serves the public stock check for the kiosk screens.
// No authentication required — read only. The short TTL keeps the displayed
// counters close to reality; every movement invalidates the key anyway.
type ConsultaStockHandler struct {
	repo repository.HerramientaRepository
	rdb  *redis.Client
}

func NewConsultaStockHandler(repo repository.HerramientaRepository, rdb *redis.Client) *ConsultaStockHandler {
	return &ConsultaStockHandler{repo: repo, rdb: rdb}
}

// GetStock godoc
// @Summary Consulta de stock de una herramienta (sin autenticacion)
// @Tags stock
// @Produce json
// @Param id path string true "UUID de la herramienta"
// @Success 200 {object} dto.ConsultaStockResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/stock/{id} [get]
func (h *ConsultaStockHandler) GetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := service.StockCacheKey(id)

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaStockResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	herramienta, err := h.repo.FindByID(ctx, id)
	if err != nil || !herramienta.Activo {
		c.JSON(http.StatusNotFound, apierror.New("Herramienta no encontrada"))
		return
	}

	resp := dto.ConsultaStockResponse{
		HerramientaID: herramienta.ID.String(),
		Nombre:        herramienta.Nombre,
		Ubicacion:     herramienta.Ubicacion,
		Stock: dto.StockSnapshot{
			Total:         herramienta.CantidadTotal,
			Disponible:    herramienta.CantidadDisponible,
			EnUso:         herramienta.CantidadEnUso,
			Mantenimiento: herramienta.CantidadMantenimiento,
		},
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, stockCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
