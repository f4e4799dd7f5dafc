package handler

import (
	"net/http"
	"strconv"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/apierror"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// AdminHandler exposes operational endpoints: dead-letter queue inspection.
type AdminHandler struct{ rdb *redis.Client }

func NewAdminHandler(rdb *redis.Client) *AdminHandler { return &AdminHandler{rdb: rdb} }

// DLQ lists the most recent dead-lettered jobs per queue.
func (h *AdminHandler) DLQ(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	ctx := c.Request.Context()

	out := gin.H{}
	for _, queue := range []string{worker.QueueAlertaStock, worker.QueueReporte} {
		entries, err := worker.DLQPeek(ctx, h.rdb, queue, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar DLQ"))
			return
		}
		length, _ := worker.DLQLength(ctx, h.rdb, queue)
		out[queue] = gin.H{"total": length, "entries": entries}
	}
	c.JSON(http.StatusOK, out)
}
