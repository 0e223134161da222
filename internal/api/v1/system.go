package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/store"
)

// StatusResponse system status
type StatusResponse struct {
	Initialized bool             `json:"inicializado"`
	Records     int              `json:"registros"`
	Suppliers   int              `json:"fornecedores"`
	LatestMonth string           `json:"ultimoMes"`
	LastImport  *model.ImportLog `json:"ultimaImportacao"`
}

// GetStatus record counts and the latest import
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	records, err := h.store.CountRecords(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	suppliers, err := h.store.CountSuppliers(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	months, err := h.store.ListMonths(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	last, err := h.store.LatestImportLog(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := StatusResponse{
		Initialized: records > 0,
		Records:     records,
		Suppliers:   suppliers,
		LastImport:  last,
	}
	if len(months) > 0 {
		resp.LatestMonth = months[len(months)-1]
	}
	c.JSON(http.StatusOK, resp)
}

// ListMonths reference months with record counts
// GET /api/meses
func (h *Handler) ListMonths(c *gin.Context) {
	items, err := h.store.ListMonthStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []store.MonthStat{}
	}
	c.JSON(http.StatusOK, gin.H{"meses": items})
}

// Reset deletes all evaluation records and suppliers
// POST /api/limpar-dados
func (h *Handler) Reset(c *gin.Context) {
	if err := h.store.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Warn("evaluation data cleared", zap.String("client_ip", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
