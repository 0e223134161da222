package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/calculator"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

type dashboardResponse struct {
	calculator.DashboardView
	Totals       model.TierCounts   `json:"totais"`
	Distribution map[string]float64 `json:"distribuicao"`
}

// Dashboard tier tallies per supplier for one month
// GET /api/dashboard?mes=YYYY-MM
func (h *Handler) Dashboard(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	view, err := h.calc.Dashboard(c.Request.Context(), month)
	if err != nil {
		h.fail(c, err)
		return
	}

	var totals model.TierCounts
	for _, s := range view.Suppliers {
		for _, t := range model.Tiers() {
			totals.AddN(t, s.Get(t))
		}
	}
	c.JSON(http.StatusOK, dashboardResponse{
		DashboardView: view,
		Totals:        totals,
		Distribution:  tierShare(totals),
	})
}

// Heatmap dominant tier per supplier and month
// GET /api/heatmap?ano=YYYY
func (h *Handler) Heatmap(c *gin.Context) {
	year, err := yearParam(c, 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	view, err := h.calc.Heatmap(c.Request.Context(), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Summary monthly tallies per supplier
// GET /api/resumo?ano=YYYY
func (h *Handler) Summary(c *gin.Context) {
	year, err := yearParam(c, 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	year, rows, err := h.calc.Summary(c.Request.Context(), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ano":          year,
		"fornecedores": rows,
	})
}
