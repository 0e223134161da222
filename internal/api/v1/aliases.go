package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/importer"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

type aliasItem struct {
	Alias    string `json:"alias" binding:"required"`
	Supplier string `json:"fornecedor" binding:"required"`
}

type putAliasesRequest struct {
	Aliases []aliasItem `json:"aliases" binding:"required,min=1,dive"`
}

// ListAliases supplier aliases
// GET /api/aliases
func (h *Handler) ListAliases(c *gin.Context) {
	aliases, err := h.store.ListAliases(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if aliases == nil {
		aliases = []model.Alias{}
	}
	c.JSON(http.StatusOK, gin.H{"aliases": aliases})
}

// PutAliases creates or repoints aliases. Both names are stored normalized;
// the next import batch picks them up.
// PUT /api/aliases
func (h *Handler) PutAliases(c *gin.Context) {
	var req putAliasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "requisição inválida: "+err.Error())
		return
	}

	normalized := make([]model.Alias, 0, len(req.Aliases))
	for _, it := range req.Aliases {
		a := model.Alias{
			Alias:     importer.NormalizeSupplierName(it.Alias),
			Canonical: importer.NormalizeSupplierName(it.Supplier),
		}
		if a.Alias == "" || a.Canonical == "" {
			badRequest(c, "alias e fornecedor não podem ser vazios")
			return
		}
		if a.Alias == a.Canonical {
			badRequest(c, "alias igual ao fornecedor: "+a.Alias)
			return
		}
		normalized = append(normalized, a)
	}

	for _, a := range normalized {
		if err := h.store.UpsertAlias(c.Request.Context(), a); err != nil {
			h.fail(c, err)
			return
		}
	}
	h.ListAliases(c)
}

// DeleteAlias removes one alias
// DELETE /api/aliases/:alias
func (h *Handler) DeleteAlias(c *gin.Context) {
	alias := importer.NormalizeSupplierName(strings.TrimSpace(c.Param("alias")))
	if alias == "" {
		badRequest(c, "alias vazio")
		return
	}
	if err := h.store.DeleteAlias(c.Request.Context(), alias); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
