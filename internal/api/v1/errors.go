package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/exporter"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/importer"
)

// fail maps err to a response. Errors the user can fix by changing the
// upload or the data get 422 with the message; anything else gets 500 and a
// correlation id that is also logged with the full error.
func (h *Handler) fail(c *gin.Context, err error) {
	var structural *importer.StructuralError
	var invalid *exporter.ValidationError

	switch {
	case errors.As(err, &structural):
		body := gin.H{"error": structural.Error()}
		if fields := structural.MissingFields(); len(fields) > 0 {
			body["campos"] = fields
		}
		if structural.File != "" {
			body["arquivo"] = structural.File
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":            invalid.Error(),
			"fornecedor":       invalid.Supplier,
			"numeroPedido":     invalid.Order,
			"numeroNotaFiscal": invalid.Invoice,
			"dataRecebimento":  invalid.Date.Format("2006-01-02"),
		})
	case errors.Is(err, exporter.ErrNoRecords):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		id := uuid.NewString()
		h.logger.Error("request failed",
			zap.String("correlation_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno", "correlationId": id})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
