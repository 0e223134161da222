package v1

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// buildExportContentDisposition ASCII fallback name plus the UTF-8 display name (RFC 5987).
func buildExportContentDisposition(year int) string {
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s",
		exporter.FileName(year), url.PathEscape(exporter.DisplayName(year)))
}

// Export annual evaluation workbook
// GET /api/exportar?ano=YYYY
func (h *Handler) Export(c *gin.Context) {
	year, err := yearParam(c, time.Now().Year())
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	if h.opts.ReconcileBeforeExport {
		report, err := h.reconciler.Reconcile(ctx, year)
		if err != nil {
			h.fail(c, err)
			return
		}
		if report.Repaired > 0 {
			h.logger.Info("reconciled before export", zap.Int("year", year), zap.Int("repaired", report.Repaired))
		}
	}

	file, err := h.exporter.Export(ctx, exporter.ExportOptions{
		Year: year,
		Progress: func(p exporter.ProgressEvent) {
			h.logger.Debug("export progress", zap.Int("year", year), zap.Int("percent", p.Percent), zap.String("stage", p.Stage))
		},
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", buildExportContentDisposition(year))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Reconcile recomputes stale scores of one year
// POST /api/reconciliar?ano=YYYY
func (h *Handler) Reconcile(c *gin.Context) {
	year, err := yearParam(c, time.Now().Year())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	report, err := h.reconciler.Reconcile(c.Request.Context(), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	for i := range report.Changes {
		ch := &report.Changes[i]
		ch.Before.Accuracy, ch.Before.Score = roundRatio(ch.Before.Accuracy), roundRatio(ch.Before.Score)
		ch.After.Accuracy, ch.After.Score = roundRatio(ch.After.Accuracy), roundRatio(ch.After.Score)
	}
	c.JSON(http.StatusOK, report)
}
