package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/calculator"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/exporter"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/importer"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/store"
)

// Options handler behavior taken from configuration
type Options struct {
	Import                importer.Options
	MaxUploadBytes        int64
	ReconcileBeforeExport bool
}

// Handler v1 API handler
type Handler struct {
	store      *store.Store
	importer   *importer.Coordinator
	calc       *calculator.Calculator
	exporter   *exporter.Exporter
	reconciler *exporter.Reconciler
	logger     *zap.Logger
	opts       Options
}

// NewHandler creates the v1 API handler
func NewHandler(st *store.Store, logger *zap.Logger, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	return &Handler{
		store:      st,
		importer:   importer.NewCoordinator(st, logger.Named("import"), opts.Import),
		calc:       calculator.NewCalculator(st),
		exporter:   exporter.NewExporter(st, logger.Named("export")),
		reconciler: exporter.NewReconciler(st, logger.Named("reconcile")),
		logger:     logger,
		opts:       opts,
	}
}

// RegisterRoutes registers the v1 routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// system
	router.GET("/status", h.GetStatus)
	router.GET("/meses", h.ListMonths)
	router.POST("/limpar-dados", h.Reset)

	// import
	router.POST("/importar", h.Import)
	router.POST("/importar-rir", h.Import)

	// reports
	router.GET("/dashboard", h.Dashboard)
	router.GET("/dashboard-mensal", h.Dashboard)
	router.GET("/heatmap", h.Heatmap)
	router.GET("/resumo", h.Summary)

	// export
	router.GET("/exportar", h.Export)
	router.GET("/exportar-avaliacao", h.Export)
	router.POST("/reconciliar", h.Reconcile)

	// supplier aliases
	router.GET("/aliases", h.ListAliases)
	router.PUT("/aliases", h.PutAliases)
	router.DELETE("/aliases/:alias", h.DeleteAlias)
}
