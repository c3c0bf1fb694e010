package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/access"
	"github.com/mamadbah2/flock/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(h *handlers.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api", h.Authenticate())
	api.GET("/me", h.Me)
	api.POST("/navigate", h.Navigate)

	api.GET("/overview", h.RequireSection(access.SectionOverview), h.Overview)

	sheep := api.Group("/sheep", h.RequireSection(access.SectionSheep))
	sheep.GET("", h.ListSheep)
	sheep.POST("", h.CreateSheep)
	sheep.PUT("/:id", h.UpdateSheep)
	sheep.DELETE("/:id", h.RequireAdmin(), h.DeleteSheep)

	health := api.Group("/health", h.RequireSection(access.SectionHealth))
	health.GET("", h.HealthOverview)
	health.GET("/alerts", h.HealthAlerts)
	health.GET("/:id/predictions", h.HealthPredictions)
	health.POST("/records", h.CreateHealthRecord)

	expenses := api.Group("/expenses", h.RequireSection(access.SectionExpenses))
	expenses.GET("", h.ListExpenses)
	expenses.POST("", h.CreateExpense)
	expenses.DELETE("/:id", h.DeleteExpense)

	fin := api.Group("/finance", h.RequireSection(access.SectionFinance))
	fin.GET("/transactions", h.ListTransactions)
	fin.POST("/transactions", h.CreateTransaction)
	fin.DELETE("/transactions/:origin/:id", h.DeleteTransaction)
	fin.POST("/transactions/:origin/:id/ledger", h.LinkTransaction)
	fin.GET("/ledger", h.ListLedger)
	fin.POST("/ledger", h.CreateLedgerRecord)
	fin.PUT("/ledger/:id", h.UpdateLedgerRecord)
	fin.DELETE("/ledger/:id", h.DeleteLedgerRecord)

	api.GET("/analytics", h.RequireSection(access.SectionAnalytics), h.Analytics)

	reports := api.Group("/reports", h.RequireSection(access.SectionReports))
	reports.GET("/summary", h.ReportSummary)
	reports.POST("/snapshots", h.SaveSnapshot)
	reports.GET("/:kind", h.Report)
	reports.GET("/:kind/csv", h.ReportCSV)
	reports.POST("/:kind/sheets", h.ReportToSheet)

	users := api.Group("/users", h.RequireSection(access.SectionUsers))
	users.GET("", h.ListUsers)
	users.PUT("/:id/role", h.UpdateUserRole)
	users.DELETE("/:id", h.DeleteUser)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
