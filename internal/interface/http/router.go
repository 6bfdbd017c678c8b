package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bikeshare/internal/domain/auth"
	"github.com/yanqian/bikeshare/internal/infra/config"
	"github.com/yanqian/bikeshare/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, reg *metrics.Registry, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger, reg),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(reg.Handler()))

	authed := requireAuth(authSvc)

	api := router.Group("/api")
	{
		stations := api.Group("/stations")
		stations.GET("", handler.ListStations)
		stations.GET("/nearby", handler.NearbyStations)
		stations.GET("/congestion/all", authed, handler.CongestionAll)
		stations.GET("/:id", handler.StationDetail)
		stations.GET("/:id/congestion", authed, handler.StationCongestion)

		reports := api.Group("/reports", authed)
		reports.POST("", handler.SubmitReport)
		reports.GET("/mine", handler.MyReports)
		reports.GET("/:id", handler.GetReport)

		alerts := api.Group("/alerts", authed)
		alerts.GET("", handler.Alerts)
		alerts.PUT("/:id/read", handler.MarkAlertRead)
	}

	admin := api.Group("/admin", authed, requireAdmin())
	{
		admin.GET("/rebalancing", handler.Rebalancing)
		admin.GET("/stations/utilization", handler.Utilization)
		admin.GET("/stats/congestion", handler.CongestionStats)

		admin.GET("/stations", handler.AdminListStations)
		admin.POST("/stations", handler.AdminCreateStation)
		admin.PUT("/stations/:id", handler.AdminUpdateStation)
		admin.PUT("/stations/:id/active", handler.AdminSetStationActive)

		admin.GET("/bikes", handler.AdminListBikes)
		admin.POST("/bikes", handler.AdminCreateBike)
		admin.PUT("/bikes/:id", handler.AdminUpdateBike)

		admin.GET("/reports", handler.AdminListReports)
		admin.POST("/reports/:id/maintenance", handler.AssignMaintenance)
		admin.PUT("/reports/:id/validate", handler.ValidateReport)
		admin.PUT("/maintenance/:id", handler.UpdateMaintenance)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
