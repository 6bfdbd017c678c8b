package http

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bikeshare/internal/domain/fleet"
	"github.com/yanqian/bikeshare/internal/domain/maintenance"
	"github.com/yanqian/bikeshare/internal/domain/rebalancing"
	"github.com/yanqian/bikeshare/internal/domain/station"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	stations    station.Service
	rebalancing rebalancing.Service
	fleet       fleet.Service
	maintenance maintenance.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(stations station.Service, rebalancingSvc rebalancing.Service, fleetSvc fleet.Service, maintenanceSvc maintenance.Service, logger *slog.Logger) *Handler {
	return &Handler{
		stations:    stations,
		rebalancing: rebalancingSvc,
		fleet:       fleetSvc,
		maintenance: maintenanceSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	abortWithError(c, fromAppError(err))
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer", err)
		return 0, false
	}
	return id, true
}

// queryInt returns nil when the parameter is absent.
func queryInt(c *gin.Context, key string) (*int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, key+" must be an integer", err)
		return nil, false
	}
	return &v, true
}

func queryFloat(c *gin.Context, key string) (*float64, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		badRequest(c, key+" must be a number", err)
		return nil, false
	}
	return &v, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, err.Error(), err)
		return false
	}
	return true
}
