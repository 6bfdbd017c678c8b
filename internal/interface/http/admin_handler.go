package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bikeshare/internal/domain/fleet"
)

// Rebalancing returns the current rebalancing plan.
func (h *Handler) Rebalancing(c *gin.Context) {
	plan, err := h.rebalancing.Plan(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Utilization lists active stations with operator colors.
func (h *Handler) Utilization(c *gin.Context) {
	rows, err := h.stations.Utilization(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": rows})
}

// CongestionStats counts active stations by availability level.
func (h *Handler) CongestionStats(c *gin.Context) {
	counts, err := h.stations.CongestionLevels(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) AdminListStations(c *gin.Context) {
	stations, err := h.fleet.ListStations(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

func (h *Handler) AdminCreateStation(c *gin.Context) {
	var req fleet.NewStation
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.fleet.CreateStation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"station_id": id})
}

func (h *Handler) AdminUpdateStation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req fleet.StationUpdate
	if !bindJSON(c, &req) {
		return
	}
	if err := h.fleet.UpdateStation(c.Request.Context(), id, req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"station_id": id})
}

type activeRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (h *Handler) AdminSetStationActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req activeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.fleet.SetStationActive(c.Request.Context(), id, *req.IsActive); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"station_id": id, "is_active": *req.IsActive})
}

func (h *Handler) AdminListBikes(c *gin.Context) {
	bikes, err := h.fleet.ListBikes(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bikes": bikes})
}

func (h *Handler) AdminCreateBike(c *gin.Context) {
	var req fleet.NewBike
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.fleet.CreateBike(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bike_id": id})
}

func (h *Handler) AdminUpdateBike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req fleet.BikeUpdate
	if !bindJSON(c, &req) {
		return
	}
	if err := h.fleet.UpdateBike(c.Request.Context(), id, req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bike_id": id})
}
