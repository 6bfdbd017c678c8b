package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bikeshare/internal/domain/station"
)

// ListStations returns every active station with its live counts.
func (h *Handler) ListStations(c *gin.Context) {
	stations, err := h.stations.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

// NearbyStations filters active stations by distance from lat/lng.
func (h *Handler) NearbyStations(c *gin.Context) {
	lat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lng, ok := queryFloat(c, "lng")
	if !ok {
		return
	}
	if lat == nil || lng == nil {
		badRequest(c, "lat and lng are required", nil)
		return
	}
	radius, ok := queryFloat(c, "radius")
	if !ok {
		return
	}

	nearby, err := h.stations.Nearby(c.Request.Context(), station.NearbyQuery{Lat: *lat, Lng: *lng, RadiusKm: radius})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": nearby})
}

// StationDetail returns the station page payload.
func (h *Handler) StationDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.stations.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CongestionAll forecasts every active station for targetHour.
func (h *Handler) CongestionAll(c *gin.Context) {
	hour, ok := queryInt(c, "targetHour")
	if !ok {
		return
	}
	set, err := h.stations.CongestionAll(c.Request.Context(), hour)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// StationCongestion predicts congestion of one station for targetHour.
func (h *Handler) StationCongestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hour, ok := queryInt(c, "targetHour")
	if !ok {
		return
	}
	prediction, err := h.stations.Congestion(c.Request.Context(), id, hour)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}
