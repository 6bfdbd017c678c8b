package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bikeshare/internal/domain/maintenance"
)

// SubmitReport files a fault report for the caller.
func (h *Handler) SubmitReport(c *gin.Context) {
	var req maintenance.NewReport
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.maintenance.Submit(c.Request.Context(), actorOf(c).UserID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) MyReports(c *gin.Context) {
	reports, err := h.maintenance.ListMine(c.Request.Context(), actorOf(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) GetReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.maintenance.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *Handler) Alerts(c *gin.Context) {
	alerts, err := h.maintenance.Alerts(c.Request.Context(), actorOf(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (h *Handler) MarkAlertRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.maintenance.MarkAlertRead(c.Request.Context(), actorOf(c).UserID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alert_id": id, "is_read": true})
}

// AdminListReports lists every report with its maintenance order.
func (h *Handler) AdminListReports(c *gin.Context) {
	reports, err := h.maintenance.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) AssignMaintenance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req maintenance.NewOrder
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.maintenance.Assign(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ValidateReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req maintenance.Verdict
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.maintenance.Validate(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) UpdateMaintenance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req maintenance.OrderUpdate
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.maintenance.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
