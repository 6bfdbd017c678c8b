package maintenancerepo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yanqian/bikeshare/internal/domain/maintenance"
)

// MemoryRepository keeps reports, orders and alerts in memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	stations map[int64]string
	admins   []int64
	reports  map[int64]maintenance.Report
	orders   map[int64]maintenance.Order
	alerts   map[int64]maintenance.Alert
	seq      int64
	now      func() time.Time
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		stations: make(map[int64]string),
		reports:  make(map[int64]maintenance.Report),
		orders:   make(map[int64]maintenance.Order),
		alerts:   make(map[int64]maintenance.Alert),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddStation registers a station name that reports can reference.
func (r *MemoryRepository) AddStation(id int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations[id] = name
}

// SetAdmins replaces the admin user ids.
func (r *MemoryRepository) SetAdmins(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins = append([]int64(nil), ids...)
}

// StationExists implements maintenance.Repository.
func (r *MemoryRepository) StationExists(_ context.Context, stationID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.stations[stationID]
	return ok, nil
}

// AdminIDs implements maintenance.Repository.
func (r *MemoryRepository) AdminIDs(context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]int64(nil), r.admins...), nil
}

// CreateReport implements maintenance.Repository.
func (r *MemoryRepository) CreateReport(_ context.Context, reporterID int64, in maintenance.NewReport) (maintenance.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	report := maintenance.Report{
		ID:         r.seq,
		ReporterID: reporterID,
		StationID:  in.StationID,
		BikeID:     in.BikeID,
		Category:   in.Category,
		Content:    in.Content,
		Status:     maintenance.ReportReceived,
		CreatedAt:  r.now(),
	}
	r.reports[report.ID] = report
	return report, nil
}

// GetReport implements maintenance.Repository.
func (r *MemoryRepository) GetReport(_ context.Context, id int64) (maintenance.ReportView, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return maintenance.ReportView{}, false, nil
	}
	return r.viewLocked(report), true, nil
}

// ListReports implements maintenance.Repository.
func (r *MemoryRepository) ListReports(_ context.Context, reporterID *int64) ([]maintenance.ReportView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]maintenance.ReportView, 0, len(r.reports))
	for _, report := range r.reports {
		if reporterID != nil && report.ReporterID != *reporterID {
			continue
		}
		views = append(views, r.viewLocked(report))
	}
	slices.SortFunc(views, func(a, b maintenance.ReportView) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return views, nil
}

// ValidateReport implements maintenance.Repository.
func (r *MemoryRepository) ValidateReport(_ context.Context, id int64, valid bool, at time.Time) (maintenance.Report, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return maintenance.Report{}, false, nil
	}
	report.IsValid = &valid
	report.ValidatedAt = &at
	report.Status = maintenance.ReportDone
	r.reports[id] = report
	return report, true, nil
}

// CreateOrder implements maintenance.Repository.
func (r *MemoryRepository) CreateOrder(_ context.Context, reportID int64, in maintenance.NewOrder) (maintenance.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orderForLocked(reportID); ok {
		return maintenance.Order{}, maintenance.ErrOrderExists
	}
	r.seq++
	order := maintenance.Order{
		ID:         r.seq,
		ReportID:   reportID,
		AssigneeID: in.AssigneeID,
		Priority:   in.Priority,
		DueDate:    in.DueDate,
		Status:     maintenance.OrderAssigned,
		CreatedAt:  r.now(),
	}
	r.orders[order.ID] = order
	if report, ok := r.reports[reportID]; ok {
		report.Status = maintenance.ReportInProgress
		r.reports[reportID] = report
	}
	return order, nil
}

// UpdateOrder implements maintenance.Repository.
func (r *MemoryRepository) UpdateOrder(_ context.Context, id int64, upd maintenance.OrderUpdate) (maintenance.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return maintenance.Order{}, false, nil
	}
	order.Status = upd.Status
	order.Priority = upd.Priority
	order.DueDate = upd.DueDate
	r.orders[id] = order
	if upd.Status == maintenance.OrderDone {
		if report, ok := r.reports[order.ReportID]; ok {
			report.Status = maintenance.ReportDone
			r.reports[order.ReportID] = report
		}
	}
	return order, true, nil
}

// InsertAlerts implements maintenance.AlertRepository.
func (r *MemoryRepository) InsertAlerts(_ context.Context, alerts []maintenance.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range alerts {
		r.seq++
		a.ID = r.seq
		if a.CreatedAt.IsZero() {
			a.CreatedAt = r.now()
		}
		r.alerts[a.ID] = a
	}
	return nil
}

// ListUnread implements maintenance.AlertRepository.
func (r *MemoryRepository) ListUnread(_ context.Context, userID int64) ([]maintenance.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]maintenance.Alert, 0)
	for _, a := range r.alerts {
		if a.UserID == userID && !a.IsRead {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b maintenance.Alert) int {
		return int(b.ID - a.ID)
	})
	return out, nil
}

// MarkRead implements maintenance.AlertRepository.
func (r *MemoryRepository) MarkRead(_ context.Context, userID, alertID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[alertID]
	if !ok || a.UserID != userID {
		return false, nil
	}
	a.IsRead = true
	r.alerts[alertID] = a
	return true, nil
}

func (r *MemoryRepository) orderForLocked(reportID int64) (maintenance.Order, bool) {
	for _, o := range r.orders {
		if o.ReportID == reportID {
			return o, true
		}
	}
	return maintenance.Order{}, false
}

func (r *MemoryRepository) viewLocked(report maintenance.Report) maintenance.ReportView {
	view := maintenance.ReportView{Report: report, StationName: r.stations[report.StationID]}
	if order, ok := r.orderForLocked(report.ID); ok {
		id, status, priority := order.ID, order.Status, order.Priority
		view.OrderID = &id
		view.MaintenanceStatus = &status
		view.Priority = &priority
		view.DueDate = order.DueDate
	}
	return view
}

var (
	_ maintenance.Repository      = (*MemoryRepository)(nil)
	_ maintenance.AlertRepository = (*MemoryRepository)(nil)
)
