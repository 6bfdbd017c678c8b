package maintenance

import (
	"context"
	"errors"
	"time"
)

// ErrOrderExists is returned when a report already has a maintenance order.
var ErrOrderExists = errors.New("maintenance order already exists")

// Repository persists reports and maintenance orders.
type Repository interface {
	StationExists(ctx context.Context, stationID int64) (bool, error)
	// AdminIDs lists the users who receive new-report alerts.
	AdminIDs(ctx context.Context) ([]int64, error)

	CreateReport(ctx context.Context, reporterID int64, in NewReport) (Report, error)
	GetReport(ctx context.Context, id int64) (ReportView, bool, error)
	// ListReports returns reports newest first; a nil reporter lists everyone's.
	ListReports(ctx context.Context, reporterID *int64) ([]ReportView, error)
	// ValidateReport marks the report DONE with the verdict.
	ValidateReport(ctx context.Context, id int64, valid bool, at time.Time) (Report, bool, error)

	// CreateOrder opens an order and moves the report to IN_PROGRESS atomically.
	// It returns ErrOrderExists when the report already has one.
	CreateOrder(ctx context.Context, reportID int64, in NewOrder) (Order, error)
	// UpdateOrder applies upd; a DONE status also closes the report.
	UpdateOrder(ctx context.Context, id int64, upd OrderUpdate) (Order, bool, error)
}

// AlertRepository stores and reads alerts.
type AlertRepository interface {
	InsertAlerts(ctx context.Context, alerts []Alert) error
	ListUnread(ctx context.Context, userID int64) ([]Alert, error)
	// MarkRead reports false when the alert does not belong to userID.
	MarkRead(ctx context.Context, userID, alertID int64) (bool, error)
}

// Notifier hands alerts to the delivery pipeline.
type Notifier interface {
	Notify(ctx context.Context, alerts []Alert) error
}
