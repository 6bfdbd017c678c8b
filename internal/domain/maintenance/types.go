package maintenance

import "time"

// Category classifies a fault report.
type Category string

const (
	CategoryBrake   Category = "BRAKE_ISSUE"
	CategoryDock    Category = "DOCK_FAULT"
	CategoryDisplay Category = "DISPLAY_ERROR"
	CategoryOther   Category = "OTHER"
)

// ReportStatus tracks a report from intake to resolution.
type ReportStatus string

const (
	ReportReceived   ReportStatus = "RECEIVED"
	ReportInProgress ReportStatus = "IN_PROGRESS"
	ReportDone       ReportStatus = "DONE"
)

// OrderStatus tracks a maintenance order.
type OrderStatus string

const (
	OrderAssigned   OrderStatus = "ASSIGNED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderDone       OrderStatus = "DONE"
)

// AlertType tells the client which screen an alert links to.
type AlertType string

const (
	AlertReport AlertType = "REPORT"
	AlertMaint  AlertType = "MAINT"
)

// Report is a user-submitted fault report.
type Report struct {
	ID          int64        `json:"report_id"`
	ReporterID  int64        `json:"reporter_id"`
	StationID   int64        `json:"station_id"`
	BikeID      *int64       `json:"bike_id"`
	Category    Category     `json:"category"`
	Content     string       `json:"content"`
	Status      ReportStatus `json:"status"`
	IsValid     *bool        `json:"is_valid"`
	ValidatedAt *time.Time   `json:"validated_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ReportView joins a report with its station and maintenance order.
type ReportView struct {
	Report
	StationName       string       `json:"station_name"`
	OrderID           *int64       `json:"order_id"`
	MaintenanceStatus *OrderStatus `json:"maintenance_status"`
	Priority          *int         `json:"priority"`
	DueDate           *time.Time   `json:"due_date"`
}

// Order assigns a report to a maintenance worker.
type Order struct {
	ID         int64       `json:"order_id"`
	ReportID   int64       `json:"report_id"`
	AssigneeID int64       `json:"assignee_id"`
	Priority   int         `json:"priority"`
	DueDate    *time.Time  `json:"due_date"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Alert is an in-app notification.
type Alert struct {
	ID        int64     `json:"alert_id"`
	UserID    int64     `json:"user_id"`
	Type      AlertType `json:"type"`
	RefID     *int64    `json:"ref_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReport is the payload for submitting a report.
type NewReport struct {
	StationID int64    `json:"stationId" validate:"required,gt=0"`
	BikeID    *int64   `json:"bikeId" validate:"omitempty,gt=0"`
	Category  Category `json:"category" validate:"required,oneof=BRAKE_ISSUE DOCK_FAULT DISPLAY_ERROR OTHER"`
	Content   string   `json:"content" validate:"required,max=2000"`
}

// NewOrder is the payload for opening a maintenance order.
type NewOrder struct {
	AssigneeID int64      `json:"assigneeId" validate:"required,gt=0"`
	Priority   int        `json:"priority" validate:"gte=0"`
	DueDate    *time.Time `json:"dueDate"`
}

// OrderUpdate replaces the mutable order fields.
type OrderUpdate struct {
	Status   OrderStatus `json:"status" validate:"required,oneof=ASSIGNED IN_PROGRESS DONE"`
	Priority int         `json:"priority" validate:"gte=0"`
	DueDate  *time.Time  `json:"dueDate"`
}

// Verdict records an administrator's validation of a report.
type Verdict struct {
	IsValid *bool `json:"isValid" validate:"required"`
}
