package maintenancerepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/bikeshare/internal/domain/maintenance"
)

// PostgresRepository persists the maintenance workflow in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const reportViewSelect = `
	SELECT r.report_id, r.reporter_id, r.station_id, r.bike_id, r.category, r.content,
	       r.status, r.is_valid, r.validated_at, r.created_at,
	       COALESCE(s.station_name, ''), m.order_id, m.status, m.priority, m.due_date
	FROM fault_reports r
	LEFT JOIN stations s ON s.station_id = r.station_id
	LEFT JOIN maintenance_orders m ON m.report_id = r.report_id
`

// StationExists checks the stations table.
func (r *PostgresRepository) StationExists(ctx context.Context, stationID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stations WHERE station_id = $1)`, stationID).Scan(&exists)
	return exists, err
}

// AdminIDs lists active administrators.
func (r *PostgresRepository) AdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM users WHERE role = 'ADMIN' AND is_active ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateReport inserts a RECEIVED report.
func (r *PostgresRepository) CreateReport(ctx context.Context, reporterID int64, in maintenance.NewReport) (maintenance.Report, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO fault_reports (reporter_id, station_id, bike_id, category, content, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING report_id, reporter_id, station_id, bike_id, category, content,
		          status, is_valid, validated_at, created_at
	`, reporterID, in.StationID, in.BikeID, string(in.Category), in.Content, string(maintenance.ReportReceived))
	return scanReport(row)
}

// GetReport fetches one report with its order.
func (r *PostgresRepository) GetReport(ctx context.Context, id int64) (maintenance.ReportView, bool, error) {
	rows, err := r.pool.Query(ctx, reportViewSelect+` WHERE r.report_id = $1 LIMIT 1`, id)
	if err != nil {
		return maintenance.ReportView{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return maintenance.ReportView{}, false, rows.Err()
	}
	view, err := scanReportView(rows)
	if err != nil {
		return maintenance.ReportView{}, false, err
	}
	return view, true, rows.Err()
}

// ListReports returns reports newest first, optionally for one reporter.
func (r *PostgresRepository) ListReports(ctx context.Context, reporterID *int64) ([]maintenance.ReportView, error) {
	rows, err := r.pool.Query(ctx, reportViewSelect+`
		WHERE $1::bigint IS NULL OR r.reporter_id = $1
		ORDER BY r.created_at DESC, r.report_id DESC
	`, reporterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var views []maintenance.ReportView
	for rows.Next() {
		view, err := scanReportView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// ValidateReport stores the verdict and closes the report.
func (r *PostgresRepository) ValidateReport(ctx context.Context, id int64, valid bool, at time.Time) (maintenance.Report, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE fault_reports
		SET is_valid = $2, validated_at = $3, status = $4
		WHERE report_id = $1
		RETURNING report_id, reporter_id, station_id, bike_id, category, content,
		          status, is_valid, validated_at, created_at
	`, id, valid, at, string(maintenance.ReportDone))
	report, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return maintenance.Report{}, false, nil
	}
	if err != nil {
		return maintenance.Report{}, false, err
	}
	return report, true, nil
}

// CreateOrder opens an order and moves the report to IN_PROGRESS in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, reportID int64, in maintenance.NewOrder) (maintenance.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return maintenance.Order{}, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	row := tx.QueryRow(ctx, `
		INSERT INTO maintenance_orders (report_id, assignee_id, priority, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (report_id) DO NOTHING
		RETURNING order_id, report_id, assignee_id, priority, due_date, status, created_at
	`, reportID, in.AssigneeID, in.Priority, in.DueDate, string(maintenance.OrderAssigned))
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return maintenance.Order{}, maintenance.ErrOrderExists
	}
	if err != nil {
		return maintenance.Order{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE fault_reports SET status = $2 WHERE report_id = $1`,
		reportID, string(maintenance.ReportInProgress)); err != nil {
		return maintenance.Order{}, err
	}
	return order, tx.Commit(ctx)
}

// UpdateOrder applies the update; DONE also closes the linked report.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, id int64, upd maintenance.OrderUpdate) (maintenance.Order, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return maintenance.Order{}, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	row := tx.QueryRow(ctx, `
		UPDATE maintenance_orders
		SET status = $2, priority = $3, due_date = $4
		WHERE order_id = $1
		RETURNING order_id, report_id, assignee_id, priority, due_date, status, created_at
	`, id, string(upd.Status), upd.Priority, upd.DueDate)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return maintenance.Order{}, false, nil
	}
	if err != nil {
		return maintenance.Order{}, false, err
	}
	if order.Status == maintenance.OrderDone {
		if _, err := tx.Exec(ctx, `UPDATE fault_reports SET status = $2 WHERE report_id = $1`,
			order.ReportID, string(maintenance.ReportDone)); err != nil {
			return maintenance.Order{}, false, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return maintenance.Order{}, false, err
	}
	return order, true, nil
}

// InsertAlerts bulk-loads alerts with COPY.
func (r *PostgresRepository) InsertAlerts(ctx context.Context, alerts []maintenance.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"alerts"},
		[]string{"user_id", "type", "ref_id", "message", "created_at"},
		pgx.CopyFromSlice(len(alerts), func(i int) ([]any, error) {
			a := alerts[i]
			createdAt := a.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			return []any{a.UserID, string(a.Type), a.RefID, a.Message, createdAt}, nil
		}),
	)
	return err
}

// ListUnread returns the user's unread alerts, newest first.
func (r *PostgresRepository) ListUnread(ctx context.Context, userID int64) ([]maintenance.Alert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT alert_id, user_id, type, ref_id, message, is_read, created_at
		FROM alerts
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC, alert_id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var alerts []maintenance.Alert
	for rows.Next() {
		var (
			a   maintenance.Alert
			typ string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &typ, &a.RefID, &a.Message, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = maintenance.AlertType(typ)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkRead flags one alert as read if it belongs to userID.
func (r *PostgresRepository) MarkRead(ctx context.Context, userID, alertID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE alerts SET is_read = TRUE WHERE alert_id = $1 AND user_id = $2`, alertID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (maintenance.Report, error) {
	var (
		report   maintenance.Report
		category string
		status   string
	)
	if err := row.Scan(
		&report.ID, &report.ReporterID, &report.StationID, &report.BikeID, &category, &report.Content,
		&status, &report.IsValid, &report.ValidatedAt, &report.CreatedAt,
	); err != nil {
		return maintenance.Report{}, err
	}
	report.Category = maintenance.Category(category)
	report.Status = maintenance.ReportStatus(status)
	return report, nil
}

func scanReportView(row rowScanner) (maintenance.ReportView, error) {
	var (
		view        maintenance.ReportView
		category    string
		status      string
		orderStatus *string
	)
	if err := row.Scan(
		&view.ID, &view.ReporterID, &view.StationID, &view.BikeID, &category, &view.Content,
		&status, &view.IsValid, &view.ValidatedAt, &view.CreatedAt,
		&view.StationName, &view.OrderID, &orderStatus, &view.Priority, &view.DueDate,
	); err != nil {
		return maintenance.ReportView{}, err
	}
	view.Category = maintenance.Category(category)
	view.Status = maintenance.ReportStatus(status)
	if orderStatus != nil {
		s := maintenance.OrderStatus(*orderStatus)
		view.MaintenanceStatus = &s
	}
	return view, nil
}

func scanOrder(row rowScanner) (maintenance.Order, error) {
	var (
		order  maintenance.Order
		status string
	)
	if err := row.Scan(&order.ID, &order.ReportID, &order.AssigneeID, &order.Priority, &order.DueDate, &status, &order.CreatedAt); err != nil {
		return maintenance.Order{}, err
	}
	order.Status = maintenance.OrderStatus(status)
	return order, nil
}

var (
	_ maintenance.Repository      = (*PostgresRepository)(nil)
	_ maintenance.AlertRepository = (*PostgresRepository)(nil)
)
