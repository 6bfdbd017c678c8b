package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/yanqian/bikeshare/pkg/errors"
	"github.com/yanqian/bikeshare/pkg/util"
	"github.com/yanqian/bikeshare/pkg/validation"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID int64
	Admin  bool
}

// Service runs the fault-report and maintenance workflow.
type Service interface {
	Submit(ctx context.Context, reporterID int64, in NewReport) (Report, error)
	ListMine(ctx context.Context, reporterID int64) ([]ReportView, error)
	Get(ctx context.Context, actor Actor, id int64) (ReportView, error)
	ListAll(ctx context.Context) ([]ReportView, error)
	Assign(ctx context.Context, reportID int64, in NewOrder) (Order, error)
	UpdateOrder(ctx context.Context, orderID int64, upd OrderUpdate) (Order, error)
	Validate(ctx context.Context, reportID int64, v Verdict) (Report, error)
	Alerts(ctx context.Context, userID int64) ([]Alert, error)
	MarkAlertRead(ctx context.Context, userID, alertID int64) error
}

type service struct {
	repo     Repository
	alerts   AlertRepository
	notifier Notifier
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the maintenance workflow.
func NewService(repo Repository, alerts AlertRepository, notifier Notifier, validate *validator.Validate, logger *slog.Logger) Service {
	if validate == nil {
		validate = validation.New()
	}
	return &service{
		repo:     repo,
		alerts:   alerts,
		notifier: notifier,
		validate: validate,
		logger:   logger.With("component", "maintenance.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Submit(ctx context.Context, reporterID int64, in NewReport) (Report, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Check(s.validate, in); err != nil {
		return Report{}, err
	}
	ok, err := s.repo.StationExists(ctx, in.StationID)
	if err != nil {
		return Report{}, apperrors.Unavailable("failed to look up station", err)
	}
	if !ok {
		return Report{}, apperrors.NotFound("station not found")
	}

	report, err := s.repo.CreateReport(ctx, reporterID, in)
	if err != nil {
		return Report{}, apperrors.Unavailable("failed to create report", err)
	}
	s.logger.Info("fault report received", "report_id", report.ID, "station_id", report.StationID, "category", report.Category)

	admins, err := s.repo.AdminIDs(ctx)
	if err != nil {
		s.logger.Warn("admin lookup failed, report alert skipped", "report_id", report.ID, "error", err)
		return report, nil
	}
	alerts := make([]Alert, 0, len(admins))
	for _, adminID := range admins {
		alerts = append(alerts, s.alert(adminID, AlertReport, report.ID, newReportMessage(report.Content)))
	}
	s.notify(ctx, alerts)
	return report, nil
}

func (s *service) ListMine(ctx context.Context, reporterID int64) ([]ReportView, error) {
	return s.list(ctx, &reporterID)
}

func (s *service) ListAll(ctx context.Context) ([]ReportView, error) {
	return s.list(ctx, nil)
}

func (s *service) list(ctx context.Context, reporterID *int64) ([]ReportView, error) {
	reports, err := s.repo.ListReports(ctx, reporterID)
	if err != nil {
		return nil, apperrors.Unavailable("failed to list reports", err)
	}
	if reports == nil {
		reports = []ReportView{}
	}
	return reports, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id int64) (ReportView, error) {
	view, err := s.getReport(ctx, id)
	if err != nil {
		return ReportView{}, err
	}
	if view.ReporterID != actor.UserID && !actor.Admin {
		return ReportView{}, apperrors.Wrap(apperrors.CodeForbidden, "report belongs to another user", nil)
	}
	return view, nil
}

func (s *service) Assign(ctx context.Context, reportID int64, in NewOrder) (Order, error) {
	if err := validation.Check(s.validate, in); err != nil {
		return Order{}, err
	}
	view, err := s.getReport(ctx, reportID)
	if err != nil {
		return Order{}, err
	}
	order, err := s.repo.CreateOrder(ctx, reportID, in)
	if errors.Is(err, ErrOrderExists) {
		return Order{}, apperrors.Wrap(apperrors.CodeConflict, "maintenance order already exists", err)
	}
	if err != nil {
		return Order{}, apperrors.Unavailable("failed to create maintenance order", err)
	}
	s.logger.Info("maintenance order assigned", "order_id", order.ID, "report_id", reportID, "assignee_id", in.AssigneeID)
	s.notify(ctx, []Alert{s.alert(view.ReporterID, AlertMaint, reportID, msgAssigned)})
	return order, nil
}

func (s *service) UpdateOrder(ctx context.Context, orderID int64, upd OrderUpdate) (Order, error) {
	if err := validation.Check(s.validate, upd); err != nil {
		return Order{}, err
	}
	order, ok, err := s.repo.UpdateOrder(ctx, orderID, upd)
	if err != nil {
		return Order{}, apperrors.Unavailable("failed to update maintenance order", err)
	}
	if !ok {
		return Order{}, apperrors.NotFound("maintenance order not found")
	}
	if order.Status == OrderDone {
		s.logger.Info("maintenance order completed", "order_id", order.ID, "report_id", order.ReportID)
	}
	return order, nil
}

func (s *service) Validate(ctx context.Context, reportID int64, v Verdict) (Report, error) {
	if err := validation.Check(s.validate, v); err != nil {
		return Report{}, err
	}
	report, ok, err := s.repo.ValidateReport(ctx, reportID, *v.IsValid, s.now())
	if err != nil {
		return Report{}, apperrors.Unavailable("failed to validate report", err)
	}
	if !ok {
		return Report{}, apperrors.NotFound("report not found")
	}
	s.notify(ctx, []Alert{s.alert(report.ReporterID, AlertReport, report.ID, verdictMessage(*v.IsValid))})
	return report, nil
}

func (s *service) Alerts(ctx context.Context, userID int64) ([]Alert, error) {
	alerts, err := s.alerts.ListUnread(ctx, userID)
	if err != nil {
		return nil, apperrors.Unavailable("failed to list alerts", err)
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	return alerts, nil
}

func (s *service) MarkAlertRead(ctx context.Context, userID, alertID int64) error {
	ok, err := s.alerts.MarkRead(ctx, userID, alertID)
	if err != nil {
		return apperrors.Unavailable("failed to update alert", err)
	}
	if !ok {
		return apperrors.NotFound("alert not found")
	}
	return nil
}

func (s *service) getReport(ctx context.Context, id int64) (ReportView, error) {
	view, ok, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return ReportView{}, apperrors.Unavailable("failed to load report", err)
	}
	if !ok {
		return ReportView{}, apperrors.NotFound("report not found")
	}
	return view, nil
}

func (s *service) alert(userID int64, typ AlertType, refID int64, message string) Alert {
	ref := refID
	return Alert{
		UserID:    userID,
		Type:      typ,
		RefID:     &ref,
		Message:   message,
		CreatedAt: s.now(),
	}
}

// notify hands alerts to the queue. The triggering write has already
// committed, so delivery failures are logged rather than returned.
func (s *service) notify(ctx context.Context, alerts []Alert) {
	if len(alerts) == 0 || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, alerts); err != nil {
		s.logger.Error("alert enqueue failed", "alerts", len(alerts), "error", err)
	}
}
