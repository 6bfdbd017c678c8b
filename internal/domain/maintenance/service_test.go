package maintenance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bikeshare/internal/domain/maintenance"
	"github.com/yanqian/bikeshare/internal/infra/maintenancerepo"
	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

// inlineNotifier stores alerts straight into the repository.
type inlineNotifier struct {
	repo  maintenance.AlertRepository
	sent  []maintenance.Alert
	fails bool
}

func (n *inlineNotifier) Notify(ctx context.Context, alerts []maintenance.Alert) error {
	if n.fails {
		return errors.New("queue unavailable")
	}
	n.sent = append(n.sent, alerts...)
	return n.repo.InsertAlerts(ctx, alerts)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T) (maintenance.Service, *maintenancerepo.MemoryRepository, *inlineNotifier) {
	t.Helper()
	repo := maintenancerepo.NewMemoryRepository()
	repo.AddStation(1, "City Hall")
	repo.SetAdmins(100, 101)
	notifier := &inlineNotifier{repo: repo}
	svc := maintenance.NewService(repo, repo, notifier, nil, newTestLogger())
	return svc, repo, notifier
}

func boolPtr(v bool) *bool { return &v }

func TestSubmitAlertsEveryAdmin(t *testing.T) {
	svc, _, notifier := setup(t)
	content := strings.Repeat("브레이크", 20)

	report, err := svc.Submit(context.Background(), 7, maintenance.NewReport{
		StationID: 1,
		Category:  maintenance.CategoryBrake,
		Content:   content,
	})
	require.NoError(t, err)
	require.Equal(t, maintenance.ReportReceived, report.Status)
	require.Equal(t, int64(7), report.ReporterID)

	require.Len(t, notifier.sent, 2)
	want := "새로운 고장 신고가 접수되었습니다: " + string([]rune(content)[:50])
	for _, a := range notifier.sent {
		require.Equal(t, maintenance.AlertReport, a.Type)
		require.Equal(t, want, a.Message)
		require.Equal(t, report.ID, *a.RefID)
	}

	alerts, err := svc.Alerts(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Submit(context.Background(), 7, maintenance.NewReport{StationID: 1, Category: "FLAT_TIRE", Content: "x"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Submit(context.Background(), 7, maintenance.NewReport{StationID: 1, Category: maintenance.CategoryOther, Content: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Submit(context.Background(), 7, maintenance.NewReport{StationID: 9, Category: maintenance.CategoryOther, Content: "x"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSubmitSurvivesQueueFailure(t *testing.T) {
	svc, _, notifier := setup(t)
	notifier.fails = true
	_, err := svc.Submit(context.Background(), 7, maintenance.NewReport{StationID: 1, Category: maintenance.CategoryDock, Content: "dock stuck"})
	require.NoError(t, err)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, _ := setup(t)
	report, err := svc.Submit(context.Background(), 7, maintenance.NewReport{StationID: 1, Category: maintenance.CategoryDisplay, Content: "blank screen"})
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), maintenance.Actor{UserID: 7}, report.ID)
	require.NoError(t, err)
	require.Equal(t, "City Hall", view.StationName)

	_, err = svc.Get(context.Background(), maintenance.Actor{UserID: 8}, report.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.Get(context.Background(), maintenance.Actor{UserID: 8, Admin: true}, report.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), maintenance.Actor{UserID: 7}, 999)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	mine, err := svc.ListMine(context.Background(), 8)
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestAssignAndCompleteOrder(t *testing.T) {
	svc, _, notifier := setup(t)
	ctx := context.Background()
	report, err := svc.Submit(ctx, 7, maintenance.NewReport{StationID: 1, Category: maintenance.CategoryBrake, Content: "brakes"})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, report.ID, maintenance.NewOrder{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	order, err := svc.Assign(ctx, report.ID, maintenance.NewOrder{AssigneeID: 50, Priority: 2})
	require.NoError(t, err)
	require.Equal(t, maintenance.OrderAssigned, order.Status)

	last := notifier.sent[len(notifier.sent)-1]
	require.Equal(t, int64(7), last.UserID)
	require.Equal(t, maintenance.AlertMaint, last.Type)
	require.Equal(t, "고장 신고가 유지보수팀에 배정되었습니다.", last.Message)

	view, err := svc.Get(ctx, maintenance.Actor{UserID: 7}, report.ID)
	require.NoError(t, err)
	require.Equal(t, maintenance.ReportInProgress, view.Status)
	require.Equal(t, order.ID, *view.OrderID)

	_, err = svc.Assign(ctx, report.ID, maintenance.NewOrder{AssigneeID: 51})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	_, err = svc.Assign(ctx, 999, maintenance.NewOrder{AssigneeID: 51})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	updated, err := svc.UpdateOrder(ctx, order.ID, maintenance.OrderUpdate{Status: maintenance.OrderDone, Priority: 1})
	require.NoError(t, err)
	require.Equal(t, maintenance.OrderDone, updated.Status)

	view, err = svc.Get(ctx, maintenance.Actor{UserID: 7}, report.ID)
	require.NoError(t, err)
	require.Equal(t, maintenance.ReportDone, view.Status)
	require.Equal(t, maintenance.OrderDone, *view.MaintenanceStatus)

	_, err = svc.UpdateOrder(ctx, 999, maintenance.OrderUpdate{Status: maintenance.OrderDone})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestValidateReport(t *testing.T) {
	svc, _, notifier := setup(t)
	ctx := context.Background()
	report, err := svc.Submit(ctx, 7, maintenance.NewReport{StationID: 1, Category: maintenance.CategoryOther, Content: "noise"})
	require.NoError(t, err)

	_, err = svc.Validate(ctx, report.ID, maintenance.Verdict{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	validated, err := svc.Validate(ctx, report.ID, maintenance.Verdict{IsValid: boolPtr(true)})
	require.NoError(t, err)
	require.Equal(t, maintenance.ReportDone, validated.Status)
	require.True(t, *validated.IsValid)
	require.NotNil(t, validated.ValidatedAt)
	require.Equal(t, "고장 신고가 유효한 것으로 검증되었습니다. 배지를 확인해주세요!", notifier.sent[len(notifier.sent)-1].Message)

	_, err = svc.Validate(ctx, report.ID, maintenance.Verdict{IsValid: boolPtr(false)})
	require.NoError(t, err)
	require.Equal(t, "고장 신고가 검증되었습니다.", notifier.sent[len(notifier.sent)-1].Message)

	_, err = svc.Validate(ctx, 999, maintenance.Verdict{IsValid: boolPtr(false)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestMarkAlertRead(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Submit(ctx, 7, maintenance.NewReport{StationID: 1, Category: maintenance.CategoryOther, Content: "noise"})
	require.NoError(t, err)

	alerts, err := svc.Alerts(ctx, 101)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	err = svc.MarkAlertRead(ctx, 100, alerts[0].ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	require.NoError(t, svc.MarkAlertRead(ctx, 101, alerts[0].ID))
	alerts, err = svc.Alerts(ctx, 101)
	require.NoError(t, err)
	require.Empty(t, alerts)
}
