package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bikeshare/internal/domain/auth"
	"github.com/yanqian/bikeshare/internal/domain/baseline"
	"github.com/yanqian/bikeshare/internal/domain/fleet"
	"github.com/yanqian/bikeshare/internal/domain/loadfactor"
	"github.com/yanqian/bikeshare/internal/domain/maintenance"
	"github.com/yanqian/bikeshare/internal/domain/rebalancing"
	"github.com/yanqian/bikeshare/internal/domain/station"
	"github.com/yanqian/bikeshare/internal/infra/alertqueue"
	"github.com/yanqian/bikeshare/internal/infra/baselinecache"
	"github.com/yanqian/bikeshare/internal/infra/baselinerepo"
	"github.com/yanqian/bikeshare/internal/infra/config"
	"github.com/yanqian/bikeshare/internal/infra/maintenancerepo"
	"github.com/yanqian/bikeshare/internal/infra/stationrepo"
	"github.com/yanqian/bikeshare/pkg/metrics"
)

const (
	adminID = int64(100)
	riderID = int64(7)
)

type testServer struct {
	server *http.Server
	auth   auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := newTestLogger()

	stations := stationrepo.NewMemoryRepository()
	stations.AddArea(1, "Jung-gu")
	stations.AddStation(station.Station{ID: 1, AreaID: 1, Name: "City Hall", Latitude: 37.5663, Longitude: 126.9779, DocksTotal: 20, IsActive: true})
	stations.AddStation(station.Station{ID: 2, AreaID: 1, Name: "Euljiro", Latitude: 37.5660, Longitude: 126.9826, DocksTotal: 20, IsActive: true})
	stations.DockBikes(1, fleet.BikeAvailable, 1)
	stations.DockBikes(2, fleet.BikeAvailable, 18)

	baselines := baselinerepo.NewMemoryRepository(1, 8)
	resolver := baseline.NewResolver(baseline.DefaultConfig(), baselines, baselinecache.NewMemoryCache(), nil, logger)

	reports := maintenancerepo.NewMemoryRepository()
	reports.AddStation(1, "City Hall")
	reports.SetAdmins(adminID)
	queue := alertqueue.NewImmediateQueue(reports.InsertAlerts, logger)
	t.Cleanup(queue.Close)

	reg := metrics.New()
	handler := NewHandler(
		station.NewService(station.DefaultConfig(), loadfactor.DefaultThresholds(), stations, resolver, reg, logger),
		rebalancing.NewService(rebalancing.DefaultConfig(), stations, reg, logger),
		fleet.NewService(stations, nil, logger),
		maintenance.NewService(reports, reports, queue, nil, logger),
		logger,
	)
	authSvc := auth.NewService(auth.Config{Secret: "router-test"}, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return &testServer{server: NewRouter(cfg, handler, authSvc, reg, logger), auth: authSvc}
}

func (s *testServer) token(t *testing.T, userID int64, role auth.Role) string {
	t.Helper()
	token, err := s.auth.IssueToken(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRouter_RebalancingRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/api/admin/rebalancing", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodGet, "/api/admin/rebalancing", "", srv.token(t, riderID, auth.RoleUser))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = srv.do(http.MethodGet, "/api/admin/rebalancing", "", srv.token(t, adminID, auth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	var plan rebalancing.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.NeedsBikes, 1)
	require.Len(t, plan.HasExcess, 1)
	require.Equal(t, []rebalancing.Suggestion{{
		FromStationID:   2,
		FromStationName: "Euljiro",
		ToStationID:     1,
		ToStationName:   "City Hall",
		Bikes:           4,
	}}, plan.Suggestions)
}

func TestRouter_NearbyValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/api/stations/nearby?lng=126.97", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = srv.do(http.MethodGet, "/api/stations/nearby?lat=95&lng=126.97", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = srv.do(http.MethodGet, "/api/stations/nearby?lat=37.5663&lng=126.9779&radius=0.1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var nearby struct {
		Stations []map[string]any `json:"stations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nearby))
	require.Len(t, nearby.Stations, 1)
	require.EqualValues(t, 1, nearby.Stations[0]["station_id"])
	require.Equal(t, "red", nearby.Stations[0]["color"])
}

func TestRouter_StationNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/api/stations/999", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = srv.do(http.MethodGet, "/api/stations/abc", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CongestionTargetHour(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, riderID, auth.RoleUser)

	rec := srv.do(http.MethodGet, "/api/stations/congestion/all?targetHour=24", "", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodGet, "/api/stations/1/congestion?targetHour=9", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var prediction map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prediction))
	require.Equal(t, "데이터 부족", prediction["prediction"])
	require.EqualValues(t, 0, prediction["confidence"])
}

func TestRouter_ReportAlertsAdmins(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/reports", `{"stationId":1,"category":"BRAKE_ISSUE","content":"brake lever is loose"}`, srv.token(t, riderID, auth.RoleUser))
	require.Equal(t, http.StatusCreated, rec.Code)

	adminToken := srv.token(t, adminID, auth.RoleAdmin)
	var body struct {
		Alerts []maintenance.Alert `json:"alerts"`
	}
	require.Eventually(t, func() bool {
		rec := srv.do(http.MethodGet, "/api/alerts", "", adminToken)
		if rec.Code != http.StatusOK {
			return false
		}
		body.Alerts = nil
		return json.Unmarshal(rec.Body.Bytes(), &body) == nil && len(body.Alerts) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, maintenance.AlertReport, body.Alerts[0].Type)

	rec = srv.do(http.MethodPut, "/api/alerts/1/read", "", srv.token(t, riderID, auth.RoleUser))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ListsAreWrapped(t *testing.T) {
	srv := newTestServer(t)
	riderToken := srv.token(t, riderID, auth.RoleUser)
	adminToken := srv.token(t, adminID, auth.RoleAdmin)

	rec := srv.do(http.MethodPost, "/api/reports", `{"stationId":1,"category":"DOCK_FAULT","content":"dock 3 will not release"}`, riderToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created maintenance.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	cases := []struct {
		path  string
		token string
		key   string
	}{
		{"/api/stations", "", "stations"},
		{"/api/stations/nearby?lat=37.5663&lng=126.9779&radius=5", "", "stations"},
		{"/api/admin/stations", adminToken, "stations"},
		{"/api/admin/stations/utilization", adminToken, "stations"},
		{"/api/admin/bikes", adminToken, "bikes"},
		{"/api/admin/reports", adminToken, "reports"},
		{"/api/reports/mine", riderToken, "reports"},
		{"/api/alerts", riderToken, "alerts"},
	}
	for _, tc := range cases {
		rec := srv.do(http.MethodGet, tc.path, "", tc.token)
		require.Equal(t, http.StatusOK, rec.Code, tc.path)
		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tc.path)
		raw, ok := body[tc.key]
		require.True(t, ok, tc.path)
		var items []json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &items), tc.path)
	}

	rec = srv.do(http.MethodGet, "/api/reports/"+strconv.FormatInt(created.ID, 10), "", riderToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var one struct {
		Report maintenance.ReportView `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	require.Equal(t, created.ID, one.Report.ID)
	require.Equal(t, "City Hall", one.Report.StationName)
}

func TestRouter_AdminCreateStationValidation(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, adminID, auth.RoleAdmin)

	rec := srv.do(http.MethodPost, "/api/admin/stations", `{"stationName":""}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = srv.do(http.MethodPost, "/api/admin/stations", `{"areaId":1,"stationName":"Myeongdong","latitude":37.56,"longitude":126.98,"docksTotal":15}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(http.MethodPut, "/api/admin/stations/1/active", `{}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_MetricsExposeRoutes(t *testing.T) {
	srv := newTestServer(t)
	srv.do(http.MethodGet, "/api/stations", "", "")

	rec := srv.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `bikeshare_http_requests_total{code="200",method="GET",route="/api/stations"}`)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRetryReplaysGatewayFailures(t *testing.T) {
	attempts := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	h := withRetry(inner, config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond}, newTestLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stations", nil).WithContext(context.Background()))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, 2, attempts)

	attempts = 0
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports", bytes.NewBufferString("{}")))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, 1, attempts)
}

func TestRetryLeavesDataUnavailableAlone(t *testing.T) {
	attempts := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	h := withRetry(inner, config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond}, newTestLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stations", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, 1, attempts)
}

func TestClientRateLimiter(t *testing.T) {
	limiter := newClientRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2}, time.Minute)
	now := time.Now()
	require.True(t, limiter.allow("10.0.0.1", now))
	require.True(t, limiter.allow("10.0.0.1", now))
	require.False(t, limiter.allow("10.0.0.1", now))
	require.True(t, limiter.allow("10.0.0.2", now))
	require.True(t, limiter.allow("10.0.0.1", now.Add(time.Second)))
}
