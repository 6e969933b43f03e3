package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/audit"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/auth"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/user"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/jwt"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/lock"
	"github.com/sitework-erp/labour-ledger-go/internal/repository/memory"
	"github.com/sitework-erp/labour-ledger-go/internal/service/advance"
	attendancesvc "github.com/sitework-erp/labour-ledger-go/internal/service/attendance"
	payrollsvc "github.com/sitework-erp/labour-ledger-go/internal/service/payroll"
	penaltysvc "github.com/sitework-erp/labour-ledger-go/internal/service/penalty"
	reportsvc "github.com/sitework-erp/labour-ledger-go/internal/service/report"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	testWorkerID      = "01940000-0000-7000-8000-000000000007"
	testProjectID     = "01940000-0000-7000-9000-000000000003"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
	jwt    jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	store.PutWorker(worker.Worker{ID: testWorkerID, FullName: "Ravi Kumar", DailyRate: decimal.NewFromInt(800), IsActive: true})

	recorder := audit.NewLogRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	calendar := common.Calendar{
		Location: time.UTC,
		Clock:    func() time.Time { return time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC) },
	}
	shift := decimal.NewFromInt(8)

	attendanceService := attendancesvc.NewAttendanceService(store, recorder, calendar, shift)
	penaltyService := penaltysvc.NewPenaltyService(store, recorder, calendar)
	payrollService := payrollsvc.NewPayrollService(
		store, attendanceService, penaltyService, advance.NewEngine(), lock.NewNoop(), recorder, calendar,
		payrollsvc.Rates{ShiftHours: shift, OvertimeMultiplier: decimal.RequireFromString("1.5")},
	)

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	router := NewRouter(jwtService, Handlers{
		Attendance: NewAttendanceHandler(attendanceService),
		Payroll:    NewPayrollHandler(payrollService),
		Penalty:    NewPenaltyHandler(penaltyService),
		Report:     NewReportHandler(reportsvc.NewReportService(store)),
	}, RouterOptions{Env: "test", LogLevel: slog.LevelError})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{t: t, server: server, jwt: jwtService}
}

func (s *testServer) token(userID string, role user.Role) string {
	s.t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/api/v1/attendance", "", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
}

func TestRouter_PermissionGates(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		role   user.Role
		method string
		path   string
		body   any
	}{
		{"viewer cannot record payments", user.RoleViewer, http.MethodPost, "/api/v1/payments", map[string]any{}},
		{"supervisor cannot record payments", user.RoleSupervisor, http.MethodPost, "/api/v1/payments", map[string]any{}},
		{"site engineer cannot confirm", user.RoleSiteEngineer, http.MethodPost, "/api/v1/attendance/confirm", map[string]any{}},
		{"accountant cannot mark attendance", user.RoleAccountant, http.MethodPost, "/api/v1/attendance", map[string]any{}},
		{"supervisor cannot read reports", user.RoleSupervisor, http.MethodGet, "/api/v1/reports/projects/"+testProjectID+"/labour-cost", nil},
		{"unknown role", user.Role("intern"), http.MethodGet, "/api/v1/attendance", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := s.do(tt.method, tt.path, s.token("user-1", tt.role), tt.body)

			assert.Equal(t, http.StatusForbidden, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "FORBIDDEN", env.Error.Code)
		})
	}
}

func TestRouter_AttendanceToPaymentFlow(t *testing.T) {
	s := newTestServer(t)
	supervisor := s.token("supervisor-1", user.RoleSupervisor)
	accountant := s.token("accountant-1", user.RoleAccountant)

	status, env := s.do(http.MethodPost, "/api/v1/attendance", supervisor, map[string]any{
		"worker_id":  testWorkerID,
		"project_id": testProjectID,
		"date":       "2025-01-18",
		"kind":       "FULL",
	})
	require.Equal(t, http.StatusCreated, status)

	var marked attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &marked))
	assert.Equal(t, "DRAFT", marked.State)
	assert.Equal(t, "supervisor-1", marked.MarkedBy)

	status, env = s.do(http.MethodPost, "/api/v1/attendance/"+marked.ID+"/confirm", supervisor, nil)
	require.Equal(t, http.StatusOK, status)

	payment := map[string]any{
		"worker_id":   testWorkerID,
		"project_id":  testProjectID,
		"date":        "2025-01-20",
		"kind":        "WAGES",
		"base_amount": "800",
		"method":      "CASH",
	}
	status, env = s.do(http.MethodPost, "/api/v1/payments", accountant, payment)
	require.Equal(t, http.StatusCreated, status)

	var recorded payroll.RecordPaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &recorded))
	assert.True(t, decimal.NewFromInt(800).Equal(recorded.NetAmount))
	assert.Equal(t, int64(1), recorded.AttendanceLinked)

	// same slot again
	status, env = s.do(http.MethodPost, "/api/v1/payments", accountant, payment)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, env = s.do(http.MethodGet, "/api/v1/attendance/"+marked.ID, supervisor, nil)
	require.Equal(t, http.StatusOK, status)
	var linked attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &linked))
	require.NotNil(t, linked.LinkedPaymentID)
	assert.Equal(t, recorded.ID, *linked.LinkedPaymentID)

	status, env = s.do(http.MethodGet, "/api/v1/reports/projects/"+testProjectID+"/labour-cost", accountant, nil)
	require.Equal(t, http.StatusOK, status)
	var cost report.ProjectLabourCost
	require.NoError(t, json.Unmarshal(env.Data, &cost))
	assert.True(t, decimal.NewFromInt(800).Equal(cost.NetLabourCost))
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	admin := s.token("admin-1", user.RoleAdmin)

	t.Run("missing fields", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/api/v1/penalties", admin, map[string]any{"amount": "50"})

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "worker_id")
	})

	t.Run("future date", func(t *testing.T) {
		status, _ := s.do(http.MethodPost, "/api/v1/attendance", admin, map[string]any{
			"worker_id":  testWorkerID,
			"project_id": testProjectID,
			"date":       "2025-01-21",
			"kind":       "FULL",
		})

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("malformed body", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/api/v1/payments", admin, "not an object")

		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("unknown payment", func(t *testing.T) {
		status, _ := s.do(http.MethodGet, "/api/v1/payments/does-not-exist", admin, nil)

		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("bad date filter", func(t *testing.T) {
		status, env := s.do(http.MethodGet, "/api/v1/attendance?start_date=20-01-2025", admin, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "start_date")
	})
}

func TestRouter_WorkerBalance(t *testing.T) {
	s := newTestServer(t)
	admin := s.token("admin-1", user.RoleAdmin)

	status, _ := s.do(http.MethodPost, "/api/v1/payments", admin, map[string]any{
		"worker_id":   testWorkerID,
		"project_id":  testProjectID,
		"date":        "2025-01-10",
		"kind":        "ADVANCE",
		"base_amount": "500",
		"method":      "UPI",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(http.MethodPost, "/api/v1/penalties", admin, map[string]any{
		"worker_id":  testWorkerID,
		"project_id": testProjectID,
		"date":       "2025-01-12",
		"kind":       "SAFETY",
		"amount":     "75",
		"reason":     "No helmet on scaffold",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(http.MethodGet, "/api/v1/workers/"+testWorkerID+"/projects/"+testProjectID+"/balance", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var balance payroll.WorkerBalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.True(t, decimal.NewFromInt(500).Equal(balance.AdvancesOutstanding))
	assert.True(t, decimal.NewFromInt(75).Equal(balance.PenaltiesPending))
}

func TestRouter_MalformedIDs(t *testing.T) {
	s := newTestServer(t)
	admin := s.token("admin-1", user.RoleAdmin)

	t.Run("body reference", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/api/v1/attendance", admin, map[string]any{
			"worker_id":  "worker-7",
			"project_id": testProjectID,
			"date":       "2025-01-18",
			"kind":       "FULL",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "must be a valid UUID", env.Error.Details["worker_id"])
	})

	t.Run("single record reads", func(t *testing.T) {
		for _, path := range []string{"/api/v1/attendance/not-a-uuid", "/api/v1/payments/not-a-uuid"} {
			status, env := s.do(http.MethodGet, path, admin, nil)

			assert.Equal(t, http.StatusNotFound, status, path)
			require.NotNil(t, env.Error, path)
			assert.Equal(t, "NOT_FOUND", env.Error.Code, path)
		}
	})

	t.Run("bulk confirm", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/api/v1/attendance", admin, map[string]any{
			"worker_id":  testWorkerID,
			"project_id": testProjectID,
			"date":       "2025-01-18",
			"kind":       "FULL",
		})
		require.Equal(t, http.StatusCreated, status)
		var marked attendance.AttendanceResponse
		require.NoError(t, json.Unmarshal(env.Data, &marked))

		status, env = s.do(http.MethodPost, "/api/v1/attendance/confirm", admin, map[string]any{
			"ids": []string{"bad-id", marked.ID},
		})
		require.Equal(t, http.StatusOK, status)

		var result attendance.BulkConfirmResponse
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, []string{marked.ID}, result.Confirmed)
		assert.Equal(t, []string{"bad-id"}, result.Skipped)
	})

	t.Run("path and query ids", func(t *testing.T) {
		status, env := s.do(http.MethodGet, "/api/v1/workers/worker-7/projects/"+testProjectID+"/balance", admin, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "worker_id")

		status, env = s.do(http.MethodGet, "/api/v1/payments?project_id=tower-b", admin, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "project_id")
	})
}

func TestRouter_ExpiredToken(t *testing.T) {
	s := newTestServer(t)

	expired, _, err := jwt.NewJWTService(handlerTestSecret, "-1h").GenerateAccessToken("admin-1", user.RoleAdmin)
	require.NoError(t, err)

	status, env := s.do(http.MethodGet, "/api/v1/attendance", expired, nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Equal(t, auth.ErrTokenExpired.Error(), env.Error.Message)
}
