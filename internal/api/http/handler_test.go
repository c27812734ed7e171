package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "ngo-admin-backend/internal/api/http"
	"ngo-admin-backend/internal/analytics"
	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/report"
	"ngo-admin-backend/internal/security"
	"ngo-admin-backend/internal/service"
	"ngo-admin-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var ngo1Admin = domain.Session{AdminID: 2, Email: "admin@ngo1.org", OrgCode: "NGO1", Role: domain.AdminRoleAdmin}

type MockDashboard struct{ mock.Mock }

func (m *MockDashboard) GetSnapshot(ctx context.Context, sess domain.Session) (*analytics.Snapshot, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Snapshot), args.Error(1)
}
func (m *MockDashboard) ApplyFilter(ctx context.Context, sess domain.Session, spec analytics.FilterSpec) (*service.FilterResult, error) {
	args := m.Called(ctx, sess, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FilterResult), args.Error(1)
}

type MockReports struct{ mock.Mock }

func (m *MockReports) Generate(ctx context.Context, sess domain.Session, p report.Period) (*service.GeneratedReport, error) {
	args := m.Called(ctx, sess, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GeneratedReport), args.Error(1)
}
func (m *MockReports) Archive(ctx context.Context, sess domain.Session, p report.Period) (string, error) {
	args := m.Called(ctx, sess, p)
	return args.String(0), args.Error(1)
}

type MockReview struct{ mock.Mock }

func (m *MockReview) ListPending(ctx context.Context, sess domain.Session) ([]domain.Application, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockReview) Accept(ctx context.Context, sess domain.Session, id int64) (*service.ReviewResult, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}
func (m *MockReview) Reject(ctx context.Context, sess domain.Session, id int64, reason string) (*service.ReviewResult, error) {
	args := m.Called(ctx, sess, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}
func (m *MockReview) RemoveVolunteer(ctx context.Context, sess domain.Session, userID, reason string) (*service.ReviewResult, error) {
	args := m.Called(ctx, sess, userID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, kind service.NoticeKind, n service.Notice) (*service.Delivery, error) {
	args := m.Called(ctx, kind, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Delivery), args.Error(1)
}

type testServer struct {
	dashboard *MockDashboard
	reports   *MockReports
	review    *MockReview
	notifier  *MockNotifier
	archive   *storage.LocalStorage
	handler   http.Handler
	token     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	archive, err := storage.NewLocalStorage("http://localhost:8080", t.TempDir())
	require.NoError(t, err)

	tm := security.NewTokenManager(testSecret, time.Hour)
	token, err := tm.GenerateAccessToken(ngo1Admin)
	require.NoError(t, err)

	ts := &testServer{
		dashboard: new(MockDashboard),
		reports:   new(MockReports),
		review:    new(MockReview),
		notifier:  new(MockNotifier),
		archive:   archive,
		token:     token,
	}
	ts.handler = httpapi.NewRouter(httpapi.Services{
		Dashboard:     ts.dashboard,
		Reports:       ts.reports,
		Review:        ts.review,
		Notifications: ts.notifier,
	}, archive, tm, []string{"https://admin.ngo.org"})
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+ts.token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	ts.dashboard.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	ts.dashboard.On("GetSnapshot", mock.Anything, ngo1Admin).Return(&analytics.Snapshot{OrgCode: "NGO1", CompletionRate: 60}, nil)

	rec := ts.do(http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(60), body["data"].(map[string]any)["completionRate"])
}

func TestDashboardFilter_Errors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/dashboard/filter", `{"dateRange":"all","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.dashboard.On("ApplyFilter", mock.Anything, ngo1Admin, mock.Anything).
		Return(nil, errors.New("pq: connection reset")).Once()
	rec = ts.do(http.MethodPost, "/api/v1/dashboard/filter", `{"dateRange":"all"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestGenerateReport(t *testing.T) {
	ts := newTestServer(t)
	period := report.Period{Type: report.PeriodSingle, Year: 2024, Month: 6}

	t.Run("PDF download", func(t *testing.T) {
		ts.reports.On("Generate", mock.Anything, ngo1Admin, period).Return(&service.GeneratedReport{
			FileName: "Green_Earth_June_Report_2024-06.pdf",
			Content:  []byte("%PDF-1.3 fake"),
		}, nil).Once()

		rec := ts.do(http.MethodPost, "/api/v1/reports", `{"type":"single","year":2024,"month":6}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "Green_Earth_June_Report_2024-06.pdf")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("No events is 422", func(t *testing.T) {
		ts.reports.On("Generate", mock.Anything, ngo1Admin, period).Return(nil, domain.ErrNoEvents).Once()

		rec := ts.do(http.MethodPost, "/api/v1/reports", `{"type":"single","year":2024,"month":6}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "NO_EVENTS", body["error"].(map[string]any)["code"])
	})
}

func TestDownloadArchived(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.archive.SaveFile(context.Background(), "NGO1/r.pdf", strings.NewReader("%PDF-1.3")))

	rec := ts.do(http.MethodGet, "/api/v1/reports/archive/NGO1/r.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.3", rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/v1/reports/archive/NGO10/r.pdf", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/reports/archive/NGO1/missing.pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// brokenArchive serves a file whose contents fail halfway through.
type brokenArchive struct {
	*storage.LocalStorage
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk read failed") }
func (failingReader) Close() error             { return nil }

func (brokenArchive) ReadFile(context.Context, string) (io.ReadCloser, error) {
	return failingReader{}, nil
}

func TestDownloadArchived_LogsInterruptedCopy(t *testing.T) {
	var logs bytes.Buffer
	logger.InitializeWriter(&logs, "info", "json")
	t.Cleanup(func() { logger.Initialize("info", "text") })

	local, err := storage.NewLocalStorage("http://localhost:8080", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, local.SaveFile(context.Background(), "NGO1/r.pdf", strings.NewReader("%PDF-1.3")))

	tm := security.NewTokenManager(testSecret, time.Hour)
	token, err := tm.GenerateAccessToken(ngo1Admin)
	require.NoError(t, err)
	handler := httpapi.NewRouter(httpapi.Services{}, brokenArchive{local}, tm, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/archive/NGO1/r.pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), "report download interrupted")
	assert.Contains(t, logs.String(), "disk read failed")
}

func TestOptionsOnAPIRoutes(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/applications/7/reject", "/api/v1/ngos/NGO1"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
	}
	ts.dashboard.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
}

func TestRejectApplication(t *testing.T) {
	ts := newTestServer(t)

	ts.review.On("Reject", mock.Anything, ngo1Admin, int64(5), "Full").
		Return(&service.ReviewResult{ApplicationID: 5, Outcome: "rejected", Warning: "email not sent"}, nil)
	rec := ts.do(http.MethodPost, "/api/v1/applications/5/reject", `{"reason":"Full"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "email not sent", decode(t, rec)["data"].(map[string]any)["warning"])

	ts.review.On("Reject", mock.Anything, ngo1Admin, int64(6), "").
		Return(nil, domain.NewValidationError("reason", "a reason is required"))
	rec = ts.do(http.MethodPost, "/api/v1/applications/6/reject", `{"reason":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.review.On("Accept", mock.Anything, ngo1Admin, int64(7)).Return(nil, domain.ErrForbidden)
	rec = ts.do(http.MethodPost, "/api/v1/applications/7/accept", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	ts := newTestServer(t)
	payload := `{"recipientEmail":"ann@example.org","volunteerName":"Ann","reason":"Full","ngoName":"Green Earth"}`

	t.Run("Success", func(t *testing.T) {
		ts.notifier.On("Send", mock.Anything, service.NoticeOrgRejection, mock.MatchedBy(func(n service.Notice) bool {
			return n.RecipientEmail == "ann@example.org"
		})).Return(&service.Delivery{MessageID: "<m1@ngo>", Recipient: "ann@example.org"}, nil).Once()

		rec := ts.do(http.MethodPost, "/api/send-reject-org", payload)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "<m1@ngo>", body["messageId"])
		assert.Equal(t, "ann@example.org", body["recipient"])
	})

	t.Run("Invalid input", func(t *testing.T) {
		ts.notifier.On("Send", mock.Anything, service.NoticeEventRejection, mock.Anything).
			Return(nil, domain.NewValidationError("", "missing required fields: eventTitle")).Once()

		rec := ts.do(http.MethodPost, "/api/send-reject-event", payload)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "missing required fields: eventTitle", body["error"])
	})

	t.Run("Relay failure", func(t *testing.T) {
		ts.notifier.On("Send", mock.Anything, service.NoticeRemoval, mock.Anything).
			Return(nil, &service.DeliveryError{Err: errors.New("535 auth failed")}).Once()

		rec := ts.do(http.MethodPost, "/api/send-removal-notification", payload)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Failed to send email", body["error"])
		assert.Equal(t, "535 auth failed", body["details"])
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/send-reject-org", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("OPTIONS without credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/send-reject-org", nil)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("Preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/send-reject-org", nil)
		req.Header.Set("Origin", "https://admin.ngo.org")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://admin.ngo.org", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight from unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/send-reject-org", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
