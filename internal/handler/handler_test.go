package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendify/internal/attendance"
	"attendify/internal/gemini"
	"attendify/internal/store"
	"attendify/internal/summary"
	"attendify/internal/view"
)

type echoGenerator struct{}

func (echoGenerator) Generate(context.Context, gemini.Config, string) (string, error) {
	return "All good.", nil
}

type testEnv struct {
	router  *gin.Engine
	store   *attendance.Store
	tracker *summary.Tracker
}

func newEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	slot, err := store.NewFileSlot(t.TempDir(), store.DefaultSlotName)
	require.NoError(t, err)
	st := attendance.NewStore(slot, nil)
	_, err = st.Load(context.Background())
	require.NoError(t, err)
	form := attendance.NewForm(st)
	tr := summary.NewTracker(summary.New(echoGenerator{}, gemini.Config{}, nil))
	ctrl := view.New(st, form, tr, 7)
	h := New(st, form, ctrl, slot, 7, nil)
	return testEnv{router: Router(h, RouterOptions{}), store: st, tracker: tr}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["store"])
}

type downSlot struct{ store.Slot }

func (downSlot) Healthy(context.Context) bool { return false }

func TestHealthzDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	slot, err := store.NewFileSlot(t.TempDir(), store.DefaultSlotName)
	require.NoError(t, err)
	st := attendance.NewStore(slot, nil)
	form := attendance.NewForm(st)
	tr := summary.NewTracker(summary.New(echoGenerator{}, gemini.Config{}, nil))
	h := New(st, form, view.New(st, form, tr, 7), downSlot{slot}, 7, nil)

	w := httptest.NewRecorder()
	Router(h, RouterOptions{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, false, body["store"])
}

func TestCreateAndListRecords(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/v1/records", map[string]string{"name": "Ana", "date": "2024-01-01", "status": "Late"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created attendance.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "09:00", created.InTime)
	assert.Equal(t, "18:00", created.OutTime)
	assert.Equal(t, attendance.StatusLate, created.Status)

	w = e.do(t, http.MethodGet, "/v1/records", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Records []view.Row `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Records, 1)
	assert.Equal(t, created.ID, list.Records[0].ID)

	w = e.do(t, http.MethodGet, "/v1/view", nil)
	var snap view.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, view.Records, snap.View)

	w = e.do(t, http.MethodGet, "/v1/draft", nil)
	var d attendance.Draft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "2024-01-01", d.Date)
	assert.Empty(t, d.Name)
}

func TestCreateRecordValidation(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/v1/records", map[string]string{"date": "2024-01-01"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/v1/records", map[string]string{"name": "Ana", "status": "Absent"}).Code)
	assert.Zero(t, e.store.Len())
}

func TestDeleteRecord(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodPost, "/v1/records", map[string]string{"name": "Ana"})
	var created attendance.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	assert.Equal(t, http.StatusPreconditionRequired, e.do(t, http.MethodDelete, "/v1/records/"+created.ID, nil).Code)
	assert.Equal(t, 1, e.store.Len())

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/v1/records/unknown?confirm=true", nil).Code)
	assert.Equal(t, 1, e.store.Len())

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/v1/records/"+created.ID+"?confirm=true", nil).Code)
	assert.Zero(t, e.store.Len())
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	for _, r := range []map[string]string{
		{"name": "a", "status": "Present", "date": "2024-01-01"},
		{"name": "b", "status": "Late", "date": "2024-01-01"},
		{"name": "c", "status": "Leave", "date": "2024-01-02"},
	} {
		require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/v1/records", r).Code)
	}

	w := e.do(t, http.MethodGet, "/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ov attendance.Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ov))
	assert.Equal(t, attendance.Stats{Total: 3, Present: 1, Late: 1, OnLeave: 1}, ov.Stats)
	assert.Equal(t, []attendance.DayCount{{Date: "2024-01-01", Count: 2}, {Date: "2024-01-02", Count: 1}}, ov.Activity)
	assert.Len(t, ov.Breakdown, 3)

	w = e.do(t, http.MethodGet, "/v1/stats?window=1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ov))
	assert.Equal(t, []attendance.DayCount{{Date: "2024-01-02", Count: 1}}, ov.Activity)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/v1/stats?window=-3", nil).Code)
}

func TestNavigate(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodPut, "/v1/view", map[string]string{"view": "insights"})
	require.Equal(t, http.StatusOK, w.Code)
	var snap view.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, view.Insights, snap.View)
	require.NotNil(t, snap.Report)
	assert.Equal(t, summary.Idle, snap.Report.Phase)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/v1/view", map[string]string{"view": "admin"}).Code)
}

func TestGenerateReport(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusUnprocessableEntity, e.do(t, http.MethodPost, "/v1/report", nil).Code)

	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/v1/records", map[string]string{"name": "Ana"}).Code)
	assert.Equal(t, http.StatusAccepted, e.do(t, http.MethodPost, "/v1/report", nil).Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.tracker.Wait(ctx)

	w := e.do(t, http.MethodGet, "/v1/report", nil)
	var st summary.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, summary.Succeeded, st.Phase)
	assert.Equal(t, "All good.", st.Text)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodGet, "/v1/records", nil)
	w := e.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "attendify_http_request_duration_seconds")
}
