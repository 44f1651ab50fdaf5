package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/adibhanna/focusmeter/internal/config"
	"github.com/adibhanna/focusmeter/internal/models"
)

type recorded struct {
	method    string
	path      string
	body      map[string]any
	requestID string
}

type fakeCollector struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	response any
}

func (f *fakeCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{method: r.Method, path: r.URL.Path, requestID: r.Header.Get("X-Request-ID")}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	if f.status != 0 && f.status != http.StatusOK {
		http.Error(w, "boom", f.status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if f.response != nil {
		_ = json.NewEncoder(w).Encode(f.response)
	}
}

func (f *fakeCollector) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, f *fakeCollector) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, srv.Client())
}

func TestCreateSession(t *testing.T) {
	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	f := &fakeCollector{response: map[string]any{"session_id": "abc123", "started_at": started}}
	c := newTestClient(t, f)

	sess, err := c.CreateSession(context.Background(), models.NewCreateSessionPayload("Write report", "chapter 2", 1500))
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != "abc123" || sess.Title != "Write report" || sess.Description != "chapter 2" || sess.PlannedDurationSeconds != 1500 {
		t.Errorf("session = %+v", sess)
	}
	if !sess.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", sess.StartedAt, started)
	}

	req := f.last(t)
	if req.method != http.MethodPost || req.path != "/session/create" {
		t.Errorf("request = %s %s", req.method, req.path)
	}
	if req.body["title"] != "Write report" || req.body["planned_duration_seconds"] != float64(1500) {
		t.Errorf("body = %v", req.body)
	}
	if req.requestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestCreateSessionNaiveTimestamp(t *testing.T) {
	f := &fakeCollector{response: map[string]any{"session_id": "abc", "started_at": "2025-03-10T09:00:00.123456"}}
	c := newTestClient(t, f)

	sess, err := c.CreateSession(context.Background(), models.NewCreateSessionPayload("x", "", 60))
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != "abc" {
		t.Errorf("ID = %q, want abc", sess.ID)
	}
	want := time.Date(2025, 3, 10, 9, 0, 0, 123456000, time.UTC)
	if !sess.StartedAt.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", sess.StartedAt, want)
	}
}

func TestCreateSessionUnparseableTimestamp(t *testing.T) {
	f := &fakeCollector{response: map[string]any{"session_id": "abc", "started_at": "soon"}}
	c := newTestClient(t, f)

	before := time.Now()
	sess, err := c.CreateSession(context.Background(), models.NewCreateSessionPayload("x", "", 60))
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.StartedAt.Before(before) {
		t.Errorf("StartedAt = %v, want the local clock fallback", sess.StartedAt)
	}
}

func TestCreateSessionBlankDescriptionIsNull(t *testing.T) {
	f := &fakeCollector{response: map[string]any{"session_id": "abc"}}
	c := newTestClient(t, f)

	if _, err := c.CreateSession(context.Background(), models.NewCreateSessionPayload("x", "  ", 60)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	body := f.last(t).body
	if v, ok := body["description"]; !ok || v != nil {
		t.Errorf("description = %v (present %v), want null", v, ok)
	}
}

func TestCreateSessionFallsBackToID(t *testing.T) {
	f := &fakeCollector{response: map[string]any{"id": "legacy-1"}}
	c := newTestClient(t, f)

	sess, err := c.CreateSession(context.Background(), models.NewCreateSessionPayload("x", "", 60))
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != "legacy-1" {
		t.Errorf("ID = %q, want legacy-1", sess.ID)
	}
}

func TestCreateSessionMissingID(t *testing.T) {
	f := &fakeCollector{response: map[string]any{"title": "x"}}
	c := newTestClient(t, f)

	_, err := c.CreateSession(context.Background(), models.NewCreateSessionPayload("x", "", 60))
	if !errors.Is(err, ErrMissingSessionID) {
		t.Fatalf("error = %v, want ErrMissingSessionID", err)
	}
}

func TestCreateSessionNon2xx(t *testing.T) {
	f := &fakeCollector{status: http.StatusServiceUnavailable}
	c := newTestClient(t, f)

	_, err := c.CreateSession(context.Background(), models.NewCreateSessionPayload("x", "", 60))
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusServiceUnavailable || statusErr.Path != "/session/create" {
		t.Errorf("StatusError = %+v", statusErr)
	}
}

func TestSendMetricsBody(t *testing.T) {
	f := &fakeCollector{}
	c := newTestClient(t, f)

	err := c.SendMetrics(context.Background(), models.MetricsPayload{
		SessionID:           "s1",
		AvgFocusScore:       83,
		ProductiveSeconds:   50,
		UnproductiveSeconds: 10,
		Distractions:        []models.Distraction{{Type: models.TabSwitch, Count: 1}},
	})
	if err != nil {
		t.Fatalf("SendMetrics() error = %v", err)
	}

	req := f.last(t)
	if req.path != "/session/metrics" {
		t.Errorf("path = %s", req.path)
	}
	if req.body["session_id"] != "s1" || req.body["avg_focus_score"] != float64(83) {
		t.Errorf("body = %v", req.body)
	}
	distractions, ok := req.body["distractions"].([]any)
	if !ok || len(distractions) != 1 {
		t.Fatalf("distractions = %v", req.body["distractions"])
	}
	first := distractions[0].(map[string]any)
	if first["type"] != "tab_switch" || first["count"] != float64(1) {
		t.Errorf("distraction = %v", first)
	}
}

func TestSendMetricsEmptyDistractionsIsArray(t *testing.T) {
	f := &fakeCollector{}
	c := newTestClient(t, f)

	if err := c.SendMetrics(context.Background(), models.MetricsPayload{SessionID: "s1", Distractions: []models.Distraction{}}); err != nil {
		t.Fatalf("SendMetrics() error = %v", err)
	}
	if d, ok := f.last(t).body["distractions"].([]any); !ok || len(d) != 0 {
		t.Errorf("distractions = %v, want []", f.last(t).body["distractions"])
	}
}

func TestEndSession(t *testing.T) {
	f := &fakeCollector{}
	c := newTestClient(t, f)

	if err := c.EndSession(context.Background(), "s1"); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	req := f.last(t)
	if req.path != "/session/end" || req.body["session_id"] != "s1" {
		t.Errorf("request = %s %v", req.path, req.body)
	}
}

func TestGetReport(t *testing.T) {
	f := &fakeCollector{response: models.SessionReport{
		OverallFocusScore:     67,
		ProductiveTimeSeconds: 5400,
		TopDistractions:       []models.ReportDistraction{{Type: "Social Media", Count: 15}},
		SummaryText:           "Keep focusing!",
	}}
	c := newTestClient(t, f)

	report, err := c.GetReport(context.Background(), "s 1")
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if report.OverallFocusScore != 67 || report.SummaryText != "Keep focusing!" || len(report.TopDistractions) != 1 {
		t.Errorf("report = %+v", report)
	}

	req := f.last(t)
	if req.method != http.MethodGet || req.path != "/session/s 1/report" {
		t.Errorf("request = %s %s", req.method, req.path)
	}
}

func TestNotConfiguredSkipsNetwork(t *testing.T) {
	c := New(config.APIConfig{Timeout: time.Second})
	if c.Configured() {
		t.Fatal("client without base url reports configured")
	}

	ctx := context.Background()
	if err := c.SendMetrics(ctx, models.MetricsPayload{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("SendMetrics() error = %v", err)
	}
	if err := c.EndSession(ctx, "s"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("EndSession() error = %v", err)
	}
	if _, err := c.CreateSession(ctx, models.CreateSessionPayload{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CreateSession() error = %v", err)
	}
	if _, err := c.GetReport(ctx, "s"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("GetReport() error = %v", err)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewWithHTTPClient(url, &http.Client{Timeout: time.Second})
	if err := c.SendMetrics(context.Background(), models.MetricsPayload{}); err == nil {
		t.Fatal("expected transport error from closed server")
	}
}
