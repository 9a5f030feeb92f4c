package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"plantwatch/internal/middleware"
	"plantwatch/internal/monitor"

	"github.com/gin-gonic/gin"
)

func newTestRouter() (*gin.Engine, *monitor.Controller) {
	gin.SetMode(gin.TestMode)
	ctrl := monitor.NewController(nil)
	h := NewMonitorHandlers(ctrl)

	r := gin.New()
	api := r.Group("/api")
	{
		api.GET("/state", h.APIState)
		api.GET("/logs", h.APILogs)
		api.POST("/models/init", h.APIInitModels)
		api.POST("/monitor/start", h.APIStart)
		api.POST("/monitor/stop", h.APIStop)
		api.POST("/monitor/reset", h.APIReset)
		api.PUT("/monitor/speed",
			middleware.ValidateJSON(func() interface{} { return &SpeedRequest{} }),
			h.APISpeed)
	}
	return r, ctrl
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStateEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var snap monitor.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.Monitoring || snap.ModelReady {
		t.Fatalf("fresh controller must be idle, got %+v", snap)
	}
	if snap.IntervalMs != 2000 {
		t.Fatalf("expected default interval 2000, got %d", snap.IntervalMs)
	}
}

func TestStartBeforeReadyIsConflict(t *testing.T) {
	r, ctrl := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/monitor/start", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	entries := ctrl.Logs().Entries()
	if len(entries) != 1 || entries[0].Severity != monitor.SeverityDanger {
		t.Fatalf("expected exactly one danger log entry, got %+v", entries)
	}
}

func TestSpeedEndpointValidation(t *testing.T) {
	r, ctrl := newTestRouter()

	for _, body := range []string{
		`{"interval_ms": 1500}`,
		`{"interval_ms": 0}`,
		`{"interval_ms": "fast"}`,
		`{}`,
		`not json`,
	} {
		w := doJSON(t, r, http.MethodPut, "/api/monitor/speed", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}

	for _, ms := range []int{1000, 2000, 3000} {
		w := doJSON(t, r, http.MethodPut, "/api/monitor/speed", `{"interval_ms": `+strconv.Itoa(ms)+`}`)
		if w.Code != http.StatusOK {
			t.Fatalf("interval %d: expected 200, got %d: %s", ms, w.Code, w.Body.String())
		}
		if got := ctrl.Snapshot().IntervalMs; got != ms {
			t.Fatalf("interval %d not applied, controller has %d", ms, got)
		}
	}
}

func TestLifecycleOverHTTP(t *testing.T) {
	r, ctrl := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/models/init", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("init: expected 202, got %d", w.Code)
	}
	// a second init while loading conflicts
	w = doJSON(t, r, http.MethodPost, "/api/models/init", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("double init: expected 409, got %d", w.Code)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !ctrl.Snapshot().ModelReady {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for models to load")
		}
		time.Sleep(10 * time.Millisecond)
	}

	w = doJSON(t, r, http.MethodPost, "/api/monitor/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/monitor/start", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("double start: expected 409, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/monitor/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stop: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/monitor/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", w.Code)
	}
	snap := ctrl.Snapshot()
	if snap.ModelReady || snap.Monitoring || snap.LoadProgress != 0 {
		t.Fatalf("expected clean state after reset, got %+v", snap)
	}

	w = doJSON(t, r, http.MethodGet, "/api/logs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("logs: expected 200, got %d", w.Code)
	}
	var payload struct {
		Logs []monitor.LogEntry `json:"logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal logs: %v", err)
	}
	if len(payload.Logs) != 1 {
		t.Fatalf("expected only the reset entry after reset, got %d", len(payload.Logs))
	}
}
