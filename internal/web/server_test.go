package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wbarker/washctl/internal/cycle"
	"github.com/wbarker/washctl/internal/status"
)

func newTestServer(t *testing.T) (*Server, *status.Tracker) {
	t.Helper()
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:    187,
		RefreshMs: 5,
		Broker:    "tcp://broker:1883",
		HTTPAddr:  ":0",
	})
	return New(":0", tracker), tracker
}

func get(t *testing.T, srv *Server, path string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, string(body)
}

func TestIndexPage(t *testing.T) {
	srv, tracker := newTestServer(t)
	tracker.Update(cycle.StateActive, cycle.ModeExtended, cycle.PhaseWash, 10, 0b0010, cycle.DutyWash, cycle.EventCounts{Started: 1})

	res, body := get(t, srv, "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type: %q", ct)
	}
	for _, want := range []string{"ACTIVE", "EXTENDED", "WASH", ".#.."} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexPageFinished(t *testing.T) {
	srv, tracker := newTestServer(t)
	tracker.Update(cycle.StateFinished, cycle.ModeNormal, "", 0, 0, cycle.DutyOff, cycle.EventCounts{Finished: 1})

	res, body := get(t, srv, "/index.html")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if !strings.Contains(body, "FINISHED") {
		t.Error("page missing FINISHED state")
	}
	// Phase is blank outside an active cycle.
	if !strings.Contains(body, "-") {
		t.Error("page missing placeholder for empty phase")
	}
}

func TestJSONEndpoint(t *testing.T) {
	srv, tracker := newTestServer(t)
	tracker.Update(cycle.StateActive, cycle.ModeNormal, cycle.PhaseSpin, 70, 0b1111, cycle.DutySpin, cycle.EventCounts{})

	res, body := get(t, srv, "/index.json")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: %q", ct)
	}

	var out status.StatusJSON
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Status.State != "ACTIVE" || out.Status.Phase != "SPIN" {
		t.Errorf("unexpected status: %+v", out.Status)
	}
	if out.Status.ElapsedTicks != 70 {
		t.Errorf("elapsed: %d", out.Status.ElapsedTicks)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	res, _ := get(t, srv, "/nope")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("status: %d", res.StatusCode)
	}
}
