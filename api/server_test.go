package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matt-g-everett/ledtween/stream"
)

type fakeController struct {
	calls []string
	st    stream.Status
}

func (c *fakeController) Pause() {
	c.calls = append(c.calls, "pause")
	c.st.Paused = true
}

func (c *fakeController) Resume() {
	c.calls = append(c.calls, "resume")
	c.st.Paused = false
}

func (c *fakeController) Stop() {
	c.calls = append(c.calls, "stop")
	c.st.Running = false
}

func (c *fakeController) Next() {
	c.calls = append(c.calls, "next")
	c.st.Index++
}

func (c *fakeController) Status() stream.Status { return c.st }

var inline = RunnerFunc(func(fn func()) { fn() })

func newTestApi(c Controller, r Runner) *Api {
	return NewApi(":0", c, r, log.New(io.Discard, "", 0))
}

func TestApiActions(t *testing.T) {
	tests := []struct {
		path string
		call string
	}{
		{"/pause", "pause"},
		{"/resume", "resume"},
		{"/stop", "stop"},
		{"/next", "next"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c := &fakeController{st: stream.Status{Scene: "sweep", Running: true}}
			h := newTestApi(c, inline).Handler()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status code = %d", rec.Code)
			}
			if len(c.calls) != 1 || c.calls[0] != tt.call {
				t.Errorf("calls = %v, want [%s]", c.calls, tt.call)
			}
			var st stream.Status
			if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
				t.Fatal(err)
			}
			if st != c.st {
				t.Errorf("body = %+v, want %+v", st, c.st)
			}
		})
	}
}

func TestApiStatus(t *testing.T) {
	c := &fakeController{st: stream.Status{Scene: "rainbow", Index: 2, Running: true, Clips: 3}}
	rec := httptest.NewRecorder()
	newTestApi(c, inline).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("code = %d, content type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	want := `{"scene":"rainbow","index":2,"running":true,"paused":false,"clips":3}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
	if len(c.calls) != 0 {
		t.Errorf("status changed the controller: %v", c.calls)
	}
}

func TestApiMethodNotAllowed(t *testing.T) {
	c := &fakeController{}
	rec := httptest.NewRecorder()
	newTestApi(c, inline).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pause", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /pause = %d, want 405", rec.Code)
	}
	if len(c.calls) != 0 {
		t.Errorf("calls = %v", c.calls)
	}
}

func TestApiRunnerTimeout(t *testing.T) {
	c := &fakeController{}
	stalled := RunnerFunc(func(func()) {})
	a := newTestApi(c, stalled)
	a.timeout = 10 * time.Millisecond

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pause", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deadline exceeded") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestApiLateRunnerAfterTimeout(t *testing.T) {
	c := &fakeController{st: stream.Status{Scene: "late"}}
	var queued []func()
	a := newTestApi(c, RunnerFunc(func(fn func()) { queued = append(queued, fn) }))
	a.timeout = 10 * time.Millisecond

	st, err := a.snapshot(context.Background(), Controller.Next)
	if !errors.Is(err, context.DeadlineExceeded) || st.Scene != "" {
		t.Fatalf("snapshot = %+v, %v, want empty status and deadline exceeded", st, err)
	}

	finished := make(chan struct{})
	go func() {
		for _, fn := range queued {
			fn()
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("late work blocked the runner")
	}
	if len(c.calls) != 1 {
		t.Errorf("calls = %v, want the late next to still run", c.calls)
	}
}

func TestApiRunsOnRunnerGoroutine(t *testing.T) {
	c := &fakeController{}
	work := make(chan func())
	runner := RunnerFunc(func(fn func()) { work <- fn })
	go func() {
		fn := <-work
		fn()
	}()

	rec := httptest.NewRecorder()
	newTestApi(c, runner).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/next", nil))
	if rec.Code != http.StatusOK || len(c.calls) != 1 {
		t.Errorf("code = %d, calls = %v", rec.Code, c.calls)
	}
}
