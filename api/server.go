package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/matt-g-everett/ledtween/stream"
)

// Controller is the playback surface exposed over HTTP and MQTT.
type Controller interface {
	Pause()
	Resume()
	Stop()
	Next()
	Status() stream.Status
}

// Runner runs fn on the goroutine that owns the controller.
// *tween.FrameLoop implements it.
type Runner interface {
	Post(fn func())
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(fn func())

func (f RunnerFunc) Post(fn func()) { f(fn) }

// DefaultTimeout bounds how long a request waits for the frame loop.
const DefaultTimeout = 2 * time.Second

// Api serves the control endpoints.
type Api struct {
	controller Controller
	runner     Runner
	logger     *log.Logger
	timeout    time.Duration

	server *http.Server
}

// NewApi creates an Api listening on addr.
func NewApi(addr string, controller Controller, runner Runner, logger *log.Logger) *Api {
	if logger == nil {
		logger = log.Default()
	}
	a := &Api{
		controller: controller,
		runner:     runner,
		logger:     logger,
		timeout:    DefaultTimeout,
	}
	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return a
}

// Handler returns the HTTP routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pause", a.action(Controller.Pause))
	mux.HandleFunc("POST /resume", a.action(Controller.Resume))
	mux.HandleFunc("POST /stop", a.action(Controller.Stop))
	mux.HandleFunc("POST /next", a.action(Controller.Next))
	mux.HandleFunc("GET /status", a.status)
	return mux
}

// Serve listens until Shutdown is called.
func (a *Api) Serve() error {
	a.logger.Printf("api: listening on %s", a.server.Addr)
	if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for open requests until ctx is done.
func (a *Api) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// run executes fn on the runner and waits for it.
func (a *Api) run(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	done := make(chan struct{})
	a.runner.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// snapshot runs fn on the runner and returns the controller status read
// right after it. fn may be nil.
func (a *Api) snapshot(ctx context.Context, fn func(Controller)) (stream.Status, error) {
	// buffered so a late closure never blocks or races with the caller
	result := make(chan stream.Status, 1)
	err := a.run(ctx, func() {
		if fn != nil {
			fn(a.controller)
		}
		result <- a.controller.Status()
	})
	if err != nil {
		return stream.Status{}, err
	}
	return <-result, nil
}

func (a *Api) action(fn func(Controller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := a.snapshot(r.Context(), fn)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.logger.Printf("api: %s %s", r.Method, r.URL.Path)
		writeJSON(w, http.StatusOK, st)
	}
}

func (a *Api) status(w http.ResponseWriter, r *http.Request) {
	st, err := a.snapshot(r.Context(), nil)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *Api) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Printf("api: %s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
