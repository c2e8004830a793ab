package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/nao1215/breachscan/internal/model"
	"github.com/nao1215/breachscan/internal/pipeline"
	"github.com/nao1215/breachscan/internal/report"
)

// Origin is recorded in the history for checks run by the server.
const Origin = "server"

// maxRequestBody bounds the POST /check body.
const maxRequestBody = 16 * 1024

// shutdownTimeout is how long in-flight checks get to finish on shutdown.
const shutdownTimeout = 30 * time.Second

// RequestIDHeader carries the per-request ID in responses.
const RequestIDHeader = "X-Request-ID"

// Error messages returned to clients.
const (
	msgInvalidBody = "Invalid request body"
	msgBusy        = "Too many checks in progress, try again shortly"
	msgFailed      = "Check could not be completed"
)

//go:embed web/index.html
var webFS embed.FS

// Recorder stores finished checks. history.Store satisfies it.
type Recorder interface {
	Save(ctx context.Context, origin string, report *model.CheckReport) error
}

// Server is the HTTP front end: a JSON check endpoint and the web form.
type Server struct {
	runner   pipeline.Runner
	logger   *slog.Logger
	sem      *semaphore.Weighted
	metrics  *metrics
	recorder Recorder
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInflight bounds the number of checks running at once.
func WithMaxInflight(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithRecorder saves every finished check.
func WithRecorder(r Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New creates a Server that runs checks with runner.
func New(runner pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  slog.New(slog.DiscardHandler),
		sem:     semaphore.NewWeighted(8),
		metrics: newMetrics(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Post("/check", s.check)
	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", "reason", context.Cause(ctx))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

// checkRequest is the POST /check body.
type checkRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorResponse is the body of every non-200 /check response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("request_id", w.Header().Get(RequestIDHeader))

	var req checkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		s.metrics.rejected.WithLabelValues("invalid_body").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	cred := model.NewCredential(req.Email, req.Password)
	if err := cred.Validate(); err != nil {
		reason := "invalid_email"
		if errors.Is(err, model.ErrEmptyPassword) {
			reason = "empty_password"
		}
		s.metrics.rejected.WithLabelValues(reason).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.metrics.rejected.WithLabelValues("busy").Inc()
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: msgBusy})
		return
	}
	defer s.sem.Release(1)

	s.metrics.inflight.Inc()
	rep, err := s.runner.Run(ctx, cred)
	s.metrics.inflight.Dec()
	if err != nil {
		logger.Warn("check aborted", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: msgFailed})
		return
	}

	s.metrics.observe(rep)
	logger.Info("check completed",
		"check_id", rep.ID,
		"email", rep.Target,
		"email_status", rep.Email.Status.String(),
		"password_known", rep.Password.Known(),
		"risk", rep.Risk.Level.String(),
		"duration", rep.Duration(),
	)

	if s.recorder != nil {
		if err := s.recorder.Save(context.WithoutCancel(ctx), Origin, rep); err != nil {
			logger.Warn("failed to record check", "check_id", rep.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, report.NewResponse(rep))
}

// requestID assigns every request a UUID, or keeps a well-formed one
// supplied by a proxy in front of the server.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
