// Package server provides the HTTP server implementation for the fibdev API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/sequenz/fibdev/internal/errors"
	"github.com/sequenz/fibdev/internal/fib"
	"github.com/sequenz/fibdev/internal/logging"
	"github.com/sequenz/fibdev/internal/metrics"
	"github.com/sequenz/fibdev/internal/service"
	"github.com/sequenz/fibdev/internal/sysmon"
)

// DefaultAlgorithm is the strategy used when a request omits the algo parameter.
const DefaultAlgorithm = "table"

// shutdownGracePeriod bounds how long in-flight requests may drain on stop.
const shutdownGracePeriod = 10 * time.Second

// Server is the HTTP front end over the calculation service. It owns the
// mux, the middleware chain, and the listener lifecycle.
type Server struct {
	addr           string
	svc            service.Service
	factory        fib.CalculatorFactory
	maxIndex       uint64
	logger         logging.Logger
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	memCollector   *metrics.MemoryCollector
	httpServer     *http.Server
}

// Option is a functional option configuring the Server.
type Option func(*Server)

// New creates a Server listening on addr, serving calculations bounded at
// maxIndex through the given factory.
func New(addr string, factory fib.CalculatorFactory, maxIndex uint64, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		factory:        factory,
		maxIndex:       maxIndex,
		logger:         logging.NewDefaultLogger(),
		securityConfig: DefaultSecurityConfig(),
		memCollector:   metrics.NewMemoryCollector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.svc == nil {
		s.svc = service.NewCalculatorService(factory, maxIndex)
	}
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// routes assembles the mux with the full middleware chain applied to the
// calculation endpoint. Health and metrics bypass rate limiting so probes
// and scrapes are never shed.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	calculate := s.loggingMiddleware(s.securityHeadersMiddleware(s.handleCalculate))
	if s.rateLimiter != nil {
		calculate = RateLimitMiddleware(s.rateLimiter, calculate)
	}

	mux.HandleFunc("/api/fib", calculate)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.loggingMiddleware(s.handleStatus))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run starts the listener and blocks until ctx is canceled or the listener
// fails. Shutdown is graceful within shutdownGracePeriod.
//
// Parameters:
//   - ctx: The context whose cancellation triggers shutdown.
//
// Returns:
//   - error: The listener error, or nil on clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", logging.String("addr", s.addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleCalculate serves GET /api/fib?k=N[&algo=name].
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "only GET is supported")
		return
	}

	k, algoName, err := s.parseCalculateParams(r)
	if err != nil {
		pe := err.(parseError)
		s.writeError(w, pe.StatusCode, http.StatusText(pe.StatusCode), pe.Message)
		return
	}

	start := time.Now()
	result, err := s.svc.Calculate(r.Context(), algoName, k)
	duration := time.Since(start)

	resp := Response{
		K:         k,
		Duration:  duration.Round(time.Microsecond).String(),
		Algorithm: algoName,
	}

	if err != nil {
		resp.Error = err.Error()
		s.writeJSON(w, statusForError(err), resp)
		return
	}

	resp.Result = result.Text
	resp.Digits = result.Digits
	s.writeJSON(w, http.StatusOK, resp)
}

// parseCalculateParams extracts and validates the k and algo query parameters.
func (s *Server) parseCalculateParams(r *http.Request) (uint64, string, error) {
	kParam := r.URL.Query().Get("k")
	if kParam == "" {
		return 0, "", parseError{Message: "missing required parameter 'k'", StatusCode: http.StatusBadRequest}
	}
	k, err := strconv.ParseUint(kParam, 10, 64)
	if err != nil {
		return 0, "", parseError{Message: "parameter 'k' must be a non-negative integer", StatusCode: http.StatusBadRequest}
	}

	algoName := r.URL.Query().Get("algo")
	if algoName == "" {
		algoName = DefaultAlgorithm
	}
	if !s.factory.Has(algoName) {
		return 0, "", parseError{Message: "unknown algorithm '" + algoName + "'", StatusCode: http.StatusBadRequest}
	}
	return k, algoName, nil
}

// handleHealth serves liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleStatus reports configuration plus process and host resource usage.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.memCollector.Snapshot()
	sys := sysmon.Sample()
	s.writeJSON(w, http.StatusOK, StatusResponse{
		MaxIndex:       s.maxIndex,
		Algorithms:     s.factory.List(),
		HeapAllocBytes: snap.HeapAlloc,
		NumGC:          snap.NumGC,
		CPUPercent:     sys.CPUPercent,
		MemPercent:     sys.MemPercent,
	})
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch apperrors.ExitCodeFor(err) {
	case apperrors.ExitErrorCapacity:
		return http.StatusUnprocessableEntity
	case apperrors.ExitErrorBusy:
		return http.StatusConflict
	case apperrors.ExitErrorCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON marshals v with the proper content type and status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", err)
	}
}

// writeError writes a standardized error response.
func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
