package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sequenz/fibdev/internal/fib"
	"github.com/sequenz/fibdev/internal/logging"
	"github.com/sequenz/fibdev/internal/service"
)

// newTestServer builds a Server with quiet logging for handler tests.
func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(logging.NoOpLogger{})}, opts...)
	return New(":0", fib.NewDefaultFactory(), 500, opts...)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleCalculate_Success(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/fib?k=100")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Result != "354224848179261915075" {
		t.Errorf("result = %s, want 354224848179261915075", resp.Result)
	}
	if resp.Digits != 21 || resp.K != 100 || resp.Algorithm != "table" {
		t.Errorf("unexpected response fields: %+v", resp)
	}
}

func TestHandleCalculate_AlgoSelection(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/fib?k=50&algo=doubling")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Result != "12586269025" {
		t.Errorf("result = %s, want 12586269025", resp.Result)
	}
}

func TestHandleCalculate_ParameterErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"missing k", "/api/fib", http.StatusBadRequest},
		{"non-numeric k", "/api/fib?k=abc", http.StatusBadRequest},
		{"negative k", "/api/fib?k=-5", http.StatusBadRequest},
		{"unknown algo", "/api/fib?k=10&algo=matrix", http.StatusBadRequest},
		{"capacity exceeded", "/api/fib?k=501", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, tt.target)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestHandleCalculate_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/fib?k=10")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/fib?k=1")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, WithSecurityConfig(SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"https://example.com"},
		AllowedMethods: []string{http.MethodGet},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/fib?k=1", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the request origin", got)
	}

	// Disallowed origins get no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/api/fib?k=1", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q for disallowed origin, want empty", got)
	}
}

func TestRateLimiting(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 2})
	defer rl.Stop()
	s := newTestServer(t, WithRateLimiter(rl))

	for i := 0; i < 2; i++ {
		rec := doRequest(t, s, http.MethodGet, "/api/fib?k=1")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
	rec := doRequest(t, s, http.MethodGet, "/api/fib?k=1")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", rec.Code)
	}

	// Health bypasses rate limiting.
	rec = doRequest(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 1})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Error("first request from client A denied")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("second request from client A allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("first request from client B denied")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name string
		xff  string
		xri  string
		addr string
		want string
	}{
		{"x-forwarded-for single", "203.0.113.7", "", "10.0.0.1:1234", "203.0.113.7"},
		{"x-forwarded-for list", "203.0.113.7, 10.0.0.2", "", "10.0.0.1:1234", "203.0.113.7"},
		{"x-real-ip", "", "203.0.113.9", "10.0.0.1:1234", "203.0.113.9"},
		{"remote addr", "", "", "10.0.0.1:1234", "10.0.0.1"},
		{"ipv6 remote addr", "", "", "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.addr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.MaxIndex != 500 {
		t.Errorf("MaxIndex = %d, want 500", resp.MaxIndex)
	}
	if len(resp.Algorithms) != 2 {
		t.Errorf("Algorithms = %v, want two entries", resp.Algorithms)
	}
}

func TestStubService(t *testing.T) {
	// WithService swaps in a fake, keeping handler tests independent of the
	// real engines.
	stub := stubService{result: fib.Result{Text: "42", Digits: 2}}
	s := newTestServer(t, WithService(stub))

	rec := doRequest(t, s, http.MethodGet, "/api/fib?k=7")
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Result != "42" {
		t.Errorf("result = %s, want stubbed 42", resp.Result)
	}
}

// stubService is a hand-rolled fake for the service interface.
type stubService struct {
	result fib.Result
	err    error
}

var _ service.Service = stubService{}

func (s stubService) Calculate(context.Context, string, uint64) (fib.Result, error) {
	return s.result, s.err
}
