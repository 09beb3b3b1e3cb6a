package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/api/auth"
	"github.com/tennisverein/courtbook/internal/api/authz"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestRequestIDAndLogging(t *testing.T) {
	buf := captureLogs(t)

	var seenID string
	handler := ChainMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID = RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}),
		WithLogging,
		WithRecovery,
		WithRequestID,
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if seenID == "" || rec.Header().Get("X-Request-ID") != seenID {
		t.Fatalf("request id mismatch: header %q, context %q", rec.Header().Get("X-Request-ID"), seenID)
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"`+seenID+`"`) || !strings.Contains(out, `"status":418`) {
		t.Fatalf("unexpected access log: %s", out)
	}
}

func TestRecoveryAnswersJSON(t *testing.T) {
	captureLogs(t)

	handler := ChainMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
		WithRecovery,
		WithRequestID,
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("expected JSON error, got %q", rec.Header().Get("Content-Type"))
	}
}

func TestWithAuth(t *testing.T) {
	captureLogs(t)
	sessions := auth.NewSessions("middleware-secret", time.Hour, false)

	var (
		gotUser    *authz.AuthUser
		gotExpired bool
	)
	handler := WithAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = authz.UserFromContext(r.Context())
		gotExpired = authz.SessionExpired(r.Context())
	}))

	token, err := sessions.Sign(&authz.AuthUser{ID: 5, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if gotUser == nil || gotUser.ID != 5 || gotExpired {
		t.Fatalf("expected user 5, got %+v expired=%v", gotUser, gotExpired)
	}

	expiredSessions := auth.NewSessions("middleware-secret", time.Nanosecond, false)
	stale, err := expiredSessions.Sign(&authz.AuthUser{ID: 5})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: stale})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if gotUser != nil || !gotExpired {
		t.Fatalf("expected expired anonymous request, got %+v expired=%v", gotUser, gotExpired)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected stale cookie to be cleared")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "tampered"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if gotUser != nil || gotExpired {
		t.Fatalf("expected anonymous request, got %+v expired=%v", gotUser, gotExpired)
	}
}

func TestWithMetricsUsesPattern(t *testing.T) {
	mux := http.NewServeMux()
	var pattern string
	mux.HandleFunc("/api/bookings", func(w http.ResponseWriter, r *http.Request) {
		pattern = r.Pattern
	})

	rec := httptest.NewRecorder()
	ChainMiddleware(mux, WithMetrics).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings?courtId=1", nil))
	if pattern != "/api/bookings" {
		t.Fatalf("expected pattern /api/bookings, got %q", pattern)
	}
}
