package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tennisverein/courtbook/internal/api/authz"
)

func testSessions(now time.Time) *Sessions {
	s := NewSessions("test-secret", time.Hour, false)
	s.now = func() time.Time { return now }
	return s
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: value})
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	s := testSessions(time.Now())
	rec := httptest.NewRecorder()

	if err := s.Issue(rec, &authz.AuthUser{ID: 42, Email: "a@example.com", IsAdmin: true}); err != nil {
		t.Fatalf("issue: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != sessionCookieName || !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes %+v", cookie)
	}
	if cookie.MaxAge != 3600 {
		t.Fatalf("expected MaxAge 3600, got %d", cookie.MaxAge)
	}

	user, err := s.FromRequest(requestWithCookie(cookie.Value))
	if err != nil {
		t.Fatalf("from request: %v", err)
	}
	if user == nil || user.ID != 42 || user.Email != "a@example.com" || !user.IsAdmin {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestSessionExpired(t *testing.T) {
	issuedAt := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	s := testSessions(issuedAt)

	token, err := s.Sign(&authz.AuthUser{ID: 1})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = s.FromRequest(requestWithCookie(token))
	if !errors.Is(err, authz.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionRejectsForeignSignature(t *testing.T) {
	other := NewSessions("other-secret", time.Hour, false)
	token, err := other.Sign(&authz.AuthUser{ID: 1})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := testSessions(time.Now())
	_, err = s.FromRequest(requestWithCookie(token))
	if err == nil || errors.Is(err, authz.ErrSessionExpired) {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, err := s.FromRequest(requestWithCookie("garbage")); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestSessionNoCookie(t *testing.T) {
	s := testSessions(time.Now())
	user, err := s.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || user != nil {
		t.Fatalf("expected nil user and nil error, got %+v %v", user, err)
	}
}

func TestSessionMissingSecret(t *testing.T) {
	s := NewSessions("", time.Hour, false)
	if _, err := s.Sign(&authz.AuthUser{ID: 1}); !errors.Is(err, errSessionConfigMissing) {
		t.Fatalf("expected errSessionConfigMissing, got %v", err)
	}
}

func TestClearExpiresCookie(t *testing.T) {
	s := NewSessions("secret", time.Hour, true)
	rec := httptest.NewRecorder()
	s.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || !cookies[0].Secure {
		t.Fatalf("unexpected clear cookie %+v", cookies)
	}
}
