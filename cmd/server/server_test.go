package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tennisverein/courtbook/internal/api/auth"
	"github.com/tennisverein/courtbook/internal/booking"
	"github.com/tennisverein/courtbook/internal/config"
	"github.com/tennisverein/courtbook/internal/metrics"
	"github.com/tennisverein/courtbook/internal/models"
	"github.com/tennisverein/courtbook/internal/ratelimit"
	"github.com/tennisverein/courtbook/internal/testutil"
)

// TestServerEndToEnd drives the fully wired handler: login, booking, public
// listing, health and metrics.
func TestServerEndToEnd(t *testing.T) {
	prevCost := auth.PasswordCost
	auth.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { auth.PasswordCost = prevCost })

	cfg := config.Default()
	cfg.App.Environment = "test"
	cfg.App.SecretKey = "server-test-secret"
	cfg.Features.EnableMetrics = true

	database := testutil.NewTestDB(t)
	hash, err := auth.HashPassword("aufschlag1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := models.CreateUser(context.Background(), database.Queries, models.NewUser{
		Name:         "Steffi",
		Email:        "steffi@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc := booking.NewService(database, booking.Options{
		Courts:       cfg.Club.Courts,
		SlotDuration: cfg.SlotDuration(),
		LeadTime:     cfg.LeadTime(),
		Location:     cfg.Location(),
		Recorder:     metrics.BookingRecorder{},
	})
	sessions := auth.NewSessions(cfg.App.SecretKey, cfg.App.SessionTTL, false)
	limiter := ratelimit.New(ratelimit.DefaultConfig())
	t.Cleanup(limiter.Close)

	server, err := newServer(context.Background(), cfg, database, svc, sessions, limiter)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	resp := do(t, client, http.MethodGet, ts.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}

	resp = do(t, client, http.MethodPost, ts.URL+"/api/bookings", `{"courtId":1,"date":"2030-01-01","startTime":"10:00"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous booking: expected 401, got %d", resp.StatusCode)
	}

	resp = do(t, client, http.MethodPost, ts.URL+"/api/auth", `{"email":"steffi@example.com","password":"aufschlag1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	tomorrow := time.Now().In(cfg.Location()).AddDate(0, 0, 1).Format(models.DateLayout)
	body := fmt.Sprintf(`{"courtId":2,"date":%q,"startTime":"10:00"}`, tomorrow)
	resp = do(t, client, http.MethodPost, ts.URL+"/api/bookings", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("booking: expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, client, http.MethodPost, ts.URL+"/api/bookings", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("double booking: expected 400, got %d", resp.StatusCode)
	}

	resp = do(t, http.DefaultClient, http.MethodGet, ts.URL+"/api/public/bookings?courtId=2&date="+tomorrow, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public listing: expected 200, got %d", resp.StatusCode)
	}
	var day struct {
		Bookings []map[string]any `json:"bookings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&day); err != nil {
		t.Fatalf("decode public listing: %v", err)
	}
	if len(day.Bookings) != 1 {
		t.Fatalf("expected 1 public booking, got %d", len(day.Bookings))
	}
	if _, ok := day.Bookings[0]["userName"]; ok {
		t.Fatal("public listing must not reveal the booker")
	}

	resp = do(t, http.DefaultClient, http.MethodGet, ts.URL+"/metrics", "")
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `courtbook_http_requests_total{method="POST",route="/api/bookings",status="400"}`) {
		t.Fatalf("expected request metric for rejected booking, got:\n%s", raw)
	}
}

func TestMigrationsApplied(t *testing.T) {
	database := testutil.NewTestDB(t)

	for _, table := range []string{"users", "bookings", "court_blocks", "settings"} {
		var name string
		err := database.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?",
			table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			t.Fatalf("missing expected table %q after migrations", table)
		}
		if err != nil {
			t.Fatalf("query table %q existence: %v", table, err)
		}
	}
}

func do(t *testing.T, client *http.Client, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
