package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T) string {
	t.Helper()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestRecordersAppearInExposition(t *testing.T) {
	RecordRequest(http.MethodPost, "/api/bookings", http.StatusBadRequest, 20*time.Millisecond)
	RecordRequest(http.MethodGet, "", 0, time.Millisecond)
	BookingRecorder{}.RecordAdmission("slot_taken")
	BookingRecorder{}.RecordCancellation("")
	RecordCleanup(4, nil)
	RecordCleanup(0, errors.New("locked"))

	out := scrape(t)
	for _, want := range []string{
		`courtbook_http_requests_total{method="POST",route="/api/bookings",status="400"}`,
		`courtbook_http_requests_total{method="GET",route="unmatched",status="200"}`,
		`courtbook_booking_admissions_total{outcome="slot_taken"}`,
		`courtbook_booking_cancellations_total{outcome="unknown"}`,
		`courtbook_cleanup_runs_total{result="error"}`,
		`courtbook_bookings_cleaned_total`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected exposition to contain %s", want)
		}
	}
}
