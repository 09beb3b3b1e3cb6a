package courtblocks

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tennisverein/courtbook/internal/api/authz"
	"github.com/tennisverein/courtbook/internal/models"
	"github.com/tennisverein/courtbook/internal/testutil"
)

func setupCourtBlocksTest(t *testing.T) (member, admin *authz.AuthUser) {
	t.Helper()

	database := testutil.NewTestDB(t)
	store = nil
	courts = 0
	storeOnce = sync.Once{}
	InitHandlers(database, 3)
	t.Cleanup(func() {
		store = nil
		courts = 0
		storeOnce = sync.Once{}
	})

	m := testutil.CreateUser(t, database, "member@example.com", false)
	a := testutil.CreateUser(t, database, "admin@example.com", true)
	return &authz.AuthUser{ID: m.ID}, &authz.AuthUser{ID: a.ID, IsAdmin: true}
}

func serve(user *authz.AuthUser, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != nil {
		req = req.WithContext(authz.ContextWithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	HandleCourtBlocks(rec, req)
	return rec
}

func TestCourtBlocksAdminOnly(t *testing.T) {
	member, _ := setupCourtBlocksTest(t)

	if rec := serve(nil, http.MethodGet, "/api/court-blocks", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec := serve(member, http.MethodGet, "/api/court-blocks", "")
	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Body.String(), msgAdminOnly) {
		t.Fatalf("expected 403, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCourtBlockLifecycle(t *testing.T) {
	_, admin := setupCourtBlocksTest(t)

	rec := serve(admin, http.MethodPost, "/api/court-blocks",
		`{"courtId":2,"startDate":"2025-06-10","endDate":"2025-06-12","reason":"  Sanierung  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created createResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Block.Reason != "Sanierung" || created.Message != msgCreated {
		t.Fatalf("unexpected response %+v", created)
	}

	rec = serve(admin, http.MethodGet, "/api/court-blocks", "")
	var blocks []models.CourtBlock
	if err := json.NewDecoder(rec.Body).Decode(&blocks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(blocks) != 1 || blocks[0].ID != created.Block.ID {
		t.Fatalf("unexpected blocks %+v", blocks)
	}

	target := fmt.Sprintf("/api/court-blocks?id=%d", created.Block.ID)
	if rec := serve(admin, http.MethodDelete, target, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = serve(admin, http.MethodDelete, target, "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), msgNotFound) {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCourtBlockValidation(t *testing.T) {
	_, admin := setupCourtBlocksTest(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"reversed range", `{"courtId":1,"startDate":"2025-06-12","endDate":"2025-06-10","reason":"Turnier"}`, "Das Startdatum muss vor dem Enddatum liegen"},
		{"short reason", `{"courtId":1,"startDate":"2025-06-10","endDate":"2025-06-10","reason":" ab "}`, "Ungültige Eingabedaten"},
		{"unknown court", `{"courtId":4,"startDate":"2025-06-10","endDate":"2025-06-10","reason":"Turnier"}`, "Ungültige Eingabedaten"},
		{"bad date", `{"courtId":1,"startDate":"2025-02-30","endDate":"2025-03-01","reason":"Turnier"}`, "Ungültige Eingabedaten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(admin, http.MethodPost, "/api/court-blocks", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.message) {
				t.Fatalf("expected %q in %s", tt.message, rec.Body.String())
			}
		})
	}
}

func TestDeleteCourtBlockMissingID(t *testing.T) {
	_, admin := setupCourtBlocksTest(t)

	rec := serve(admin, http.MethodDelete, "/api/court-blocks", "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), msgMissingID) {
		t.Fatalf("expected 400 missing id, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteCourtBlockNonPositiveID(t *testing.T) {
	_, admin := setupCourtBlocksTest(t)

	rec := serve(admin, http.MethodDelete, "/api/court-blocks?id=-1", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), msgNotFound) {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(admin, http.MethodDelete, "/api/court-blocks?id=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}
