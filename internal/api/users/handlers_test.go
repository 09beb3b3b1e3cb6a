package users

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tennisverein/courtbook/internal/api/auth"
	"github.com/tennisverein/courtbook/internal/api/authz"
	"github.com/tennisverein/courtbook/internal/db"
	"github.com/tennisverein/courtbook/internal/models"
	"github.com/tennisverein/courtbook/internal/testutil"
)

type sentEmail struct {
	recipient string
	subject   string
}

type recordingSender struct {
	sent chan sentEmail
}

func (s *recordingSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.sent <- sentEmail{recipient: recipient, subject: subject}
	return nil
}

type usersTestContext struct {
	database *db.DB
	sender   *recordingSender
	member   *authz.AuthUser
	admin    *authz.AuthUser
}

func setupUsersTest(t *testing.T) usersTestContext {
	t.Helper()

	prevCost := auth.PasswordCost
	auth.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { auth.PasswordCost = prevCost })

	database := testutil.NewTestDB(t)
	sender := &recordingSender{sent: make(chan sentEmail, 4)}

	store = nil
	opts = Options{}
	storeOnce = sync.Once{}
	InitHandlers(database, Options{Sender: sender, ClubName: "TC Rot-Weiß"})
	t.Cleanup(func() {
		store = nil
		opts = Options{}
		storeOnce = sync.Once{}
	})

	m := testutil.CreateUser(t, database, "member@example.com", false)
	a := testutil.CreateUser(t, database, "admin@example.com", true)
	return usersTestContext{
		database: database,
		sender:   sender,
		member:   &authz.AuthUser{ID: m.ID},
		admin:    &authz.AuthUser{ID: a.ID, IsAdmin: true},
	}
}

func serve(user *authz.AuthUser, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/users", strings.NewReader(body))
	if user != nil {
		req = req.WithContext(authz.ContextWithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	HandleUsers(rec, req)
	return rec
}

func TestUsersAdminOnly(t *testing.T) {
	tc := setupUsersTest(t)

	if rec := serve(nil, http.MethodGet, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := serve(tc.member, http.MethodGet, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCreateUserIsActiveAndCanLogin(t *testing.T) {
	tc := setupUsersTest(t)

	rec := serve(tc.admin, http.MethodPost, `{"name":"Neu Mitglied","email":"Neu@Example.com","password":"geheim123","isAdmin":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.User
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.IsActive || created.Email != "neu@example.com" {
		t.Fatalf("unexpected user %+v", created)
	}

	row, err := models.UserForLogin(context.Background(), tc.database.Queries, "neu@example.com")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !auth.VerifyPassword(row.PasswordHash, "geheim123") {
		t.Fatal("expected password to verify")
	}

	rec = serve(tc.admin, http.MethodPost, `{"name":"Doppelt","email":"neu@example.com","password":"geheim123"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = serve(tc.admin, http.MethodPost, `{"name":"X","email":"x@example.com","password":"1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestActivationSendsEmail(t *testing.T) {
	tc := setupUsersTest(t)

	pending, err := models.CreateUser(context.Background(), tc.database.Queries, models.NewUser{
		Name:         "Warte Schlange",
		Email:        "pending@example.com",
		PasswordHash: "unused",
	})
	if err != nil {
		t.Fatalf("create pending user: %v", err)
	}

	body := fmt.Sprintf(`{"id":%d,"name":"Warte Schlange","email":"pending@example.com","isAdmin":false,"isActive":true}`, pending.ID)
	rec := serve(tc.admin, http.MethodPut, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	select {
	case sent := <-tc.sender.sent:
		if sent.recipient != "pending@example.com" || !strings.Contains(sent.subject, "TC Rot-Weiß") {
			t.Fatalf("unexpected email %+v", sent)
		}
	case <-time.After(time.Second):
		t.Fatal("expected activation email")
	}

	// Saving an already active user again does not resend.
	if rec := serve(tc.admin, http.MethodPut, body); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	select {
	case sent := <-tc.sender.sent:
		t.Fatalf("unexpected second email %+v", sent)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	tc := setupUsersTest(t)

	rec := serve(tc.admin, http.MethodPut, `{"id":9999,"name":"Niemand","email":"n@example.com","isAdmin":false,"isActive":true}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListUsers(t *testing.T) {
	tc := setupUsersTest(t)

	rec := serve(tc.admin, http.MethodGet, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []models.User
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("user listing must not expose password hashes")
	}
}
