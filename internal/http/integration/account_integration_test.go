package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/geocoder89/accounthub/internal/config"
	"github.com/geocoder89/accounthub/internal/db"
	apphttp "github.com/geocoder89/accounthub/internal/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testConfig() config.Config {
	return config.Config{
		Env:           "test",
		JWTSecret:     "test-secret-key",
		TokenTTLHours: 24 * 365,
		BcryptCost:    4,
		RateLimit:     1000,
	}
}

// needs a real database; set TEST_DB_DSN to run

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping integration test")
	}

	ctx := context.Background()

	err := db.RunMigrations(ctx, dsn)

	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(logger, pool, nil, testConfig())

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `TRUNCATE users`)

	if err != nil {
		t.Fatalf("failed to truncate users: %v", err)
	}
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()

	err := json.Unmarshal(w.Body.Bytes(), out)

	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func TestAccountFlow_Signup_Login_Me_List_Edit(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	defer resetDB(t, pool)

	// SIGN UP

	w := doRequest(router, http.MethodPost, "/signup",
		`{"firstName":"Ann","secondName":"Lee","email":"ann@example.com","password":"pw123"}`, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("signup got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	var signup struct {
		Token string `json:"token"`
	}

	mustReadJSON(t, w, &signup)

	if signup.Token == "" {
		t.Fatalf("signup expected token, got empty")
	}

	// duplicate signup conflicts

	w = doRequest(router, http.MethodPost, "/signup",
		`{"firstName":"Ann","secondName":"Lee","email":"ann@example.com","password":"pw123"}`, "")

	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup got status %d, want %d, body=%s", w.Code, http.StatusConflict, w.Body.String())
	}

	// LOGIN

	w = doRequest(router, http.MethodPost, "/login",
		`{"email":"ann@example.com","password":"pw123"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}

	mustReadJSON(t, w, &login)

	if login.Token == "" || login.User.Email != "ann@example.com" {
		t.Fatalf("unexpected login body: %s", w.Body.String())
	}

	// the users surface requires a bearer token

	w = doRequest(router, http.MethodGet, "/users", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anon list got status %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = doRequest(router, http.MethodGet, "/users", "", login.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("list got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	// ME

	w = doRequest(router, http.MethodGet, "/me", "", login.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("me got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}

	mustReadJSON(t, w, &me)

	if me.ID != login.User.ID {
		t.Fatalf("me returned %q, want %q", me.ID, login.User.ID)
	}

	// EDIT

	w = doRequest(router, http.MethodPut, "/users/"+me.ID,
		`{"firstName":"Anne","secondName":"Lee","email":"anne@example.com","password":"pw456"}`, login.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("edit got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	// the old password no longer works, the new one does

	w = doRequest(router, http.MethodPost, "/login",
		`{"email":"anne@example.com","password":"pw123"}`, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("stale login got status %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = doRequest(router, http.MethodPost, "/login",
		`{"email":"anne@example.com","password":"pw456"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("fresh login got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestAccountFlow_PasswordNeverSerialized(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	defer resetDB(t, pool)

	w := doRequest(router, http.MethodPost, "/signup",
		`{"firstName":"Bob","secondName":"Ray","email":"bob@example.com","password":"hunter2"}`, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("signup got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/login",
		`{"email":"bob@example.com","password":"hunter2"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}

	var raw map[string]json.RawMessage
	mustReadJSON(t, w, &raw)

	var userFields map[string]json.RawMessage
	_ = json.Unmarshal(raw["user"], &userFields)

	for _, key := range []string{"password", "passwordHash", "password_hash"} {
		if _, ok := userFields[key]; ok {
			t.Fatalf("login response leaked %q: %s", key, w.Body.String())
		}
	}
}
