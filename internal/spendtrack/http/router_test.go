package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	httpapi "github.com/spendtrack/spendtrack/internal/spendtrack/http"
	"github.com/spendtrack/spendtrack/internal/spendtrack/service"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store/drivers/sqlite"
	"github.com/spendtrack/spendtrack/pkg/idx"
	"github.com/spendtrack/spendtrack/pkg/jwtx"
)

var (
	routerSecret = []byte("router-test-secret-with-32-byte!")
	routerIssuer = "spendtrack-test"
)

type testApp struct {
	server *httptest.Server
	store  store.Store
	signer jwtx.Signer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHS256(routerSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(routerSecret, routerIssuer)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(signer, verifier, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:     st,
		Signer:    signer,
		Issuer:    routerIssuer,
		AccessTTL: time.Hour,
	}
	router.UserService = &service.UserService{Store: st}
	router.ExpenseService = &service.ExpenseService{Store: st}
	router.AdminService = &service.AdminService{Store: st}
	router.IdentityService = &service.IdentityService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{server: server, store: st, signer: signer}
}

func (a *testApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedUser inserts an account directly, bypassing the signup endpoint, so
// tests can create role combinations signup never grants.
func (a *testApp) seedUser(t *testing.T, username string, roles []string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "hash",
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, a.store.Users().CreateUser(context.Background(), user))
	return user
}

func (a *testApp) tokenFor(t *testing.T, username string, ttl time.Duration, now time.Time) string {
	t.Helper()

	claims := jwtx.NewAccessClaims(username, routerIssuer, ttl, now)
	token, err := a.signer.Sign(claims)
	require.NoError(t, err)
	return token
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func TestPublicPathsNeedNoToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/livez", "/readyz"} {
		resp := app.request(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", path)
	}
}

func TestSignupLoginExpenseFlow(t *testing.T) {
	app := newTestApp(t)
	creds := credentials{Username: "alice", Password: "secret-password"}

	resp := app.request(t, http.MethodPost, "/signup", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[domain.AccessToken](t, resp)
	require.Equal(t, "Bearer", login.TokenType)
	require.NotEmpty(t, login.Token)

	resp = app.request(t, http.MethodGet, "/expenses", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/expenses", login.Token, map[string]any{
		"description":  "weekly groceries",
		"category":     "groceries",
		"amount_cents": 4250,
		"date":         "2026-08-28",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[map[string]any](t, resp)
	require.NotEmpty(t, created["id"])

	resp = app.request(t, http.MethodGet, "/expenses", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]map[string]any](t, resp)
	require.Len(t, list, 1)
}

func TestSignupRejectsDuplicate(t *testing.T) {
	app := newTestApp(t)
	creds := credentials{Username: "alice", Password: "secret-password"}

	resp := app.request(t, http.MethodPost, "/signup", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/signup", "", creds)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp := app.request(t, http.MethodPost, "/signup", "",
		credentials{Username: "alice", Password: "secret-password"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/login", "",
		credentials{Username: "alice", Password: "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/login", "",
		credentials{Username: "nobody", Password: "secret-password"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedPathsRejectAnonymous(t *testing.T) {
	app := newTestApp(t)

	resp := app.request(t, http.MethodGet, "/expenses", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
}

func TestExpiredTokenIsUnauthenticatedNotServerError(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", domain.DefaultRoles())

	expired := app.tokenFor(t, "alice", time.Hour, time.Now().UTC().Add(-2*time.Hour))

	resp := app.request(t, http.MethodGet, "/expenses", expired, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGarbageTokenIsUnauthenticated(t *testing.T) {
	app := newTestApp(t)

	resp := app.request(t, http.MethodGet, "/expenses", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminPathsRequireAdminRole(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", domain.DefaultRoles())
	app.seedUser(t, "root", []string{domain.RoleUser, domain.RoleAdmin})

	now := time.Now().UTC()
	userToken := app.tokenFor(t, "alice", time.Hour, now)
	adminToken := app.tokenFor(t, "root", time.Hour, now)

	resp := app.request(t, http.MethodGet, "/admin/users", userToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decodeBody[[]map[string]any](t, resp)
	require.Len(t, users, 2)
}

func TestTokenForDeletedUserIsUnauthenticated(t *testing.T) {
	app := newTestApp(t)

	// A well-formed token whose subject no longer exists must read as
	// anonymous, not as a server failure.
	orphan := app.tokenFor(t, "ghost", time.Hour, time.Now().UTC())

	resp := app.request(t, http.MethodGet, "/expenses", orphan, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
