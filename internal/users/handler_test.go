package users

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/rbac"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// newTestRouter mounts the user routes behind stand-ins for the
// authentication and tenant middleware so requests arrive the way the real
// router delivers them.
func newTestRouter(t *testing.T, repo Repository, caps []string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, stubHasher{}, nil, logger)
	h := NewHandler(logger, svc, rbac.Middleware{Logger: logger})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.ContextWithIdentity(req.Context(), shared.Identity{
				SessionID:    "sess-1",
				UserID:       "actor",
				TenantID:     "t1",
				Capabilities: caps,
			})
			ctx = shared.ContextWithTenant(ctx, "t1")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/users", h.MountRoutes)
	return r
}

func TestHandlerCreateUser(t *testing.T) {
	repo := newMemoryUserRepo()
	router := newTestRouter(t, repo, rbac.CapabilitiesFor(rbac.RoleAdmin))

	body := `{"id":"jane","name":"Jane Smith","nickname":"jane","phone":"+15550102030","email":"jane@shop.test","role":"cashier","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var payload struct {
		Success bool `json:"success"`
		Data    View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Equal(t, "jane", payload.Data.ID)
	require.Equal(t, "t1", payload.Data.TenantID)
	require.NotContains(t, rec.Body.String(), "secret1")
	require.NotContains(t, rec.Body.String(), "hashed:")
}

func TestHandlerCreateUserForbiddenForCashier(t *testing.T) {
	router := newTestRouter(t, newMemoryUserRepo(), rbac.CapabilitiesFor(rbac.RoleCashier))

	body := `{"id":"jane","name":"Jane Smith","nickname":"jane","phone":"+15550102030","email":"jane@shop.test","role":"cashier","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerCreateUserInvalidBody(t *testing.T) {
	router := newTestRouter(t, newMemoryUserRepo(), rbac.CapabilitiesFor(rbac.RoleAdmin))

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"id":`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCreateUserDuplicate(t *testing.T) {
	repo := newMemoryUserRepo()
	router := newTestRouter(t, repo, rbac.CapabilitiesFor(rbac.RoleAdmin))

	body := `{"id":"jane","name":"Jane Smith","nickname":"jane","phone":"+15550102030","email":"jane@shop.test","role":"cashier","password":"secret1"}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, "request %d", i)
	}
}

func TestHandlerGetUser(t *testing.T) {
	repo := newMemoryUserRepo()
	_, err := repo.Create(context.Background(), User{ID: "jane", Name: "Jane Smith", Email: "jane@shop.test", Role: "cashier", TenantID: "t1"})
	require.NoError(t, err)
	router := newTestRouter(t, repo, rbac.CapabilitiesFor(rbac.RoleCashier))

	req := httptest.NewRequest(http.MethodGet, "/users/jane", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerSearchUsers(t *testing.T) {
	repo := newMemoryUserRepo()
	for _, u := range []User{
		{ID: "jane", Name: "Jane Smith", Email: "jane@shop.test", Role: "cashier", TenantID: "t1"},
		{ID: "mara", Name: "Mara Smith", Email: "mara@shop.test", Role: "manager", TenantID: "t1"},
	} {
		_, err := repo.Create(context.Background(), u)
		require.NoError(t, err)
	}
	router := newTestRouter(t, repo, rbac.CapabilitiesFor(rbac.RoleCashier))

	req := httptest.NewRequest(http.MethodGet, "/users?role=manager&name=smith", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Data    SearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "Users found successfully", payload.Message)
	require.Equal(t, 1, payload.Data.Total)
	require.Equal(t, "mara", payload.Data.Users[0].ID)
}

func TestHandlerSearchUsersEmptyResult(t *testing.T) {
	router := newTestRouter(t, newMemoryUserRepo(), rbac.CapabilitiesFor(rbac.RoleCashier))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No users found")
}

func TestHandlerSearchUsersBadQuery(t *testing.T) {
	router := newTestRouter(t, newMemoryUserRepo(), rbac.CapabilitiesFor(rbac.RoleCashier))

	for _, target := range []string{"/users?page=abc", "/users?limit=abc", "/users?limit=101", "/users?page=-1"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestHandlerUpdateUser(t *testing.T) {
	repo := newMemoryUserRepo()
	_, err := repo.Create(context.Background(), User{ID: "jane", Name: "Jane Smith", Email: "jane@shop.test", Role: "cashier", TenantID: "t1"})
	require.NoError(t, err)
	router := newTestRouter(t, repo, rbac.CapabilitiesFor(rbac.RoleManager))

	req := httptest.NewRequest(http.MethodPut, "/users/jane", strings.NewReader(`{"name":"Jane Renamed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Jane Renamed")

	// An empty patch is rejected.
	req = httptest.NewRequest(http.MethodPut, "/users/jane", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDeleteUser(t *testing.T) {
	repo := newMemoryUserRepo()
	_, err := repo.Create(context.Background(), User{ID: "jane", Name: "Jane Smith", Email: "jane@shop.test", Role: "cashier", TenantID: "t1"})
	require.NoError(t, err)
	router := newTestRouter(t, repo, rbac.CapabilitiesFor(rbac.RoleAdmin))

	req := httptest.NewRequest(http.MethodDelete, "/users/jane", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"deleted":true`)

	req = httptest.NewRequest(http.MethodDelete, "/users/jane", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDeleteUserForbiddenForManager(t *testing.T) {
	repo := newMemoryUserRepo()
	_, err := repo.Create(context.Background(), User{ID: "jane", Name: "Jane Smith", Email: "jane@shop.test", Role: "cashier", TenantID: "t1"})
	require.NoError(t, err)
	router := newTestRouter(t, repo, rbac.CapabilitiesFor(rbac.RoleManager))

	req := httptest.NewRequest(http.MethodDelete, "/users/jane", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
