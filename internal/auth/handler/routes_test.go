package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
	"github.com/ccabucoo/chick-n-needs/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterRoutes verifies that every route is mounted. A 404 means the
// route is missing; any other status is the handler doing its job.
func TestRegisterRoutes(t *testing.T) {
	f := newHandlerFixture(t)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/health"},
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/refresh"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodPut, "/api/auth/profile"},
		{http.MethodPut, "/api/auth/password"},
		{http.MethodGet, "/api/auth/sessions"},
		{http.MethodDelete, "/api/auth/sessions/some-id"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPatch, "/api/admin/users/some-id/role"},
		{http.MethodGet, "/api/admin/users/some-id/sessions"},
		{http.MethodDelete, "/api/admin/users/some-id/sessions"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := f.app.Test(req)
			require.NoError(t, err)

			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Access token required", body["error"])
	})

	t.Run("header without bearer scheme", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Token abcdef")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Token verification failed", body["error"])
	})

	t.Run("expired token", func(t *testing.T) {
		f := newHandlerFixture(t)

		expired := *f.tokens
		expired.AccessTokenExpiry = -time.Minute
		token, _, err := expired.GenerateAccessToken("user-1", "demo@example.com", constant.RoleCustomer, "sess-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Token expired", body["error"])
	})

	t.Run("valid token without a live session", func(t *testing.T) {
		f := newHandlerFixture(t)

		token, _, err := f.tokens.GenerateAccessToken("user-1", "demo@example.com", constant.RoleCustomer, "no-such-session")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Session expired or invalid", body["error"])
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	loginAs := func(t *testing.T, f *handlerFixture, user *domain.User) string {
		t.Helper()
		f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, testIP, true).Return(nil)

		resp := postJSON(t, f.app, "/api/auth/login", map[string]string{
			"email":    user.Email,
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decodeBody(t, resp)["token"].(string)
	}

	t.Run("customer is refused", func(t *testing.T) {
		f := newHandlerFixture(t)
		token := loginAs(t, f, demoUser(t))

		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Insufficient permissions", body["error"])
	})

	t.Run("admin passes through", func(t *testing.T) {
		f := newHandlerFixture(t)
		admin := demoUser(t)
		admin.ID = "admin-1"
		admin.Email = "admin@example.com"
		admin.Role = constant.RoleAdmin
		token := loginAs(t, f, admin)

		f.repo.EXPECT().ListUsers(gomock.Any()).Return([]*domain.User{admin}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Len(t, body["users"].([]any), 1)
	})

	t.Run("admin force logout", func(t *testing.T) {
		f := newHandlerFixture(t)
		admin := demoUser(t)
		admin.ID = "admin-1"
		admin.Email = "admin@example.com"
		admin.Role = constant.RoleAdmin
		adminToken := loginAs(t, f, admin)

		customer := demoUser(t)
		customerToken := loginAs(t, f, customer)

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+customer.ID+"/sessions", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminToken)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["sessions_removed"])

		// The customer's token no longer passes the gate.
		req = httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+customerToken)
		resp, err = f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
