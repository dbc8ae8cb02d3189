package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"laundry-booking-backend/internal/mw"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(mw.RequestIDHeader))
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"username":  "kari",
		"email":     "kari@example.com",
		"password":  "hunter22",
		"fullName":  "Kari Nordmann",
		"apartment": "3C",
	}

	w := env.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]any](t, w)
	assert.Equal(t, "kari", created["username"])
	assert.Equal(t, "DailyUser", created["userType"])
	assert.Equal(t, false, created["isAdmin"])
	assert.NotContains(t, created, "passwordHash")
	assert.NotContains(t, w.Body.String(), "hunter22")

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		dup := map[string]any{"username": "kari", "email": "other@example.com", "password": "hunter22"}
		w := env.do(t, http.MethodPost, "/api/auth/register", "", dup)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "username_taken", decode[errorBody](t, w).Error)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup := map[string]any{"username": "kari2", "email": "kari@example.com", "password": "hunter22"}
		w := env.do(t, http.MethodPost, "/api/auth/register", "", dup)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "email_taken", decode[errorBody](t, w).Error)
	})

	t.Run("invalid fields are named in the message", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"username": "x", "email": "nope", "password": "1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[errorBody](t, w)
		assert.Equal(t, "validation_failed", body.Error)
		assert.Contains(t, body.Message, "email must be a valid email address")
		assert.Contains(t, body.Message, "password")
	})

	t.Run("malformed json", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register", "", "not an object")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_failed", decode[errorBody](t, w).Error)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	world := env.seed(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "anna", "password": "secret-anna"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[loginResponse](t, w)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := env.tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, world.resident.ID, claims.UserID)
	require.Len(t, claims.Complexes, 1)
	assert.Equal(t, "Solsiden", claims.Complexes[0].Name)

	wrongPassword := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "anna", "password": "nope"})
	unknownUser := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ghost", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.Equal(t, "invalid_credentials", decode[errorBody](t, wrongPassword).Error)
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t, withLimiter(mw.NewIPRateLimiter(rate.Limit(0.001), 1)))
	creds := map[string]string{"username": "ghost", "password": "nope"}

	first := env.do(t, http.MethodPost, "/api/auth/login", "", creds)
	second := env.do(t, http.MethodPost, "/api/auth/login", "", creds)

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Only the auth group is limited.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/health", "", nil).Code)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/laundry-rooms/mine", tc.header, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := newRequest(http.MethodOptions, "/api/bookings")
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(env, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
