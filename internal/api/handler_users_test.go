package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-booking-backend/internal/model"
)

func TestCreateUser_ByAdministrator(t *testing.T) {
	env := newTestEnv(t)
	world := env.seed(t)
	body := map[string]any{
		"username":  "per",
		"email":     "per@example.com",
		"password":  "hunter22",
		"fullName":  "Per Hansen",
		"apartment": "4D",
		"userType":  "ComplexAdmin",
		"isAdmin":   true,
		"complexId": world.complex.ID,
	}

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/users", env.token(t, world.resident), body).Code)

	w := env.do(t, http.MethodPost, "/api/users", env.token(t, world.admin), body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.User](t, w)
	assert.True(t, created.IsAdmin)
	assert.Equal(t, "ComplexAdmin", created.UserType)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "per", "password": "hunter22"})
	require.Equal(t, http.StatusOK, login.Code)
	claims, err := env.tokens.Validate(decode[loginResponse](t, login).Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	require.Len(t, claims.Complexes, 1)
	assert.Equal(t, world.complex.ID, claims.Complexes[0].ID)

	t.Run("unknown user type", func(t *testing.T) {
		body["username"], body["email"], body["userType"] = "per2", "per2@example.com", "Janitor"
		w := env.do(t, http.MethodPost, "/api/users", env.token(t, world.admin), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[errorBody](t, w).Message, "userType must be one of")
	})
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	world := env.seed(t)
	path := fmt.Sprintf("/api/users/%d", world.resident.ID)
	token := env.token(t, world.resident)

	w := env.do(t, http.MethodPut, path, token, map[string]any{"fullName": "Anna B.", "password": "new-secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Anna B.", decode[model.User](t, w).FullName)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "anna", "password": "new-secret"})
	assert.Equal(t, http.StatusOK, login.Code)

	testCases := []struct {
		name   string
		token  string
		body   map[string]any
		status int
	}{
		{"residents cannot promote themselves", token, map[string]any{"isAdmin": true}, http.StatusForbidden},
		{"others cannot edit the profile", env.token(t, world.outsider), map[string]any{"fullName": "X"}, http.StatusForbidden},
		{"email taken by another user", token, map[string]any{"email": "olav@example.com"}, http.StatusConflict},
		{"administrators may change roles", env.token(t, world.admin), map[string]any{"userType": "ComplexAdmin"}, http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, path, tc.token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestGetAndDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	world := env.seed(t)
	path := fmt.Sprintf("/api/users/%d", world.resident.ID)

	w := env.do(t, http.MethodGet, path, env.token(t, world.outsider), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anna", decode[model.User](t, w).Username)

	booked := env.do(t, http.MethodPost, "/api/bookings", env.token(t, world.resident), bookingBody(world, "2099-05-01"))
	require.Equal(t, http.StatusCreated, booked.Code)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, path, env.token(t, world.resident), nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path, env.token(t, world.admin), nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, env.token(t, world.admin), nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, env.token(t, world.admin), nil).Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/bookings/laundryroom/%d", world.room.ID), env.token(t, world.admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
