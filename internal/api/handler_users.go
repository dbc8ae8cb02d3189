package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-booking-backend/internal/auth"
	"laundry-booking-backend/internal/mw"
	"laundry-booking-backend/internal/store"
)

// GetUser handles GET /api/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /api/users, the administrator's registration form.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Apartment: req.Apartment,
		UserType:  req.UserType,
		IsAdmin:   req.IsAdmin,
		ComplexID: req.ComplexID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /api/users/:id. Only administrators may change roles.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	claims := mw.Claims(c)
	if !claims.IsAdmin && (req.IsAdmin != nil || req.UserType != nil) {
		abortJSON(c, http.StatusForbidden, codeForbidden, "Only administrators can change roles")
		return
	}

	upd := store.UserUpdate{
		Email:     req.Email,
		FullName:  req.FullName,
		Apartment: req.Apartment,
		UserType:  req.UserType,
		IsAdmin:   req.IsAdmin,
	}
	if req.Password != nil {
		hash, err := h.auth.HashPassword(*req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		upd.PasswordHash = &hash
	}

	user, err := h.store.UpdateUser(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
