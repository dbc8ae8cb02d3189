package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-booking-backend/internal/store"
)

// CreateComplex handles POST /api/complexes.
func (h *Handler) CreateComplex(c *gin.Context) {
	var req createComplexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ac, err := h.store.CreateComplex(c.Request.Context(), store.NewComplex{
		Name:    req.Name,
		Street:  req.Street,
		City:    req.City,
		Zipcode: req.Zipcode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ac)
}

// GetComplex handles GET /api/complexes/:id.
func (h *Handler) GetComplex(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ac, err := h.store.GetComplex(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ac)
}

// AddResident handles POST /api/complexes/:id/residents/:userId.
func (h *Handler) AddResident(c *gin.Context) {
	h.addMembership(c, h.store.AddResident)
}

// AddAdmin handles POST /api/complexes/:id/admins/:userId.
func (h *Handler) AddAdmin(c *gin.Context) {
	h.addMembership(c, h.store.AddAdmin)
}

func (h *Handler) addMembership(c *gin.Context, add func(ctx context.Context, userID, complexID int64) error) {
	complexID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if err := add(c.Request.Context(), userID, complexID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userId": userID, "complexId": complexID})
}
