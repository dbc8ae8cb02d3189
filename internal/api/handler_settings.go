package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-booking-backend/internal/mw"
)

// GetSettings handles GET /api/laundry-rooms/:roomId/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	roomID, ok := paramID(c, "roomId")
	if !ok {
		return
	}
	view, err := h.store.GetSettings(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveSettings handles PUT and POST /api/laundry-rooms/:roomId/settings.
// The submitted timeslots and machines replace the existing ones entirely.
func (h *Handler) SaveSettings(c *gin.Context) {
	roomID, ok := paramID(c, "roomId")
	if !ok {
		return
	}
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	allowed, err := h.store.CanManageRoom(ctx, mw.Claims(c).UserID, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		abortJSON(c, http.StatusForbidden, codeForbidden, "You do not manage this laundry room's complex")
		return
	}

	in, err := req.toInput()
	if err != nil {
		abortJSON(c, http.StatusBadRequest, codeValidation, capitalize(err.Error()))
		return
	}

	res, err := h.store.SaveSettings(ctx, roomID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.store.GetSettings(ctx, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsResponse{Settings: view, Replaced: res})
}
