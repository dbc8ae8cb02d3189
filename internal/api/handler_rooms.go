package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-booking-backend/internal/mw"
	"laundry-booking-backend/internal/store"
)

// CreateRoom handles POST /api/laundry-rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.store.CreateRoom(c.Request.Context(), store.NewRoom{Name: req.Name, ComplexID: req.ComplexID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// MyRoom handles GET /api/laundry-rooms/mine.
func (h *Handler) MyRoom(c *gin.Context) {
	room, err := h.store.RoomForUser(c.Request.Context(), mw.Claims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// AccessibleRooms handles GET /api/laundry-rooms/accessible/:userId.
func (h *Handler) AccessibleRooms(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	rooms, err := h.store.AccessibleRooms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// Timeslots handles GET /api/laundry-rooms/:roomId/timeslots.
func (h *Handler) Timeslots(c *gin.Context) {
	roomID, ok := paramID(c, "roomId")
	if !ok {
		return
	}
	slots, err := h.store.TimeslotsForRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// RoomUsers handles GET /api/laundry-rooms/:roomId/users.
func (h *Handler) RoomUsers(c *gin.Context) {
	roomID, ok := paramID(c, "roomId")
	if !ok {
		return
	}
	users, err := h.store.ListUsersByRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
