package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-booking-backend/internal/mw"
	"laundry-booking-backend/internal/parse"
	"laundry-booking-backend/internal/store"
)

// CreateBooking handles POST /api/bookings. Residents book for themselves;
// an administrator may book on behalf of another user.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	claims := mw.Claims(c)
	userID := req.UserID
	if userID == 0 {
		userID = claims.UserID
	}
	if userID != claims.UserID && !claims.IsAdmin {
		abortJSON(c, http.StatusForbidden, codeForbidden, "Cannot book on behalf of another user")
		return
	}

	booking, err := h.store.CreateBooking(c.Request.Context(), store.NewBooking{
		UserID:        userID,
		MachineID:     req.MachineID,
		TimeslotID:    req.TimeslotID,
		LaundryRoomID: req.LaundryRoomID,
		BookingDate:   req.BookingDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(booking.ID)
	}
	log.Printf("Booking %d created: machine %d on %s by user %d", booking.ID, booking.MachineID, booking.BookingDate, booking.UserID)
	c.JSON(http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/:id.
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := h.store.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking handles DELETE /api/bookings/:id. Only the owner or an administrator may cancel.
func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	booking, err := h.store.GetBooking(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	claims := mw.Claims(c)
	if booking.UserID != claims.UserID && !claims.IsAdmin {
		abortJSON(c, http.StatusForbidden, codeForbidden, "Cannot cancel another user's booking")
		return
	}
	if err := h.store.DeleteBooking(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UserBookings handles GET /api/bookings/user/:userId.
func (h *Handler) UserBookings(c *gin.Context) {
	h.listBookings(c, "userId", h.store.BookingsForUser)
}

// RoomBookings handles GET /api/bookings/laundryroom/:roomId.
func (h *Handler) RoomBookings(c *gin.Context) {
	h.listBookings(c, "roomId", h.store.BookingsForRoom)
}

// MachineBookings handles GET /api/bookings/machine/:machineId.
func (h *Handler) MachineBookings(c *gin.Context) {
	h.listBookings(c, "machineId", h.store.BookingsForMachine)
}

// UpcomingBookings handles GET /api/bookings/upcoming/:roomId.
func (h *Handler) UpcomingBookings(c *gin.Context) {
	roomID, ok := paramID(c, "roomId")
	if !ok {
		return
	}
	bookings, err := h.store.UpcomingBookings(c.Request.Context(), roomID, h.today())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// RoomBookingsOnDate handles GET /api/bookings/laundryroom/:roomId/date/:date.
func (h *Handler) RoomBookingsOnDate(c *gin.Context) {
	roomID, ok := paramID(c, "roomId")
	if !ok {
		return
	}
	date, err := parse.Date(c.Param("date"))
	if err != nil {
		abortJSON(c, http.StatusBadRequest, codeValidation, "Date must look like 2024-05-01")
		return
	}
	bookings, err := h.store.BookingsForRoomOnDate(c.Request.Context(), roomID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) listBookings(c *gin.Context, param string, list func(ctx context.Context, id int64) ([]store.BookingView, error)) {
	id, ok := paramID(c, param)
	if !ok {
		return
	}
	bookings, err := list(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
