package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"laundry-booking-backend/internal/auth"
	"laundry-booking-backend/internal/parse"
	"laundry-booking-backend/internal/store"
)

// Notifier queues booking confirmations.
type Notifier interface {
	Dispatch(bookingID int64) bool
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	auth     *auth.Service
	webpush  *webpush.Options
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewHandler creates a new API handler. notifier may be nil when push is disabled.
func NewHandler(s store.Store, authSvc *auth.Service, webpushOptions *webpush.Options, notifier Notifier, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		store:    s,
		auth:     authSvc,
		webpush:  webpushOptions,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// today is the current date in the service timezone.
func (h *Handler) today() string {
	return parse.Today(h.now(), h.loc)
}

// paramID parses a positive integer path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortJSON(c, http.StatusBadRequest, codeValidation, "Invalid "+name)
		return 0, false
	}
	return id, true
}
