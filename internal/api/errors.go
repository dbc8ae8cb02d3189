package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"laundry-booking-backend/internal/auth"
	"laundry-booking-backend/internal/mw"
	"laundry-booking-backend/internal/store"
)

// Error codes returned in the "error" field.
const (
	codeValidation         = "validation_failed"
	codeNotFound           = "not_found"
	codeConflict           = "conflict"
	codeUsernameTaken      = "username_taken"
	codeEmailTaken         = "email_taken"
	codeSlotTaken          = "slot_taken"
	codeInvalidCredentials = "invalid_credentials"
	codeForbidden          = "forbidden"
	codeUnavailable        = "unavailable"
	codeInternal           = "internal_error"
)

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

// respondError maps store and auth errors to a status and error body.
// Unrecognised errors are logged and answered without their text.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUsernameTaken):
		abortJSON(c, http.StatusConflict, codeUsernameTaken, "Username already exists")
	case errors.Is(err, store.ErrEmailTaken):
		abortJSON(c, http.StatusConflict, codeEmailTaken, "Email already exists")
	case errors.Is(err, store.ErrSlotTaken):
		abortJSON(c, http.StatusConflict, codeSlotTaken, "The machine is already booked for this date and timeslot")
	case errors.Is(err, store.ErrConflict):
		abortJSON(c, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		abortJSON(c, http.StatusNotFound, codeNotFound, capitalize(err.Error()))
	case errors.Is(err, store.ErrInvalid):
		abortJSON(c, http.StatusBadRequest, codeValidation, capitalize(err.Error()))
	case errors.Is(err, auth.ErrInvalidCredentials):
		abortJSON(c, http.StatusUnauthorized, codeInvalidCredentials, "Invalid username or password")
	default:
		log.Printf("[%s] %s %s failed: %v", mw.GetRequestID(c), c.Request.Method, c.FullPath(), err)
		abortJSON(c, http.StatusInternalServerError, codeInternal, "An unexpected error occurred")
	}
}

// badRequest answers a binding failure with the offending fields.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		abortJSON(c, http.StatusBadRequest, codeValidation, strings.Join(msgs, "; "))
		return
	}
	abortJSON(c, http.StatusBadRequest, codeValidation, "Malformed request body")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "timeofday":
		return fmt.Sprintf("%s must be a time of day such as 07:30", fe.Field())
	case "machinetype":
		return fmt.Sprintf("%s must be Washer or Dryer", fe.Field())
	case "isodate":
		return fmt.Sprintf("%s must be a date such as 2024-05-01", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
