package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	schedule "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/httperr"
)

// writeDomainError translates a scheduling error into the HTTP envelope.
// Unknown errors become a 500 without leaking internals.
func writeDomainError(c *gin.Context, err error) {
	var coded schedule.Coded
	if errors.As(err, &coded) {
		httperr.Write(c, statusFor(coded.Code()), coded.Code(), coded.Error())
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		httperr.Conflict(c, be.Code, be.Code)
		return
	}

	httperr.Internal(c, "internal_error", "Something went wrong.")
}

func statusFor(code string) int {
	switch code {
	case "slot_not_found", "reservation_not_found":
		return http.StatusNotFound
	case "overlap", "slot_full", "slot_immutable_booked", "capacity_too_low", "slot_has_bookings":
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
