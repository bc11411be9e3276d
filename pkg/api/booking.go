package api

import (
	"errors"
	"net/http"

	"storefront/pkg/booking"
	"storefront/pkg/otel"
	"storefront/pkg/validate"
)

// listTreatmentsHandler lists bookable treatments.
// @Summary List treatments
// @Produce json
// @Success 200 {array} booking.Treatment
// @Router /treatments [get]
func (s *Server) listTreatmentsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, booking.Treatments())
}

// bookHandler relays an appointment request.
// @Summary Book appointment
// @Accept json
// @Produce json
// @Param appointment body booking.Appointment true "Appointment"
// @Success 202
// @Failure 422 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /bookings [post]
func (s *Server) bookHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "bookHandler")
	defer span.End()

	var a booking.Appointment
	if err := decode(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.Booking.Book(ctx, a)
	var verr *validate.Error
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitted"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid appointment", Fields: verr.Fields})
	default:
		writeError(w, http.StatusBadGateway, "appointment could not be submitted, please try again")
	}
}
