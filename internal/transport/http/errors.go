package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solerma/slotreserve/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidID            = "invalid_id"
	codeInvalidDate          = "invalid_date"
	codeInvalidDeliveryMode  = "invalid_delivery_mode"
	codeInvalidCapacity      = "invalid_capacity"
	codeInvalidTimeWindow    = "invalid_time_window"
	codeCustomerNameRequired = "customer_name_required"
	codeInvalidCustomerEmail = "invalid_customer_email"
	codeEmailRequired        = "email_required"
	codeDateRequired         = "date_required"
	codeSlotNotFound         = "time_slot_not_found"
	codeReservationNotFound  = "reservation_not_found"
	codeSlotFullyBooked      = "time_slot_fully_booked"
	codeCapacityExhausted    = "capacity_exhausted"
	codeSlotConflict         = "time_slot_conflict"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps the domain sentinels every handler can see to their
// HTTP shape. Anything unrecognized is an internal error and is not echoed to
// the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidDeliveryMode):
		writeError(w, http.StatusBadRequest, codeInvalidDeliveryMode, err.Error())
	case errors.Is(err, domain.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case errors.Is(err, domain.ErrInvalidTimeWindow):
		writeError(w, http.StatusBadRequest, codeInvalidTimeWindow, err.Error())
	case errors.Is(err, domain.ErrCustomerNameRequired):
		writeError(w, http.StatusBadRequest, codeCustomerNameRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidCustomerEmail):
		writeError(w, http.StatusBadRequest, codeInvalidCustomerEmail, err.Error())
	case errors.Is(err, domain.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, codeSlotNotFound, err.Error())
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	case errors.Is(err, domain.ErrSlotFullyBooked):
		writeError(w, http.StatusConflict, codeSlotFullyBooked, err.Error())
	case errors.Is(err, domain.ErrCapacityExhausted):
		writeError(w, http.StatusConflict, codeCapacityExhausted, err.Error())
	case errors.Is(err, domain.ErrStaleSlot):
		writeError(w, http.StatusConflict, codeSlotConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
