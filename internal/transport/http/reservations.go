package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/solerma/slotreserve/internal/app"
	"github.com/solerma/slotreserve/internal/domain"
)

// ReservationService is the slice of the application layer the reservation
// endpoints need.
type ReservationService interface {
	CreateReservation(ctx context.Context, in app.CreateReservationInput) (app.ReservationView, error)
	CancelReservation(ctx context.Context, id int64, reason string) (app.ReservationView, error)
	GetReservation(ctx context.Context, id int64) (app.ReservationView, error)
	ListReservations(ctx context.Context) ([]app.ReservationView, error)
	ListReservationsByCustomer(ctx context.Context, email string) ([]app.ReservationView, error)
}

// HandleReservations serves the /reservations collection: POST creates a
// reservation, GET lists all of them.
func HandleReservations(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req createReservationRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.TimeSlotID <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
				return
			}

			view, err := svc.CreateReservation(r.Context(), app.CreateReservationInput{
				CustomerName:  req.CustomerName,
				CustomerEmail: req.CustomerEmail,
				TimeSlotID:    req.TimeSlotID,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}

			writeJSON(w, http.StatusCreated, view)
			return
		case http.MethodGet:
			views, err := svc.ListReservations(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, views)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleReservationByID serves /reservations/{id}: GET returns the merged
// reservation view, DELETE cancels it. The cancellation reason is an optional
// query parameter.
func HandleReservationByID(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDPath(r.URL.Path, "reservations")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			view, err := svc.GetReservation(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, view)
			return
		case http.MethodDelete:
			reason := r.URL.Query().Get("reason")
			view, err := svc.CancelReservation(r.Context(), id, reason)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, view)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleReservationsByCustomer serves /reservations/by-customer?email=.
func HandleReservationsByCustomer(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			writeError(w, http.StatusBadRequest, codeEmailRequired, "email query parameter is required")
			return
		}

		views, err := svc.ListReservationsByCustomer(r.Context(), email)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

type createReservationRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	TimeSlotID    int64  `json:"timeSlotId"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// parseIDPath extracts the numeric id from /<root>/<id>.
func parseIDPath(path, root string) (int64, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != root {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
