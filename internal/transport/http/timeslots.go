package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/solerma/slotreserve/internal/app"
	"github.com/solerma/slotreserve/internal/domain"
)

// TimeSlotService is the slice of the application layer the slot endpoints
// need.
type TimeSlotService interface {
	CreateTimeSlot(ctx context.Context, in app.CreateTimeSlotInput) (app.TimeSlotView, error)
	GetTimeSlot(ctx context.Context, id int64) (app.TimeSlotView, error)
	ListTimeSlots(ctx context.Context) ([]app.TimeSlotView, error)
	ListTimeSlotsByMode(ctx context.Context, mode domain.DeliveryMode) ([]app.TimeSlotView, error)
	ListTimeSlotsByDate(ctx context.Context, date time.Time, mode domain.DeliveryMode) ([]app.TimeSlotView, error)
	ListAvailableTimeSlots(ctx context.Context, mode domain.DeliveryMode, date time.Time) ([]app.TimeSlotView, error)
}

// HandleTimeSlots serves the /time-slots collection: GET lists every slot,
// POST creates one.
func HandleTimeSlots(svc TimeSlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			views, err := svc.ListTimeSlots(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, views)
			return
		case http.MethodPost:
			var req createTimeSlotRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			mode, err := domain.ParseDeliveryMode(req.DeliveryMode)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDeliveryMode, err.Error())
				return
			}
			date, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid date format, want YYYY-MM-DD")
				return
			}

			view, err := svc.CreateTimeSlot(r.Context(), app.CreateTimeSlotInput{
				Mode:      mode,
				Date:      date,
				StartTime: req.StartTime,
				EndTime:   req.EndTime,
				Capacity:  req.Capacity,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}

			writeJSON(w, http.StatusCreated, view)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleTimeSlotByID serves GET /time-slots/{id}.
func HandleTimeSlotByID(svc TimeSlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDPath(r.URL.Path, "time-slots")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		view, err := svc.GetTimeSlot(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// HandleTimeSlotsByMode serves GET /time-slots/by-delivery-mode/{mode}.
func HandleTimeSlotsByMode(svc TimeSlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := parseModePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		mode, err := domain.ParseDeliveryMode(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDeliveryMode, err.Error())
			return
		}

		views, err := svc.ListTimeSlotsByMode(r.Context(), mode)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// HandleTimeSlotsByDate serves GET /time-slots/by-date?date=YYYY-MM-DD with an
// optional deliveryMode filter.
func HandleTimeSlotsByDate(svc TimeSlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		date, ok := parseDateParam(w, r)
		if !ok {
			return
		}

		var mode domain.DeliveryMode
		if raw := r.URL.Query().Get("deliveryMode"); raw != "" {
			parsed, err := domain.ParseDeliveryMode(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDeliveryMode, err.Error())
				return
			}
			mode = parsed
		}

		views, err := svc.ListTimeSlotsByDate(r.Context(), date, mode)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// HandleAvailableTimeSlots serves GET /time-slots/available?deliveryMode=&date=.
// Both parameters are required.
func HandleAvailableTimeSlots(svc TimeSlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		mode, err := domain.ParseDeliveryMode(r.URL.Query().Get("deliveryMode"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDeliveryMode, err.Error())
			return
		}

		date, ok := parseDateParam(w, r)
		if !ok {
			return
		}

		views, err := svc.ListAvailableTimeSlots(r.Context(), mode, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

type createTimeSlotRequest struct {
	DeliveryMode string    `json:"deliveryMode"`
	Date         string    `json:"date"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Capacity     int       `json:"capacity"`
}

func parseModePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "time-slots" || parts[1] != "by-delivery-mode" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

func parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, codeDateRequired, "date query parameter is required")
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid date format, want YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
