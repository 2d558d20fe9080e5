package app

import (
	"time"

	"github.com/solerma/slotreserve/internal/domain"
)

const dateLayout = "2006-01-02"

// TimeSlotView is the outward shape of a slot, including its computed
// availability.
type TimeSlotView struct {
	ID                  int64               `json:"id"`
	DeliveryMode        domain.DeliveryMode `json:"deliveryMode"`
	Date                string              `json:"date"`
	StartTime           time.Time           `json:"startTime"`
	EndTime             time.Time           `json:"endTime"`
	Capacity            int                 `json:"capacity"`
	CurrentReservations int                 `json:"currentReservations"`
	AvailableSlots      int                 `json:"availableSlots"`
	IsAvailable         bool                `json:"isAvailable"`
}

// ReservationView merges a reservation with the current state of its slot.
type ReservationView struct {
	ID            int64                    `json:"id"`
	CustomerName  string                   `json:"customerName"`
	CustomerEmail string                   `json:"customerEmail"`
	TimeSlotID    int64                    `json:"timeSlotId"`
	TimeSlot      TimeSlotView             `json:"timeSlot"`
	Status        domain.ReservationStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
	CancelledAt   *time.Time               `json:"cancelledAt,omitempty"`
}

func newTimeSlotView(slot domain.Slot) TimeSlotView {
	return TimeSlotView{
		ID:                  slot.ID,
		DeliveryMode:        slot.Mode,
		Date:                slot.Date.Format(dateLayout),
		StartTime:           slot.StartTime,
		EndTime:             slot.EndTime,
		Capacity:            slot.Capacity,
		CurrentReservations: slot.CurrentReservations,
		AvailableSlots:      slot.AvailableSlots(),
		IsAvailable:         slot.HasAvailableCapacity(),
	}
}

func newReservationView(reservation domain.Reservation, slot domain.Slot) ReservationView {
	return ReservationView{
		ID:            reservation.ID,
		CustomerName:  reservation.CustomerName,
		CustomerEmail: reservation.CustomerEmail,
		TimeSlotID:    reservation.SlotID,
		TimeSlot:      newTimeSlotView(slot),
		Status:        reservation.Status,
		CreatedAt:     reservation.CreatedAt,
		CancelledAt:   reservation.CancelledAt,
	}
}
