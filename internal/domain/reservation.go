package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	// StatusPending exists on the wire for forward compatibility; no
	// transition produces it.
	StatusPending ReservationStatus = "PENDING"
)

// DefaultCancellationReason is used when the caller gives no reason.
const DefaultCancellationReason = "Customer requested"

// Reservation is a customer's claim on one unit of a slot's capacity. It
// references exactly one slot for its entire life and only ever moves from
// confirmed to cancelled.
type Reservation struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	SlotID        int64
	Status        ReservationStatus
	CreatedAt     time.Time
	CancelledAt   *time.Time
}

// NewConfirmedReservation creates a confirmed reservation against the given
// slot and returns it with the corresponding ReservationCreated event. It
// checks the slot's availability but does not claim capacity; the caller
// reserves on the slot separately.
func NewConfirmedReservation(customer CustomerInfo, slot Slot, now time.Time) (Reservation, ReservationCreated, error) {
	if !slot.HasAvailableCapacity() {
		return Reservation{}, ReservationCreated{}, ErrSlotFullyBooked
	}

	r := Reservation{
		CustomerName:  customer.Name(),
		CustomerEmail: customer.Email(),
		SlotID:        slot.ID,
		Status:        StatusConfirmed,
		CreatedAt:     now,
	}

	evt := ReservationCreated{
		ID:            uuid.New(),
		At:            now,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		SlotID:        slot.ID,
		Mode:          slot.Mode,
		Date:          slot.Date,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
	}

	return r, evt, nil
}

// Cancel marks the reservation cancelled and returns the event. Cancelling an
// already-cancelled reservation is a no-op and returns nil. An empty reason
// falls back to DefaultCancellationReason.
func (r *Reservation) Cancel(reason string, now time.Time) *ReservationCancelled {
	if r.Status == StatusCancelled {
		return nil
	}
	if reason == "" {
		reason = DefaultCancellationReason
	}

	r.Status = StatusCancelled
	r.CancelledAt = &now

	return &ReservationCancelled{
		ID:            uuid.New(),
		At:            now,
		ReservationID: r.ID,
		CustomerEmail: r.CustomerEmail,
		SlotID:        r.SlotID,
		Reason:        reason,
	}
}

func (r *Reservation) IsActive() bool {
	return r.Status == StatusConfirmed
}
