package domain

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a capacity-bounded delivery or pickup window. The reservation count
// moves only through Reserve and Release so the count can never leave the
// [0, Capacity] range.
type Slot struct {
	ID                  int64
	Mode                DeliveryMode
	Date                time.Time
	StartTime           time.Time
	EndTime             time.Time
	Capacity            int
	CurrentReservations int
	// Version backs the conditional save at the storage layer.
	Version int64
}

// NewSlot validates the slot definition. The ID stays zero until the slot is
// persisted.
func NewSlot(mode DeliveryMode, date, start, end time.Time, capacity int) (Slot, error) {
	if capacity <= 0 {
		return Slot{}, ErrInvalidCapacity
	}
	if !start.Before(end) {
		return Slot{}, ErrInvalidTimeWindow
	}
	return Slot{
		Mode:      mode,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
		Version:   1,
	}, nil
}

func (s *Slot) HasAvailableCapacity() bool {
	return s.CurrentReservations < s.Capacity
}

func (s *Slot) AvailableSlots() int {
	return s.Capacity - s.CurrentReservations
}

// Reserve claims one unit of capacity and returns the resulting capacity
// event. Fails with ErrCapacityExhausted when the slot is full.
func (s *Slot) Reserve(now time.Time) (SlotCapacityChanged, error) {
	if !s.HasAvailableCapacity() {
		return SlotCapacityChanged{}, ErrCapacityExhausted
	}

	previous := s.CurrentReservations
	s.CurrentReservations++

	return SlotCapacityChanged{
		ID:                   uuid.New(),
		At:                   now,
		SlotID:               s.ID,
		Mode:                 s.Mode,
		PreviousReservations: previous,
		CurrentReservations:  s.CurrentReservations,
		Capacity:             s.Capacity,
		FullyBooked:          !s.HasAvailableCapacity(),
	}, nil
}

// Release returns one unit of capacity. Releasing an empty slot is a silent
// no-op so duplicate releases from compensating callers stay harmless; the
// second return reports whether the count actually moved.
func (s *Slot) Release(now time.Time) (SlotCapacityChanged, bool) {
	if s.CurrentReservations == 0 {
		return SlotCapacityChanged{}, false
	}

	previous := s.CurrentReservations
	s.CurrentReservations--

	return SlotCapacityChanged{
		ID:                   uuid.New(),
		At:                   now,
		SlotID:               s.ID,
		Mode:                 s.Mode,
		PreviousReservations: previous,
		CurrentReservations:  s.CurrentReservations,
		Capacity:             s.Capacity,
		FullyBooked:          false,
	}, true
}
