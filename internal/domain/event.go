package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is the closed set of domain events this service emits. The only
// implementations live in this package; consumers switch exhaustively on the
// concrete type.
type Event interface {
	EventID() uuid.UUID
	OccurredOn() time.Time
	EventType() string

	isDomainEvent()
}

// SlotCapacityChanged records a reserve or release on a time slot.
type SlotCapacityChanged struct {
	ID                   uuid.UUID
	At                   time.Time
	SlotID               int64
	Mode                 DeliveryMode
	PreviousReservations int
	CurrentReservations  int
	Capacity             int
	FullyBooked          bool
}

func (e SlotCapacityChanged) EventID() uuid.UUID    { return e.ID }
func (e SlotCapacityChanged) OccurredOn() time.Time { return e.At }
func (e SlotCapacityChanged) EventType() string     { return "SlotCapacityChanged" }
func (SlotCapacityChanged) isDomainEvent()          {}

// ReservationCreated carries the slot details denormalized at creation time
// so downstream consumers need not re-fetch the slot.
type ReservationCreated struct {
	ID            uuid.UUID
	At            time.Time
	CustomerName  string
	CustomerEmail string
	SlotID        int64
	Mode          DeliveryMode
	Date          time.Time
	StartTime     time.Time
	EndTime       time.Time
}

func (e ReservationCreated) EventID() uuid.UUID    { return e.ID }
func (e ReservationCreated) OccurredOn() time.Time { return e.At }
func (e ReservationCreated) EventType() string     { return "ReservationCreated" }
func (ReservationCreated) isDomainEvent()          {}

type ReservationCancelled struct {
	ID            uuid.UUID
	At            time.Time
	ReservationID int64
	CustomerEmail string
	SlotID        int64
	Reason        string
}

func (e ReservationCancelled) EventID() uuid.UUID    { return e.ID }
func (e ReservationCancelled) OccurredOn() time.Time { return e.At }
func (e ReservationCancelled) EventType() string     { return "ReservationCancelled" }
func (ReservationCancelled) isDomainEvent()          {}
