package app

import (
	"context"
	"time"

	"github.com/solerma/slotreserve/internal/domain"
)

// SlotRepository persists time slots. Save must perform a conditional update
// against the version the slot was loaded with and fail with
// domain.ErrStaleSlot when another writer got there first; that check is what
// keeps the no-oversell invariant across concurrent requests.
type SlotRepository interface {
	Create(ctx context.Context, slot domain.Slot) (domain.Slot, error)
	FindByID(ctx context.Context, id int64) (*domain.Slot, error)
	Save(ctx context.Context, slot domain.Slot) (domain.Slot, error)
	List(ctx context.Context) ([]domain.Slot, error)
	ListByMode(ctx context.Context, mode domain.DeliveryMode) ([]domain.Slot, error)
	ListByDate(ctx context.Context, date time.Time) ([]domain.Slot, error)
	ListByModeAndDate(ctx context.Context, mode domain.DeliveryMode, date time.Time) ([]domain.Slot, error)
	ListAvailable(ctx context.Context, mode domain.DeliveryMode, date time.Time) ([]domain.Slot, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error)
	Update(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error)
	FindByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]domain.Reservation, error)
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	ListBySlotID(ctx context.Context, slotID int64) ([]domain.Reservation, error)
}

// EventPublisher hands domain events to the outside world, at-least-once.
// Consumers must tolerate duplicates.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
