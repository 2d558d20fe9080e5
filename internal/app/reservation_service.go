package app

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/solerma/slotreserve/internal/clock"
	"github.com/solerma/slotreserve/internal/domain"
)

// ReservationService coordinates the reservation and slot aggregates, the
// repositories, and event delivery for each use case.
type ReservationService struct {
	slots        SlotRepository
	reservations ReservationRepository
	publisher    EventPublisher
	clock        clock.Clock
	logger       *zap.Logger
	tracer       trace.Tracer
	saveAttempts int
}

const defaultSaveAttempts = 3

func NewReservationService(
	slots SlotRepository,
	reservations ReservationRepository,
	publisher EventPublisher,
	clk clock.Clock,
	logger *zap.Logger,
	opts ...ReservationServiceOption,
) *ReservationService {
	svc := &ReservationService{
		slots:        slots,
		reservations: reservations,
		publisher:    publisher,
		clock:        clk,
		logger:       logger,
		tracer:       otel.Tracer("slotreserve/app"),
		saveAttempts: defaultSaveAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithSaveAttempts overrides how often a conflicting slot save is replayed.
func WithSaveAttempts(n int) ReservationServiceOption {
	return func(s *ReservationService) {
		if n > 0 {
			s.saveAttempts = n
		}
	}
}

type CreateReservationInput struct {
	CustomerName  string
	CustomerEmail string
	TimeSlotID    int64
}

// CreateReservation books one unit of the slot's capacity for the customer.
// The slot save is a conditional update; on a version conflict the whole
// attempt is replayed against freshly loaded state, at most saveAttempts
// times. The slot is persisted before the reservation so a crash in between
// leaves claimed capacity without a reservation, never the reverse.
func (s *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (ReservationView, error) {
	ctx, span := s.tracer.Start(ctx, "CreateReservation")
	defer span.End()

	customer, err := domain.NewCustomerInfo(in.CustomerName, in.CustomerEmail)
	if err != nil {
		return ReservationView{}, err
	}

	now := s.clock.Now()

	for attempt := 1; attempt <= s.saveAttempts; attempt++ {
		slot, err := s.slots.FindByID(ctx, in.TimeSlotID)
		if err != nil {
			return ReservationView{}, fmt.Errorf("load slot: %w", err)
		}
		if slot == nil {
			return ReservationView{}, domain.ErrSlotNotFound
		}

		reservation, createdEvt, err := domain.NewConfirmedReservation(customer, *slot, now)
		if err != nil {
			return ReservationView{}, err
		}

		capacityEvt, err := slot.Reserve(now)
		if err != nil {
			return ReservationView{}, err
		}

		savedSlot, err := s.slots.Save(ctx, *slot)
		if errors.Is(err, domain.ErrStaleSlot) {
			s.logger.Debug("slot save conflict, replaying",
				zap.Int64("time_slot_id", in.TimeSlotID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return ReservationView{}, fmt.Errorf("save slot: %w", err)
		}

		savedReservation, err := s.reservations.Create(ctx, reservation)
		if err != nil {
			return ReservationView{}, fmt.Errorf("save reservation: %w", err)
		}

		s.publish(ctx, createdEvt, capacityEvt)

		s.logger.Info("reservation created",
			zap.Int64("reservation_id", savedReservation.ID),
			zap.Int64("time_slot_id", savedSlot.ID),
			zap.String("customer_email", savedReservation.CustomerEmail),
		)
		return newReservationView(savedReservation, savedSlot), nil
	}

	s.logger.Warn("slot save contention not resolved within retry budget",
		zap.Int64("time_slot_id", in.TimeSlotID),
		zap.Int("attempts", s.saveAttempts),
	)
	return ReservationView{}, domain.ErrCapacityExhausted
}

// CancelReservation cancels the reservation and releases its unit of
// capacity. A reservation that is already cancelled keeps its state and
// produces no events; the slot's counters are left alone so a repeated cancel
// cannot free capacity twice.
func (s *ReservationService) CancelReservation(ctx context.Context, id int64, reason string) (ReservationView, error) {
	ctx, span := s.tracer.Start(ctx, "CancelReservation")
	defer span.End()

	now := s.clock.Now()

	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return ReservationView{}, fmt.Errorf("load reservation: %w", err)
	}
	if reservation == nil {
		return ReservationView{}, domain.ErrReservationNotFound
	}

	cancelEvt := reservation.Cancel(reason, now)

	var lastErr error
	for attempt := 1; attempt <= s.saveAttempts; attempt++ {
		slot, err := s.slots.FindByID(ctx, reservation.SlotID)
		if err != nil {
			return ReservationView{}, fmt.Errorf("load slot: %w", err)
		}
		if slot == nil {
			// A reservation pointing at a vanished slot is storage
			// corruption, not a user-facing not-found.
			return ReservationView{}, fmt.Errorf("reservation %d references missing slot %d", reservation.ID, reservation.SlotID)
		}

		if cancelEvt == nil {
			updated, err := s.reservations.Update(ctx, *reservation)
			if err != nil {
				return ReservationView{}, fmt.Errorf("save reservation: %w", err)
			}
			return newReservationView(updated, *slot), nil
		}

		capacityEvt, released := slot.Release(now)

		savedSlot := *slot
		if released {
			savedSlot, err = s.slots.Save(ctx, *slot)
			if errors.Is(err, domain.ErrStaleSlot) {
				lastErr = err
				continue
			}
			if err != nil {
				return ReservationView{}, fmt.Errorf("save slot: %w", err)
			}
		}

		updated, err := s.reservations.Update(ctx, *reservation)
		if err != nil {
			return ReservationView{}, fmt.Errorf("save reservation: %w", err)
		}

		events := []domain.Event{*cancelEvt}
		if released {
			events = append(events, capacityEvt)
		}
		s.publish(ctx, events...)

		s.logger.Info("reservation cancelled",
			zap.Int64("reservation_id", updated.ID),
			zap.Int64("time_slot_id", savedSlot.ID),
		)
		return newReservationView(updated, savedSlot), nil
	}

	s.logger.Warn("slot save contention not resolved within retry budget",
		zap.Int64("time_slot_id", reservation.SlotID),
		zap.Int("attempts", s.saveAttempts),
	)
	return ReservationView{}, fmt.Errorf("release capacity on slot %d: %w", reservation.SlotID, lastErr)
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (ReservationView, error) {
	ctx, span := s.tracer.Start(ctx, "GetReservation")
	defer span.End()

	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return ReservationView{}, fmt.Errorf("load reservation: %w", err)
	}
	if reservation == nil {
		return ReservationView{}, domain.ErrReservationNotFound
	}

	slot, err := s.slots.FindByID(ctx, reservation.SlotID)
	if err != nil {
		return ReservationView{}, fmt.Errorf("load slot: %w", err)
	}
	if slot == nil {
		return ReservationView{}, fmt.Errorf("reservation %d references missing slot %d", reservation.ID, reservation.SlotID)
	}

	return newReservationView(*reservation, *slot), nil
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]ReservationView, error) {
	ctx, span := s.tracer.Start(ctx, "ListReservations")
	defer span.End()

	reservations, err := s.reservations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return s.composeViews(ctx, reservations)
}

func (s *ReservationService) ListReservationsByCustomer(ctx context.Context, email string) ([]ReservationView, error) {
	ctx, span := s.tracer.Start(ctx, "ListReservationsByCustomer")
	defer span.End()

	reservations, err := s.reservations.ListByCustomerEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return s.composeViews(ctx, reservations)
}

func (s *ReservationService) composeViews(ctx context.Context, reservations []domain.Reservation) ([]ReservationView, error) {
	views := make([]ReservationView, 0, len(reservations))
	for _, reservation := range reservations {
		slot, err := s.slots.FindByID(ctx, reservation.SlotID)
		if err != nil {
			return nil, fmt.Errorf("load slot: %w", err)
		}
		if slot == nil {
			// One broken reference should not take the whole listing down.
			s.logger.Warn("reservation references missing slot",
				zap.Int64("reservation_id", reservation.ID),
				zap.Int64("time_slot_id", reservation.SlotID),
			)
			continue
		}
		views = append(views, newReservationView(reservation, *slot))
	}
	return views, nil
}

func (s *ReservationService) publish(ctx context.Context, events ...domain.Event) {
	for _, evt := range events {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			// Persisted state is the source of truth; failed deliveries are
			// reconciled out of band.
			s.logger.Error("publish event",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
				zap.Error(err),
			)
		}
	}
}
