package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/solerma/slotreserve/internal/domain"
)

// TimeSlotService serves slot queries and administrative slot creation.
type TimeSlotService struct {
	slots  SlotRepository
	logger *zap.Logger
	tracer trace.Tracer
}

func NewTimeSlotService(slots SlotRepository, logger *zap.Logger) *TimeSlotService {
	return &TimeSlotService{
		slots:  slots,
		logger: logger,
		tracer: otel.Tracer("slotreserve/app"),
	}
}

type CreateTimeSlotInput struct {
	Mode      domain.DeliveryMode
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
	Capacity  int
}

// CreateTimeSlot validates and persists a new slot. Reservation counts are
// never set here; they only move through the reservation use cases.
func (s *TimeSlotService) CreateTimeSlot(ctx context.Context, in CreateTimeSlotInput) (TimeSlotView, error) {
	ctx, span := s.tracer.Start(ctx, "CreateTimeSlot")
	defer span.End()

	slot, err := domain.NewSlot(in.Mode, in.Date, in.StartTime, in.EndTime, in.Capacity)
	if err != nil {
		return TimeSlotView{}, err
	}

	created, err := s.slots.Create(ctx, slot)
	if err != nil {
		return TimeSlotView{}, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Debug("time slot created",
		zap.Int64("time_slot_id", created.ID),
		zap.String("delivery_mode", string(created.Mode)),
		zap.Int("capacity", created.Capacity),
	)
	return newTimeSlotView(created), nil
}

func (s *TimeSlotService) GetTimeSlot(ctx context.Context, id int64) (TimeSlotView, error) {
	ctx, span := s.tracer.Start(ctx, "GetTimeSlot")
	defer span.End()

	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		return TimeSlotView{}, fmt.Errorf("load slot: %w", err)
	}
	if slot == nil {
		return TimeSlotView{}, domain.ErrSlotNotFound
	}
	return newTimeSlotView(*slot), nil
}

func (s *TimeSlotService) ListTimeSlots(ctx context.Context) ([]TimeSlotView, error) {
	ctx, span := s.tracer.Start(ctx, "ListTimeSlots")
	defer span.End()

	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return timeSlotViews(slots), nil
}

func (s *TimeSlotService) ListTimeSlotsByMode(ctx context.Context, mode domain.DeliveryMode) ([]TimeSlotView, error) {
	ctx, span := s.tracer.Start(ctx, "ListTimeSlotsByMode")
	defer span.End()

	slots, err := s.slots.ListByMode(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return timeSlotViews(slots), nil
}

// ListTimeSlotsByDate filters by date, and additionally by mode when one is
// given.
func (s *TimeSlotService) ListTimeSlotsByDate(ctx context.Context, date time.Time, mode domain.DeliveryMode) ([]TimeSlotView, error) {
	ctx, span := s.tracer.Start(ctx, "ListTimeSlotsByDate")
	defer span.End()

	var (
		slots []domain.Slot
		err   error
	)
	if mode == "" {
		slots, err = s.slots.ListByDate(ctx, date)
	} else {
		slots, err = s.slots.ListByModeAndDate(ctx, mode, date)
	}
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return timeSlotViews(slots), nil
}

// ListAvailableTimeSlots returns the slots for the mode and date that still
// have capacity left.
func (s *TimeSlotService) ListAvailableTimeSlots(ctx context.Context, mode domain.DeliveryMode, date time.Time) ([]TimeSlotView, error) {
	ctx, span := s.tracer.Start(ctx, "ListAvailableTimeSlots")
	defer span.End()

	slots, err := s.slots.ListAvailable(ctx, mode, date)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return timeSlotViews(slots), nil
}

func timeSlotViews(slots []domain.Slot) []TimeSlotView {
	views := make([]TimeSlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, newTimeSlotView(slot))
	}
	return views
}
