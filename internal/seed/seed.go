package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solerma/slotreserve/internal/app"
	"github.com/solerma/slotreserve/internal/clock"
	"github.com/solerma/slotreserve/internal/domain"
)

// SlotCreator is the slice of the application layer seeding needs.
type SlotCreator interface {
	CreateTimeSlot(ctx context.Context, in app.CreateTimeSlotInput) (app.TimeSlotView, error)
}

type slotSpec struct {
	mode      domain.DeliveryMode
	dayOffset int
	startHour int
	endHour   int
	capacity  int
}

// Run inserts a sample schedule relative to the clock's current day: hourly
// drive slots, half-day delivery windows, and same-day express windows.
func Run(ctx context.Context, svc SlotCreator, clk clock.Clock, logger *zap.Logger) error {
	now := clk.Now()
	asapStart := now.Hour() + 1

	specs := []slotSpec{
		{domain.ModeDrive, 1, 9, 10, 5},
		{domain.ModeDrive, 1, 10, 11, 5},
		{domain.ModeDrive, 1, 14, 15, 5},
		{domain.ModeDrive, 2, 9, 10, 5},

		{domain.ModeDelivery, 2, 8, 12, 10},
		{domain.ModeDelivery, 2, 14, 18, 10},
		{domain.ModeDelivery, 3, 8, 12, 10},
		{domain.ModeDelivery, 3, 14, 18, 10},

		{domain.ModeDeliveryToday, 0, 15, 18, 3},
		{domain.ModeDeliveryToday, 0, 18, 21, 3},

		{domain.ModeDeliveryASAP, 0, asapStart, asapStart + 1, 2},
		{domain.ModeDeliveryASAP, 0, asapStart + 1, asapStart + 2, 2},
	}

	for _, spec := range specs {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, spec.dayOffset)
		start := day.Add(time.Duration(spec.startHour) * time.Hour)
		end := day.Add(time.Duration(spec.endHour) * time.Hour)
		// A late express window can start past midnight; the slot is filed
		// under the day it starts so date-filtered queries still find it.
		date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

		view, err := svc.CreateTimeSlot(ctx, app.CreateTimeSlotInput{
			Mode:      spec.mode,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Capacity:  spec.capacity,
		})
		if err != nil {
			return fmt.Errorf("seed %s slot on %s: %w", spec.mode, date.Format("2006-01-02"), err)
		}
		logger.Debug("seeded time slot",
			zap.Int64("time_slot_id", view.ID),
			zap.String("delivery_mode", string(spec.mode)),
			zap.String("date", view.Date),
		)
	}

	logger.Info("sample time slots created", zap.Int("count", len(specs)))
	return nil
}
