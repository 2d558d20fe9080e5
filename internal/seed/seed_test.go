package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/solerma/slotreserve/internal/app"
	"github.com/solerma/slotreserve/internal/clock"
	"github.com/solerma/slotreserve/internal/domain"
)

type recordingCreator struct {
	inputs []app.CreateTimeSlotInput
	err    error
	nextID int64
}

func (c *recordingCreator) CreateTimeSlot(_ context.Context, in app.CreateTimeSlotInput) (app.TimeSlotView, error) {
	if c.err != nil {
		return app.TimeSlotView{}, c.err
	}
	c.inputs = append(c.inputs, in)
	c.nextID++
	return app.TimeSlotView{ID: c.nextID, Date: in.Date.Format("2006-01-02")}, nil
}

func TestRun(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 8, 30, 0, 0, time.UTC)

	t.Run("creates the full sample schedule", func(t *testing.T) {
		t.Parallel()
		creator := &recordingCreator{}

		if err := Run(context.Background(), creator, clock.NewFixed(now), zap.NewNop()); err != nil {
			t.Fatalf("run: %v", err)
		}
		if len(creator.inputs) != 12 {
			t.Fatalf("expected 12 slots, got %d", len(creator.inputs))
		}

		counts := map[domain.DeliveryMode]int{}
		for _, in := range creator.inputs {
			counts[in.Mode]++
		}
		if counts[domain.ModeDrive] != 4 || counts[domain.ModeDelivery] != 4 ||
			counts[domain.ModeDeliveryToday] != 2 || counts[domain.ModeDeliveryASAP] != 2 {
			t.Fatalf("unexpected mode distribution: %v", counts)
		}

		first := creator.inputs[0]
		tomorrow := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		if !first.Date.Equal(tomorrow) {
			t.Fatalf("expected first drive slot tomorrow, got %v", first.Date)
		}
		if first.StartTime.Hour() != 9 || first.EndTime.Hour() != 10 || first.Capacity != 5 {
			t.Fatalf("unexpected first slot: %+v", first)
		}
	})

	t.Run("express slots start after the current hour", func(t *testing.T) {
		t.Parallel()
		creator := &recordingCreator{}

		if err := Run(context.Background(), creator, clock.NewFixed(now), zap.NewNop()); err != nil {
			t.Fatalf("run: %v", err)
		}

		var express []app.CreateTimeSlotInput
		for _, in := range creator.inputs {
			if in.Mode == domain.ModeDeliveryASAP {
				express = append(express, in)
			}
		}
		if len(express) != 2 {
			t.Fatalf("expected 2 express slots, got %d", len(express))
		}
		if express[0].StartTime.Hour() != 9 || express[1].StartTime.Hour() != 10 {
			t.Fatalf("unexpected express windows: %+v", express)
		}
	})

	t.Run("late evening express windows roll to the next day", func(t *testing.T) {
		t.Parallel()
		creator := &recordingCreator{}
		lateNow := time.Date(2026, time.August, 31, 23, 10, 0, 0, time.UTC)

		if err := Run(context.Background(), creator, clock.NewFixed(lateNow), zap.NewNop()); err != nil {
			t.Fatalf("run: %v", err)
		}

		var express []app.CreateTimeSlotInput
		for _, in := range creator.inputs {
			if in.Mode == domain.ModeDeliveryASAP {
				express = append(express, in)
			}
		}
		if len(express) != 2 {
			t.Fatalf("expected 2 express slots, got %d", len(express))
		}
		nextDay := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		for i, in := range express {
			if !in.Date.Equal(nextDay) {
				t.Fatalf("express slot %d: expected date %v, got %v", i, nextDay, in.Date)
			}
			if !in.StartTime.Equal(in.Date.Add(time.Duration(i) * time.Hour)) {
				t.Fatalf("express slot %d: expected start on its own date, got %v", i, in.StartTime)
			}
			if !in.EndTime.After(in.StartTime) {
				t.Fatalf("express slot %d: end %v not after start %v", i, in.EndTime, in.StartTime)
			}
		}
	})

	t.Run("stops on first failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("db down")
		creator := &recordingCreator{err: boom}

		err := Run(context.Background(), creator, clock.NewFixed(now), zap.NewNop())
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}
