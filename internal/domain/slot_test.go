package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testSlot(t *testing.T, capacity int) Slot {
	t.Helper()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	slot, err := NewSlot(ModeDrive, date, date.Add(9*time.Hour), date.Add(10*time.Hour), capacity)
	if err != nil {
		t.Fatalf("expected valid slot, got %v", err)
	}
	slot.ID = 1
	return slot
}

func TestNewSlot_Validation(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	start := date.Add(9 * time.Hour)
	end := date.Add(10 * time.Hour)

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		for _, capacity := range []int{0, -1} {
			if _, err := NewSlot(ModeDelivery, date, start, end, capacity); !errors.Is(err, ErrInvalidCapacity) {
				t.Fatalf("capacity %d: expected ErrInvalidCapacity, got %v", capacity, err)
			}
		}
	})

	t.Run("rejects start equal to end", func(t *testing.T) {
		if _, err := NewSlot(ModeDelivery, date, start, start, 1); !errors.Is(err, ErrInvalidTimeWindow) {
			t.Fatalf("expected ErrInvalidTimeWindow, got %v", err)
		}
	})

	t.Run("rejects start after end", func(t *testing.T) {
		if _, err := NewSlot(ModeDelivery, date, end, start, 1); !errors.Is(err, ErrInvalidTimeWindow) {
			t.Fatalf("expected ErrInvalidTimeWindow, got %v", err)
		}
	})

	t.Run("starts with zero reservations", func(t *testing.T) {
		slot, err := NewSlot(ModeDelivery, date, start, end, 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if slot.CurrentReservations != 0 {
			t.Fatalf("expected 0 reservations, got %d", slot.CurrentReservations)
		}
		if !slot.HasAvailableCapacity() {
			t.Fatalf("expected capacity available")
		}
	})
}

func TestSlot_Reserve(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	t.Run("increments and reports counts", func(t *testing.T) {
		slot := testSlot(t, 2)

		evt, err := slot.Reserve(now)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if slot.CurrentReservations != 1 {
			t.Fatalf("expected 1 reservation, got %d", slot.CurrentReservations)
		}
		if evt.PreviousReservations != 0 || evt.CurrentReservations != 1 || evt.Capacity != 2 {
			t.Fatalf("unexpected event counts: %+v", evt)
		}
		if evt.FullyBooked {
			t.Fatalf("slot should not be fully booked yet")
		}
		if evt.SlotID != slot.ID || evt.Mode != slot.Mode {
			t.Fatalf("event does not reference slot: %+v", evt)
		}
		if evt.EventID() == uuid.Nil {
			t.Fatalf("expected event id to be set")
		}
		if !evt.OccurredOn().Equal(now) {
			t.Fatalf("expected occurredOn %v, got %v", now, evt.OccurredOn())
		}
	})

	t.Run("flags fully booked on last unit", func(t *testing.T) {
		slot := testSlot(t, 1)

		evt, err := slot.Reserve(now)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !evt.FullyBooked {
			t.Fatalf("expected fully booked flag")
		}
	})

	t.Run("fails when exhausted", func(t *testing.T) {
		slot := testSlot(t, 1)
		if _, err := slot.Reserve(now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := slot.Reserve(now); !errors.Is(err, ErrCapacityExhausted) {
			t.Fatalf("expected ErrCapacityExhausted, got %v", err)
		}
		if slot.CurrentReservations != 1 {
			t.Fatalf("failed reserve must not mutate, got %d", slot.CurrentReservations)
		}
	})
}

func TestSlot_Release(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	t.Run("decrements and emits", func(t *testing.T) {
		slot := testSlot(t, 1)
		if _, err := slot.Reserve(now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		evt, released := slot.Release(now)
		if !released {
			t.Fatalf("expected release to take effect")
		}
		if slot.CurrentReservations != 0 {
			t.Fatalf("expected 0 reservations, got %d", slot.CurrentReservations)
		}
		if evt.PreviousReservations != 1 || evt.CurrentReservations != 0 || evt.FullyBooked {
			t.Fatalf("unexpected event: %+v", evt)
		}
	})

	t.Run("no-op on empty slot", func(t *testing.T) {
		slot := testSlot(t, 3)

		_, released := slot.Release(now)
		if released {
			t.Fatalf("expected release on empty slot to be a no-op")
		}
		if slot.CurrentReservations != 0 {
			t.Fatalf("expected 0 reservations, got %d", slot.CurrentReservations)
		}
	})
}

func TestSlot_CountStaysWithinBounds(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	slot := testSlot(t, 3)

	// Interleave reserves and releases, checking the invariant at every step.
	ops := []struct {
		reserve bool
	}{
		{true}, {true}, {false}, {true}, {true}, {true}, {false}, {false}, {false}, {false},
	}
	for i, op := range ops {
		if op.reserve {
			_, err := slot.Reserve(now)
			if err != nil && !errors.Is(err, ErrCapacityExhausted) {
				t.Fatalf("op %d: unexpected error %v", i, err)
			}
		} else {
			slot.Release(now)
		}
		if slot.CurrentReservations < 0 || slot.CurrentReservations > slot.Capacity {
			t.Fatalf("op %d: count %d outside [0, %d]", i, slot.CurrentReservations, slot.Capacity)
		}
	}
	if slot.CurrentReservations != 0 {
		t.Fatalf("expected count back to 0, got %d", slot.CurrentReservations)
	}
}
