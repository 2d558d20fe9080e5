package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solerma/slotreserve/internal/domain"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `id, delivery_mode, slot_date, start_time, end_time, capacity, current_reservations, version`

func (r *SlotRepository) Create(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	const stmt = `
INSERT INTO time_slots (delivery_mode, slot_date, start_time, end_time, capacity, current_reservations, version)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	err := r.pool.QueryRow(ctx, stmt,
		slot.Mode,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.Capacity,
		slot.CurrentReservations,
		slot.Version,
	).Scan(&slot.ID)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id int64) (*domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`

	slot, err := scanSlot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return &slot, nil
}

// Save writes the slot's counters conditionally on the version it was loaded
// with. A zero-row update means another writer won the race and the caller
// must reload; that check is the no-oversell guard across processes.
func (r *SlotRepository) Save(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	const stmt = `
UPDATE time_slots
SET current_reservations = $1, version = version + 1
WHERE id = $2 AND version = $3`

	tag, err := r.pool.Exec(ctx, stmt, slot.CurrentReservations, slot.ID, slot.Version)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("save slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Slot{}, domain.ErrStaleSlot
	}

	slot.Version++
	return slot, nil
}

func (r *SlotRepository) List(ctx context.Context) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots ORDER BY slot_date, start_time, id`
	return r.querySlots(ctx, query)
}

func (r *SlotRepository) ListByMode(ctx context.Context, mode domain.DeliveryMode) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE delivery_mode = $1 ORDER BY slot_date, start_time, id`
	return r.querySlots(ctx, query, mode)
}

func (r *SlotRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE slot_date = $1::date ORDER BY start_time, id`
	return r.querySlots(ctx, query, date)
}

func (r *SlotRepository) ListByModeAndDate(ctx context.Context, mode domain.DeliveryMode, date time.Time) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE delivery_mode = $1 AND slot_date = $2::date ORDER BY start_time, id`
	return r.querySlots(ctx, query, mode, date)
}

func (r *SlotRepository) ListAvailable(ctx context.Context, mode domain.DeliveryMode, date time.Time) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots
WHERE delivery_mode = $1 AND slot_date = $2::date AND current_reservations < capacity
ORDER BY start_time, id`
	return r.querySlots(ctx, query, mode, date)
}

func (r *SlotRepository) querySlots(ctx context.Context, query string, args ...any) ([]domain.Slot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

func scanSlot(row pgx.Row) (domain.Slot, error) {
	var s domain.Slot
	err := row.Scan(
		&s.ID,
		&s.Mode,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Capacity,
		&s.CurrentReservations,
		&s.Version,
	)
	return s, err
}
