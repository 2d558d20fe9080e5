package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solerma/slotreserve/internal/domain"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, customer_name, customer_email, time_slot_id, status, created_at, cancelled_at`

func (r *ReservationRepository) Create(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error) {
	const stmt = `
INSERT INTO reservations (customer_name, customer_email, time_slot_id, status, created_at, cancelled_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	err := r.pool.QueryRow(ctx, stmt,
		reservation.CustomerName,
		reservation.CustomerEmail,
		reservation.SlotID,
		reservation.Status,
		reservation.CreatedAt,
		reservation.CancelledAt,
	).Scan(&reservation.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Reservation{}, domain.ErrSlotNotFound
		}
		return domain.Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	return reservation, nil
}

func (r *ReservationRepository) Update(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error) {
	const stmt = `UPDATE reservations SET status = $1, cancelled_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, stmt, reservation.Status, reservation.CancelledAt, reservation.ID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return reservation, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY id`
	return r.queryReservations(ctx, query)
}

func (r *ReservationRepository) ListByCustomerEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE customer_email = $1 ORDER BY id`
	return r.queryReservations(ctx, query, email)
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = $1 ORDER BY id`
	return r.queryReservations(ctx, query, status)
}

func (r *ReservationRepository) ListBySlotID(ctx context.Context, slotID int64) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE time_slot_id = $1 ORDER BY id`
	return r.queryReservations(ctx, query, slotID)
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var r domain.Reservation
	err := row.Scan(
		&r.ID,
		&r.CustomerName,
		&r.CustomerEmail,
		&r.SlotID,
		&r.Status,
		&r.CreatedAt,
		&r.CancelledAt,
	)
	return r, err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
