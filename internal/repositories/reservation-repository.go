package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

const reservationFields = `r.id::text, r.equipment_id::text, r.user_id::text, r.start_time, r.end_time,
	r.status, r.notes, r.created_at, r.updated_at,
	COALESCE(e.name, ''), COALESCE(u.full_name, '')`

const reservationJoins = `
	FROM equipment_reservations r
	LEFT JOIN equipment e ON r.equipment_id = e.id
	LEFT JOIN user_profiles u ON r.user_id = u.id`

type ReservationRepositoryInterface interface {
	FindReservation(ctx context.Context, id string) (*entities.Reservation, error)
	FindConflict(ctx context.Context, equipmentID string, start time.Time, end *time.Time) (*entities.Reservation, error)

	LockEquipmentInTx(ctx context.Context, q Querier, equipmentID string) error
	FindConflictInTx(ctx context.Context, q Querier, equipmentID string, start time.Time, end *time.Time) (*entities.Reservation, error)
	CreateInTx(ctx context.Context, q Querier, res *entities.Reservation) error

	CompleteReservation(ctx context.Context, id string, now time.Time) error
	CancelReservation(ctx context.Context, id string, now time.Time) error
	ExpireDueReservations(ctx context.Context, now time.Time) (int64, error)

	ListByUser(ctx context.Context, userID string) ([]entities.Reservation, error)
	ListActive(ctx context.Context) ([]entities.Reservation, error)
	FindActiveForEquipment(ctx context.Context, equipmentID string) (*entities.Reservation, error)
}

type ReservationRepository struct {
	storage *pgxpool.Pool
}

func NewReservationRepository(storage *pgxpool.Pool) ReservationRepositoryInterface {
	return &ReservationRepository{storage: storage}
}

func scanReservation(row pgx.Row) (*entities.Reservation, error) {
	var r entities.Reservation
	err := row.Scan(
		&r.ID, &r.EquipmentID, &r.UserID, &r.StartTime, &r.EndTime,
		&r.Status, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
		&r.EquipmentName, &r.HolderName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan reservation: %w", err)
	}
	return &r, nil
}

func (r *ReservationRepository) FindReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	query := `SELECT ` + reservationFields + reservationJoins + ` WHERE r.id = $1`
	return scanReservation(r.storage.QueryRow(ctx, query, id))
}

// FindConflict returns the earliest active reservation whose window
// overlaps [start, end), treating a nil end as unbounded. The WHERE
// clause mirrors entities.WindowsOverlap.
func (r *ReservationRepository) FindConflict(ctx context.Context, equipmentID string, start time.Time, end *time.Time) (*entities.Reservation, error) {
	return r.FindConflictInTx(ctx, r.storage, equipmentID, start, end)
}

func (r *ReservationRepository) FindConflictInTx(ctx context.Context, q Querier, equipmentID string, start time.Time, end *time.Time) (*entities.Reservation, error) {
	query := `SELECT ` + reservationFields + reservationJoins + `
		WHERE r.equipment_id = $1
		  AND r.status = 'active'
		  AND ($3::timestamptz IS NULL OR r.start_time <= $3::timestamptz)
		  AND (r.end_time IS NULL OR r.end_time >= $2)
		ORDER BY r.start_time
		LIMIT 1`

	res, err := scanReservation(q.QueryRow(ctx, query, equipmentID, start, end))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// LockEquipmentInTx takes a transaction-scoped advisory lock keyed by the
// equipment id, serialising concurrent reservation attempts for the same
// equipment so the conflict re-check and insert happen without a race.
func (r *ReservationRepository) LockEquipmentInTx(ctx context.Context, q Querier, equipmentID string) error {
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, equipmentID)
	if err != nil {
		return fmt.Errorf("failed to lock equipment %s: %w", equipmentID, err)
	}
	return nil
}

func (r *ReservationRepository) CreateInTx(ctx context.Context, q Querier, res *entities.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	res.Status = constants.ReservationActive

	query := `
		INSERT INTO equipment_reservations (id, equipment_id, user_id, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := q.QueryRow(ctx, query,
		res.ID, res.EquipmentID, res.UserID, res.StartTime, res.EndTime, res.Status, res.Notes,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		// The no_active_overlap exclusion constraint is the backstop
		// behind the advisory lock; a violation is a booking conflict,
		// not a server fault.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

// CompleteReservation conditionally moves an active, started reservation
// to completed, stamping end_time = now (completing early truncates the
// window). A reservation already in a terminal state is not touched, and
// one that has not started yet cannot be completed, only cancelled; the
// start_time guard also keeps the stamped end_time above start_time.
func (r *ReservationRepository) CompleteReservation(ctx context.Context, id string, now time.Time) error {
	tag, err := r.storage.Exec(ctx, `
		UPDATE equipment_reservations
		SET status = 'completed', end_time = $2, updated_at = $2
		WHERE id = $1 AND status = 'active' AND start_time <= $2`, id, now)
	if err != nil {
		return fmt.Errorf("failed to complete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMissedUpdate(ctx, id)
	}
	return nil
}

// CancelReservation is only valid before the reservation starts; the
// start_time guard is enforced here, not in the UI.
func (r *ReservationRepository) CancelReservation(ctx context.Context, id string, now time.Time) error {
	tag, err := r.storage.Exec(ctx, `
		UPDATE equipment_reservations
		SET status = 'cancelled', updated_at = $2
		WHERE id = $1 AND status = 'active' AND start_time > $2`, id, now)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMissedUpdate(ctx, id)
	}
	return nil
}

func (r *ReservationRepository) explainMissedUpdate(ctx context.Context, id string) error {
	var status string
	err := r.storage.QueryRow(ctx, `SELECT status FROM equipment_reservations WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to read reservation state: %w", err)
	}
	return apperrors.ErrInvalidState
}

// ExpireDueReservations bulk-completes active reservations whose end time
// has passed. The status guard makes repeated runs a no-op.
func (r *ReservationRepository) ExpireDueReservations(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.storage.Exec(ctx, `
		UPDATE equipment_reservations
		SET status = 'completed', updated_at = $1
		WHERE status = 'active' AND end_time IS NOT NULL AND end_time <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepository) listReservations(ctx context.Context, query string, args ...any) ([]entities.Reservation, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]entities.Reservation, 0)
	for rows.Next() {
		var res entities.Reservation
		err := rows.Scan(
			&res.ID, &res.EquipmentID, &res.UserID, &res.StartTime, &res.EndTime,
			&res.Status, &res.Notes, &res.CreatedAt, &res.UpdatedAt,
			&res.EquipmentName, &res.HolderName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]entities.Reservation, error) {
	query := `SELECT ` + reservationFields + reservationJoins + `
		WHERE r.user_id = $1
		ORDER BY r.start_time DESC`
	return r.listReservations(ctx, query, userID)
}

func (r *ReservationRepository) ListActive(ctx context.Context) ([]entities.Reservation, error) {
	query := `SELECT ` + reservationFields + reservationJoins + `
		WHERE r.status = 'active'
		ORDER BY r.start_time ASC`
	return r.listReservations(ctx, query)
}

func (r *ReservationRepository) FindActiveForEquipment(ctx context.Context, equipmentID string) (*entities.Reservation, error) {
	query := `SELECT ` + reservationFields + reservationJoins + `
		WHERE r.equipment_id = $1 AND r.status = 'active'
		ORDER BY r.start_time
		LIMIT 1`
	return scanReservation(r.storage.QueryRow(ctx, query, equipmentID))
}
