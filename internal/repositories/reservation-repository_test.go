package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

// scanErrRow fails every Scan with a canned error.
type scanErrRow struct{ err error }

func (r scanErrRow) Scan(dest ...any) error { return r.err }

// rowQuerier serves the canned row for every QueryRow.
type rowQuerier struct{ row pgx.Row }

func (q rowQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return q.row }

func (q rowQuerier) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q rowQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func TestCreateInTxOverlapConstraint(t *testing.T) {
	ctx := context.Background()
	repo := &ReservationRepository{}
	res := &entities.Reservation{
		EquipmentID: "eq-1",
		UserID:      "user-1",
		StartTime:   time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	t.Run("exclusion violation is a conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23P01", ConstraintName: "no_active_overlap"}
		q := rowQuerier{row: scanErrRow{err: fmt.Errorf("insert: %w", pgErr)}}

		err := repo.CreateInTx(ctx, q, res)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("other failures stay wrapped", func(t *testing.T) {
		q := rowQuerier{row: scanErrRow{err: errors.New("connection reset")}}

		err := repo.CreateInTx(ctx, q, res)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrConflict)
	})
}
