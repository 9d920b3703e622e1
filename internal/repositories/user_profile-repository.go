package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

type UserProfileRepositoryInterface interface {
	FindProfile(ctx context.Context, id string) (*entities.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *entities.UserProfile) error
}

type UserProfileRepository struct {
	storage *pgxpool.Pool
}

func NewUserProfileRepository(storage *pgxpool.Pool) UserProfileRepositoryInterface {
	return &UserProfileRepository{storage: storage}
}

func (r *UserProfileRepository) FindProfile(ctx context.Context, id string) (*entities.UserProfile, error) {
	var p entities.UserProfile
	err := r.storage.QueryRow(ctx, `
		SELECT id::text, full_name
		FROM user_profiles
		WHERE id = $1`, id).Scan(&p.ID, &p.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile keeps the local profile in sync with whatever the token
// carried, so joined names stay fresh without a separate sync job.
func (r *UserProfileRepository) UpsertProfile(ctx context.Context, profile *entities.UserProfile) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO user_profiles (id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name`,
		profile.ID, profile.FullName)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}
