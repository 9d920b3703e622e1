package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

// UserProfileService keeps local profile rows (used for holder and
// performed-by names in joins) in step with the identity provider's
// token claims.
type UserProfileService struct {
	profileRepo repositories.UserProfileRepositoryInterface
	logger      *zap.Logger
}

func NewUserProfileService(profileRepo repositories.UserProfileRepositoryInterface, logger *zap.Logger) *UserProfileService {
	return &UserProfileService{profileRepo: profileRepo, logger: logger}
}

// SyncProfile upserts the profile when the token's name differs from
// what is stored. Best effort: a failure costs a stale display name, not
// the request.
func (s *UserProfileService) SyncProfile(ctx context.Context, userID, fullName string) {
	if userID == "" || fullName == "" {
		return
	}

	existing, err := s.profileRepo.FindProfile(ctx, userID)
	if err == nil && existing.FullName == fullName {
		return
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("failed to read user profile", zap.String("user_id", userID), zap.Error(err))
		return
	}

	if err := s.profileRepo.UpsertProfile(ctx, &entities.UserProfile{ID: userID, FullName: fullName}); err != nil {
		s.logger.Warn("failed to sync user profile", zap.String("user_id", userID), zap.Error(err))
	}
}
