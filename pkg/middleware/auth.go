package middleware

import (
	"context"
	"strings"

	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProfileSyncer mirrors token identity into local storage so joined
// display names stay current. Optional.
type ProfileSyncer interface {
	SyncProfile(ctx context.Context, userID, fullName string)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	syncer     ProfileSyncer
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, syncer ProfileSyncer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		syncer:     syncer,
		logger:     logger,
	}
}

// Auth validates the bearer token and stores the caller's identity in the
// request context for attribution (user_id, performed_by, created_by).
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: empty Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: malformed Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserNameKey, claims.UserName)
		c.SetRequest(c.Request().WithContext(ctx))

		if m.syncer != nil {
			m.syncer.SyncProfile(ctx, claims.UserID, claims.UserName)
		}

		return next(c)
	}
}
