package authlogout

import (
	"context"
	"time"

	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
)

type Input struct {
	Identity     *models.Identity `json:"identity,omitempty"`
	RefreshToken string           `json:"refreshToken"`
	Reason       string           `json:"reason,omitempty"`
}

type Output struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	TokenRevoked bool      `json:"tokenRevoked"`
	LogoutAt     time.Time `json:"logoutAt"`
}

type SessionRevoker interface {
	Logout(ctx context.Context, refreshToken string) error
}

type IdentityCache interface {
	Invalidate(ctx context.Context, accountID string)
}

type ServiceDependencies struct {
	Sessions   SessionRevoker
	Identities IdentityCache
	Logger     logger.Logger

	// RevokeTimeout bounds the provider call when positive.
	RevokeTimeout time.Duration
	Now           func() time.Time
}
