// Package authlogout ends a session at the auth provider.
package authlogout

import (
	"context"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
)

type Service struct {
	sessions   SessionRevoker
	identities IdentityCache
	logger     logger.Logger
	revokeIn   time.Duration
	now        func() time.Time
}

func NewService(deps ServiceDependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		sessions:   deps.Sessions,
		identities: deps.Identities,
		logger:     deps.Logger,
		revokeIn:   deps.RevokeTimeout,
		now:        now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.RefreshToken == "" {
		return nil, errors.NewValidationError("refreshToken: required")
	}

	if err := s.revoke(ctx, input.RefreshToken); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"reason": input.Reason}
	if input.Identity != nil && input.Identity.AccountID != "" {
		fields["accountId"] = input.Identity.AccountID
		if s.identities != nil {
			s.identities.Invalidate(ctx, input.Identity.AccountID)
		}
	}
	s.logger.Info("session ended", fields)

	return &Output{
		Success:      true,
		Message:      "Logout successful",
		TokenRevoked: true,
		LogoutAt:     s.now().UTC(),
	}, nil
}

func (s *Service) revoke(ctx context.Context, refreshToken string) error {
	if s.revokeIn > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.revokeIn)
		defer cancel()
	}
	return s.sessions.Logout(ctx, refreshToken)
}
