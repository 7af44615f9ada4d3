// Package authsignin signs an account in with email and password and resolves
// the franchise it belongs to.
package authsignin

import (
	"context"
	"strings"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/validation"
	"franchise-pos/internal/models"
)

const statusSignedIn = "signed_in"

type Service struct {
	provider TokenProvider
	resolver IdentityResolver
	logger   logger.Logger
	now      func() time.Time
}

func NewService(deps ServiceDependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		provider: deps.Provider,
		resolver: deps.Resolver,
		logger:   deps.Logger,
		now:      now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !validation.ValidateEmail(email) {
		return nil, errors.NewValidationError("email: invalid format")
	}
	if input.Password == "" {
		return nil, errors.NewValidationError("password: required")
	}

	issuedAt := s.now()
	tr, err := s.provider.PasswordGrant(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.provider.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeUserNotFound) {
			// grant succeeded but the account vanished in between
			return nil, errors.NewInvalidCredentialsError()
		}
		return nil, err
	}

	identity, err := s.resolver.Resolve(ctx, models.Account{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account signed in", map[string]interface{}{
		"accountId":   identity.AccountID,
		"franchiseId": identity.FranchiseID,
		"kind":        string(identity.Kind),
		"source":      string(identity.Source),
	})

	return &Output{
		Status: statusSignedIn,
		Tokens: models.AuthTokens{
			AccessToken:  tr.AccessToken,
			RefreshToken: tr.RefreshToken,
			TokenType:    tr.TokenType,
			ExpiresIn:    int64(tr.ExpiresIn),
			ExpiresAt:    issuedAt.Add(time.Duration(tr.ExpiresIn) * time.Second).UTC(),
		},
		Identity: identity,
	}, nil
}
