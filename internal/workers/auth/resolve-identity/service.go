package resolveidentity

import (
	"context"
	"strings"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
)

type Service struct {
	resolver     IdentityResolver
	introspector TokenIntrospector
	logger       logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		resolver:     deps.Resolver,
		introspector: deps.Introspector,
		logger:       deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}

	account, err := s.account(ctx, input)
	if err != nil {
		return nil, err
	}

	identity, err := s.resolver.Resolve(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("identity resolved", map[string]interface{}{
		"accountId":   identity.AccountID,
		"franchiseId": identity.FranchiseID,
		"source":      string(identity.Source),
	})
	return &Output{Identity: identity}, nil
}

// account prefers an explicit account over the access token.
func (s *Service) account(ctx context.Context, input *Input) (models.Account, error) {
	account := models.Account{
		ID:    strings.TrimSpace(input.AccountID),
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
	}
	if account.ID != "" || account.Email != "" {
		return account, nil
	}

	if input.AccessToken == "" {
		return account, errors.NewValidationError("accountId, email or accessToken is required")
	}
	if s.introspector == nil {
		return account, errors.NewValidationError("accessToken: token introspection is not configured")
	}

	info, err := s.introspector.IntrospectToken(ctx, input.AccessToken)
	if err != nil {
		return account, err
	}
	return models.Account{ID: info.Sub, Email: strings.ToLower(info.Email)}, nil
}
