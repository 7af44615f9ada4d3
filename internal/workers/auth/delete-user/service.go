// Package deleteuser removes an account from the auth provider on behalf of
// an admin.
package deleteuser

import (
	"context"
	"strings"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/validation"
	"franchise-pos/internal/models"
)

const statusDeleted = "deleted"

type Service struct {
	accounts AccountDeleter
	resolver IdentityResolver
	logger   logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		accounts: deps.Accounts,
		resolver: deps.Resolver,
		logger:   deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}
	caller := input.Identity
	if caller == nil || caller.FranchiseID == "" {
		return nil, errors.NewForbiddenError("no resolved identity")
	}
	if !caller.CanManage() {
		return nil, errors.NewForbiddenError("only admins can delete accounts")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !validation.ValidateEmail(email) {
		return nil, errors.NewValidationError("email: invalid format")
	}

	user, err := s.accounts.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.ID == caller.AccountID {
		return nil, errors.NewValidationError("email: an account cannot delete itself")
	}

	target, err := s.resolver.Resolve(ctx, models.Account{ID: user.ID, Email: user.Email})
	switch {
	case err == nil:
		if !caller.IsCentral() && target.FranchiseID != caller.FranchiseID {
			return nil, errors.NewTenancyViolationError(target.FranchiseID, caller.FranchiseID)
		}
	case caller.IsCentral() && errors.HasCode(err, errors.ErrCodeFranchiseIDNotFound):
		// central may remove accounts that never got a franchise
		target = &models.Identity{}
	default:
		return nil, err
	}

	if err := s.accounts.DeleteUser(ctx, user.ID); err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, user.ID)

	s.logger.Info("account deleted", map[string]interface{}{
		"userId":      user.ID,
		"franchiseId": target.FranchiseID,
		"deletedBy":   caller.AccountID,
	})

	return &Output{
		Status:      statusDeleted,
		UserID:      user.ID,
		Email:       email,
		FranchiseID: target.FranchiseID,
	}, nil
}
