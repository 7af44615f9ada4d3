// Package changepassword sets an admin's password and mirrors it onto the
// franchise's store account.
package changepassword

import (
	"context"
	"fmt"
	"unicode/utf8"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/tenancy"
)

const (
	statusUpdated   = "updated"
	statusAdminOnly = "admin_only"
)

type Service struct {
	config   *Config
	accounts PasswordManager
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		accounts: deps.Accounts,
		logger:   deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}
	if utf8.RuneCountInString(input.NewPassword) < s.config.MinPasswordLength {
		return nil, errors.NewValidationError(fmt.Sprintf("newPassword: must be at least %d characters", s.config.MinPasswordLength))
	}
	identity := input.Identity
	if identity == nil || identity.AccountID == "" {
		return nil, errors.NewForbiddenError("no resolved identity")
	}
	if !identity.CanManage() {
		return nil, errors.NewForbiddenError("store accounts cannot change passwords")
	}

	if err := s.accounts.ResetPassword(ctx, identity.AccountID, input.NewPassword); err != nil {
		return nil, err
	}
	out := &Output{Status: statusAdminOnly, AdminUpdated: true}

	storeEmail := tenancy.StoreEmail(identity.FranchiseID, s.config.StoreEmailDomain)
	store, err := s.accounts.GetUserByEmail(ctx, storeEmail)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeUserNotFound) {
			s.logger.Warn("store account missing, skipping password sync", map[string]interface{}{
				"franchiseId": identity.FranchiseID,
				"storeEmail":  storeEmail,
			})
			return out, nil
		}
		return nil, err
	}

	if err := s.accounts.ResetPassword(ctx, store.ID, input.NewPassword); err != nil {
		return nil, err
	}
	out.Status = statusUpdated
	out.StoreSynced = true
	out.StoreEmail = storeEmail

	s.logger.Info("password changed", map[string]interface{}{
		"accountId":   identity.AccountID,
		"franchiseId": identity.FranchiseID,
		"storeSynced": true,
	})
	return out, nil
}
