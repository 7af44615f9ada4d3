// Package registerstoreaccount creates the shared store account of a franchise.
package registerstoreaccount

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"franchise-pos/internal/common/auth"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/tenancy"
)

const (
	statusCreated = "created"
	statusExists  = "already_registered"
)

type Service struct {
	config   *Config
	accounts AccountCreator
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
	if utf8.RuneCountInString(input.Password) < s.config.MinPasswordLength {
		return nil, errors.NewValidationError(fmt.Sprintf("password: must be at least %d characters", s.config.MinPasswordLength))
	}

	franchiseID, err := tenancy.ScopeFranchise(input.Identity, input.FranchiseID)
	if err != nil {
		return nil, err
	}
	if !input.Identity.CanManage() {
		return nil, errors.NewForbiddenError("store accounts cannot register accounts")
	}

	email := tenancy.StoreEmail(franchiseID, s.config.StoreEmailDomain)
	out := &Output{FranchiseID: franchiseID, StoreEmail: email}

	user, err := s.accounts.CreateUser(ctx, &auth.User{
		Email:         email,
		Username:      email,
		Enabled:       true,
		EmailVerified: true,
	}, input.Password)
	if err != nil {
		if !alreadyRegistered(err) {
			return nil, err
		}
		s.logger.Info("store account already registered", map[string]interface{}{
			"franchiseId": franchiseID,
			"storeEmail":  email,
		})
		out.Status = statusExists
		out.AlreadyExisted = true
		return out, nil
	}

	out.Status = statusCreated
	out.UserID = user.ID
	s.logger.Info("store account registered", map[string]interface{}{
		"franchiseId": franchiseID,
		"storeEmail":  email,
		"userId":      user.ID,
	})
	return out, nil
}

// alreadyRegistered matches the provider's duplicate-account wording.
func alreadyRegistered(err error) bool {
	text := err.Error()
	if stdErr, ok := errors.AsStandardError(err); ok {
		text = stdErr.Message + " " + stdErr.Details
	}
	text = strings.ToLower(text)
	return strings.Contains(text, "already registered") || strings.Contains(text, "exists")
}
