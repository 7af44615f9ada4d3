package authsignin

import (
	"context"
	"time"

	"franchise-pos/internal/common/auth"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
)

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Output struct {
	Status   string            `json:"status"`
	Tokens   models.AuthTokens `json:"tokens"`
	Identity *models.Identity  `json:"identity"`
}

// TokenProvider is the part of the auth provider sign-in needs.
type TokenProvider interface {
	PasswordGrant(ctx context.Context, username, password string) (*auth.TokenResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
}

type IdentityResolver interface {
	Resolve(ctx context.Context, account models.Account) (*models.Identity, error)
}

type ServiceDependencies struct {
	Provider TokenProvider
	Resolver IdentityResolver
	Logger   logger.Logger
	Now      func() time.Time
}
