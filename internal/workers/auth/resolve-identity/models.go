package resolveidentity

import (
	"context"

	"franchise-pos/internal/common/auth"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
)

// Input names the account directly or through an access token.
type Input struct {
	AccountID   string `json:"accountId,omitempty"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

type Output struct {
	Identity *models.Identity `json:"identity"`
}

type IdentityResolver interface {
	Resolve(ctx context.Context, account models.Account) (*models.Identity, error)
}

type TokenIntrospector interface {
	IntrospectToken(ctx context.Context, token string) (*auth.TokenInfo, error)
}

type ServiceDependencies struct {
	Resolver     IdentityResolver
	Introspector TokenIntrospector
	Logger       logger.Logger
}
