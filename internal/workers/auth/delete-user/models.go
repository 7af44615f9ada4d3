package deleteuser

import (
	"context"

	"franchise-pos/internal/common/auth"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
)

type Input struct {
	Identity *models.Identity `json:"identity"`
	Email    string           `json:"email"`
}

type Output struct {
	Status      string `json:"status"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	FranchiseID string `json:"franchiseId,omitempty"`
}

type AccountDeleter interface {
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type IdentityResolver interface {
	Resolve(ctx context.Context, account models.Account) (*models.Identity, error)
	Invalidate(ctx context.Context, accountID string)
}

type ServiceDependencies struct {
	Accounts AccountDeleter
	Resolver IdentityResolver
	Logger   logger.Logger
}
