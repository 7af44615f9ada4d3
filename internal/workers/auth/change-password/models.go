package changepassword

import (
	"context"

	"franchise-pos/internal/common/auth"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
)

type Input struct {
	Identity    *models.Identity `json:"identity"`
	NewPassword string           `json:"newPassword"`
}

type Output struct {
	Status       string `json:"status"`
	AdminUpdated bool   `json:"adminUpdated"`
	StoreSynced  bool   `json:"storeSynced"`
	StoreEmail   string `json:"storeEmail,omitempty"`
}

type PasswordManager interface {
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	ResetPassword(ctx context.Context, userID, password string) error
}

type ServiceDependencies struct {
	Accounts PasswordManager
	Logger   logger.Logger
}
