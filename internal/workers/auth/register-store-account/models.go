package registerstoreaccount

import (
	"context"

	"franchise-pos/internal/common/auth"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
)

type Input struct {
	Identity    *models.Identity `json:"identity"`
	FranchiseID string           `json:"franchiseId,omitempty"`
	Password    string           `json:"password"`
}

type Output struct {
	Status         string `json:"status"`
	FranchiseID    string `json:"franchiseId"`
	StoreEmail     string `json:"storeEmail"`
	UserID         string `json:"userId,omitempty"`
	AlreadyExisted bool   `json:"alreadyExisted"`
}

type AccountCreator interface {
	CreateUser(ctx context.Context, user *auth.User, password string) (*auth.User, error)
}

type ServiceDependencies struct {
	Accounts AccountCreator
	Logger   logger.Logger
}
