// internal/models/menu.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultMenuCategory = "General"

type MenuItem struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	FranchiseID string          `json:"franchiseId" db:"franchise_id"`
	CreatedBy   string          `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}
