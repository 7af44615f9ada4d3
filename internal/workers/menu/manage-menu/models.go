// internal/workers/menu/manage-menu/models.go
package managemenu

import (
	"franchise-pos/internal/models"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Input struct {
	Identity    *models.Identity `json:"identity"`
	FranchiseID string           `json:"franchiseId,omitempty"`
	Action      Action           `json:"action"`
	Item        *ItemInput       `json:"item,omitempty"`
}

// ItemInput is the editable part of a menu item. ID is required for update
// and delete.
type ItemInput struct {
	ID       string           `json:"id,omitempty"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Category string           `json:"category,omitempty"`
}

type Output struct {
	Action      Action            `json:"action"`
	FranchiseID string            `json:"franchiseId"`
	Items       []models.MenuItem `json:"items,omitempty"`
	Item        *models.MenuItem  `json:"item,omitempty"`
	Deleted     bool              `json:"deleted,omitempty"`
}
