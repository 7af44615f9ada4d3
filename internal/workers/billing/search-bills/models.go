// internal/workers/billing/search-bills/models.go
package searchbills

import (
	"franchise-pos/internal/models"
	"franchise-pos/internal/search"
)

type Input struct {
	Identity    *models.Identity `json:"identity"`
	FranchiseID string           `json:"franchiseId,omitempty"`
	Text        string           `json:"text"`
	From        string           `json:"from,omitempty"`
	To          string           `json:"to,omitempty"`
	Offset      int              `json:"offset,omitempty"`
	Size        int              `json:"size,omitempty"`
}

type Output struct {
	FranchiseID string                `json:"franchiseId"`
	Bills       []search.BillDocument `json:"bills"`
	TotalHits   int64                 `json:"totalHits"`
	Took        int64                 `json:"took"`
}
