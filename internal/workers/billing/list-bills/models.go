// internal/workers/billing/list-bills/models.go
package listbills

import "franchise-pos/internal/models"

// Input dates are calendar days (2006-01-02) in the store timezone. To is
// inclusive.
type Input struct {
	Identity    *models.Identity `json:"identity"`
	FranchiseID string           `json:"franchiseId,omitempty"`
	From        string           `json:"from,omitempty"`
	To          string           `json:"to,omitempty"`
	Limit       int              `json:"limit,omitempty"`
}

type Output struct {
	FranchiseID string        `json:"franchiseId"`
	Bills       []models.Bill `json:"bills"`
	Count       int           `json:"count"`
}
