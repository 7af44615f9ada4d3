// internal/workers/analytics/sales-overview/models.go
package salesoverview

import "franchise-pos/internal/models"

// Input dates are inclusive calendar days. Both default to today.
type Input struct {
	Identity    *models.Identity `json:"identity"`
	FranchiseID string           `json:"franchiseId,omitempty"`
	From        string           `json:"from,omitempty"`
	To          string           `json:"to,omitempty"`
}

type Output struct {
	models.SalesOverview
	Cached bool `json:"cached"`
}
