// internal/workers/analytics/predict-trends/models.go
package predicttrends

import "franchise-pos/internal/models"

type Input struct {
	Identity     *models.Identity `json:"identity"`
	FranchiseID  string           `json:"franchiseId,omitempty"`
	LookbackDays int              `json:"lookbackDays,omitempty"`
	// IncludeStrategies defaults to true when absent.
	IncludeStrategies *bool `json:"includeStrategies,omitempty"`
}

type Output struct {
	FranchiseID     string                  `json:"franchiseId"`
	LookbackDays    int                     `json:"lookbackDays"`
	Since           string                  `json:"since"`
	Trends          []models.Trend          `json:"trends"`
	Recommendations []models.Recommendation `json:"recommendations"`
}
