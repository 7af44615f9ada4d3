// internal/workers/billing/export-bills/models.go
package exportbills

import "franchise-pos/internal/models"

type Input struct {
	Identity    *models.Identity `json:"identity"`
	FranchiseID string           `json:"franchiseId,omitempty"`
	From        string           `json:"from,omitempty"`
	To          string           `json:"to,omitempty"`
}

type Output struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	// Content is the base64 encoded workbook.
	Content   string `json:"content"`
	RowCount  int    `json:"rowCount"`
	BillCount int    `json:"billCount"`
	// Truncated is set when the range holds more bills than the export cap;
	// the workbook then carries the newest bills only.
	Truncated bool `json:"truncated"`
}

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
