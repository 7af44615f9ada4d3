// internal/workers/billing/format-receipt/models.go
package formatreceipt

import "franchise-pos/internal/models"

type Input struct {
	Identity    *models.Identity `json:"identity"`
	FranchiseID string           `json:"franchiseId,omitempty"`
	BillID      string           `json:"billId"`
}

type Output struct {
	BillID      string `json:"billId"`
	ReceiptText string `json:"receiptText"`
	Width       int    `json:"width"`
}
