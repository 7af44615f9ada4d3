// internal/workers/billing/share-receipt/models.go
package sharereceipt

import "franchise-pos/internal/models"

type Input struct {
	Identity    *models.Identity      `json:"identity"`
	FranchiseID string                `json:"franchiseId,omitempty"`
	BillID      string                `json:"billId"`
	Channel     models.ReceiptChannel `json:"channel"`
	Recipient   string                `json:"recipient"`
}

type Output struct {
	BillID    string                `json:"billId"`
	Channel   models.ReceiptChannel `json:"channel"`
	MessageID string                `json:"messageId"`
	Delivered bool                  `json:"delivered"`
}
