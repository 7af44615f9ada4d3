// internal/workers/billing/create-bill/models.go
package createbill

import (
	"franchise-pos/internal/models"

	"github.com/shopspring/decimal"
)

type Input struct {
	Identity       *models.Identity   `json:"identity"`
	FranchiseID    string             `json:"franchiseId,omitempty"`
	ModePayment    models.PaymentMode `json:"modePayment"`
	Items          []models.BillItem  `json:"items"`
	IdempotencyKey string             `json:"idempotencyKey,omitempty"`
}

type Output struct {
	BillID         string          `json:"billId"`
	Total          decimal.Decimal `json:"total"`
	Bill           *models.Bill    `json:"bill"`
	AlreadyExisted bool            `json:"alreadyExisted"`
}

const inputSchema = `{
  "type": "object",
  "required": ["modePayment", "items"],
  "properties": {
    "franchiseId": {"type": "string"},
    "modePayment": {"type": "string", "enum": ["cash", "card", "upi"]},
    "idempotencyKey": {"type": "string", "maxLength": 128},
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["itemName", "qty", "price"],
        "properties": {
          "menuItemId": {"type": "string"},
          "itemName": {"type": "string", "minLength": 1},
          "qty": {"type": "integer", "minimum": 1},
          "price": {"type": ["number", "string"], "minimum": 0, "pattern": "^[0-9]+(\\.[0-9]+)?$"}
        }
      }
    }
  }
}`
