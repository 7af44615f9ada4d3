// internal/models/bill.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentCash PaymentMode = "cash"
	PaymentCard PaymentMode = "card"
	PaymentUPI  PaymentMode = "upi"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

// Bill is a completed sale. Bills are immutable once written.
type Bill struct {
	ID             string          `json:"id" db:"id"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	Total          decimal.Decimal `json:"total" db:"total"`
	ModePayment    PaymentMode     `json:"modePayment" db:"mode_payment"`
	FranchiseID    string          `json:"franchiseId" db:"franchise_id"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty" db:"idempotency_key"`
	Items          []BillItem      `json:"items"`
}

// BillItem is a line of a bill with the name and price captured at sale time.
type BillItem struct {
	ID          int64           `json:"id,omitempty" db:"id"`
	BillID      string          `json:"billId,omitempty" db:"bill_id"`
	MenuItemID  string          `json:"menuItemId" db:"menu_item_id"`
	ItemName    string          `json:"itemName" db:"item_name"`
	Qty         int             `json:"qty" db:"qty"`
	Price       decimal.Decimal `json:"price" db:"price"`
	FranchiseID string          `json:"franchiseId,omitempty" db:"franchise_id"`
}

func (i BillItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// ComputeTotal sums qty * price over items.
func ComputeTotal(items []BillItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// BillFilter narrows a bill history query. From is inclusive, To exclusive.
type BillFilter struct {
	FranchiseID string
	From        *time.Time
	To          *time.Time
	Limit       int
}
