// internal/store/bills.go
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"franchise-pos/internal/common/database"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const billColumns = `id, created_at, total, mode_payment, franchise_id, COALESCE(idempotency_key, '')`

// CreateBill writes the bill header and its items in one transaction. When
// bill carries an idempotency key that was already used for the franchise,
// the stored bill is returned with existed set and nothing is written.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) (stored *models.Bill, existed bool, err error) {
	if bill.IdempotencyKey != "" {
		prior, err := s.billByKey(ctx, bill.FranchiseID, bill.IdempotencyKey)
		if err != nil || prior != nil {
			return prior, prior != nil, err
		}
	}

	bill.ID = uuid.NewString()
	bill.CreatedAt = time.Now().UTC()

	err = database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO generated_bills (id, created_at, total, mode_payment, franchise_id, idempotency_key)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			bill.ID, bill.CreatedAt, bill.Total, string(bill.ModePayment), bill.FranchiseID, nullString(bill.IdempotencyKey)); err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}

		for i := range bill.Items {
			it := &bill.Items[i]
			it.BillID = bill.ID
			it.FranchiseID = bill.FranchiseID
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO bill_items (bill_id, menu_item_id, item_name, qty, price, franchise_id)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				it.BillID, nullString(it.MenuItemID), it.ItemName, it.Qty, it.Price, it.FranchiseID).Scan(&it.ID); err != nil {
				return fmt.Errorf("insert bill item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		if bill.IdempotencyKey != "" && isUniqueViolation(err) {
			// a concurrent request with the same key won the insert
			prior, lookupErr := s.billByKey(ctx, bill.FranchiseID, bill.IdempotencyKey)
			if lookupErr == nil && prior != nil {
				return prior, true, nil
			}
		}
		return nil, false, errors.NewDatabaseInsertFailedError(err)
	}

	return bill, false, nil
}

func (s *Store) billByKey(ctx context.Context, franchiseID, key string) (*models.Bill, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM generated_bills
		WHERE franchise_id = $1 AND idempotency_key = $2`, franchiseID, key).Scan(&id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeBillByKey, err)
	}
	return s.GetBill(ctx, franchiseID, id)
}

// GetBill loads one bill with its items.
func (s *Store) GetBill(ctx context.Context, franchiseID, billID string) (*models.Bill, error) {
	var (
		b    models.Bill
		mode string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT `+billColumns+`
		FROM generated_bills
		WHERE id = $1 AND franchise_id = $2`, billID, franchiseID).
		Scan(&b.ID, &b.CreatedAt, &b.Total, &mode, &b.FranchiseID, &b.IdempotencyKey)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewBillNotFoundError(billID)
	}
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeBillGet, err)
	}
	b.ModePayment = models.PaymentMode(mode)

	items, err := s.itemsFor(ctx, franchiseID, []string{b.ID})
	if err != nil {
		return nil, err
	}
	b.Items = items[b.ID]
	if b.Items == nil {
		b.Items = []models.BillItem{}
	}
	return &b, nil
}

// ListBills returns bills newest first, each with its items.
func (s *Store) ListBills(ctx context.Context, f models.BillFilter) ([]models.Bill, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := `SELECT ` + billColumns + ` FROM generated_bills WHERE franchise_id = $1`
	args := []interface{}{f.FranchiseID}
	if f.From != nil {
		args = append(args, *f.From)
		q += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		q += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeBillList, err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	ids := []string{}
	for rows.Next() {
		var (
			b    models.Bill
			mode string
		)
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.Total, &mode, &b.FranchiseID, &b.IdempotencyKey); err != nil {
			return nil, queryError(ctx, models.QueryTypeBillList, err)
		}
		b.ModePayment = models.PaymentMode(mode)
		bills = append(bills, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, models.QueryTypeBillList, err)
	}
	if len(ids) == 0 {
		return bills, nil
	}

	items, err := s.itemsFor(ctx, f.FranchiseID, ids)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		bills[i].Items = items[bills[i].ID]
		if bills[i].Items == nil {
			bills[i].Items = []models.BillItem{}
		}
	}
	return bills, nil
}

func (s *Store) itemsFor(ctx context.Context, franchiseID string, billIDs []string) (map[string][]models.BillItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bill_id, COALESCE(menu_item_id, ''), item_name, qty, price, franchise_id
		FROM bill_items
		WHERE franchise_id = $1 AND bill_id = ANY($2)
		ORDER BY bill_id, id`, franchiseID, pq.Array(billIDs))
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeBillGet, err)
	}
	defer rows.Close()

	out := make(map[string][]models.BillItem, len(billIDs))
	for rows.Next() {
		var it models.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.MenuItemID, &it.ItemName, &it.Qty, &it.Price, &it.FranchiseID); err != nil {
			return nil, queryError(ctx, models.QueryTypeBillGet, err)
		}
		out[it.BillID] = append(out[it.BillID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, models.QueryTypeBillGet, err)
	}
	return out, nil
}
