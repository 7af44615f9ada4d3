// internal/store/sales.go
package store

import (
	"context"
	"time"

	"franchise-pos/internal/models"

	"github.com/shopspring/decimal"
)

const topItemsLimit = 5

// SalesOverview aggregates bills in [from, to) for a franchise.
func (s *Store) SalesOverview(ctx context.Context, franchiseID string, from, to time.Time) (*models.SalesOverview, error) {
	out := &models.SalesOverview{
		FranchiseID:   franchiseID,
		TotalSales:    decimal.Zero,
		AverageBill:   decimal.Zero,
		PaymentTotals: []models.PaymentTotal{},
		DailyTotals:   []models.DailyTotal{},
		TopItems:      []models.ItemSales{},
	}

	if err := s.paymentTotals(ctx, out, franchiseID, from, to); err != nil {
		return nil, err
	}
	if out.BillCount == 0 {
		return out, nil
	}
	out.AverageBill = out.TotalSales.Div(decimal.NewFromInt(int64(out.BillCount))).Round(2)

	if err := s.dailyTotals(ctx, out, franchiseID, from, to); err != nil {
		return nil, err
	}
	if err := s.topItems(ctx, out, franchiseID, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) paymentTotals(ctx context.Context, out *models.SalesOverview, franchiseID string, from, to time.Time) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mode_payment, COUNT(*), COALESCE(SUM(total), 0)
		FROM generated_bills
		WHERE franchise_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY mode_payment
		ORDER BY mode_payment`, franchiseID, from, to)
	if err != nil {
		return queryError(ctx, models.QueryTypeSalesOverview, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pt   models.PaymentTotal
			mode string
		)
		if err := rows.Scan(&mode, &pt.BillCount, &pt.Total); err != nil {
			return queryError(ctx, models.QueryTypeSalesOverview, err)
		}
		pt.ModePayment = models.PaymentMode(mode)
		out.PaymentTotals = append(out.PaymentTotals, pt)
		out.TotalSales = out.TotalSales.Add(pt.Total)
		out.BillCount += pt.BillCount
	}
	if err := rows.Err(); err != nil {
		return queryError(ctx, models.QueryTypeSalesOverview, err)
	}
	return nil
}

func (s *Store) dailyTotals(ctx context.Context, out *models.SalesOverview, franchiseID string, from, to time.Time) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(created_at AT TIME ZONE $4, 'YYYY-MM-DD') AS day, SUM(total)
		FROM generated_bills
		WHERE franchise_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY day
		ORDER BY day`, franchiseID, from, to, s.timezone)
	if err != nil {
		return queryError(ctx, models.QueryTypeSalesOverview, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.DailyTotal
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return queryError(ctx, models.QueryTypeSalesOverview, err)
		}
		out.DailyTotals = append(out.DailyTotals, d)
	}
	if err := rows.Err(); err != nil {
		return queryError(ctx, models.QueryTypeSalesOverview, err)
	}
	return nil
}

func (s *Store) topItems(ctx context.Context, out *models.SalesOverview, franchiseID string, from, to time.Time) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bi.item_name, SUM(bi.qty) AS qty, SUM(bi.qty * bi.price) AS revenue
		FROM bill_items bi
		JOIN generated_bills b ON b.id = bi.bill_id
		WHERE bi.franchise_id = $1 AND b.created_at >= $2 AND b.created_at < $3
		GROUP BY bi.item_name
		ORDER BY qty DESC, bi.item_name
		LIMIT $4`, franchiseID, from, to, topItemsLimit)
	if err != nil {
		return queryError(ctx, models.QueryTypeSalesOverview, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.ItemSales
		if err := rows.Scan(&it.ItemName, &it.Qty, &it.Revenue); err != nil {
			return queryError(ctx, models.QueryTypeSalesOverview, err)
		}
		out.TopItems = append(out.TopItems, it)
	}
	if err := rows.Err(); err != nil {
		return queryError(ctx, models.QueryTypeSalesOverview, err)
	}
	return nil
}

// DailyQuantities returns per-item units sold per local calendar day since
// the given instant.
func (s *Store) DailyQuantities(ctx context.Context, franchiseID string, since time.Time) (map[string][]models.DailyQuantity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bi.item_name, date_trunc('day', b.created_at AT TIME ZONE $3) AS day, SUM(bi.qty)
		FROM bill_items bi
		JOIN generated_bills b ON b.id = bi.bill_id
		WHERE bi.franchise_id = $1 AND b.created_at >= $2
		GROUP BY bi.item_name, day
		ORDER BY bi.item_name, day`, franchiseID, since, s.timezone)
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeDailyQuantities, err)
	}
	defer rows.Close()

	out := make(map[string][]models.DailyQuantity)
	for rows.Next() {
		var (
			name string
			dq   models.DailyQuantity
		)
		if err := rows.Scan(&name, &dq.Day, &dq.Qty); err != nil {
			return nil, queryError(ctx, models.QueryTypeDailyQuantities, err)
		}
		out[name] = append(out[name], dq)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, models.QueryTypeDailyQuantities, err)
	}
	return out, nil
}

// SaleLines returns every sold line since the given instant, oldest first.
func (s *Store) SaleLines(ctx context.Context, franchiseID string, since time.Time) ([]models.SaleLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bi.item_name, bi.qty, b.created_at
		FROM bill_items bi
		JOIN generated_bills b ON b.id = bi.bill_id
		WHERE bi.franchise_id = $1 AND b.created_at >= $2
		ORDER BY b.created_at, bi.id`, franchiseID, since)
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeSaleLines, err)
	}
	defer rows.Close()

	lines := []models.SaleLine{}
	for rows.Next() {
		var l models.SaleLine
		if err := rows.Scan(&l.ItemName, &l.Qty, &l.SoldAt); err != nil {
			return nil, queryError(ctx, models.QueryTypeSaleLines, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, models.QueryTypeSaleLines, err)
	}
	return lines, nil
}
