// internal/store/store_test.go
package store

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, "Asia/Kolkata", logger.NewTestLogger(t)), mock
}

var (
	billCols = []string{"id", "created_at", "total", "mode_payment", "franchise_id", "idempotency_key"}
	itemCols = []string{"id", "bill_id", "menu_item_id", "item_name", "qty", "price", "franchise_id"}
	menuCols = []string{"id", "name", "price", "category", "franchise_id", "created_by", "created_at", "updated_at"}
	soldAt   = time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC)
)

func newBill() *models.Bill {
	items := []models.BillItem{
		{MenuItemID: "m-1", ItemName: "Masala Dosa", Qty: 2, Price: decimal.RequireFromString("60.50")},
		{ItemName: "Filter Coffee", Qty: 1, Price: decimal.RequireFromString("2.40")},
	}
	return &models.Bill{
		FranchiseID: "FR-7",
		ModePayment: models.PaymentCash,
		Total:       models.ComputeTotal(items),
		Items:       items,
	}
}

func expectStoredBill(mock sqlmock.Sqlmock, id string) {
	mock.ExpectQuery(`SELECT (.+) FROM generated_bills WHERE id = \$1 AND franchise_id = \$2`).
		WithArgs(id, "FR-7").
		WillReturnRows(sqlmock.NewRows(billCols).AddRow(id, soldAt, "123.40", "upi", "FR-7", "k-1"))
	mock.ExpectQuery(`FROM bill_items WHERE franchise_id = \$1 AND bill_id = ANY\(\$2\)`).
		WithArgs("FR-7", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(int64(1), id, "m-1", "Masala Dosa", 2, "60.50", "FR-7").
			AddRow(int64(2), id, "", "Filter Coffee", 1, "2.40", "FR-7"))
}

// ==========================
// Profiles
// ==========================

func TestGetProfile(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM profiles WHERE id = \$1`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "franchise_id", "created_at"}).
			AddRow("acc-1", "jane+fr-7@x.com", "FR-7", soldAt))
	mock.ExpectQuery(`FROM profiles WHERE id = \$1`).
		WithArgs("acc-2").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM profiles WHERE id = \$1`).
		WithArgs("acc-3").
		WillReturnError(sql.ErrConnDone)

	p, err := s.GetProfile(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "FR-7", p.FranchiseID)

	p, err = s.GetProfile(ctx, "acc-2")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = s.GetProfile(ctx, "acc-3")
	assert.True(t, errors.HasCode(err, errors.ErrCodeQueryExecutionFailed))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryTimeout(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(`FROM profiles`).WillReturnError(context.DeadlineExceeded)

	_, err := s.GetProfile(context.Background(), "acc-1")
	assert.True(t, errors.HasCode(err, errors.ErrCodeQueryTimeout))
}

// ==========================
// Bills
// ==========================

func TestCreateBill_SingleTransaction(t *testing.T) {
	s, mock := newTestStore(t)
	bill := newBill()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO generated_bills`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "123.4", "cash", "FR-7", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bill_items (.+) RETURNING id`).
		WithArgs(sqlmock.AnyArg(), "m-1", "Masala Dosa", 2, "60.5", "FR-7").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(`INSERT INTO bill_items (.+) RETURNING id`).
		WithArgs(sqlmock.AnyArg(), nil, "Filter Coffee", 1, "2.4", "FR-7").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	stored, existed, err := s.CreateBill(context.Background(), bill)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, int64(10), stored.Items[0].ID)
	assert.Equal(t, stored.ID, stored.Items[1].BillID)
	assert.Equal(t, "FR-7", stored.Items[1].FranchiseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBill_ItemFailureRollsBack(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO generated_bills`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bill_items`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, _, err := s.CreateBill(context.Background(), newBill())
	require.Error(t, err)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBill_IdempotencyKeyReturnsExisting(t *testing.T) {
	s, mock := newTestStore(t)
	bill := newBill()
	bill.IdempotencyKey = "k-1"

	mock.ExpectQuery(`SELECT id FROM generated_bills WHERE franchise_id = \$1 AND idempotency_key = \$2`).
		WithArgs("FR-7", "k-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("b-old"))
	expectStoredBill(mock, "b-old")

	stored, existed, err := s.CreateBill(context.Background(), bill)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "b-old", stored.ID)
	assert.Len(t, stored.Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBill_ConcurrentKeyConflict(t *testing.T) {
	s, mock := newTestStore(t)
	bill := newBill()
	bill.IdempotencyKey = "k-1"

	mock.ExpectQuery(`SELECT id FROM generated_bills WHERE franchise_id`).
		WithArgs("FR-7", "k-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO generated_bills`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "123.4", "cash", "FR-7", "k-1").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()
	mock.ExpectQuery(`SELECT id FROM generated_bills WHERE franchise_id`).
		WithArgs("FR-7", "k-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("b-won"))
	expectStoredBill(mock, "b-won")

	stored, existed, err := s.CreateBill(context.Background(), bill)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "b-won", stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBill_KeyReusedByAnotherFranchise(t *testing.T) {
	s, mock := newTestStore(t)
	bill := newBill()
	bill.FranchiseID = "FR-8"
	bill.IdempotencyKey = "k-1"

	mock.ExpectQuery(`SELECT id FROM generated_bills WHERE franchise_id`).
		WithArgs("FR-8", "k-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO generated_bills`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "123.4", "cash", "FR-8", "k-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bill_items`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO bill_items`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectCommit()

	stored, existed, err := s.CreateBill(context.Background(), bill)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "FR-8", stored.FranchiseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Schema
// ==========================

func TestEnsureSchema(t *testing.T) {
	s, mock := newTestStore(t)
	for _, stmt := range schema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchema_IdempotencyKeyScopedToFranchise(t *testing.T) {
	var scoped bool
	for _, stmt := range schema {
		flat := strings.Join(strings.Fields(stmt), " ")
		assert.NotRegexp(t, `idempotency_key text (UNIQUE|unique)`, flat)
		if strings.HasPrefix(flat, "CREATE UNIQUE INDEX") &&
			strings.Contains(flat, "ON generated_bills (franchise_id, idempotency_key)") {
			scoped = true
		}
	}
	assert.True(t, scoped)
}

func TestEnsureSchema_StopsOnError(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS profiles`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS menu_items`).WillReturnError(sql.ErrConnDone)

	err := s.EnsureSchema(context.Background())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeQueryExecutionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBill_NotFound(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(`FROM generated_bills WHERE id = \$1`).
		WithArgs("b-x", "FR-7").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetBill(context.Background(), "FR-7", "b-x")
	assert.True(t, errors.HasCode(err, errors.ErrCodeBillNotFound))
}

func TestListBills(t *testing.T) {
	s, mock := newTestStore(t)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM generated_bills WHERE franchise_id = \$1 AND created_at >= \$2 AND created_at < \$3 ORDER BY created_at DESC, id LIMIT \$4`).
		WithArgs("FR-7", from, to, 50).
		WillReturnRows(sqlmock.NewRows(billCols).
			AddRow("b-2", soldAt.Add(time.Hour), "10.00", "card", "FR-7", "").
			AddRow("b-1", soldAt, "123.40", "upi", "FR-7", ""))
	mock.ExpectQuery(`FROM bill_items WHERE franchise_id = \$1 AND bill_id = ANY\(\$2\)`).
		WithArgs("FR-7", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(int64(1), "b-1", "m-1", "Masala Dosa", 2, "60.50", "FR-7"))

	bills, err := s.ListBills(context.Background(), models.BillFilter{FranchiseID: "FR-7", From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "b-2", bills[0].ID)
	assert.Equal(t, models.PaymentCard, bills[0].ModePayment)
	assert.Empty(t, bills[0].Items)
	assert.NotNil(t, bills[0].Items)
	require.Len(t, bills[1].Items, 1)
	assert.True(t, decimal.RequireFromString("60.5").Equal(bills[1].Items[0].Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBills_EmptySkipsItems(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(`FROM generated_bills WHERE franchise_id = \$1 ORDER BY created_at DESC, id LIMIT \$2`).
		WithArgs("FR-7", 5).
		WillReturnRows(sqlmock.NewRows(billCols))

	bills, err := s.ListBills(context.Background(), models.BillFilter{FranchiseID: "FR-7", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, bills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Menu
// ==========================

func TestMenuCRUD(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM menu_items WHERE franchise_id = \$1 ORDER BY category, name`).
		WithArgs("FR-7").
		WillReturnRows(sqlmock.NewRows(menuCols).
			AddRow("m-1", "Masala Dosa", "60.50", "Mains", "FR-7", "acc-1", soldAt, soldAt))
	mock.ExpectExec(`INSERT INTO menu_items`).
		WithArgs(sqlmock.AnyArg(), "Chai", "12", "General", "FR-7", "acc-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE menu_items SET name = \$1`).
		WithArgs("Chai", "15", "Drinks", sqlmock.AnyArg(), "m-9", "FR-7").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM menu_items WHERE id = \$1 AND franchise_id = \$2`).
		WithArgs("m-1", "FR-7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	items, err := s.ListMenu(ctx, "FR-7")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Masala Dosa", items[0].Name)

	item := &models.MenuItem{Name: "Chai", Price: decimal.NewFromInt(12), Category: "General", FranchiseID: "FR-7", CreatedBy: "acc-1"}
	require.NoError(t, s.CreateMenuItem(ctx, item))
	assert.NotEmpty(t, item.ID)

	err = s.UpdateMenuItem(ctx, &models.MenuItem{ID: "m-9", Name: "Chai", Price: decimal.NewFromInt(15), Category: "Drinks", FranchiseID: "FR-7"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeMenuItemNotFound))

	require.NoError(t, s.DeleteMenuItem(ctx, "FR-7", "m-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Sales
// ==========================

func TestSalesOverview(t *testing.T) {
	s, mock := newTestStore(t)
	from := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT mode_payment, COUNT\(\*\)`).
		WithArgs("FR-7", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"mode_payment", "count", "sum"}).
			AddRow("cash", 2, "300.00").
			AddRow("upi", 1, "150.50"))
	mock.ExpectQuery(`to_char\(created_at AT TIME ZONE \$4`).
		WithArgs("FR-7", from, to, "Asia/Kolkata").
		WillReturnRows(sqlmock.NewRows([]string{"day", "sum"}).AddRow("2026-10-12", "450.50"))
	mock.ExpectQuery(`GROUP BY bi.item_name ORDER BY qty DESC`).
		WithArgs("FR-7", from, to, 5).
		WillReturnRows(sqlmock.NewRows([]string{"item_name", "qty", "revenue"}).
			AddRow("Masala Dosa", 5, "302.50").
			AddRow("Chai", 4, "48.00"))

	out, err := s.SalesOverview(context.Background(), "FR-7", from, to)
	require.NoError(t, err)
	assert.Equal(t, "450.5", out.TotalSales.String())
	assert.Equal(t, 3, out.BillCount)
	assert.Equal(t, "150.17", out.AverageBill.String())
	require.Len(t, out.PaymentTotals, 2)
	assert.Equal(t, models.PaymentUPI, out.PaymentTotals[1].ModePayment)
	require.Len(t, out.DailyTotals, 1)
	assert.Equal(t, "2026-10-12", out.DailyTotals[0].Day)
	require.Len(t, out.TopItems, 2)
	assert.Equal(t, "Masala Dosa", out.TopItems[0].ItemName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesOverview_NoBills(t *testing.T) {
	s, mock := newTestStore(t)
	from := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT mode_payment, COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"mode_payment", "count", "sum"}))

	out, err := s.SalesOverview(context.Background(), "FR-7", from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, out.BillCount)
	assert.True(t, out.AverageBill.IsZero())
	assert.NotNil(t, out.TopItems)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyQuantitiesAndSaleLines(t *testing.T) {
	s, mock := newTestStore(t)
	since := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	d1 := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	mock.ExpectQuery(`date_trunc\('day', b.created_at AT TIME ZONE \$3\)`).
		WithArgs("FR-7", since, "Asia/Kolkata").
		WillReturnRows(sqlmock.NewRows([]string{"item_name", "day", "sum"}).
			AddRow("Chai", d1, 3).
			AddRow("Chai", d2, 5).
			AddRow("Dosa", d2, 1))
	mock.ExpectQuery(`SELECT bi.item_name, bi.qty, b.created_at`).
		WithArgs("FR-7", since).
		WillReturnRows(sqlmock.NewRows([]string{"item_name", "qty", "created_at"}).
			AddRow("Chai", 3, soldAt))

	series, err := s.DailyQuantities(context.Background(), "FR-7", since)
	require.NoError(t, err)
	assert.Len(t, series["Chai"], 2)
	assert.Equal(t, 5, series["Chai"][1].Qty)
	assert.Len(t, series["Dosa"], 1)

	lines, err := s.SaleLines(context.Background(), "FR-7", since)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, soldAt, lines[0].SoldAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
