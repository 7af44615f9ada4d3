// internal/workers/billing/create-bill/handler_test.go
package createbill

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"franchise-pos/internal/common/camunda/camundatest"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, bool, error) {
	args := m.Called(ctx, bill)
	switch ret := args.Get(0).(type) {
	case nil:
		return nil, false, args.Error(2)
	case func(context.Context, *models.Bill) *models.Bill:
		return ret(ctx, bill), args.Bool(1), args.Error(2)
	default:
		return ret.(*models.Bill), args.Bool(1), args.Error(2)
	}
}

type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) IndexBill(ctx context.Context, bill *models.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

// ==========================
// Test Helpers
// ==========================

func adminIdentity(fid string) *models.Identity {
	return &models.Identity{
		AccountID:   "acc-1",
		Email:       "jane+" + fid + "@example.com",
		FranchiseID: fid,
		Kind:        models.KindAdmin,
	}
}

func validInput() *Input {
	return &Input{
		Identity:    adminIdentity("FR-7"),
		ModePayment: models.PaymentUPI,
		Items: []models.BillItem{
			{MenuItemID: "m-1", ItemName: "Masala Dosa", Qty: 2, Price: decimal.RequireFromString("60.50")},
			{MenuItemID: "m-2", ItemName: "Filter Coffee", Qty: 1, Price: decimal.RequireFromString("25")},
		},
	}
}

func storedFrom(b *models.Bill) *models.Bill {
	out := *b
	out.ID = "bill-1"
	out.CreatedAt = time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC)
	return &out
}

func newTestHandler(t *testing.T, st BillStore, idx BillIndexer, cache *redis.Client) *Handler {
	return NewHandler(DefaultConfig(), Dependencies{Store: st, Index: idx, Cache: cache}, logger.NewTestLogger(t))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_CreatesBill(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, mr.Set("sales:overview:FR-7:2026-10-12:2026-10-12", "{}"))
	require.NoError(t, mr.Set("sales:overview:FR-8:2026-10-12:2026-10-12", "{}"))

	st := &MockStore{}
	st.On("CreateBill", mock.Anything, mock.MatchedBy(func(b *models.Bill) bool {
		return b.FranchiseID == "FR-7" && b.Total.Equal(decimal.RequireFromString("146")) &&
			b.Items[0].FranchiseID == "FR-7"
	})).Return(func(_ context.Context, b *models.Bill) *models.Bill { return storedFrom(b) }, false, nil)

	idx := &MockIndex{}
	idx.On("IndexBill", mock.Anything, mock.Anything).Return(nil)

	h := newTestHandler(t, st, idx, rdb)
	out, err := h.Execute(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "bill-1", out.BillID)
	assert.Equal(t, "146.00", out.Total.StringFixed(2))
	assert.False(t, out.AlreadyExisted)
	assert.False(t, mr.Exists("sales:overview:FR-7:2026-10-12:2026-10-12"))
	assert.True(t, mr.Exists("sales:overview:FR-8:2026-10-12:2026-10-12"))
	st.AssertExpectations(t)
	idx.AssertExpectations(t)
}

func TestHandler_Execute_IdempotentReplay(t *testing.T) {
	input := validInput()
	input.IdempotencyKey = "till-3-000042"

	prior := storedFrom(&models.Bill{FranchiseID: "FR-7", Total: decimal.RequireFromString("146"), ModePayment: models.PaymentUPI})

	st := &MockStore{}
	st.On("CreateBill", mock.Anything, mock.Anything).Return(prior, true, nil)
	idx := &MockIndex{}

	out, err := newTestHandler(t, st, idx, nil).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, out.AlreadyExisted)
	assert.Equal(t, "bill-1", out.BillID)
	idx.AssertNotCalled(t, "IndexBill", mock.Anything, mock.Anything)
}

func TestHandler_Execute_IndexFailureIsNotFatal(t *testing.T) {
	st := &MockStore{}
	st.On("CreateBill", mock.Anything, mock.Anything).
		Return(func(_ context.Context, b *models.Bill) *models.Bill { return storedFrom(b) }, false, nil)
	idx := &MockIndex{}
	idx.On("IndexBill", mock.Anything, mock.Anything).Return(stderrors.New("connection refused"))

	out, err := newTestHandler(t, st, idx, nil).Execute(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "bill-1", out.BillID)
}

func TestHandler_Execute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
	}{
		{"no items", func(in *Input) { in.Items = nil }},
		{"zero qty", func(in *Input) { in.Items[0].Qty = 0 }},
		{"negative price", func(in *Input) { in.Items[1].Price = decimal.NewFromInt(-1) }},
		{"blank name", func(in *Input) { in.Items[0].ItemName = "  " }},
		{"unknown mode", func(in *Input) { in.ModePayment = "cheque" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &MockStore{}
			input := validInput()
			tt.mutate(input)

			_, err := newTestHandler(t, st, nil, nil).Execute(context.Background(), input)

			assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed), "got %v", err)
			st.AssertNotCalled(t, "CreateBill", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Execute_TenancyViolation(t *testing.T) {
	input := validInput()
	input.FranchiseID = "FR-8"
	st := &MockStore{}

	_, err := newTestHandler(t, st, nil, nil).Execute(context.Background(), input)

	assert.True(t, errors.HasCode(err, errors.ErrCodeTenancyViolation))
	st.AssertNotCalled(t, "CreateBill", mock.Anything, mock.Anything)
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	st := &MockStore{}
	st.On("CreateBill", mock.Anything, mock.Anything).
		Return(nil, false, errors.NewDatabaseInsertFailedError(stderrors.New("connection reset")))

	_, err := newTestHandler(t, st, nil, nil).Execute(context.Background(), validInput())

	assert.True(t, errors.HasCode(err, errors.ErrCodeDatabaseInsertFailed))
}

// ==========================
// Handle
// ==========================

func TestHandler_Handle_CompletesJob(t *testing.T) {
	st := &MockStore{}
	st.On("CreateBill", mock.Anything, mock.Anything).
		Return(func(_ context.Context, b *models.Bill) *models.Bill { return storedFrom(b) }, false, nil)

	client := camundatest.NewJobClient()
	job := camundatest.NewJob(1, TaskType, map[string]interface{}{
		"identity":    adminIdentity("FR-7"),
		"modePayment": "cash",
		"items": []map[string]interface{}{
			{"menuItemId": "m-1", "itemName": "Masala Dosa", "qty": 2, "price": 60.5},
		},
	})

	newTestHandler(t, st, nil, nil).Handle(client, job)

	vars, ok := client.Gateway.CompletedVariables()
	require.True(t, ok)
	assert.Equal(t, "bill-1", vars["billId"])
	assert.Equal(t, "121", vars["total"])
}

func TestHandler_Handle_SchemaRejectsBeforeIO(t *testing.T) {
	st := &MockStore{}
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(2, TaskType, map[string]interface{}{
		"identity":    adminIdentity("FR-7"),
		"modePayment": "cash",
		"items":       []interface{}{},
	})

	newTestHandler(t, st, nil, nil).Handle(client, job)

	assert.Equal(t, "VALIDATION_FAILED", client.Gateway.ThrownCode())
	st.AssertNotCalled(t, "CreateBill", mock.Anything, mock.Anything)
}
