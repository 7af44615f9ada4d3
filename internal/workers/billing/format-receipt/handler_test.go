// internal/workers/billing/format-receipt/handler_test.go
package formatreceipt

import (
	"context"
	"strings"
	"testing"
	"time"

	"franchise-pos/internal/common/camunda/camundatest"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetBill(ctx context.Context, franchiseID, billID string) (*models.Bill, error) {
	args := m.Called(ctx, franchiseID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func testBill() *models.Bill {
	return &models.Bill{
		ID:          "b-1",
		CreatedAt:   time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC),
		Total:       decimal.RequireFromString("123.4"),
		ModePayment: models.PaymentUPI,
		FranchiseID: "FR-7",
		Items: []models.BillItem{
			{ItemName: "Paneer Butter Masala Thali", Qty: 1, Price: decimal.RequireFromString("123.4")},
		},
	}
}

func identity(fid string) *models.Identity {
	return &models.Identity{AccountID: "acc-1", FranchiseID: fid, Kind: models.KindStore}
}

func TestHandler_Execute_FormatsStoredBill(t *testing.T) {
	st := &MockStore{}
	st.On("GetBill", mock.Anything, "FR-7", "b-1").Return(testBill(), nil)

	cfg := DefaultConfig()
	cfg.Receipt.Header = "UDUPI CAFE"
	out, err := NewHandler(cfg, st, logger.NewTestLogger(t), nil).
		Execute(context.Background(), &Input{Identity: identity("FR-7"), BillID: "b-1"})

	require.NoError(t, err)
	assert.Equal(t, 32, out.Width)
	lines := strings.Split(strings.TrimRight(out.ReceiptText, "\n"), "\n")
	assert.Equal(t, "           UDUPI CAFE", lines[0])
	assert.Contains(t, out.ReceiptText, "Paneer Butter...")
	assert.Contains(t, out.ReceiptText, "₹ 123.40")
}

func TestHandler_Execute_MissingBillID(t *testing.T) {
	_, err := NewHandler(DefaultConfig(), &MockStore{}, logger.NewTestLogger(t), nil).
		Execute(context.Background(), &Input{Identity: identity("FR-7")})

	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
}

func TestHandler_Handle_BillOfAnotherFranchise(t *testing.T) {
	st := &MockStore{}
	st.On("GetBill", mock.Anything, "FR-7", "b-9").Return(nil, errors.NewBillNotFoundError("b-9"))
	client := camundatest.NewJobClient()

	NewHandler(DefaultConfig(), st, logger.NewTestLogger(t), nil).
		Handle(client, camundatest.NewJob(1, TaskType, map[string]interface{}{
			"identity": identity("FR-7"),
			"billId":   "b-9",
		}))

	assert.Equal(t, "BILL_NOT_FOUND", client.Gateway.ThrownCode())
}
