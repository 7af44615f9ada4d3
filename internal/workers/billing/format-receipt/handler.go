// internal/workers/billing/format-receipt/handler.go
package formatreceipt

import (
	"context"
	"strings"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/models"
	"franchise-pos/internal/receipt"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "format-receipt"
)

type BillStore interface {
	GetBill(ctx context.Context, franchiseID, billID string) (*models.Bill, error)
}

type Handler struct {
	config *Config
	store  BillStore
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, st BillStore, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  st,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, obs),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context) (interface{}, error) {
		var input Input
		if err := camunda.DecodeVariables(job, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.BillID) == "" {
		return nil, errors.NewValidationError("billId: required")
	}

	franchiseID, err := tenancy.ScopeFranchise(input.Identity, input.FranchiseID)
	if err != nil {
		return nil, err
	}

	bill, err := h.store.GetBill(ctx, franchiseID, input.BillID)
	if err != nil {
		return nil, err
	}

	return &Output{
		BillID:      bill.ID,
		ReceiptText: receipt.Format(bill, h.config.Receipt),
		Width:       receipt.Width,
	}, nil
}
