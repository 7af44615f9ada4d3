// internal/workers/billing/list-bills/handler.go
package listbills

import (
	"context"
	"fmt"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/common/validation"
	"franchise-pos/internal/models"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-bills"
)

type BillStore interface {
	ListBills(ctx context.Context, f models.BillFilter) ([]models.Bill, error)
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
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}

	franchiseID, err := tenancy.ScopeFranchise(input.Identity, input.FranchiseID)
	if err != nil {
		return nil, err
	}

	filter, err := h.filter(franchiseID, input)
	if err != nil {
		return nil, err
	}

	bills, err := h.store.ListBills(ctx, filter)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("bills listed", map[string]interface{}{
		"franchiseId": franchiseID,
		"count":       len(bills),
	})

	return &Output{
		FranchiseID: franchiseID,
		Bills:       bills,
		Count:       len(bills),
	}, nil
}

func (h *Handler) filter(franchiseID string, input *Input) (models.BillFilter, error) {
	limit := input.Limit
	switch {
	case limit < 0 || limit > h.config.MaxLimit:
		return models.BillFilter{}, errors.NewValidationError(
			fmt.Sprintf("limit: must be between 1 and %d", h.config.MaxLimit))
	case limit == 0:
		limit = h.config.DefaultLimit
	}

	from, to, err := validation.ParseDayRange(input.From, input.To, h.config.Location)
	if err != nil {
		return models.BillFilter{}, err
	}

	return models.BillFilter{
		FranchiseID: franchiseID,
		From:        from,
		To:          to,
		Limit:       limit,
	}, nil
}
