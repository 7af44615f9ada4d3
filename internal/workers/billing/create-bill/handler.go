// internal/workers/billing/create-bill/handler.go
package createbill

import (
	"context"
	"fmt"
	"strings"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/database"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/metrics"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/common/validation"
	"franchise-pos/internal/models"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "create-bill"
)

var schema = validation.MustSchema(inputSchema)

type BillStore interface {
	CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, bool, error)
}

type BillIndexer interface {
	IndexBill(ctx context.Context, bill *models.Bill) error
}

// Dependencies are the clients the handler writes through. Index and Cache
// are optional.
type Dependencies struct {
	Store BillStore
	Index BillIndexer
	Cache *redis.Client
	Obs   *observability.Observability
}

type Handler struct {
	config *Config
	store  BillStore
	index  BillIndexer
	cache  *redis.Client
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  deps.Store,
		index:  deps.Index,
		cache:  deps.Cache,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, deps.Obs),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context) (interface{}, error) {
		if err := schema.Check(job.Variables); err != nil {
			return nil, err
		}
		var input Input
		if err := camunda.DecodeVariables(job, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	franchiseID, err := tenancy.ScopeFranchise(input.Identity, input.FranchiseID)
	if err != nil {
		return nil, err
	}

	items := make([]models.BillItem, len(input.Items))
	for i, it := range input.Items {
		items[i] = models.BillItem{
			MenuItemID:  it.MenuItemID,
			ItemName:    strings.TrimSpace(it.ItemName),
			Qty:         it.Qty,
			Price:       it.Price,
			FranchiseID: franchiseID,
		}
	}

	bill := &models.Bill{
		Total:          models.ComputeTotal(items),
		ModePayment:    input.ModePayment,
		FranchiseID:    franchiseID,
		IdempotencyKey: input.IdempotencyKey,
		Items:          items,
	}

	stored, existed, err := h.store.CreateBill(ctx, bill)
	if err != nil {
		return nil, err
	}

	if existed {
		h.logger.Info("idempotency key already used, returning stored bill", map[string]interface{}{
			"billId":      stored.ID,
			"franchiseId": franchiseID,
		})
	} else {
		metrics.BillsCreated.WithLabelValues(string(stored.ModePayment)).Inc()
		total, _ := stored.Total.Float64()
		metrics.BillAmount.Observe(total)

		h.indexBill(ctx, stored)
		h.invalidateOverview(ctx, franchiseID)

		h.logger.Info("bill created", map[string]interface{}{
			"billId":      stored.ID,
			"franchiseId": franchiseID,
			"items":       len(stored.Items),
			"total":       stored.Total.StringFixed(2),
		})
	}

	return &Output{
		BillID:         stored.ID,
		Total:          stored.Total,
		Bill:           stored,
		AlreadyExisted: existed,
	}, nil
}

// validateInput repeats the schema rules for callers that skip Handle.
func validateInput(input *Input) error {
	if input == nil {
		return errors.NewValidationError("input cannot be nil")
	}
	if !input.ModePayment.Valid() {
		return errors.NewValidationError(fmt.Sprintf("modePayment: unknown payment mode %q", input.ModePayment))
	}
	if len(input.Items) == 0 {
		return errors.NewValidationError("items: at least one item is required")
	}
	for i, it := range input.Items {
		if strings.TrimSpace(it.ItemName) == "" {
			return errors.NewValidationError(fmt.Sprintf("items.%d.itemName: required", i))
		}
		if it.Qty < 1 {
			return errors.NewValidationError(fmt.Sprintf("items.%d.qty: must be at least 1", i))
		}
		if it.Price.IsNegative() {
			return errors.NewValidationError(fmt.Sprintf("items.%d.price: must not be negative", i))
		}
	}
	return nil
}

func (h *Handler) indexBill(ctx context.Context, bill *models.Bill) {
	if h.index == nil {
		return
	}
	indexCtx, cancel := context.WithTimeout(ctx, h.config.IndexTimeout)
	defer cancel()

	if err := h.index.IndexBill(indexCtx, bill); err != nil {
		h.logger.Warn("bill indexing failed, search will miss it until reindex", map[string]interface{}{
			"billId": bill.ID,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) invalidateOverview(ctx context.Context, franchiseID string) {
	if h.cache == nil {
		return
	}
	n, err := database.DeleteByPrefix(ctx, h.cache, models.SalesOverviewCachePrefix(franchiseID))
	if err != nil {
		h.logger.Warn("sales overview cache invalidation failed", map[string]interface{}{
			"franchiseId": franchiseID,
			"error":       err.Error(),
		})
		return
	}
	if n > 0 {
		h.logger.Debug("sales overview cache invalidated", map[string]interface{}{
			"franchiseId": franchiseID,
			"keys":        n,
		})
	}
}
