// internal/workers/menu/manage-menu/handler.go
package managemenu

import (
	"context"
	"fmt"
	"strings"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/models"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "manage-menu"
)

type MenuStore interface {
	ListMenu(ctx context.Context, franchiseID string) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, franchiseID, id string) error
}

type Handler struct {
	config *Config
	store  MenuStore
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, st MenuStore, log logger.Logger, obs *observability.Observability) *Handler {
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
	out := &Output{Action: input.Action, FranchiseID: franchiseID}

	switch input.Action {
	case ActionList:
		items, err := h.store.ListMenu(ctx, franchiseID)
		if err != nil {
			return nil, err
		}
		out.Items = items

	case ActionCreate:
		item, err := newItem(input.Item, franchiseID, false)
		if err != nil {
			return nil, err
		}
		item.CreatedBy = input.Identity.AccountID
		if err := h.store.CreateMenuItem(ctx, item); err != nil {
			return nil, err
		}
		out.Item = item

	case ActionUpdate:
		item, err := newItem(input.Item, franchiseID, true)
		if err != nil {
			return nil, err
		}
		if err := h.store.UpdateMenuItem(ctx, item); err != nil {
			return nil, err
		}
		out.Item = item

	case ActionDelete:
		if input.Item == nil || strings.TrimSpace(input.Item.ID) == "" {
			return nil, errors.NewValidationError("item.id: required for delete")
		}
		if err := h.store.DeleteMenuItem(ctx, franchiseID, input.Item.ID); err != nil {
			return nil, err
		}
		out.Deleted = true

	default:
		return nil, errors.NewValidationError(fmt.Sprintf("action: must be list, create, update or delete, got %q", input.Action))
	}

	if input.Action != ActionList {
		h.logger.Info("menu changed", map[string]interface{}{
			"action":      input.Action,
			"franchiseId": franchiseID,
			"accountId":   input.Identity.AccountID,
		})
	}
	return out, nil
}

func newItem(in *ItemInput, franchiseID string, needID bool) (*models.MenuItem, error) {
	if in == nil {
		return nil, errors.NewValidationError("item: required")
	}
	if needID && strings.TrimSpace(in.ID) == "" {
		return nil, errors.NewValidationError("item.id: required for update")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewValidationError("item.name: required")
	}
	if in.Price == nil {
		return nil, errors.NewValidationError("item.price: required")
	}
	if in.Price.IsNegative() {
		return nil, errors.NewValidationError("item.price: must not be negative")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultMenuCategory
	}

	return &models.MenuItem{
		ID:          in.ID,
		Name:        name,
		Price:       *in.Price,
		Category:    category,
		FranchiseID: franchiseID,
	}, nil
}
