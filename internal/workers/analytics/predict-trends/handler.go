// internal/workers/analytics/predict-trends/handler.go
package predicttrends

import (
	"context"
	"fmt"
	"time"

	"franchise-pos/internal/analytics"
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
	TaskType = "predict-trends"
)

type SalesHistory interface {
	DailyQuantities(ctx context.Context, franchiseID string, since time.Time) (map[string][]models.DailyQuantity, error)
	SaleLines(ctx context.Context, franchiseID string, since time.Time) ([]models.SaleLine, error)
}

type Handler struct {
	config  *Config
	history SalesHistory
	runner  *camunda.Runner
	logger  logger.Logger
	now     func() time.Time
}

func NewHandler(config *Config, history SalesHistory, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		history: history,
		runner:  camunda.NewRunner(TaskType, config.Timeout, log, obs),
		logger:  log,
		now:     time.Now,
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

	lookback := input.LookbackDays
	if lookback == 0 {
		lookback = h.config.LookbackDays
	}
	if lookback < minLookbackDays || lookback > maxLookbackDays {
		return nil, errors.NewValidationError(fmt.Sprintf("lookbackDays: must be between %d and %d", minLookbackDays, maxLookbackDays))
	}

	franchiseID, err := tenancy.ScopeFranchise(input.Identity, input.FranchiseID)
	if err != nil {
		return nil, err
	}

	// the window covers today plus the previous lookback-1 days
	since := validation.StartOfDay(h.now(), h.config.Location).AddDate(0, 0, -(lookback - 1))

	series, err := h.history.DailyQuantities(ctx, franchiseID, since)
	if err != nil {
		return nil, err
	}
	trends := analytics.Estimate(series, lookback)

	recommendations := []models.Recommendation{}
	if input.IncludeStrategies == nil || *input.IncludeStrategies {
		lines, err := h.history.SaleLines(ctx, franchiseID, since)
		if err != nil {
			return nil, err
		}
		recommendations = analytics.Strategies(lines, analytics.StrategyOptions{
			Window:   lookback,
			Location: h.config.Location,
		})
	}

	h.logger.Info("trends estimated", map[string]interface{}{
		"franchiseId":     franchiseID,
		"lookbackDays":    lookback,
		"items":           len(series),
		"trends":          len(trends),
		"recommendations": len(recommendations),
	})

	return &Output{
		FranchiseID:     franchiseID,
		LookbackDays:    lookback,
		Since:           since.Format(validation.DayLayout),
		Trends:          trends,
		Recommendations: recommendations,
	}, nil
}
