// internal/workers/analytics/sales-overview/handler.go
package salesoverview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"franchise-pos/internal/common/camunda"
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
	TaskType = "sales-overview"
)

type SalesStore interface {
	SalesOverview(ctx context.Context, franchiseID string, from, to time.Time) (*models.SalesOverview, error)
}

type Handler struct {
	config *Config
	store  SalesStore
	cache  *redis.Client
	runner *camunda.Runner
	logger logger.Logger
	now    func() time.Time
}

// NewHandler builds the handler. cache may be nil, which disables caching.
func NewHandler(config *Config, st SalesStore, cache *redis.Client, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  st,
		cache:  cache,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, obs),
		logger: log,
		now:    time.Now,
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

	today := validation.StartOfDay(h.now(), h.config.Location).Format(validation.DayLayout)
	fromDay, toDay := input.From, input.To
	if fromDay == "" {
		fromDay = today
	}
	if toDay == "" {
		toDay = fromDay
		if fromDay < today {
			toDay = today
		}
	}

	start, end, err := validation.ParseDayRange(fromDay, toDay, h.config.Location)
	if err != nil {
		return nil, err
	}

	key := models.SalesOverviewCacheKey(franchiseID, fromDay, toDay)
	if cached := h.fromCache(ctx, key); cached != nil {
		return &Output{SalesOverview: *cached, Cached: true}, nil
	}

	overview, err := h.store.SalesOverview(ctx, franchiseID, *start, *end)
	if err != nil {
		return nil, err
	}
	overview.From = fromDay
	overview.To = toDay

	h.toCache(ctx, key, overview)
	return &Output{SalesOverview: *overview}, nil
}

func (h *Handler) fromCache(ctx context.Context, key string) *models.SalesOverview {
	if h.cache == nil {
		return nil
	}
	val, err := h.cache.Get(ctx, key).Result()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			h.logger.Warn("sales overview cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		metrics.CacheLookups.WithLabelValues("sales_overview", "miss").Inc()
		return nil
	}

	var overview models.SalesOverview
	if err := json.Unmarshal([]byte(val), &overview); err != nil {
		metrics.CacheLookups.WithLabelValues("sales_overview", "miss").Inc()
		return nil
	}
	metrics.CacheLookups.WithLabelValues("sales_overview", "hit").Inc()
	return &overview
}

func (h *Handler) toCache(ctx context.Context, key string, overview *models.SalesOverview) {
	if h.cache == nil || h.config.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("sales overview cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
