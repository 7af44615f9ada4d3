// internal/workers/billing/search-bills/handler.go
package searchbills

import (
	"context"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/common/validation"
	"franchise-pos/internal/search"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-bills"
)

type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type Handler struct {
	config *Config
	index  Searcher
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, index Searcher, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		index:  index,
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
	if input.Offset < 0 {
		return nil, errors.NewValidationError("offset: must not be negative")
	}

	franchiseID, err := tenancy.ScopeFranchise(input.Identity, input.FranchiseID)
	if err != nil {
		return nil, err
	}

	from, to, err := validation.ParseDayRange(input.From, input.To, h.config.Location)
	if err != nil {
		return nil, err
	}

	res, err := h.index.Search(ctx, search.Query{
		FranchiseID: franchiseID,
		Text:        input.Text,
		From:        from,
		To:          to,
		Offset:      input.Offset,
		Size:        input.Size,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("bill search finished", map[string]interface{}{
		"franchiseId": franchiseID,
		"hits":        res.TotalHits,
		"tookMs":      res.Took,
	})

	return &Output{
		FranchiseID: franchiseID,
		Bills:       res.Bills,
		TotalHits:   res.TotalHits,
		Took:        res.Took,
	}, nil
}
