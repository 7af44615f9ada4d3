// internal/workers/billing/export-bills/handler.go
package exportbills

import (
	"context"
	"encoding/base64"
	"time"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/common/validation"
	"franchise-pos/internal/export"
	"franchise-pos/internal/models"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "export-bills"
)

type BillStore interface {
	ListBills(ctx context.Context, f models.BillFilter) ([]models.Bill, error)
}

type Handler struct {
	config *Config
	store  BillStore
	runner *camunda.Runner
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, st BillStore, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  st,
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

	from, to, err := validation.ParseDayRange(input.From, input.To, h.config.Location)
	if err != nil {
		return nil, err
	}

	// one bill past the cap tells a complete range from a truncated one
	bills, err := h.store.ListBills(ctx, models.BillFilter{
		FranchiseID: franchiseID,
		From:        from,
		To:          to,
		Limit:       h.config.MaxBills + 1,
	})
	if err != nil {
		return nil, err
	}
	truncated := len(bills) > h.config.MaxBills
	if truncated {
		bills = bills[:h.config.MaxBills]
		h.logger.Warn("export truncated at bill limit", map[string]interface{}{
			"franchiseId": franchiseID,
			"limit":       h.config.MaxBills,
		})
	}

	wb, err := export.BillsWorkbook(bills, h.config.Location)
	if err != nil {
		return nil, err
	}

	fileName := export.FileName(h.config.FilenamePrefix, franchiseID, h.now().In(h.config.Location))
	h.logger.Info("bills exported", map[string]interface{}{
		"franchiseId": franchiseID,
		"fileName":    fileName,
		"rows":        wb.RowCount,
		"bytes":       len(wb.Content),
	})

	return &Output{
		FileName:    fileName,
		ContentType: contentTypeXLSX,
		Content:     base64.StdEncoding.EncodeToString(wb.Content),
		RowCount:    wb.RowCount,
		BillCount:   len(bills),
		Truncated:   truncated,
	}, nil
}
