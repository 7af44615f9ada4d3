// internal/workers/billing/share-receipt/handler.go
package sharereceipt

import (
	"context"
	"fmt"
	"strings"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/metrics"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/common/validation"
	"franchise-pos/internal/models"
	"franchise-pos/internal/receipt"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "share-receipt"
)

type BillStore interface {
	GetBill(ctx context.Context, franchiseID, billID string) (*models.Bill, error)
}

type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// Dependencies for the handler. A nil sender disables its channel.
type Dependencies struct {
	Store BillStore
	Email EmailSender
	SMS   SMSSender
	Obs   *observability.Observability
}

type Handler struct {
	config *Config
	store  BillStore
	email  EmailSender
	sms    SMSSender
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  deps.Store,
		email:  deps.Email,
		sms:    deps.SMS,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, deps.Obs),
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
	if err := h.validateInput(input); err != nil {
		return nil, err
	}

	franchiseID, err := tenancy.ScopeFranchise(input.Identity, input.FranchiseID)
	if err != nil {
		return nil, err
	}

	bill, err := h.store.GetBill(ctx, franchiseID, input.BillID)
	if err != nil {
		return nil, err
	}
	text := receipt.Format(bill, h.config.Receipt)

	var messageID string
	switch input.Channel {
	case models.ChannelEmail:
		messageID, err = h.email.SendText(ctx, input.Recipient, h.config.Subject, text)
	case models.ChannelSMS:
		messageID, err = h.sms.SendSMS(ctx, input.Recipient, text)
	}
	if err != nil {
		metrics.ReceiptsDelivered.WithLabelValues(string(input.Channel), "failed").Inc()
		return nil, errors.NewReceiptDeliveryFailedError(string(input.Channel), err)
	}
	metrics.ReceiptsDelivered.WithLabelValues(string(input.Channel), "delivered").Inc()

	h.logger.Info("receipt delivered", map[string]interface{}{
		"billId":    bill.ID,
		"channel":   input.Channel,
		"messageId": messageID,
	})

	return &Output{
		BillID:    bill.ID,
		Channel:   input.Channel,
		MessageID: messageID,
		Delivered: true,
	}, nil
}

func (h *Handler) validateInput(input *Input) error {
	if input == nil {
		return errors.NewValidationError("input cannot be nil")
	}
	if strings.TrimSpace(input.BillID) == "" {
		return errors.NewValidationError("billId: required")
	}

	switch input.Channel {
	case models.ChannelEmail:
		if h.email == nil {
			return errors.NewValidationError("channel: email delivery is not enabled")
		}
		if !validation.ValidateEmail(input.Recipient) {
			return errors.NewValidationError(fmt.Sprintf("recipient: invalid email address %q", input.Recipient))
		}
	case models.ChannelSMS:
		if h.sms == nil {
			return errors.NewValidationError("channel: sms delivery is not enabled")
		}
		if !validation.ValidatePhone(input.Recipient) {
			return errors.NewValidationError(fmt.Sprintf("recipient: expected an E.164 phone number, got %q", input.Recipient))
		}
	default:
		return errors.NewValidationError(fmt.Sprintf("channel: must be email or sms, got %q", input.Channel))
	}
	return nil
}
