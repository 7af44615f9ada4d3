// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/metrics"
	"franchise-pos/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/trace"
)

// ExecuteFunc runs one job and returns the variables to complete it with.
type ExecuteFunc func(ctx context.Context) (interface{}, error)

// Runner drives the job lifecycle shared by every worker: timeout, metrics,
// tracing, completion and error reporting.
type Runner struct {
	taskType   string
	timeout    time.Duration
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
}

func NewRunner(taskType string, timeout time.Duration, log logger.Logger, obs *observability.Observability) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		taskType:   taskType,
		timeout:    timeout,
		logger:     log,
		obs:        obs,
		errHandler: errors.NewErrorHandler(log),
	}
}

func (r *Runner) Run(client worker.JobClient, job entities.Job, exec ExecuteFunc) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if r.obs != nil {
		var span trace.Span
		ctx, span = r.obs.StartJobSpan(ctx, r.taskType, job.Key)
		defer span.End()
	}

	output, err := exec(ctx)

	// the job context may already be expired when reporting back
	reportCtx, cancelReport := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelReport()

	if err != nil {
		code := r.errHandler.HandleJobError(reportCtx, client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, code).Inc()
		r.record(ctx, "failed", start)
		return
	}

	if err := r.complete(reportCtx, client, job, output); err != nil {
		r.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		r.record(ctx, "complete_failed", start)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	r.record(ctx, "completed", start)
	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

// DecodeVariables unmarshals the job variables into v.
func DecodeVariables(job entities.Job, v interface{}) error {
	if err := json.Unmarshal([]byte(job.Variables), v); err != nil {
		return errors.NewInputParsingError(err)
	}
	return nil
}

func (r *Runner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(ctx)
	return err
}

func (r *Runner) record(ctx context.Context, status string, start time.Time) {
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	if r.obs != nil {
		r.obs.RecordJob(ctx, r.taskType, status, elapsed)
	}
}
