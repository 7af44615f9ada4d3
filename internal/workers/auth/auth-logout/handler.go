package authlogout

import (
	"context"
	"fmt"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/config"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "auth-logout"

var schema = validation.MustSchema(inputSchema)

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
	runner  *camunda.Runner
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Sessions     SessionRevoker
	Identities   IdentityCache
	CustomConfig *Config
	Logger       logger.Logger
	Obs          *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("%s requires an auth provider", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config: workerConfig,
		logger: log,
		service: NewService(ServiceDependencies{
			Sessions:      opts.Sessions,
			Identities:    opts.Identities,
			Logger:        log,
			RevokeTimeout: workerConfig.RevokeTimeout,
		}),
		runner: camunda.NewRunner(TaskType, workerConfig.Timeout, log, opts.Obs),
	}, nil
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
	return h.service.Execute(ctx, input)
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[TaskType]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
		}
	}
	if cfg.RevokeTimeout > cfg.Timeout {
		cfg.RevokeTimeout = cfg.Timeout
	}
	return cfg
}
