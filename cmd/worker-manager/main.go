// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"franchise-pos/internal/common/auth"
	commonaws "franchise-pos/internal/common/aws"
	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/config"
	"franchise-pos/internal/common/database"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/search"
	"franchise-pos/internal/store"
	"franchise-pos/internal/tenancy"
	"franchise-pos/pkg/registry"

	// Billing
	cb "franchise-pos/internal/workers/billing/create-bill"
	eb "franchise-pos/internal/workers/billing/export-bills"
	fr "franchise-pos/internal/workers/billing/format-receipt"
	lb "franchise-pos/internal/workers/billing/list-bills"
	sb "franchise-pos/internal/workers/billing/search-bills"
	sr "franchise-pos/internal/workers/billing/share-receipt"

	// Menu
	mm "franchise-pos/internal/workers/menu/manage-menu"

	// Analytics
	pt "franchise-pos/internal/workers/analytics/predict-trends"
	so "franchise-pos/internal/workers/analytics/sales-overview"

	// Accounts
	alo "franchise-pos/internal/workers/auth/auth-logout"
	asi "franchise-pos/internal/workers/auth/auth-signin"
	cp "franchise-pos/internal/workers/auth/change-password"
	du "franchise-pos/internal/workers/auth/delete-user"
	rsa "franchise-pos/internal/workers/auth/register-store-account"
	ri "franchise-pos/internal/workers/auth/resolve-identity"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name, cfg.Observability.TracingEnabled)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}
	defer obs.Shutdown()

	loc, err := time.LoadLocation(cfg.POS.Timezone)
	if err != nil {
		zapLog.Fatal("invalid pos.timezone", zap.String("timezone", cfg.POS.Timezone), zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.Connect(ctx, cfg.Camunda, log)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	billIndex := search.NewBillIndex(esClient.Client, cfg.Database.Elasticsearch.BillIndex, log)
	if err := billIndex.EnsureIndex(ctx); err != nil {
		zapLog.Fatal("bill index setup failed", zap.String("index", billIndex.Index()), zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("billIndex", billIndex.Index()))

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Domain services ---
	posStore := store.New(pg.DB, cfg.POS.Timezone, log)
	if err := posStore.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}

	resolver := tenancy.NewResolver(tenancy.Options{
		Profiles: posStore,
		Cache:    rdb.Client,
		CacheTTL: time.Duration(cfg.POS.IdentityCacheTTL) * time.Second,
		Logger:   log,
	})

	keycloak := auth.NewKeycloakClient(auth.Options{
		BaseURL:        cfg.Auth.Keycloak.URL,
		Realm:          cfg.Auth.Keycloak.Realm,
		ClientID:       cfg.Auth.Keycloak.ClientID,
		ClientSecret:   cfg.Auth.Keycloak.ClientSecret,
		PublicClientID: cfg.Auth.Keycloak.PublicClientID,
	})

	// nil interfaces disable a receipt channel
	var emailSender sr.EmailSender
	if cfg.Integrations.AWS.SES.Enabled {
		ses, err := commonaws.NewSESClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SES.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		emailSender = ses
	}
	var smsSender sr.SMSSender
	if cfg.Integrations.AWS.SNS.Enabled {
		sns, err := commonaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SNS.DefaultSMSSenderID)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		smsSender = sns
	}

	zapLog.Info("All external service clients initialized",
		zap.Bool("ses", emailSender != nil),
		zap.Bool("sns", smsSender != nil),
		zap.Bool("identityCache", cfg.POS.IdentityCacheTTL > 0),
	)

	register := func(taskType string, handler worker.JobHandler) {
		zeebe.Open(taskType, config.GetWorkerConfig(cfg, taskType), handler)
	}

	// --- Billing ---
	register(cb.TaskType, cb.NewHandler(
		cb.NewConfig(config.GetWorkerConfig(cfg, cb.TaskType)),
		cb.Dependencies{Store: posStore, Index: billIndex, Cache: rdb.Client, Obs: obs},
		log,
	).Handle)

	register(lb.TaskType, lb.NewHandler(
		lb.NewConfig(config.GetWorkerConfig(cfg, lb.TaskType), cfg.POS, loc),
		posStore, log, obs,
	).Handle)

	register(sb.TaskType, sb.NewHandler(
		sb.NewConfig(config.GetWorkerConfig(cfg, sb.TaskType), loc),
		billIndex, log, obs,
	).Handle)

	register(eb.TaskType, eb.NewHandler(
		eb.NewConfig(config.GetWorkerConfig(cfg, eb.TaskType), cfg.POS, loc),
		posStore, log, obs,
	).Handle)

	register(fr.TaskType, fr.NewHandler(
		fr.NewConfig(config.GetWorkerConfig(cfg, fr.TaskType), cfg.POS, loc),
		posStore, log, obs,
	).Handle)

	register(sr.TaskType, sr.NewHandler(
		sr.NewConfig(config.GetWorkerConfig(cfg, sr.TaskType), cfg.POS, loc),
		sr.Dependencies{Store: posStore, Email: emailSender, SMS: smsSender, Obs: obs},
		log,
	).Handle)

	// --- Menu ---
	register(mm.TaskType, mm.NewHandler(
		mm.NewConfig(config.GetWorkerConfig(cfg, mm.TaskType)),
		posStore, log, obs,
	).Handle)

	// --- Analytics ---
	register(so.TaskType, so.NewHandler(
		so.NewConfig(config.GetWorkerConfig(cfg, so.TaskType), cfg.POS, loc),
		posStore, rdb.Client, log, obs,
	).Handle)

	register(pt.TaskType, pt.NewHandler(
		pt.NewConfig(config.GetWorkerConfig(cfg, pt.TaskType), cfg.POS, loc),
		posStore, log, obs,
	).Handle)

	// --- Accounts ---
	{
		handler, err := ri.NewHandler(ri.HandlerOptions{
			AppConfig:    cfg,
			Resolver:     resolver,
			Introspector: keycloak,
			Logger:       log,
			Obs:          obs,
		})
		if err != nil {
			zapLog.Fatal("failed to create resolve-identity handler", zap.Error(err))
		}
		register(ri.TaskType, handler.Handle)
	}

	{
		handler, err := asi.NewHandler(asi.HandlerOptions{
			AppConfig: cfg,
			Provider:  keycloak,
			Resolver:  resolver,
			Logger:    log,
			Obs:       obs,
		})
		if err != nil {
			zapLog.Fatal("failed to create auth-signin handler", zap.Error(err))
		}
		register(asi.TaskType, handler.Handle)
	}

	{
		handler, err := alo.NewHandler(alo.HandlerOptions{
			AppConfig:  cfg,
			Sessions:   keycloak,
			Identities: resolver,
			Logger:     log,
			Obs:        obs,
		})
		if err != nil {
			zapLog.Fatal("failed to create auth-logout handler", zap.Error(err))
		}
		register(alo.TaskType, handler.Handle)
	}

	{
		handler, err := cp.NewHandler(cp.HandlerOptions{
			AppConfig: cfg,
			Accounts:  keycloak,
			Logger:    log,
			Obs:       obs,
		})
		if err != nil {
			zapLog.Fatal("failed to create change-password handler", zap.Error(err))
		}
		register(cp.TaskType, handler.Handle)
	}

	{
		handler, err := rsa.NewHandler(rsa.HandlerOptions{
			AppConfig: cfg,
			Accounts:  keycloak,
			Logger:    log,
			Obs:       obs,
		})
		if err != nil {
			zapLog.Fatal("failed to create register-store-account handler", zap.Error(err))
		}
		register(rsa.TaskType, handler.Handle)
	}

	{
		handler, err := du.NewHandler(du.HandlerOptions{
			AppConfig: cfg,
			Accounts:  keycloak,
			Resolver:  resolver,
			Logger:    log,
			Obs:       obs,
		})
		if err != nil {
			zapLog.Fatal("failed to create delete-user handler", zap.Error(err))
		}
		register(du.TaskType, handler.Handle)
	}

	started := zeebe.TaskTypes()
	zapLog.Info("Workers registered", zap.Int("count", len(started)))
	checkRegistry(cfg.App.RegistryPath, started, zapLog)

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]func(context.Context) error{
			"zeebe":         zeebe.Ready,
			"postgres":      pg.Ping,
			"redis":         rdb.Ping,
			"elasticsearch": esClient.Ping,
		}
		status := make(map[string]string, len(checks)+2)
		code := http.StatusOK
		for name, check := range checks {
			status[name] = "ok"
			if err := check(checkCtx); err != nil {
				status[name] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		status["status"] = "ready"
		if code != http.StatusOK {
			status["status"] = "not_ready"
		}
		status["time"] = time.Now().Format(time.RFC3339)
		writeStatus(w, code, status)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Observability.HTTPAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about started workers missing from the activity
// registry. A missing registry file is not fatal.
func checkRegistry(path string, started []string, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
	}
	if missing := reg.Unregistered(started); len(missing) > 0 {
		log.Warn("workers not listed in activity registry", zap.Strings("taskTypes", missing))
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
