// cmd/diagnostic-server/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resolution-diagnostic/internal/api"
	awsclients "resolution-diagnostic/internal/common/aws"
	"resolution-diagnostic/internal/common/camunda"
	"resolution-diagnostic/internal/common/config"
	"resolution-diagnostic/internal/common/database"
	"resolution-diagnostic/internal/common/logger"
	"resolution-diagnostic/internal/common/observability"
	"resolution-diagnostic/internal/common/webhook"
	"resolution-diagnostic/internal/dispatch"
	"resolution-diagnostic/internal/report"

	dd "resolution-diagnostic/internal/workers/diagnostic/dispatch-diagnostic"
	ed "resolution-diagnostic/internal/workers/diagnostic/evaluate-diagnostic"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.WithError(err).Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "diagnostic-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})
	log.Info("starting diagnostic server", map[string]interface{}{"version": cfg.App.Version})

	obs := observability.New(cfg.App.Name, cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio)
	defer obs.Shutdown()

	ctx := context.Background()
	ready := map[string]func(context.Context) error{}

	// --- Redis (optional) ---
	var redis *database.RedisClient
	if cfg.Redis.Enabled {
		err = retryWithBackoff(func() error {
			client, err := database.ConnectRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			redis = client
			return nil
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			return err
		}
		defer redis.Close()
		ready["redis"] = redis.Ping
		log.Info("Redis connected successfully", nil)
	}

	// --- Dispatch sinks ---
	dispatchOpts := []dispatch.Option{
		dispatch.WithWebhook(webhook.NewClient(cfg.Dispatch.WebhookURL, config.GetDuration(cfg.Dispatch.Timeout))),
	}
	if cfg.AWS.SES.Enabled {
		mailer, err := awsclients.NewRecordMailer(ctx, cfg.AWS.Region, cfg.AWS.SES.FromEmail)
		if err != nil {
			return fmt.Errorf("ses client: %w", err)
		}
		dispatchOpts = append(dispatchOpts, dispatch.WithMailer(mailer))
	}
	if cfg.AWS.SNS.Enabled {
		alerter, err := awsclients.NewCrisisAlerter(ctx, cfg.AWS.Region, cfg.AWS.SNS.CrisisTopicARN)
		if err != nil {
			return fmt.Errorf("sns client: %w", err)
		}
		dispatchOpts = append(dispatchOpts, dispatch.WithAlerter(alerter))
	}

	// --- Zeebe (optional) ---
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda)
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			return err
		}
		defer zeebe.Close()
		ready["zeebe"] = zeebe.HealthCheck
		dispatchOpts = append(dispatchOpts, dispatch.WithProcessStarter(zeebe))
		log.Info("Zeebe client connected successfully", nil)
	}

	dispatcher := dispatch.NewService(dispatch.Config{
		Defaults: dispatch.Defaults{
			Email:    cfg.Dispatch.DefaultEmail,
			Source:   cfg.Dispatch.Source,
			Workflow: cfg.Dispatch.Workflow,
		},
		FollowUpProcessID: cfg.Camunda.FollowUpProcessID,
		Timeout:           config.GetDuration(cfg.Dispatch.Timeout),
	}, log, dispatchOpts...)

	// --- Workers ---
	var workers []*camunda.CamundaWorker
	if zeebe != nil {
		workers, err = startWorkers(cfg, zeebe, dispatcher, obs, log)
		if err != nil {
			return err
		}
	}

	// --- HTTP API ---
	gin.SetMode(cfg.Server.Mode)
	apiOpts := api.Options{
		Logger:        log,
		Dispatcher:    dispatcher,
		Renderer:      report.NewRenderer(cfg.Report),
		Observability: obs,
		CORSOrigins:   cfg.Server.CORSOrigins,
		Version:       cfg.App.Version,
	}
	if redis != nil {
		apiOpts.Cache = redis
	}
	apiServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(apiOpts),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	// --- Health & Metrics Server ---
	opsServer := &http.Server{Addr: cfg.Server.OpsAddr(), Handler: opsMux(ready)}

	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{apiServer, opsServer} {
		go func(srv *http.Server) {
			log.Info("listening", map[string]interface{}{"addr": srv.Addr})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case runErr = <-errCh:
		log.WithError(runErr).Error("server failed", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, srv := range []*http.Server{apiServer, opsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed", map[string]interface{}{"addr": srv.Addr})
		}
	}
	for _, w := range workers {
		w.Stop()
	}

	log.Info("diagnostic server stopped", nil)
	return runErr
}

func startWorkers(cfg *config.Config, zeebe *camunda.Client, dispatcher *dispatch.Service, obs *observability.Observability, log logger.Logger) ([]*camunda.CamundaWorker, error) {
	var workers []*camunda.CamundaWorker

	if config.IsWorkerEnabled(cfg, ed.TaskType) {
		handler, err := ed.NewHandler(ed.HandlerOptions{AppConfig: cfg, Logger: log, Observability: obs})
		if err != nil {
			return nil, err
		}
		wc := handler.Config()
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), ed.TaskType, wc.MaxJobsActive, wc.Timeout, handler, log))
	}

	if config.IsWorkerEnabled(cfg, dd.TaskType) {
		handler, err := dd.NewHandler(dd.HandlerOptions{AppConfig: cfg, Dispatcher: dispatcher, Logger: log})
		if err != nil {
			return nil, err
		}
		wc := handler.Config()
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), dd.TaskType, wc.MaxJobsActive, wc.Timeout, handler, log))
	}

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})
	return workers, nil
}

func opsMux(ready map[string]func(context.Context) error) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := map[string]string{}, http.StatusOK
		for name, check := range ready {
			if err := check(ctx); err != nil {
				status[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		writeJSON(w, code, status)
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
