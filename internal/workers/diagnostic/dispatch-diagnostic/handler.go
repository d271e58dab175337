// internal/workers/diagnostic/dispatch-diagnostic/handler.go
package dispatchdiagnostic

import (
	"context"
	"encoding/json"
	"fmt"

	"resolution-diagnostic/internal/common/config"
	"resolution-diagnostic/internal/common/errors"
	"resolution-diagnostic/internal/common/logger"
	"resolution-diagnostic/internal/common/metrics"
	"resolution-diagnostic/internal/dispatch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "dispatch-diagnostic"

type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Outcome, error)
}

type Handler struct {
	config     *Config
	logger     logger.Logger
	dispatcher Dispatcher
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig  *config.Config
	Dispatcher Dispatcher
	Logger     logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("%s requires a dispatcher", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		logger:     log,
		dispatcher: opts.Dispatcher,
		errHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Config() *Config { return h.config }

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		h.fail(ctx, client, job, errors.NewInputParsingError(err))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, fmt.Errorf("encode job variables: %w", err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.WithError(err).Error("failed to send complete job command", nil)
	}
}

// Execute dispatches the record. Only a failed webhook delivery fails the
// job; the CRM hand-off is the one side effect the process depends on.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	outcome, err := h.dispatcher.Dispatch(ctx, *input)
	if err != nil {
		return nil, err
	}

	if res, ok := outcome.Result(dispatch.SinkWebhook); ok && res.Status == dispatch.StatusFailed {
		return nil, errors.NewDispatchWebhookError(0, fmt.Errorf("%s", res.Error))
	}

	sinks := make(map[string]string, len(outcome.Sinks))
	for _, s := range outcome.Sinks {
		sinks[s.Sink] = string(s.Status)
	}
	return &Output{DispatchID: outcome.DispatchID, DispatchSinks: sinks}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}
