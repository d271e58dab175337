// internal/workers/diagnostic/evaluate-diagnostic/handler.go
package evaluatediagnostic

import (
	"context"
	"encoding/json"
	"fmt"

	"resolution-diagnostic/internal/common/config"
	"resolution-diagnostic/internal/common/errors"
	"resolution-diagnostic/internal/common/logger"
	"resolution-diagnostic/internal/common/metrics"
	"resolution-diagnostic/internal/common/observability"
	"resolution-diagnostic/internal/common/validation"
	"resolution-diagnostic/internal/diagnostic"
	"resolution-diagnostic/internal/dispatch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "evaluate-diagnostic"

type Handler struct {
	config     *Config
	logger     logger.Logger
	obs        *observability.Observability
	schema     *validation.Schema
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	obs := opts.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		logger:     log,
		obs:        obs,
		schema:     validation.MustLoad(validation.DiagnosticInput),
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

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingError(err)
	}

	result, err := h.schema.Validate(variables)
	if err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	if !result.Valid {
		first := result.Errors[0]
		return nil, errors.NewInvalidInputError(first.Field, first.Message)
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	return &input, nil
}

// Execute evaluates the questionnaire and shapes the dispatch variables.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	_, span := h.obs.StartSpan(ctx, TaskType)
	defer span.End()

	res, err := diagnostic.Evaluate(input.Input)
	if err != nil {
		if ve, ok := diagnostic.AsValidationError(err); ok {
			return nil, errors.NewDiagnosticInputError(ve.Field, ve.Value, ve.Reason, ve.Allowed)
		}
		return nil, err
	}

	metrics.DiagnosticEvaluations.WithLabelValues(string(res.State.Key), string(res.ResolvedTier)).Inc()
	h.obs.RecordEvaluation(ctx, string(res.State.Key), string(res.ResolvedTier), res.LeakRatio)

	h.logger.Info("diagnostic evaluated", map[string]interface{}{
		"state":     res.State.Key,
		"tier":      res.ResolvedTier,
		"tierRule":  res.TierRule,
		"leakRatio": res.LeakRatio,
	})

	req := dispatch.FromResult(input.Input, res, dispatch.Contact{
		Email:         input.Email,
		Company:       input.CompanyName,
		OptSendRecord: input.OptSendRecord,
		OptInMemos:    input.OptIntelligence,
	})
	return &Output{
		Request:            req,
		InstitutionalState: res.State.Key,
		Crisis:             res.Crisis,
		Result:             res,
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	if f := stdErr.Field(); f != "" {
		metrics.DiagnosticRejections.WithLabelValues(f).Inc()
	}
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, fmt.Errorf("encode job variables: %w", err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.WithError(err).Error("failed to send complete job command", map[string]interface{}{"jobKey": job.GetKey()})
		return
	}
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
}
