// Package dispatch forwards a finished diagnostic to the systems that act on
// it: the CRM automation hook, the respondent's inbox, the crisis alert
// topic and the follow-up workflow. Every side effect is best effort.
package dispatch

import (
	"context"
	stderrors "errors"
	"time"

	"resolution-diagnostic/internal/common/errors"
	"resolution-diagnostic/internal/common/logger"
	"resolution-diagnostic/internal/common/metrics"
	"resolution-diagnostic/internal/common/validation"
	"resolution-diagnostic/internal/common/webhook"
	"resolution-diagnostic/internal/diagnostic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type WebhookSender interface {
	Configured() bool
	Send(ctx context.Context, record interface{}) (*webhook.Reply, error)
}

type RecordSender interface {
	SendRecord(ctx context.Context, to, subject, html, text string) (string, error)
}

type CrisisNotifier interface {
	Alert(ctx context.Context, state, subject, message string) (string, error)
}

type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables map[string]interface{}) (int64, error)
}

// Sink names, also used as metric labels.
const (
	SinkWebhook  = "webhook"
	SinkEmail    = "email"
	SinkAlert    = "alert"
	SinkFollowUp = "follow_up"
)

type SinkStatus string

const (
	StatusSent    SinkStatus = "sent"
	StatusSkipped SinkStatus = "skipped"
	StatusFailed  SinkStatus = "failed"
)

type SinkResult struct {
	Sink      string     `json:"sink"`
	Status    SinkStatus `json:"status"`
	Reference string     `json:"reference,omitempty"`
	Error     string     `json:"error,omitempty"`
	Retryable bool       `json:"retryable,omitempty"`
}

// Outcome reports what happened to one dispatch.
type Outcome struct {
	DispatchID string       `json:"dispatchId"`
	Payload    Payload      `json:"payload"`
	Sinks      []SinkResult `json:"sinks"`
}

// Result returns the entry for sink.
func (o *Outcome) Result(sink string) (SinkResult, bool) {
	for _, s := range o.Sinks {
		if s.Sink == sink {
			return s, true
		}
	}
	return SinkResult{}, false
}

type Config struct {
	Defaults          Defaults
	FollowUpProcessID string
	Timeout           time.Duration
}

type Service struct {
	cfg     Config
	logger  logger.Logger
	webhook WebhookSender
	mailer  RecordSender
	alerter CrisisNotifier
	starter ProcessStarter
	now     func() time.Time
	newID   func() string
}

type Option func(*Service)

func WithWebhook(w WebhookSender) Option         { return func(s *Service) { s.webhook = w } }
func WithMailer(m RecordSender) Option           { return func(s *Service) { s.mailer = m } }
func WithAlerter(a CrisisNotifier) Option        { return func(s *Service) { s.alerter = a } }
func WithProcessStarter(p ProcessStarter) Option { return func(s *Service) { s.starter = p } }
func WithClock(now func() time.Time) Option      { return func(s *Service) { s.now = now } }
func WithIDGenerator(f func() string) Option     { return func(s *Service) { s.newID = f } }

func NewService(cfg Config, log logger.Logger, opts ...Option) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	s := &Service{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "dispatch"}),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch validates the request, builds the hook record and runs every
// configured sink concurrently. Only a request without verdict or tier is an
// error; sink failures are logged and reported in the Outcome.
func (s *Service) Dispatch(ctx context.Context, req Request) (*Outcome, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, errors.NewMissingDispatchFieldsError("verdict", "tier")
	}

	id := s.newID()
	payload := BuildPayload(req, s.cfg.Defaults, s.now(), id)
	log := s.logger.WithFields(map[string]interface{}{
		"dispatchId": id,
		"verdict":    payload.AuditVerdict,
		"tier":       payload.Recommended,
	})

	// Sinks ignore caller cancellation but stay bounded by the dispatch
	// timeout. Dispatch still waits for every sink before returning.
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	sinks := []struct {
		name string
		run  func(context.Context) (string, error)
	}{
		{SinkWebhook, s.webhookSink(log, payload)},
		{SinkEmail, s.emailSink(req, payload)},
		{SinkAlert, s.alertSink(req, payload)},
		{SinkFollowUp, s.followUpSink(payload)},
	}

	results := make([]SinkResult, len(sinks))
	var g errgroup.Group
	for i, sink := range sinks {
		g.Go(func() error {
			results[i] = s.runSink(sinkCtx, log, sink.name, sink.run)
			return nil
		})
	}
	_ = g.Wait()

	log.Info("diagnostic dispatched", map[string]interface{}{"sinks": summarize(results)})
	return &Outcome{DispatchID: id, Payload: payload, Sinks: results}, nil
}

// errSkipped marks a sink that had nothing to do.
var errSkipped = stderrors.New("skipped")

func (s *Service) runSink(ctx context.Context, log logger.Logger, name string, run func(context.Context) (string, error)) SinkResult {
	ref, err := run(ctx)

	res := SinkResult{Sink: name, Status: StatusSent, Reference: ref}
	switch {
	case stderrors.Is(err, errSkipped):
		res.Status = StatusSkipped
	case err != nil:
		stdErr := errors.AsStandardError(err)
		res.Status = StatusFailed
		res.Error = stdErr.Message
		res.Retryable = stdErr.Retryable
		log.WithError(err).Error("dispatch sink failed", map[string]interface{}{
			"sink":      name,
			"errorCode": stdErr.Code,
		})
	}
	metrics.DispatchOutcomes.WithLabelValues(name, string(res.Status)).Inc()
	return res
}

func (s *Service) webhookSink(log logger.Logger, p Payload) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if s.webhook == nil || !s.webhook.Configured() {
			log.Info("webhook url not configured; payload follows", map[string]interface{}{"payload": p})
			return "", errSkipped
		}

		reply, err := s.webhook.Send(ctx, p)
		if err != nil {
			status := 0
			if reply != nil {
				status = reply.StatusCode
			}
			return "", errors.NewDispatchWebhookError(status, err)
		}
		return reply.Body, nil
	}
}

func (s *Service) emailSink(req Request, p Payload) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if s.mailer == nil || !req.OptSendRecord || !validation.ValidateEmail(req.Email) {
			return "", errSkipped
		}

		rec, err := composeRecord(req, p, s.now())
		if err != nil {
			return "", errors.NewRecordEmailError(err)
		}
		id, err := s.mailer.SendRecord(ctx, req.Email, rec.Subject, rec.HTML, rec.Text)
		if err != nil {
			return "", errors.NewRecordEmailError(err)
		}
		return id, nil
	}
}

func (s *Service) alertSink(req Request, p Payload) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		state, crisis := crisisState(req)
		if s.alerter == nil || !crisis {
			return "", errSkipped
		}

		subject := "Crisis diagnostic: " + state.Label
		id, err := s.alerter.Alert(ctx, string(state.Key), subject, crisisAlertBody(p))
		if err != nil {
			return "", errors.NewCrisisAlertError(err)
		}
		return id, nil
	}
}

func (s *Service) followUpSink(p Payload) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if s.starter == nil || s.cfg.FollowUpProcessID == "" {
			return "", errSkipped
		}

		key, err := s.starter.StartProcess(ctx, s.cfg.FollowUpProcessID, p.Variables())
		if err != nil {
			if _, ok := err.(*errors.StandardError); ok {
				return "", err
			}
			return "", errors.NewFollowUpStartError(s.cfg.FollowUpProcessID, err)
		}
		return formatKey(key), nil
	}
}

// crisisState prefers the evaluated input over the posted verdict.
func crisisState(req Request) (diagnostic.State, bool) {
	if req.Input != nil {
		if res, err := diagnostic.Evaluate(*req.Input); err == nil {
			return res.State, res.Crisis
		}
	}
	state, ok := diagnostic.StateByVerdict(req.Verdict)
	return state, ok && diagnostic.IsCrisis(state.Key)
}

func summarize(results []SinkResult) map[string]string {
	out := make(map[string]string, len(results))
	for _, r := range results {
		out[r.Sink] = string(r.Status)
	}
	return out
}
