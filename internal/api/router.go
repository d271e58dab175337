// Package api exposes the diagnostic engine to the site over HTTP.
package api

import (
	"context"

	"resolution-diagnostic/internal/common/logger"
	"resolution-diagnostic/internal/common/observability"
	"resolution-diagnostic/internal/common/validation"
	"resolution-diagnostic/internal/diagnostic"
	"resolution-diagnostic/internal/dispatch"

	"github.com/gin-gonic/gin"
)

// Cache is the Redis-backed state the handlers use. It is optional.
type Cache interface {
	NextInsightSequence(ctx context.Context, sessionID string) (int64, error)
	CachedEvaluation(ctx context.Context, key string) ([]byte, bool, error)
	StoreEvaluation(ctx context.Context, key string, body []byte) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Outcome, error)
}

type ReportRenderer interface {
	Markdown(res *diagnostic.Result) string
	Render(ctx context.Context, res *diagnostic.Result) ([]byte, error)
}

type Options struct {
	Logger        logger.Logger
	Cache         Cache
	Dispatcher    Dispatcher
	Renderer      ReportRenderer
	Observability *observability.Observability
	CORSOrigins   []string
	Version       string
}

type handlers struct {
	logger         logger.Logger
	cache          Cache
	dispatcher     Dispatcher
	renderer       ReportRenderer
	obs            *observability.Observability
	inputSchema    *validation.Schema
	dispatchSchema *validation.Schema
	version        string
}

// NewRouter builds the gin engine. Set gin's mode before calling it.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.Observability == nil {
		opts.Observability = observability.NewNoop()
	}

	h := &handlers{
		logger:         opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
		cache:          opts.Cache,
		dispatcher:     opts.Dispatcher,
		renderer:       opts.Renderer,
		obs:            opts.Observability,
		inputSchema:    validation.MustLoad(validation.DiagnosticInput),
		dispatchSchema: validation.MustLoad(validation.DispatchRequest),
		version:        opts.Version,
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), CORS(opts.CORSOrigins), Instrument(h.logger, h.obs))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", h.health)
		apiGroup.POST("/diagnostic/evaluate", h.evaluate)
		apiGroup.POST("/diagnostic/insight", h.insight)
		apiGroup.POST("/diagnostic/report", h.report)
		apiGroup.POST("/diagnostic-dispatch", h.dispatch)
	}
	return r
}
