package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"SentiPull/internal/domain/models"
	"SentiPull/internal/service/metrics"
	"SentiPull/internal/service/ratelimit"
	"SentiPull/internal/services/sentiment"
	"SentiPull/internal/usecase"
	"SentiPull/pkg/cache"
	xhttp "SentiPull/pkg/http"
	xlogger "SentiPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Option configures SentimentEchoHandler.
type Option func(*SentimentEchoHandler)

// WithResponseCache caches analyses per provider and limit for ttl.
func WithResponseCache(c cache.Service, ttl time.Duration) Option {
	return func(h *SentimentEchoHandler) {
		h.cache = c
		h.ttl = ttl
	}
}

// WithRateLimiter applies a per-client limit to the /api group.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(h *SentimentEchoHandler) {
		h.limiter = l
	}
}

// WithHealthCheck adds a named dependency check to /healthz.
func WithHealthCheck(name string, fn HealthCheck) Option {
	return func(h *SentimentEchoHandler) {
		if fn != nil {
			h.checks[name] = fn
		}
	}
}

// SentimentEchoHandler serves the sentiment signal endpoints.
type SentimentEchoHandler struct {
	logger  *xlogger.Logger
	svc     *usecase.SignalService
	cache   cache.Service
	ttl     time.Duration
	limiter *ratelimit.Limiter
	checks  map[string]HealthCheck
}

func NewSentimentEchoHandler(logger *xlogger.Logger, svc *usecase.SignalService, opts ...Option) *SentimentEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &SentimentEchoHandler{logger: logger, svc: svc, checks: make(map[string]HealthCheck)}
	for _, opt := range opts {
		opt(h)
	}
	metrics.Register()
	return h
}

func (h *SentimentEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api", h.rateLimit)
	g.GET("/analysis", h.withAnalysis("analysis", func(c echo.Context, a *models.Analysis) error {
		return xhttp.SuccessResponse(c, a)
	}))
	g.GET("/signal", h.withAnalysis("signal", func(c echo.Context, a *models.Analysis) error {
		return xhttp.SuccessResponse(c, a.Signal)
	}))
	g.GET("/changes", h.withAnalysis("changes", func(c echo.Context, a *models.Analysis) error {
		if a.Change == nil {
			return xhttp.UnavailableResponse(c, insufficient(a, sentiment.DailyLookback+1))
		}
		return xhttp.SuccessResponse(c, a.Change)
	}))
	g.GET("/window", h.withAnalysis("window", func(c echo.Context, a *models.Analysis) error {
		if a.Window == nil {
			return xhttp.UnavailableResponse(c, insufficient(a, 1))
		}
		return xhttp.SuccessResponse(c, a.Window)
	}))
	g.GET("/trend", h.withAnalysis("trend", func(c echo.Context, a *models.Analysis) error {
		if a.Trend == nil {
			return xhttp.UnavailableResponse(c, insufficient(a, sentiment.TrendSubWindow))
		}
		return xhttp.SuccessResponse(c, a.Trend)
	}))
	g.GET("/classify", h.Classify)
	g.GET("/providers", h.Providers)
}

// Classify maps a single score to its action.
func (h *SentimentEchoHandler) Classify(c echo.Context) error {
	req := &models.ClassifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.svc.Classify(req.Score)
	if err != nil {
		metrics.EngineErrors.WithLabelValues("classify", "validation").Inc()
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_NUMERIC",
			Field:   "score",
			Message: "score must be a number",
			Params:  map[string]interface{}{"value": req.Score},
		}})
	}
	return xhttp.SuccessResponse(c, res)
}

// Providers lists configured providers and the default one.
func (h *SentimentEchoHandler) Providers(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"default":   h.svc.DefaultProvider(),
		"providers": h.svc.Providers(),
	})
}

// Health runs every registered check with a short deadline.
func (h *SentimentEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	return xhttp.DataResponse(c, status, map[string]interface{}{"checks": results})
}

func (h *SentimentEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(xhttp.ClientKey(c)) {
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
		}
		return next(c)
	}
}

func (h *SentimentEchoHandler) withAnalysis(endpoint string, render func(echo.Context, *models.Analysis) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		defer func() {
			metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		}()

		req := &models.AnalysisRequest{}
		if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
			return xhttp.BadRequestResponse(c, verr)
		}
		a, err := h.analysis(c.Request().Context(), req)
		if err != nil {
			return h.errorResponse(c, endpoint, err)
		}
		c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
		return render(c, a)
	}
}

func (h *SentimentEchoHandler) analysis(ctx context.Context, req *models.AnalysisRequest) (*models.Analysis, error) {
	provider := req.Provider
	if provider == "" {
		provider = h.svc.DefaultProvider()
	}
	if h.cache == nil || h.ttl <= 0 {
		return h.svc.Analyze(ctx, provider, req.Limit)
	}

	key := cache.GenerateKeyWithParams("resp", provider, req.Limit)
	var a models.Analysis
	if err := h.cache.Get(ctx, key, &a); err == nil {
		metrics.ResponseCache.WithLabelValues("hit").Inc()
		return &a, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		h.logger.Warn("response cache read failed", xlogger.String("key", key), xlogger.Error(err))
	}
	metrics.ResponseCache.WithLabelValues("miss").Inc()

	res, err := h.svc.Analyze(ctx, provider, req.Limit)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, key, res, h.ttl); err != nil {
		h.logger.Warn("response cache write failed", xlogger.String("key", key), xlogger.Error(err))
	}
	return res, nil
}

func (h *SentimentEchoHandler) errorResponse(c echo.Context, endpoint string, err error) error {
	var (
		appErr *xhttp.AppError
		kind   string
	)
	var ve *sentiment.ValidationError
	var ue *usecase.UpstreamError
	switch {
	case errors.Is(err, sentiment.ErrEmptyInput):
		kind = "empty_series"
		appErr = xhttp.EmptySeriesError("provider returned no observations")
	case errors.As(err, &ve):
		kind = "validation"
		appErr = xhttp.ValidationFailedError(ve.Error()).
			WithParam("index", ve.Index).
			WithParam("reason", ve.Reason)
	case errors.Is(err, usecase.ErrUnknownProvider):
		kind = "provider"
		appErr = xhttp.BadRequestError(err.Error())
		appErr.Field = "provider"
	case errors.As(err, &ue):
		kind = "upstream"
		appErr = xhttp.UpstreamError("sentiment provider unavailable").WithParam("provider", ue.Provider)
		h.logger.Error("upstream fetch failed",
			xlogger.String("endpoint", endpoint),
			xlogger.String("provider", ue.Provider),
			xlogger.Error(ue.Err),
		)
	default:
		kind = "internal"
		h.logger.Error("sentiment usecase error", xlogger.String("endpoint", endpoint), xlogger.Error(err))
	}
	metrics.EngineErrors.WithLabelValues(endpoint, kind).Inc()
	if appErr == nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.AppErrorResponse(c, appErr.WithError(err))
}

func insufficient(a *models.Analysis, required int) xhttp.Unavailable {
	got := 0
	if a.Window != nil {
		got = a.Window.WindowSize
	}
	return xhttp.Unavailable{Reason: "insufficient_data", Required: required, Got: got}
}
