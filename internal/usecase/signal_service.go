package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	domsvc "SentiPull/internal/domain/service"
	"SentiPull/internal/services/sentiment"
	applogger "SentiPull/pkg/logger"
)

// ErrUnknownProvider is returned for a provider without a configured source.
var ErrUnknownProvider = errors.New("unknown provider")

// UpstreamError wraps a failed fetch from a sentiment source.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Provider, e.Err) }

func (e *UpstreamError) Unwrap() error { return e.Err }

// SignalService fetches observation series and runs the engine over them.
// Engine errors are returned unchanged.
type SignalService struct {
	sources    map[string]drepo.SentimentSource
	def        string
	engine     domsvc.SignalEngine
	classifier domsvc.ScoreClassifier
	metrics    drepo.Metrics
	l          *applogger.Logger
}

func NewSignalService(
	sources []drepo.SentimentSource,
	defaultProvider string,
	engine domsvc.SignalEngine,
	classifier domsvc.ScoreClassifier,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *SignalService {
	if l == nil {
		l = applogger.Nop()
	}
	m := make(map[string]drepo.SentimentSource, len(sources))
	for _, s := range sources {
		if s != nil {
			m[s.Name()] = s
		}
	}
	return &SignalService{
		sources:    m,
		def:        defaultProvider,
		engine:     engine,
		classifier: classifier,
		metrics:    metrics,
		l:          l.With(applogger.String("component", "signal_service")),
	}
}

// Providers lists the configured providers in name order.
func (s *SignalService) Providers() []string {
	out := make([]string, 0, len(s.sources))
	for k := range s.sources {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultProvider returns the provider used when none is requested.
func (s *SignalService) DefaultProvider() string { return s.def }

// Fetch returns up to limit observations, most recent first.
func (s *SignalService) Fetch(ctx context.Context, provider string, limit int) (*models.Series, error) {
	if provider == "" {
		provider = s.def
	}
	src, ok := s.sources[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	start := time.Now()
	obs, err := src.Fetch(ctx, drepo.ClampLimit(limit))
	s.metrics.RecordFetch(provider, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordError("fetch")
		return nil, &UpstreamError{Provider: provider, Err: err}
	}
	return &models.Series{Provider: provider, FetchedAt: start.UTC(), Observations: obs}, nil
}

// Analyze fetches a series and analyzes it.
func (s *SignalService) Analyze(ctx context.Context, provider string, limit int) (*models.Analysis, error) {
	series, err := s.Fetch(ctx, provider, limit)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeSeries(series)
}

// AnalyzeSeries runs the engine over an already fetched series and records
// score and signal metrics.
func (s *SignalService) AnalyzeSeries(series *models.Series) (*models.Analysis, error) {
	a, err := s.engine.Analyze(series.Observations)
	if err != nil {
		kind := "analyze"
		if errors.Is(err, sentiment.ErrEmptyInput) {
			kind = "empty_series"
		} else if sentiment.IsValidationError(err) {
			kind = "validation"
		}
		s.metrics.RecordError(kind)
		return nil, err
	}
	s.metrics.RecordScore(series.Provider, a.Signal.Score)
	s.metrics.RecordSignal(a.Signal.Action, a.TrendClassification())
	return a, nil
}

// Classify maps one raw score to its action.
func (s *SignalService) Classify(raw interface{}) (*models.ClassifyResponse, error) {
	score, err := sentiment.CoerceScore(raw)
	if err != nil {
		return nil, err
	}
	action, desc, err := s.classifier.ClassifyRaw(score)
	if err != nil {
		return nil, err
	}
	return &models.ClassifyResponse{Score: score, Action: action, Description: desc}, nil
}
