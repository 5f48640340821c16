package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	"SentiPull/pkg/cache"
	applogger "SentiPull/pkg/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const (
	collectorLockTTL    = 2 * time.Minute
	collectorRunTimeout = time.Minute
)

// Broadcaster fans a signal event out to live subscribers.
type Broadcaster interface {
	Broadcast(ev *models.SignalEvent)
}

// CollectorConfig holds the collector schedule and batch size.
type CollectorConfig struct {
	Schedule string
	Provider string
	Limit    int
}

// SentimentCollector periodically fetches the series, archives it, analyzes
// it and pushes the resulting signal to subscribers and the signal topic.
// Failures are logged and counted; the schedule keeps running.
type SentimentCollector struct {
	cfg     CollectorConfig
	svc     *SignalService
	proc    *ObservationProcessor
	pub     drepo.Publisher
	hub     Broadcaster
	lock    cache.Service
	lockTTL time.Duration
	metrics drepo.Metrics
	l       *applogger.Logger

	cron *cron.Cron
	mu   sync.RWMutex
	last *models.SignalEvent
	now  func() time.Time
}

// NewSentimentCollector creates a collector. proc, pub, hub and lock are optional.
func NewSentimentCollector(
	cfg CollectorConfig,
	svc *SignalService,
	proc *ObservationProcessor,
	pub drepo.Publisher,
	hub Broadcaster,
	lock cache.Service,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *SentimentCollector {
	if l == nil {
		l = applogger.Nop()
	}
	if cfg.Provider == "" {
		cfg.Provider = svc.DefaultProvider()
	}
	return &SentimentCollector{
		cfg:     cfg,
		svc:     svc,
		proc:    proc,
		pub:     pub,
		hub:     hub,
		lock:    lock,
		metrics: metrics,
		lockTTL: lockTTLFor(cfg.Schedule),
		l:       l.With(applogger.String("component", "collector"), applogger.String("provider", cfg.Provider)),
		now:     time.Now,
	}
}

// Start schedules the job and triggers one immediate run.
func (c *SentimentCollector) Start(ctx context.Context) error {
	c.cron = cron.New()
	if _, err := c.cron.AddFunc(c.cfg.Schedule, func() { c.run(ctx) }); err != nil {
		return fmt.Errorf("collector schedule %q: %w", c.cfg.Schedule, err)
	}
	c.cron.Start()
	go c.run(ctx)
	c.l.Info("collector started", applogger.String("schedule", c.cfg.Schedule), applogger.Int("limit", c.cfg.Limit))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (c *SentimentCollector) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}
	select {
	case <-c.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("collector stop: %w", ctx.Err())
	}
}

// Latest returns the most recent signal event, or nil before the first run.
func (c *SentimentCollector) Latest() *models.SignalEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *SentimentCollector) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, collectorRunTimeout)
	defer cancel()
	if _, err := c.RunOnce(ctx); err != nil {
		c.l.Error("collector run failed", applogger.Error(err))
	}
}

// lockTTLFor keeps the collection lock for half the gap between ticks,
// capped at collectorLockTTL, so replicas firing late for the same tick skip
// while the next tick is still free to run.
func lockTTLFor(schedule string) time.Duration {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return collectorLockTTL
	}
	first := sched.Next(time.Now())
	gap := sched.Next(first).Sub(first)
	if ttl := gap / 2; ttl > 0 && ttl < collectorLockTTL {
		return ttl
	}
	return collectorLockTTL
}

// RunOnce performs one collection. It returns nil, nil when another replica
// holds the collection lock. The lock is left to expire rather than released.
func (c *SentimentCollector) RunOnce(ctx context.Context) (*models.SignalEvent, error) {
	if c.lock != nil {
		key := cache.GenerateKeyWithParams("lock", "collector", c.cfg.Provider)
		ok, err := c.lock.TryLock(ctx, key, c.lockTTL)
		switch {
		case err != nil:
			c.l.Warn("collector lock unavailable, running unguarded", applogger.Error(err))
		case !ok:
			c.l.Debug("collector lock held elsewhere, skipping run")
			return nil, nil
		}
	}

	series, err := c.svc.Fetch(ctx, c.cfg.Provider, c.cfg.Limit)
	if err != nil {
		c.metrics.RecordError("collect_fetch")
		return nil, err
	}

	// archive rows are already stored
	if c.proc != nil && c.cfg.Provider != string(drepo.ProviderArchive) {
		if err := c.proc.Process(ctx, series.Provider, series.Observations); err != nil {
			c.l.Error("archive batch failed", applogger.String("backend", c.proc.Backend()), applogger.Error(err))
		}
	}

	analysis, err := c.svc.AnalyzeSeries(series)
	if err != nil {
		c.metrics.RecordError("collect_analyze")
		return nil, err
	}

	ev := &models.SignalEvent{
		ID:          uuid.NewString(),
		Provider:    series.Provider,
		GeneratedAt: c.now().UTC(),
		Analysis:    analysis,
	}
	c.mu.Lock()
	c.last = ev
	c.mu.Unlock()

	if c.hub != nil {
		c.hub.Broadcast(ev)
	}
	if c.pub != nil {
		if err := c.pub.PublishSignal(ctx, ev); err != nil {
			c.metrics.RecordError("publish_signal")
			c.l.Error("publish signal failed", applogger.Error(err))
		}
	}

	c.l.Info("signal collected",
		applogger.Float64("score", analysis.Signal.Score),
		applogger.String("action", string(analysis.Signal.Action)),
		applogger.String("trend", string(analysis.TrendClassification())),
		applogger.Int("observations", series.Len()),
	)
	return ev, nil
}
