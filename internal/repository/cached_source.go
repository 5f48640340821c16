package repository

import (
	"context"
	"errors"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	"SentiPull/pkg/cache"
	applogger "SentiPull/pkg/logger"
)

// CachedSource serves repeated fetches of the same provider and limit from
// cache. Cache failures are logged and never fail the fetch.
type CachedSource struct {
	next  drepo.SentimentSource
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedSource(next drepo.SentimentSource, c cache.Service, ttl time.Duration, l *applogger.Logger) drepo.SentimentSource {
	if c == nil || ttl <= 0 {
		return next
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedSource{next: next, cache: c, ttl: ttl, l: l}
}

func (s *CachedSource) Name() string { return s.next.Name() }

func (s *CachedSource) Fetch(ctx context.Context, limit int) ([]models.Observation, error) {
	key := cache.GenerateKeyWithParams("fng", s.next.Name(), limit)

	var obs []models.Observation
	err := s.cache.Get(ctx, key, &obs)
	if err == nil {
		return obs, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.l.Warn("observation cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	obs, err = s.next.Fetch(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, obs, s.ttl); err != nil {
		s.l.Warn("observation cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return obs, nil
}
