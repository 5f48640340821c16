// Package feargreed fetches daily fear/greed observations from public providers.
package feargreed

import (
	"fmt"
	"time"

	drepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
	applogger "SentiPull/pkg/logger"
)

// Config carries the per-provider transport settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Attempts  int
	Backoff   time.Duration
}

// Option configures a provider client.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the wall clock used to compute request windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newHTTPClient(cfg Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Timeout),
		xhttp.WithRetry(cfg.Attempts, cfg.Backoff),
		xhttp.WithUserAgent(cfg.UserAgent),
	)
}

// New returns the live source for provider. The archive provider is not
// served here since it needs a storage handle.
func New(provider drepo.Provider, cfg Config, log *applogger.Logger, opts ...Option) (drepo.SentimentSource, error) {
	if log == nil {
		log = applogger.Nop()
	}
	switch provider {
	case drepo.ProviderCNN:
		return NewCNN(cfg, log, opts...), nil
	case drepo.ProviderAlternative:
		return NewAlternative(cfg, log, opts...), nil
	default:
		return nil, fmt.Errorf("feargreed: unsupported provider %q", provider)
	}
}
