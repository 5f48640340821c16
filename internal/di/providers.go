package di

import (
	"context"
	"fmt"
	"time"

	"SentiPull/internal/domain/repository"
	"SentiPull/internal/handler/api"
	"SentiPull/internal/handler/ws"
	internalrepo "SentiPull/internal/repository"
	"SentiPull/internal/service/feargreed"
	"SentiPull/internal/service/ratelimit"
	"SentiPull/internal/services/sentiment"
	"SentiPull/internal/usecase"
	"SentiPull/pkg/cache"
	pkgch "SentiPull/pkg/clickhouse"
	"SentiPull/pkg/config"
	xhttp "SentiPull/pkg/http"
	pkgkafka "SentiPull/pkg/kafka"
	applogger "SentiPull/pkg/logger"
	"SentiPull/pkg/metrics"
	"SentiPull/pkg/server"

	"github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the configured cache, or nil for type none.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	redis := func() (*cache.RedisCache, error) {
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
	}
	switch cfg.Cache.Type {
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize)), nil
	case "redis":
		rc, err := redis()
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	case "layered":
		rc, err := redis()
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc, cache.WithLayeredMemory(cfg.Cache.MaxSize, cfg.Cache.TTL)), nil
	default:
		return nil, nil
	}
}

// ProvideClickHouseClient creates a ClickHouse client when enabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithQueryTimeout(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideStorage creates the observation archive and ensures its schema.
func ProvideStorage(ch *pkgch.Client, l *applogger.Logger) (repository.Storage, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseStore(ch, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer when brokers are configured.
// With kafka.log_topic set, aggregated error logs are shipped through it.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAutoCreateTopics(cfg.Environment != "production"),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	if cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producer,
		})
	}
	return producer, nil
}

// ProvidePublisher creates the Kafka publisher, or nil without a producer.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic, cfg.Kafka.SignalTopic)
}

// ProvideSentimentSources builds every usable provider. Upstream providers
// are wrapped with the observation cache.
func ProvideSentimentSources(cfg *config.Config, store repository.Storage, c cache.Service, l *applogger.Logger) ([]repository.SentimentSource, error) {
	var sources []repository.SentimentSource
	for _, p := range []repository.Provider{repository.ProviderCNN, repository.ProviderAlternative} {
		fc := feargreed.Config{
			UserAgent: cfg.Source.UserAgent,
			Timeout:   cfg.Source.Timeout,
			Attempts:  cfg.Source.Attempts,
			Backoff:   cfg.Source.Backoff,
		}
		if string(p) == cfg.Source.Provider {
			fc.BaseURL = cfg.Source.BaseURL
		}
		src, err := feargreed.New(p, fc, l.With(applogger.String("provider", string(p))))
		if err != nil {
			return nil, err
		}
		sources = append(sources, internalrepo.NewCachedSource(src, c, cfg.Cache.TTL, l))
	}
	if store != nil {
		sources = append(sources, internalrepo.NewArchiveSource(store, cfg.Source.ArchiveOf))
	}
	return sources, nil
}

// ProvideSignalService creates the signal use case.
func ProvideSignalService(cfg *config.Config, sources []repository.SentimentSource, m repository.Metrics, l *applogger.Logger) *usecase.SignalService {
	engine := sentiment.NewEngine()
	return usecase.NewSignalService(sources, cfg.Source.Provider, engine, engine, m, l)
}

// ProvideObservationProcessor creates the archive router.
func ProvideObservationProcessor(pub repository.Publisher, store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.ObservationProcessor {
	return usecase.NewObservationProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideHub creates the WebSocket hub.
func ProvideHub(l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l, 256)
}

// ProvideSentimentCollector creates the scheduled collector, or nil when disabled.
func ProvideSentimentCollector(
	cfg *config.Config,
	svc *usecase.SignalService,
	proc *usecase.ObservationProcessor,
	pub repository.Publisher,
	hub *ws.Hub,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SentimentCollector {
	if !cfg.Collector.Enabled {
		return nil
	}
	return usecase.NewSentimentCollector(usecase.CollectorConfig{
		Schedule: cfg.Collector.Schedule,
		Provider: cfg.Source.Provider,
		Limit:    cfg.Collector.Limit,
	}, svc, proc, pub, hub, c, m, l)
}

// ProvideKafkaConsumer creates the archive consumer when enabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerStartOffset(kafka.FirstOffset),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.LoggingHook(l, time.Second))
	return consumer, nil
}

// ProvideKafkaObservationsHandler creates the consumer handler for the observations topic.
func ProvideKafkaObservationsHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.KafkaObservationsHandler {
	if store == nil {
		return nil
	}
	return usecase.NewKafkaObservationsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideSentimentHandler creates the HTTP API handler.
func ProvideSentimentHandler(
	cfg *config.Config,
	svc *usecase.SignalService,
	c cache.Service,
	store repository.Storage,
	l *applogger.Logger,
) *api.SentimentEchoHandler {
	opts := []api.Option{
		api.WithRateLimiter(ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, 10*time.Minute)),
	}
	if c != nil {
		opts = append(opts,
			api.WithResponseCache(c, cfg.Server.ResponseTTL),
			api.WithHealthCheck("cache", func(ctx context.Context) error {
				_, err := c.Exists(ctx, "healthz")
				return err
			}),
		)
	}
	if store != nil {
		opts = append(opts, api.WithHealthCheck("clickhouse", store.Health))
	}
	return api.NewSentimentEchoHandler(l, svc, opts...)
}

// ProvideHTTPServer creates the Echo server with every handler registered.
func ProvideHTTPServer(cfg *config.Config, h *api.SentimentEchoHandler, hub *ws.Hub, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(l, []xhttp.Handler{h, hub},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	collector *usecase.SentimentCollector,
	proc *usecase.ObservationProcessor,
	hub *ws.Hub,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaObservationsHandler,
	chClient *pkgch.Client,
	c cache.Service,
) *server.App {
	app := server.New(cfg, l, srv, collector, proc, hub, chClient, c)
	if consumer != nil && kh != nil {
		app.SetConsumer(consumer, kh)
	}
	return app
}
