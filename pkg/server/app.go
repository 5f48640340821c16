package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SentiPull/internal/handler/ws"
	"SentiPull/internal/usecase"
	"SentiPull/pkg/cache"
	pkgch "SentiPull/pkg/clickhouse"
	"SentiPull/pkg/config"
	xhttp "SentiPull/pkg/http"
	pkgkafka "SentiPull/pkg/kafka"
	applogger "SentiPull/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	collector  *usecase.SentimentCollector
	proc       *usecase.ObservationProcessor
	hub        *ws.Hub
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	chClient   *pkgch.Client
	cache      cache.Service
}

// New creates a new App instance with all dependencies. collector,
// chClient and c may be nil.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	collector *usecase.SentimentCollector,
	proc *usecase.ObservationProcessor,
	hub *ws.Hub,
	chClient *pkgch.Client,
	c cache.Service,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		collector:  collector,
		proc:       proc,
		hub:        hub,
		chClient:   chClient,
		cache:      c,
	}
}

// SetConsumer attaches the archive consumer and its handler.
func (a *App) SetConsumer(consumer *pkgkafka.Consumer, kh pkgkafka.MessageHandler) {
	a.consumer = consumer
	a.kh = kh
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
	}

	if a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			a.log.Error("collector start error", applogger.Error(err))
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	a.log.Info("sentipull started",
		applogger.String("provider", a.cfg.Source.Provider),
		applogger.String("backend", a.cfg.Backend.Type),
		applogger.Bool("collector", a.collector != nil),
		applogger.Bool("consumer", a.consumer != nil),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	if a.hub != nil {
		a.hub.Close()
	}

	if a.collector != nil {
		if err := a.collector.Stop(ctx); err != nil {
			a.log.Warn("collector stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// flush aggregated logs while the producer is still open
	a.log.RemoveCollector()

	// closes the kafka producer behind the publisher
	if a.proc != nil {
		a.proc.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
