//go:build wireinject
// +build wireinject

package di

import (
	"SentiPull/pkg/config"
	"SentiPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideStorage,
		ProvidePublisher,
		ProvideSentimentSources,

		// Use cases
		ProvideSignalService,
		ProvideObservationProcessor,
		ProvideSentimentCollector,
		ProvideKafkaObservationsHandler,

		// Transport
		ProvideHub,
		ProvideSentimentHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
