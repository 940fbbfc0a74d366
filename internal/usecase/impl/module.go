package impl

import (
	"log/slog"

	"go.uber.org/fx"

	"unified-push-server/config"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/domain/service"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// newDispatcherFromConfig adapts NewDispatcher's scalar sendTimeout
// parameter to Fx's struct-of-dependencies style without exposing a
// raw time.Duration as its own provider.
func newDispatcherFromConfig(cfg *config.Config, registry service.SenderRegistry, installations service.ClientInstallationService, pushMessages repository.PushMessageRepository, logger *slog.Logger) usecase.Dispatcher {
	return NewDispatcher(registry, installations, pushMessages, cfg.Push.SendTimeout, logger)
}

// newTriggerLoopFromConfig does the same for TriggerLoop's
// maxRedeliveries parameter.
func newTriggerLoopFromConfig(cfg *config.Config, collector usecase.MetricsCollector, broker queue.Broker, logger *slog.Logger) usecase.TriggerLoop {
	return NewTriggerLoop(collector, broker, cfg.Push.Trigger.MaxRedeliveries, logger)
}

// Module provides the usecase-layer Fx module: every C1/C2/C4/C6/C7/C9
// use case, backed by the repositories, broker, and caches wired
// elsewhere.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewSenderConfiguration,
		NewTokenLoader,
		NewJobSplitter,
		NewVariantJobHandler,
		NewClientInstallationService,
		newDispatcherFromConfig,
		NewMetricsCollector,
		NewMetricsReader,
		newTriggerLoopFromConfig,
	),
)
