package worker

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"unified-push-server/config"
	"unified-push-server/internal/delivery"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// Params holds every dependency the four pipeline worker pools need,
// injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config            *config.Config
	Logger            *slog.Logger
	Broker            queue.Broker
	Variants          repository.VariantRepository
	VariantJobHandler usecase.VariantJobHandler
	Dispatcher        usecase.Dispatcher
	MetricsCollector  usecase.MetricsCollector
	TriggerLoop       usecase.TriggerLoop
}

// server owns the four pipeline worker pools (Loader, Dispatcher,
// Collector, Trigger), generalizing the teacher's single echo.Server
// lifecycle-hook shape to "N goroutine pools" (§5).
type server struct {
	logger *slog.Logger
	pools  []*pool
}

// NewServer constructs the worker delivery surface.
func NewServer(params Params) (delivery.Delivery, error) {
	srv := &server{
		logger: params.Logger,
		pools: []*pool{
			newLoaderPool(params.Config, params.VariantJobHandler, params.Variants, params.Broker, params.Logger),
			newDispatcherPool(params.Config, params.Dispatcher, params.Variants, params.Broker, params.Logger),
			newCollectorPool(params.Config, params.MetricsCollector, params.Broker, params.Logger),
			newTriggerPool(params.Config, params.TriggerLoop, params.Broker, params.Logger),
		},
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Serve starts every worker pool and blocks until ctx is cancelled,
// mirroring httpServer.Serve's "start, then block" contract so
// cmd/pushworker can run it the same way it would an HTTP server.
func (s *server) Serve(ctx context.Context) error {
	s.logger.Info("starting push pipeline worker pools")

	for _, p := range s.pools {
		if err := p.start(ctx); err != nil {
			return err
		}
	}

	<-ctx.Done()

	return nil
}

func (s *server) stop(ctx context.Context) error {
	s.logger.Info("stopping push pipeline worker pools")

	for _, p := range s.pools {
		if err := p.stop(ctx); err != nil {
			return err
		}
	}

	return nil
}
