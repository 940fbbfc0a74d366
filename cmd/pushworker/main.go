// Command pushworker runs the four pipeline worker pools (§5): Loader,
// Dispatcher, Collector, and Trigger, replacing the teacher's
// Pub/Sub-push worker HTTP server with pull-based goroutine pools.
package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"unified-push-server/internal/bootstrap"
	"unified-push-server/internal/delivery"
	"unified-push-server/internal/delivery/worker"
	"unified-push-server/internal/infra/cache"
	"unified-push-server/internal/infra/senders"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase/impl"
)

type startWorkerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		bootstrap.Infra,
		bootstrap.Repositories,
		queue.Module,
		cache.Module,
		senders.Module,
		impl.Module,
		injectDelivery(),
		fx.Invoke(startWorker),
	).Run()
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startWorker(ctx context.Context, params startWorkerParams) {
	for _, d := range params.Deliveries {
		go func(d delivery.Delivery) {
			if err := d.Serve(ctx); err != nil {
				slog.Error("worker pipeline stopped", slog.Any("error", err))
				os.Exit(1)
			}
		}(d)
	}
}
