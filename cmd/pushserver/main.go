// Command pushserver runs the submission and admin-read HTTP surface
// (§6): POST /rest/sender and GET /rest/metrics/messages/application/:id.
package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"unified-push-server/internal/bootstrap"
	"unified-push-server/internal/delivery"
	"unified-push-server/internal/delivery/http"
	"unified-push-server/internal/delivery/http/router/handler"
	"unified-push-server/internal/infra/cache"
	"unified-push-server/internal/infra/senders"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase/impl"
)

type startServerParams struct {
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
		injectHandler(),
		injectDelivery(),
		fx.Invoke(startServer),
	).Run()
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSubmitHandler,
			handler.NewMetricsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func(d delivery.Delivery) {
			if err := d.Serve(ctx); err != nil {
				slog.Error("delivery surface stopped", slog.Any("error", err))
				os.Exit(1)
			}
		}(d)
	}
}
