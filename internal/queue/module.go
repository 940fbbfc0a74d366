package queue

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"unified-push-server/config"
)

// Params holds dependencies for Broker, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewBroker opens the configured broker and registers a shutdown hook.
func NewBroker(params Params) (Broker, error) {
	broker := NewGoCloudBroker(params.Config.Push.Broker.URL, params.Logger)

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return broker.Close()
		},
	})

	return broker, nil
}

// Module provides the queue FX module.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewBroker),
)
