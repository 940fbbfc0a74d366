package worker

import "go.uber.org/fx"

// Module provides the worker delivery surface's Fx module.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewServer),
)
