package cache

import "go.uber.org/fx"

// Module provides the MetricsCache FX module.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewMetricsCache),
)
