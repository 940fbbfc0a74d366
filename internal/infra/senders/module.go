package senders

import "go.uber.org/fx"

// Module provides the SenderRegistry Fx module.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewSenderRegistry),
)
