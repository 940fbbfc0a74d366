// Package bootstrap groups the Fx providers shared by every cmd/
// entrypoint: configuration, logging, the database client, and the
// push-domain repositories built on top of it. Splitting this out of
// any one main.go is the two-binary (pushserver/pushworker) analogue
// of the teacher's single-binary inject*() grouping functions.
package bootstrap

import (
	"context"

	"go.uber.org/fx"

	"unified-push-server/config"
	logs "unified-push-server/internal/infra/log"
	"unified-push-server/internal/infra/persistence/postgres"
)

// Infra provides config, logging, a background context, and the
// database client every binary needs regardless of which delivery
// surface it exposes.
//
//nolint:gochecknoglobals
var Infra = fx.Options(
	fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	),
)

// Repositories provides every push-domain repository plus the
// transaction manager that wraps them in a unit of work.
//
//nolint:gochecknoglobals
var Repositories = fx.Options(
	fx.Provide(
		postgres.NewApplicationRepository,
		postgres.NewVariantRepository,
		postgres.NewInstallationRepository,
		postgres.NewPushMessageRepository,
		postgres.NewTransactionManager,
	),
)
