package impl

import (
	"context"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/usecase"
)

// tokenLoader is C2: a thin pass-through onto InstallationRepository's
// keyset-paginated read (§4.2). It runs outside any write transaction.
type tokenLoader struct {
	installations repository.InstallationRepository
}

// NewTokenLoader constructs C2.
func NewTokenLoader(installations repository.InstallationRepository) usecase.TokenLoader {
	return &tokenLoader{installations: installations}
}

func (l *tokenLoader) LoadPage(ctx context.Context, variantID uuid.UUID, cursor string, limit int, filter entity.InstallationFilter) (repository.TokenPage, error) {
	return l.installations.FindTokenPage(ctx, variantID, cursor, limit, filter.Categories, filter.Aliases, filter.DeviceTypes)
}
