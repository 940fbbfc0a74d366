package usecase

import (
	"context"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
)

// TokenLoader reads one page of recipient tokens for a variant (C2,
// §4.2). Safe to call outside any write transaction.
type TokenLoader interface {
	LoadPage(ctx context.Context, variantID uuid.UUID, cursor string, limit int, filter entity.InstallationFilter) (repository.TokenPage, error)
}
