package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/infra/persistence/postgres/query"
)

// installationRepository implements repository.InstallationRepository
// using GORM, backing TokenLoader's (C2) keyset-paginated reads.
type installationRepository struct {
	q *query.Query
}

// NewInstallationRepository is the constructor for installationRepository.
func NewInstallationRepository(db *gorm.DB) repository.InstallationRepository {
	return &installationRepository{q: query.Use(db)}
}

func (r *installationRepository) FindTokenPage(ctx context.Context, variantID uuid.UUID, cursor string, limit int, categories, aliases, deviceTypes []string) (repository.TokenPage, error) {
	q := r.q.InstallationModel.WithContext(ctx).
		Where(r.q.InstallationModel.VariantID.Eq(variantID)).
		Order(r.q.InstallationModel.ID)

	if cursor != "" {
		cursorID, err := uuid.Parse(cursor)
		if err != nil {
			return repository.TokenPage{}, err
		}
		q = q.Where(r.q.InstallationModel.ID.Gt(cursorID))
	}

	if len(aliases) > 0 {
		q = q.Where(r.q.InstallationModel.Alias.In(aliases...))
	}
	if len(deviceTypes) > 0 {
		q = q.Where(r.q.InstallationModel.DeviceType.In(deviceTypes...))
	}

	// Categories is stored as a JSONB array; filtering it is pushed down
	// with a raw predicate since gorm/gen has no typed operator for
	// "array contains any of" over a json column.
	if len(categories) > 0 {
		q = q.Where("categories::jsonb ?| array[?]", categories)
	}

	installationMs, err := q.Limit(limit + 1).Find()
	if err != nil {
		return repository.TokenPage{}, err
	}

	page := repository.TokenPage{}
	hasMore := len(installationMs) > limit
	if hasMore {
		installationMs = installationMs[:limit]
	}

	page.Tokens = make([]string, 0, len(installationMs))
	for _, installationM := range installationMs {
		page.Tokens = append(page.Tokens, installationM.Token)
	}

	page.HasMore = hasMore
	if hasMore {
		page.NextCursor = installationMs[len(installationMs)-1].ID.String()
	}

	return page, nil
}

func (r *installationRepository) DeleteByTokens(ctx context.Context, variantID uuid.UUID, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	_, err := r.q.InstallationModel.WithContext(ctx).
		Where(r.q.InstallationModel.VariantID.Eq(variantID)).
		Where(r.q.InstallationModel.Token.In(tokens...)).
		Delete()

	return err
}
