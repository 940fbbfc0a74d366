package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/infra/persistence/model"
	"unified-push-server/internal/infra/persistence/postgres/query"
)

// variantRepository implements repository.VariantRepository using GORM.
type variantRepository struct {
	q *query.Query
}

// NewVariantRepository is the constructor for variantRepository.
func NewVariantRepository(db *gorm.DB) repository.VariantRepository {
	return &variantRepository{q: query.Use(db)}
}

func (r *variantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Variant, error) {
	variantM, err := r.q.VariantModel.WithContext(ctx).
		Where(r.q.VariantModel.ID.Eq(id)).
		First()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVariantNotFound
		}

		return nil, err
	}

	return toVariantDomain(variantM), nil
}

func (r *variantRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]entity.Variant, error) {
	variantMs, err := r.q.VariantModel.WithContext(ctx).
		Where(r.q.VariantModel.ApplicationID.Eq(applicationID)).
		Find()
	if err != nil {
		return nil, err
	}

	variants := make([]entity.Variant, 0, len(variantMs))
	for _, variantM := range variantMs {
		variants = append(variants, *toVariantDomain(variantM))
	}

	return variants, nil
}

func toVariantDomain(m *model.VariantModel) *entity.Variant {
	if m == nil {
		return nil
	}

	return &entity.Variant{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		Platform:      constants.Platform(m.Platform),
		Production:    m.Production,
		Credentials:   m.Credentials.Data(),
	}
}
