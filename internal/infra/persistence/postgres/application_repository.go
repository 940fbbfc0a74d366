package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/infra/persistence/model"
	"unified-push-server/internal/infra/persistence/postgres/query"
)

// applicationRepository implements repository.ApplicationRepository using GORM.
type applicationRepository struct {
	q *query.Query
}

// NewApplicationRepository is the constructor for applicationRepository.
func NewApplicationRepository(db *gorm.DB) repository.ApplicationRepository {
	return &applicationRepository{q: query.Use(db)}
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PushApplication, error) {
	appM, err := r.q.ApplicationModel.WithContext(ctx).
		Where(r.q.ApplicationModel.ID.Eq(id)).
		First()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrApplicationNotFound
		}

		return nil, err
	}

	return toApplicationDomain(appM), nil
}

func toApplicationDomain(m *model.ApplicationModel) *entity.PushApplication {
	if m == nil {
		return nil
	}

	return &entity.PushApplication{ID: m.ID, Name: m.Name}
}
