package impl

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/infra/cache"
	"unified-push-server/internal/usecase"
)

// metricsReader is the admin read path's backing use case (§6).
type metricsReader struct {
	applications repository.ApplicationRepository
	pushMessages repository.PushMessageRepository
	metricsCache *cache.MetricsCache
}

// NewMetricsReader constructs the admin read use case.
func NewMetricsReader(applications repository.ApplicationRepository, pushMessages repository.PushMessageRepository, metricsCache *cache.MetricsCache) usecase.MetricsReader {
	return &metricsReader{applications: applications, pushMessages: pushMessages, metricsCache: metricsCache}
}

func (r *metricsReader) ApplicationExists(ctx context.Context, appID string) (bool, error) {
	id, err := uuid.Parse(appID)
	if err != nil {
		return false, nil
	}

	_, err = r.applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (r *metricsReader) ListMessages(ctx context.Context, appID string, page, perPage int, ascending bool, search string) (usecase.MessagePage, error) {
	messages, total, err := r.pushMessages.FindByAppID(ctx, appID, page, perPage, ascending, search)
	if err != nil {
		return usecase.MessagePage{}, err
	}

	return usecase.MessagePage{Messages: messages, Total: total}, nil
}

func (r *metricsReader) Snapshot(appID string) map[string]int64 {
	return r.metricsCache.Snapshot(appID)
}
