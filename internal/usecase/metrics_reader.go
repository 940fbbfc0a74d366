package usecase

import (
	"context"

	"unified-push-server/internal/domain/entity"
)

// MessagePage is one page of the admin read path's listing (§6).
type MessagePage struct {
	Messages []entity.PushMessageInformation
	Total    int64
}

// MetricsReader backs the admin GET /rest/metrics/messages/application/{id}
// endpoint: a paginated, searched listing plus the process-local
// MetricsCache snapshot for the response headers.
type MetricsReader interface {
	ApplicationExists(ctx context.Context, appID string) (bool, error)
	ListMessages(ctx context.Context, appID string, page, perPage int, ascending bool, search string) (MessagePage, error)
	Snapshot(appID string) map[string]int64
}
