package usecase

import (
	"context"

	"unified-push-server/internal/domain/entity"
)

// JobSplitter is the submission-time fan-out (C6, §4.4): it persists
// the PushMessageInformation aggregate in a store transaction, then
// enqueues one seed VariantJob per targeted variant with retries. A
// seed enqueue that still fails after the commit is logged, not
// returned to the caller.
type JobSplitter interface {
	Split(ctx context.Context, appID string, message entity.UnifiedPushMessage, ipAddress, clientIdentifier string) (*entity.PushMessageInformation, error)
}
