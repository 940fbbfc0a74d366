package repository

import (
	"context"
	"errors"
	"time"

	"unified-push-server/internal/domain/entity"
)

// ErrPushMessageNotFound is returned when a push message aggregate is not found.
var ErrPushMessageNotFound = errors.New("push message information not found")

// PushMessageRepository is the MetricsCollector's (C7) durable store
// for PushMessageInformation aggregates (§3, §4.7, §4.11).
type PushMessageRepository interface {
	Create(ctx context.Context, info *entity.PushMessageInformation) error

	// FindByIDForUpdate loads a message aggregate locked for the
	// duration of the caller's transaction (SELECT ... FOR UPDATE),
	// giving the collector's read-merge-write cycle atomicity across
	// concurrent batch-completion events for the same job (§4.7).
	FindByIDForUpdate(ctx context.Context, id string) (*entity.PushMessageInformation, error)

	Save(ctx context.Context, info *entity.PushMessageInformation) error

	FindByID(ctx context.Context, id string) (*entity.PushMessageInformation, error)

	// FindIncomplete returns jobs submitted before cutoff whose
	// ServedVariants has not yet reached TotalVariants. TriggerLoop
	// (C9) does not use it: it reconciles the one job named on each
	// trigger message.
	FindIncomplete(ctx context.Context, cutoff time.Time) ([]entity.PushMessageInformation, error)

	// FindByAppID backs the admin read path (§6): a paginated,
	// full-text-searched (over id and the raw message body) listing of
	// one application's submitted jobs, plus the total count under the
	// same filter.
	FindByAppID(ctx context.Context, appID string, page, perPage int, ascending bool, search string) ([]entity.PushMessageInformation, int64, error)

	// RecordVariantError appends an optional transport-rejection record
	// (§4.11). Never read back by collector completion logic.
	RecordVariantError(ctx context.Context, status entity.VariantErrorStatus) error
}
