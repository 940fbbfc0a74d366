package usecase

import (
	"context"

	"unified-push-server/internal/domain/entity"
)

// Dispatcher consumes one BatchJob, invokes the variant's sender, and
// emits the resulting VariantMetricInformation delta (C4, §4.6). It
// does not merge the delta into the persisted aggregate itself; that
// is MetricsCollector's job.
type Dispatcher interface {
	HandleBatch(ctx context.Context, variant entity.Variant, batch entity.BatchJob) (entity.VariantMetricInformation, error)
}
