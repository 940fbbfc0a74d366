package usecase

import (
	"context"

	"unified-push-server/internal/domain/entity"
)

// VariantJobHandler is the loader side of the pipeline (§4.5): for one
// VariantJob it pulls the next token page, fans it out into BatchJobs
// plus their BatchLoaded/AllBatchesLoaded markers, and re-enqueues
// itself if more pages remain, all in one broker transaction.
type VariantJobHandler interface {
	HandleVariantJob(ctx context.Context, job entity.VariantJob, variant entity.Variant) error
}
