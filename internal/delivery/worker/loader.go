package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"

	"unified-push-server/config"
	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// newLoaderPool drains VariantJobQueue (§4.5): one flat queue a fixed
// pool works regardless of which variant a job names, since only the
// BatchLoaded/AllBatchesLoaded marker queues are addressed per-variant
// (§4.7.2).
func newLoaderPool(cfg *config.Config, handler usecase.VariantJobHandler, variants repository.VariantRepository, broker queue.Broker, logger *slog.Logger) *pool {
	log := logger.With(slog.String("pool", "loader"))

	handle := func(ctx context.Context, msg *queue.Message) error {
		var job entity.VariantJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Error("dropping unparseable variant job", slog.Any("error", err))

			return nil
		}

		variant, err := variants.FindByID(ctx, job.VariantID)
		if err != nil {
			if errors.Is(err, repository.ErrVariantNotFound) {
				log.Warn("variant no longer exists, dropping job",
					slog.String("push_message_id", job.PushMessageInformationID),
					slog.String("variant_id", job.VariantID.String()),
				)

				return nil
			}

			return err
		}

		return handler.HandleVariantJob(ctx, job, *variant)
	}

	return newPool("loader", cfg.Push.Workers.Loader, constants.QueueVariantJob, broker, handle, log)
}
