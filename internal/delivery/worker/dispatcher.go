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

// newDispatcherPool drains BatchQueue (§4.6): invokes the sender for
// one batch and republishes the resulting VariantMetricInformation as
// a MetricUpdate for the collector pool to fold in (§4.7).
func newDispatcherPool(cfg *config.Config, dispatcher usecase.Dispatcher, variants repository.VariantRepository, broker queue.Broker, logger *slog.Logger) *pool {
	log := logger.With(slog.String("pool", "dispatcher"))

	handle := func(ctx context.Context, msg *queue.Message) error {
		var batch entity.BatchJob
		if err := json.Unmarshal(msg.Body, &batch); err != nil {
			log.Error("dropping unparseable batch job", slog.Any("error", err))

			return nil
		}

		variant, err := variants.FindByID(ctx, batch.VariantID)
		if err != nil {
			if errors.Is(err, repository.ErrVariantNotFound) {
				log.Warn("variant no longer exists, dropping batch",
					slog.String("push_message_id", batch.PushMessageInformationID),
					slog.String("variant_id", batch.VariantID.String()),
				)

				return nil
			}

			return err
		}

		metric, err := dispatcher.HandleBatch(ctx, *variant, batch)
		if err != nil {
			return err
		}

		return publishMetricUpdate(ctx, broker, batch.PushMessageInformationID, metric)
	}

	return newPool("dispatcher", cfg.Push.Workers.Dispatcher, constants.QueueBatch, broker, handle, log)
}

func publishMetricUpdate(ctx context.Context, broker queue.Broker, pushMessageInformationID string, metric entity.VariantMetricInformation) error {
	update := entity.MetricUpdate{
		PushMessageInformationID: pushMessageInformationID,
		VariantID:                metric.VariantID,
		Receivers:                metric.Receivers,
		ServedBatches:            metric.ServedBatches,
		TotalBatches:             metric.TotalBatches,
		Delivered:                metric.DeliveryStatus == entity.DeliveryStatusSuccess,
		Reason:                   metric.Reason,
	}

	body, err := json.Marshal(update)
	if err != nil {
		return errors.WithStack(err)
	}

	topic, err := broker.Topic(ctx, constants.QueueMetrics)
	if err != nil {
		return err
	}

	return topic.Send(ctx, body, map[string]string{constants.PropertyVariantID: metric.VariantID.String()}, queue.PublishOptions{})
}
