package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"unified-push-server/config"
	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// newCollectorPool drains MetricsQueue (§4.7): folds one MetricUpdate
// into the persisted aggregate via MetricsCollector.HandleMetric.
func newCollectorPool(cfg *config.Config, collector usecase.MetricsCollector, broker queue.Broker, logger *slog.Logger) *pool {
	log := logger.With(slog.String("pool", "collector"))

	handle := func(ctx context.Context, msg *queue.Message) error {
		var update entity.MetricUpdate
		if err := json.Unmarshal(msg.Body, &update); err != nil {
			log.Error("dropping unparseable metric update", slog.Any("error", err))

			return nil
		}

		_, err := collector.HandleMetric(ctx, update.PushMessageInformationID, update.VariantID,
			update.Receivers, update.ServedBatches, update.TotalBatches, update.Delivered, update.Reason)

		return err
	}

	return newPool("collector", cfg.Push.Workers.Collector, constants.QueueMetrics, broker, handle, log)
}
