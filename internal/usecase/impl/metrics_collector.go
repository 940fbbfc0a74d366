package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/infra/cache"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// metricsCollector is C7 (§4.7), the pipeline's crux: it folds
// VariantMetricInformation deliveries into the persisted
// PushMessageInformation aggregate and decides variant/job completion
// by draining the durable BatchLoaded/AllBatchesLoaded marker queues.
type metricsCollector struct {
	pushMessages repository.PushMessageRepository
	txm          repository.TransactionManager
	broker       queue.Broker
	metricsCache *cache.MetricsCache
	logger       *slog.Logger
}

// NewMetricsCollector constructs C7.
func NewMetricsCollector(pushMessages repository.PushMessageRepository, txm repository.TransactionManager, broker queue.Broker, metricsCache *cache.MetricsCache, logger *slog.Logger) usecase.MetricsCollector {
	return &metricsCollector{pushMessages: pushMessages, txm: txm, broker: broker, metricsCache: metricsCache, logger: logger}
}

func (c *metricsCollector) HandleMetric(ctx context.Context, pushMessageInformationID string, variantID uuid.UUID, receivers, servedBatches, totalBatches int, delivered bool, reason string) (usecase.CollectorOutcome, error) {
	incoming := entity.VariantMetricInformation{
		VariantID:      variantID,
		Receivers:      receivers,
		ServedBatches:  servedBatches,
		TotalBatches:   totalBatches,
		DeliveryStatus: statusFor(delivered),
		Reason:         reason,
	}

	var outcome usecase.CollectorOutcome

	err := c.txm.Execute(ctx, func(tx repository.RepositoryFactory) error {
		repo := tx.NewPushMessageRepository()

		info, err := repo.FindByIDForUpdate(ctx, pushMessageInformationID)
		if err != nil {
			return err
		}

		info.TotalReceivers += incoming.Receivers

		loaded, err := c.drainMarkers(ctx, constants.QueueBatchLoaded, variantID)
		if err != nil {
			return err
		}
		incoming.TotalBatches += loaded

		merged := incoming
		if existing, ok := info.FindVariant(variantID); ok {
			merged = existing.Merge(incoming)
			*existing = merged
		} else {
			info.VariantInformation = append(info.VariantInformation, merged)
		}

		outcome = c.evaluateCompletion(ctx, info, variantID, merged)
		c.metricsCache.Add(info.AppID, "receivers", int64(incoming.Receivers))

		return repo.Save(ctx, info)
	})
	if err != nil {
		return usecase.CollectorOutcome{}, err
	}

	return outcome, nil
}

func (c *metricsCollector) Reconcile(ctx context.Context, pushMessageInformationID string) (usecase.CollectorOutcome, error) {
	var outcome usecase.CollectorOutcome

	err := c.txm.Execute(ctx, func(tx repository.RepositoryFactory) error {
		repo := tx.NewPushMessageRepository()

		info, err := repo.FindByIDForUpdate(ctx, pushMessageInformationID)
		if err != nil {
			return err
		}

		if info.Completed() {
			outcome.PushMessageCompleted = true

			return nil
		}

		for i := range info.VariantInformation {
			variant := &info.VariantInformation[i]

			loaded, err := c.drainMarkers(ctx, constants.QueueBatchLoaded, variant.VariantID)
			if err != nil {
				return err
			}
			variant.TotalBatches += loaded

			result := c.evaluateCompletion(ctx, info, variant.VariantID, *variant)
			if result.VariantCompleted {
				outcome.VariantCompleted = true
			}
			if result.PushMessageCompleted {
				outcome.PushMessageCompleted = true
			}
		}

		return repo.Save(ctx, info)
	})
	if err != nil {
		return usecase.CollectorOutcome{}, err
	}

	return outcome, nil
}

// evaluateCompletion applies §4.7 step 7's guard: the variant's batch
// counts must balance AND one AllBatchesLoaded marker must be
// available for it. Mutates info.ServedVariants/fires completion in
// place; callers persist info afterward.
func (c *metricsCollector) evaluateCompletion(ctx context.Context, info *entity.PushMessageInformation, variantID uuid.UUID, merged entity.VariantMetricInformation) usecase.CollectorOutcome {
	var outcome usecase.CollectorOutcome

	if !merged.Completed() {
		return outcome
	}

	hasTerminalMarker, err := c.consumeOneMarker(ctx, constants.QueueAllBatchesLoaded, variantID)
	if err != nil {
		c.logger.Warn("failed to check all-batches-loaded marker",
			slog.String("push_message_id", info.ID),
			slog.String("variant_id", variantID.String()),
			slog.Any("error", err),
		)

		return outcome
	}
	if !hasTerminalMarker {
		return outcome
	}

	outcome.VariantCompleted = true
	info.ServedVariants++

	c.logger.Info("variant completed",
		slog.String("push_message_id", info.ID),
		slog.String("variant_id", variantID.String()),
	)

	if info.Completed() {
		outcome.PushMessageCompleted = true
		c.logger.Info("push message completed", slog.String("push_message_id", info.ID))
	}

	return outcome
}

// drainMarkers counts every BatchLoaded/AllBatchesLoaded marker
// committed before this transaction, consuming each one (§4.7 step 3,
// §4.7.2). Uses ReceiveNoWait exclusively, so the empty check that ends
// the drain waits at most ReceiveNoWait's short bound.
func (c *metricsCollector) drainMarkers(ctx context.Context, queueName string, variantID uuid.UUID) (int, error) {
	sub, err := c.broker.Subscription(ctx, queue.VariantTopicName(queueName, variantID))
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		msg, err := sub.ReceiveNoWait(ctx)
		if err != nil {
			return count, err
		}
		if msg == nil {
			return count, nil
		}

		msg.Ack()
		count++
	}
}

func (c *metricsCollector) consumeOneMarker(ctx context.Context, queueName string, variantID uuid.UUID) (bool, error) {
	sub, err := c.broker.Subscription(ctx, queue.VariantTopicName(queueName, variantID))
	if err != nil {
		return false, err
	}

	msg, err := sub.ReceiveNoWait(ctx)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, nil
	}

	msg.Ack()

	return true, nil
}

func statusFor(delivered bool) entity.DeliveryStatus {
	if delivered {
		return entity.DeliveryStatusSuccess
	}

	return entity.DeliveryStatusFailed
}
