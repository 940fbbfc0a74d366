package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"unified-push-server/config"
	"unified-push-server/internal/domain/constants"
	domainerrors "unified-push-server/internal/domain/errors"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// newTriggerPool drains TriggerQueue (§4.8): on each delivery it asks
// TriggerLoop to reconcile the job, and — rather than leaning on the
// broker's own nack/redelivery timing — explicitly republishes a fresh
// trigger message delayed by REDELIVERY_DELAY with an incremented
// DeliveryAttempt, then acks the one just handled. This keeps the
// requeue-with-delay decision inside one WithTransaction instead of
// depending on whatever redelivery policy the underlying driver
// happens to implement (§4.8's "REQUIRES_NEW" semantics).
func newTriggerPool(cfg *config.Config, loop usecase.TriggerLoop, broker queue.Broker, logger *slog.Logger) *pool {
	log := logger.With(slog.String("pool", "trigger"))

	handle := func(ctx context.Context, msg *queue.Message) error {
		pushMessageInformationID := string(msg.Body)
		attempt := msg.DeliveryAttempt()

		completed, err := loop.HandleTrigger(ctx, pushMessageInformationID, attempt)
		if err != nil {
			if errors.Is(err, domainerrors.ErrTriggerExhausted) {
				// TriggerLoop already published to DeadLetterQueue.
				return nil
			}

			return err
		}

		if completed {
			return nil
		}

		return broker.WithTransaction(ctx, func(tx queue.TxPublisher) error {
			return tx.Send(ctx, constants.QueueTrigger, []byte(pushMessageInformationID), nil, queue.PublishOptions{
				DelayUntilUnixMilli: nextRedeliveryUnixMilli(),
				DeliveryAttempt:     attempt + 1,
			})
		})
	}

	return newPool("trigger", cfg.Push.Workers.Trigger, constants.QueueTrigger, broker, handle, log)
}

func nextRedeliveryUnixMilli() int64 {
	return time.Now().Add(constants.DefaultRedeliveryDelay).UnixMilli()
}
