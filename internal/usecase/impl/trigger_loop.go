package impl

import (
	"context"
	"log/slog"

	"unified-push-server/internal/domain/constants"
	domainerrors "unified-push-server/internal/domain/errors"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// triggerLoop is C9 (§4.8): re-invokes MetricsCollector.Reconcile for
// one job until it completes or its redelivery budget runs out.
type triggerLoop struct {
	collector       usecase.MetricsCollector
	broker          queue.Broker
	maxRedeliveries int
	logger          *slog.Logger
}

// NewTriggerLoop constructs C9.
func NewTriggerLoop(collector usecase.MetricsCollector, broker queue.Broker, maxRedeliveries int, logger *slog.Logger) usecase.TriggerLoop {
	return &triggerLoop{collector: collector, broker: broker, maxRedeliveries: maxRedeliveries, logger: logger}
}

func (t *triggerLoop) HandleTrigger(ctx context.Context, pushMessageInformationID string, deliveryAttempt int) (bool, error) {
	outcome, err := t.collector.Reconcile(ctx, pushMessageInformationID)
	if err != nil {
		return false, err
	}

	if outcome.PushMessageCompleted {
		return true, nil
	}

	if deliveryAttempt < t.maxRedeliveries {
		return false, nil
	}

	t.logger.Error("trigger redelivery budget exhausted before completion",
		slog.String("push_message_id", pushMessageInformationID),
		slog.Int("delivery_attempt", deliveryAttempt),
	)

	if deadLetterErr := t.deadLetter(ctx, pushMessageInformationID); deadLetterErr != nil {
		t.logger.Error("failed to publish to dead-letter queue",
			slog.String("push_message_id", pushMessageInformationID),
			slog.Any("error", deadLetterErr),
		)
	}

	return true, domainerrors.ErrTriggerExhausted
}

func (t *triggerLoop) deadLetter(ctx context.Context, pushMessageInformationID string) error {
	topic, err := t.broker.Topic(ctx, constants.QueueDeadLetter)
	if err != nil {
		return err
	}

	return topic.Send(ctx, []byte(pushMessageInformationID), map[string]string{
		"reason": domainerrors.ErrTriggerExhausted.ErrorCode(),
	}, queue.PublishOptions{})
}
