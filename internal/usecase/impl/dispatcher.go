package impl

import (
	"context"
	"log/slog"
	"time"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/domain/service"
	"unified-push-server/internal/usecase"
)

// dispatcher is C4 (§4.6): invokes the platform sender for a batch and
// blocks on its callback under a timeout that resolves Open Question
// (i) — a deadline exceeded is treated exactly like onError. The
// blocking-callback contract (§4.3) is realized as a synchronous
// return from service.PushNotificationSender.Send: the sender itself
// owns any internal goroutine fan-out and only returns once every
// token in the batch has a result.
type dispatcher struct {
	registry      service.SenderRegistry
	installations service.ClientInstallationService
	pushMessages  repository.PushMessageRepository
	sendTimeout   time.Duration
	logger        *slog.Logger
}

// NewDispatcher constructs C4.
func NewDispatcher(registry service.SenderRegistry, installations service.ClientInstallationService, pushMessages repository.PushMessageRepository, sendTimeout time.Duration, logger *slog.Logger) usecase.Dispatcher {
	return &dispatcher{
		registry:      registry,
		installations: installations,
		pushMessages:  pushMessages,
		sendTimeout:   sendTimeout,
		logger:        logger,
	}
}

func (d *dispatcher) HandleBatch(ctx context.Context, variant entity.Variant, batch entity.BatchJob) (entity.VariantMetricInformation, error) {
	sender, ok := d.registry.SenderFor(variant.Platform)
	if !ok {
		reason := "no sender configured for platform " + string(variant.Platform)
		d.recordError(ctx, batch, reason)

		return d.metricFor(batch, false, reason), nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	results, err := sender.Send(sendCtx, variant.Credentials, batch.SerializedMessage, batch.Tokens)
	if err != nil {
		reason := err.Error()
		if sendCtx.Err() != nil {
			reason = "sender did not respond before deadline: " + sendCtx.Err().Error()
		}

		d.recordError(ctx, batch, reason)

		return d.metricFor(batch, false, reason), nil
	}

	rejected := make([]string, 0, len(results))
	for _, r := range results {
		if r.Rejected {
			rejected = append(rejected, r.Token)
		}
	}

	if len(rejected) > 0 {
		if err := d.installations.RemoveInstallationsForVariantByDeviceTokens(ctx, variant, rejected); err != nil {
			d.logger.Warn("failed to remove rejected installations",
				slog.String("variant_id", variant.ID.String()),
				slog.Any("error", err),
			)
		}
	}

	return d.metricFor(batch, true, ""), nil
}

func (d *dispatcher) metricFor(batch entity.BatchJob, delivered bool, reason string) entity.VariantMetricInformation {
	status := entity.DeliveryStatusSuccess
	if !delivered {
		status = entity.DeliveryStatusFailed
	}

	return entity.VariantMetricInformation{
		VariantID:      batch.VariantID,
		Receivers:      len(batch.Tokens),
		ServedBatches:  1,
		TotalBatches:   0,
		DeliveryStatus: status,
		Reason:         reason,
	}
}

// recordError persists an optional VariantErrorStatus row (§4.11):
// additive telemetry only, never read back by collector completion
// logic.
func (d *dispatcher) recordError(ctx context.Context, batch entity.BatchJob, reason string) {
	err := d.pushMessages.RecordVariantError(ctx, entity.VariantErrorStatus{
		PushJobID:   batch.PushMessageInformationID,
		VariantID:   batch.VariantID,
		ErrorReason: reason,
	})
	if err != nil {
		d.logger.Warn("failed to record variant error status",
			slog.String("push_message_id", batch.PushMessageInformationID),
			slog.Any("error", err),
		)
	}
}
