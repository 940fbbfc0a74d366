package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// variantJobHandler is the loader side of the pipeline (§4.5): pulls
// the next token page for a variant, partitions it into batches, and
// publishes every resulting message in one broker transaction.
type variantJobHandler struct {
	loader        usecase.TokenLoader
	senderConfigs usecase.SenderConfiguration
	broker        queue.Broker
	logger        *slog.Logger
}

// NewVariantJobHandler constructs the loader side of C2/C4.
func NewVariantJobHandler(loader usecase.TokenLoader, senderConfigs usecase.SenderConfiguration, broker queue.Broker, logger *slog.Logger) usecase.VariantJobHandler {
	return &variantJobHandler{loader: loader, senderConfigs: senderConfigs, broker: broker, logger: logger}
}

func (h *variantJobHandler) HandleVariantJob(ctx context.Context, job entity.VariantJob, variant entity.Variant) error {
	var message entity.UnifiedPushMessage
	if err := json.Unmarshal([]byte(job.SerializedMessage), &message); err != nil {
		return errors.WithStack(err)
	}

	senderDefault := h.senderConfigs.ConfigurationFor(variant.Platform)

	page, err := h.loader.LoadPage(ctx, variant.ID, job.Cursor, senderDefault.TokensToLoad(), message.Filter())
	if err != nil {
		return err
	}

	batches := partitionTokens(page.Tokens, senderDefault.BatchSize)

	return h.broker.WithTransaction(ctx, func(tx queue.TxPublisher) error {
		for i, batch := range batches {
			isLastBatch := !page.HasMore && i == len(batches)-1

			batchJob := entity.BatchJob{
				PushMessageInformationID: job.PushMessageInformationID,
				VariantID:                variant.ID,
				SerializedMessage:        job.SerializedMessage,
				Tokens:                   batch,
				IsLastBatch:              isLastBatch,
			}

			if err := publishBatch(ctx, tx, batchJob, page.NextCursor+":"+strconv.Itoa(i)); err != nil {
				return err
			}

			if err := publishMarker(ctx, tx, constants.QueueBatchLoaded, variant.ID); err != nil {
				return err
			}
		}

		if page.HasMore {
			nextJob := entity.VariantJob{
				PushMessageInformationID: job.PushMessageInformationID,
				VariantID:                variant.ID,
				SerializedMessage:        job.SerializedMessage,
				Cursor:                   page.NextCursor,
			}

			if err := publishVariantJob(ctx, tx, variant.ID, nextJob); err != nil {
				return err
			}
		} else if err := publishMarker(ctx, tx, constants.QueueAllBatchesLoaded, variant.ID); err != nil {
			return err
		}

		return publishTrigger(ctx, tx, job.PushMessageInformationID)
	})
}

// partitionTokens returns zero batches for an empty page, so a page
// with no tokens publishes no BatchJob and no BatchLoaded marker; the
// AllBatchesLoaded marker (when the page is the last) and the trigger
// are still published.
func partitionTokens(tokens []string, batchSize int) [][]string {
	if batchSize <= 0 {
		batchSize = 1
	}

	var batches [][]string
	for start := 0; start < len(tokens); start += batchSize {
		end := min(start+batchSize, len(tokens))
		batches = append(batches, tokens[start:end])
	}

	return batches
}

// publishBatch sends on the flat Batch queue (§4.7.2 reserves
// per-variant sub-topics for the marker queues only): a fixed
// dispatcher worker pool drains it regardless of variant, reading
// VariantID back out of the unmarshaled BatchJob body.
func publishBatch(ctx context.Context, tx queue.TxPublisher, batchJob entity.BatchJob, cursor string) error {
	body, err := json.Marshal(batchJob)
	if err != nil {
		return errors.WithStack(err)
	}

	return tx.Send(ctx, constants.QueueBatch, body, map[string]string{constants.PropertyVariantID: batchJob.VariantID.String()}, queue.PublishOptions{
		DuplicateDetectionID: batchJob.DuplicateDetectionID(cursor),
	})
}

// publishMarker sends an empty-bodied BatchLoaded/AllBatchesLoaded
// marker on the per-variant sub-topic that emulates the selector
// `variantID = V` the spec describes (§9, §4.7.2).
func publishMarker(ctx context.Context, tx queue.TxPublisher, queueName string, variantID uuid.UUID) error {
	topicName := queue.VariantTopicName(queueName, variantID)

	return tx.Send(ctx, topicName, nil, map[string]string{constants.PropertyVariantID: variantID.String()}, queue.PublishOptions{})
}

func publishVariantJob(ctx context.Context, tx queue.TxPublisher, variantID uuid.UUID, job entity.VariantJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return errors.WithStack(err)
	}

	return tx.Send(ctx, constants.QueueVariantJob, body, map[string]string{constants.PropertyVariantID: variantID.String()}, queue.PublishOptions{})
}

func publishTrigger(ctx context.Context, tx queue.TxPublisher, pushMessageInformationID string) error {
	return tx.Send(ctx, constants.QueueTrigger, []byte(pushMessageInformationID), nil, queue.PublishOptions{
		DelayUntilUnixMilli: time.Now().Add(constants.DefaultRedeliveryDelay).UnixMilli(),
	})
}
