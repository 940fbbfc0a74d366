package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/infra/cache"
	"unified-push-server/internal/queue"
)

// publishTestMarker sends one marker on the per-variant BatchLoaded or
// AllBatchesLoaded sub-topic, opening it in the process — mirroring
// how the loader's first publish to a variant's marker topic is what
// brings it into existence in production (§4.7.2).
func publishTestMarker(t *testing.T, ctx context.Context, broker queue.Broker, base string, variantID uuid.UUID) {
	t.Helper()
	topic, err := broker.Topic(ctx, queue.VariantTopicName(base, variantID))
	require.NoError(t, err)
	require.NoError(t, topic.Send(ctx, []byte("1"), nil, queue.PublishOptions{}))
}

// ensureTopic opens a variant's marker topic without publishing to it,
// for tests that exercise a drain/consume call on a queue the loader
// never actually wrote to in that scenario.
func ensureTopic(t *testing.T, ctx context.Context, broker queue.Broker, base string, variantID uuid.UUID) {
	t.Helper()
	_, err := broker.Topic(ctx, queue.VariantTopicName(base, variantID))
	require.NoError(t, err)
}

func TestMetricsCollector_HandleMetric_NotYetComplete(t *testing.T) {
	ctx := context.Background()
	pushMessages := newFakePushMessageRepository()
	pushMessages.put(entity.PushMessageInformation{ID: "pm-1", TotalVariants: 1})
	txm := &fakeTxManager{pushMessages: pushMessages}
	broker := queue.NewGoCloudBroker("mem://", discardLogger())

	variantID := uuid.New()
	ensureTopic(t, ctx, broker, constants.QueueBatchLoaded, variantID)

	collector := NewMetricsCollector(pushMessages, txm, broker, cache.NewMetricsCache(), discardLogger())

	outcome, err := collector.HandleMetric(ctx, "pm-1", variantID, 10, 1, 3, true, "")
	require.NoError(t, err)

	assert.False(t, outcome.VariantCompleted)
	assert.False(t, outcome.PushMessageCompleted)

	stored, err := pushMessages.FindByID(ctx, "pm-1")
	require.NoError(t, err)
	variant, ok := stored.FindVariant(variantID)
	require.True(t, ok)
	assert.Equal(t, 10, variant.Receivers)
	assert.Equal(t, 1, variant.ServedBatches)
	assert.Equal(t, 3, variant.TotalBatches)
}

func TestMetricsCollector_HandleMetric_VariantAndJobComplete(t *testing.T) {
	ctx := context.Background()
	pushMessages := newFakePushMessageRepository()
	pushMessages.put(entity.PushMessageInformation{ID: "pm-1", TotalVariants: 1})
	txm := &fakeTxManager{pushMessages: pushMessages}
	broker := queue.NewGoCloudBroker("mem://", discardLogger())

	variantID := uuid.New()
	ensureTopic(t, ctx, broker, constants.QueueBatchLoaded, variantID)
	publishTestMarker(t, ctx, broker, constants.QueueAllBatchesLoaded, variantID)

	collector := NewMetricsCollector(pushMessages, txm, broker, cache.NewMetricsCache(), discardLogger())

	outcome, err := collector.HandleMetric(ctx, "pm-1", variantID, 10, 1, 1, true, "")
	require.NoError(t, err)

	assert.True(t, outcome.VariantCompleted)
	assert.True(t, outcome.PushMessageCompleted)

	stored, err := pushMessages.FindByID(ctx, "pm-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ServedVariants)
}

func TestMetricsCollector_HandleMetric_DrainsBatchLoadedMarkers(t *testing.T) {
	ctx := context.Background()
	pushMessages := newFakePushMessageRepository()
	pushMessages.put(entity.PushMessageInformation{ID: "pm-1", TotalVariants: 1})
	txm := &fakeTxManager{pushMessages: pushMessages}
	broker := queue.NewGoCloudBroker("mem://", discardLogger())

	variantID := uuid.New()
	// Two extra expected batches discovered after the seed job fanned out.
	publishTestMarker(t, ctx, broker, constants.QueueBatchLoaded, variantID)
	publishTestMarker(t, ctx, broker, constants.QueueBatchLoaded, variantID)

	collector := NewMetricsCollector(pushMessages, txm, broker, cache.NewMetricsCache(), discardLogger())

	outcome, err := collector.HandleMetric(ctx, "pm-1", variantID, 5, 1, 0, true, "")
	require.NoError(t, err)
	assert.False(t, outcome.VariantCompleted)

	stored, err := pushMessages.FindByID(ctx, "pm-1")
	require.NoError(t, err)
	variant, ok := stored.FindVariant(variantID)
	require.True(t, ok)
	assert.Equal(t, 2, variant.TotalBatches)
	assert.Equal(t, 1, variant.ServedBatches)
}

func TestMetricsCollector_HandleMetric_FailedSticksOnSubsequentSuccess(t *testing.T) {
	ctx := context.Background()
	pushMessages := newFakePushMessageRepository()
	pushMessages.put(entity.PushMessageInformation{ID: "pm-1", TotalVariants: 1})
	txm := &fakeTxManager{pushMessages: pushMessages}
	broker := queue.NewGoCloudBroker("mem://", discardLogger())

	variantID := uuid.New()
	ensureTopic(t, ctx, broker, constants.QueueBatchLoaded, variantID)
	ensureTopic(t, ctx, broker, constants.QueueAllBatchesLoaded, variantID)

	collector := NewMetricsCollector(pushMessages, txm, broker, cache.NewMetricsCache(), discardLogger())

	_, err := collector.HandleMetric(ctx, "pm-1", variantID, 5, 1, 2, false, "sender connect failed")
	require.NoError(t, err)

	_, err = collector.HandleMetric(ctx, "pm-1", variantID, 5, 1, 0, true, "")
	require.NoError(t, err)

	stored, err := pushMessages.FindByID(ctx, "pm-1")
	require.NoError(t, err)
	variant, ok := stored.FindVariant(variantID)
	require.True(t, ok)
	assert.Equal(t, entity.DeliveryStatusFailed, variant.DeliveryStatus)
	assert.Equal(t, "sender connect failed", variant.Reason)
}

func TestMetricsCollector_Reconcile_AlreadyComplete(t *testing.T) {
	ctx := context.Background()
	pushMessages := newFakePushMessageRepository()
	pushMessages.put(entity.PushMessageInformation{ID: "pm-1", TotalVariants: 1, ServedVariants: 1})
	txm := &fakeTxManager{pushMessages: pushMessages}
	broker := queue.NewGoCloudBroker("mem://", discardLogger())

	collector := NewMetricsCollector(pushMessages, txm, broker, cache.NewMetricsCache(), discardLogger())

	outcome, err := collector.Reconcile(ctx, "pm-1")
	require.NoError(t, err)
	assert.True(t, outcome.PushMessageCompleted)
	assert.False(t, outcome.VariantCompleted)
}

func TestMetricsCollector_Reconcile_ConvergesOnLateMarker(t *testing.T) {
	ctx := context.Background()
	variantID := uuid.New()
	pushMessages := newFakePushMessageRepository()
	pushMessages.put(entity.PushMessageInformation{
		ID:             "pm-1",
		TotalVariants:  1,
		ServedVariants: 0,
		VariantInformation: []entity.VariantMetricInformation{
			{VariantID: variantID, ServedBatches: 1, TotalBatches: 1},
		},
	})
	txm := &fakeTxManager{pushMessages: pushMessages}
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	ensureTopic(t, ctx, broker, constants.QueueBatchLoaded, variantID)
	publishTestMarker(t, ctx, broker, constants.QueueAllBatchesLoaded, variantID)

	collector := NewMetricsCollector(pushMessages, txm, broker, cache.NewMetricsCache(), discardLogger())

	outcome, err := collector.Reconcile(ctx, "pm-1")
	require.NoError(t, err)
	assert.True(t, outcome.VariantCompleted)
	assert.True(t, outcome.PushMessageCompleted)
}
