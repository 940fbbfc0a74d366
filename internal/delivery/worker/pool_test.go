package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-push-server/config"
	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/queue"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPool_DrainsAndAcksOnSuccess confirms a started pool pulls a
// published message, runs it through handle, and acks it rather than
// leaving it for redelivery.
func TestPool_DrainsAndAcksOnSuccess(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	defer broker.Close()

	const queueName = "pool-success"
	topic, err := broker.Topic(ctx, queueName)
	require.NoError(t, err)

	handled := make(chan struct{}, 1)
	p := newPool("test", 1, queueName, broker, func(ctx context.Context, msg *queue.Message) error {
		handled <- struct{}{}
		return nil
	}, discardLogger())

	require.NoError(t, p.start(ctx))
	defer p.stop(ctx)

	require.NoError(t, topic.Send(ctx, []byte("payload"), nil, queue.PublishOptions{}))

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}
}

// TestPool_NacksOnHandlerError confirms a handler error triggers Nack
// rather than Ack, so the broker can redeliver.
func TestPool_NacksOnHandlerError(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	defer broker.Close()

	const queueName = "pool-redelivery"
	topic, err := broker.Topic(ctx, queueName)
	require.NoError(t, err)

	var attempts int32
	attemptCh := make(chan struct{}, 4)
	failOnce := errors.New("transient")

	p := newPool("test", 1, queueName, broker, func(ctx context.Context, msg *queue.Message) error {
		attempts++
		attemptCh <- struct{}{}
		if attempts == 1 {
			return failOnce
		}
		return nil
	}, discardLogger())

	require.NoError(t, p.start(ctx))
	defer p.stop(ctx)

	require.NoError(t, topic.Send(ctx, []byte("payload"), nil, queue.PublishOptions{}))

	for i := 0; i < 2; i++ {
		select {
		case <-attemptCh:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected redelivery after nack, only saw %d attempt(s)", i)
		}
	}
	assert.GreaterOrEqual(t, attempts, int32(2))
}

// TestPool_StopDrainsInFlightWork confirms stop waits for a handler
// already running to finish rather than abandoning it mid-flight.
func TestPool_StopDrainsInFlightWork(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	defer broker.Close()

	const queueName = "pool-drain"
	topic, err := broker.Topic(ctx, queueName)
	require.NoError(t, err)

	started := make(chan struct{})
	finished := make(chan struct{})

	p := newPool("test", 1, queueName, broker, func(ctx context.Context, msg *queue.Message) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		close(finished)
		return nil
	}, discardLogger())

	require.NoError(t, p.start(ctx))
	require.NoError(t, topic.Send(ctx, []byte("payload"), nil, queue.PublishOptions{}))

	<-started
	require.NoError(t, p.stop(context.Background()))

	select {
	case <-finished:
	default:
		t.Fatal("stop returned before in-flight handler finished")
	}
}

// TestLoaderPool_DropsJobForMissingVariant confirms the loader pool
// swallows (acks, does not nack) a job whose variant has since been
// deleted, rather than retrying forever against a repository row that
// will never reappear.
func TestLoaderPool_DropsJobForMissingVariant(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	defer broker.Close()

	variants := &fakeWorkerVariantRepository{findErr: nil}
	handler := &fakeVariantJobHandler{}
	cfg := testConfig()
	cfg.Push.Workers.Loader = 1

	p := newLoaderPool(cfg, handler, variants, broker, discardLogger())
	require.NoError(t, p.start(ctx))
	defer p.stop(ctx)

	topic, err := broker.Topic(ctx, constants.QueueVariantJob)
	require.NoError(t, err)

	job := entity.VariantJob{PushMessageInformationID: "pm-1", VariantID: uuid.New()}
	body, err := json.Marshal(job)
	require.NoError(t, err)
	require.NoError(t, topic.Send(ctx, body, nil, queue.PublishOptions{}))

	require.Eventually(t, func() bool {
		variants.mu.Lock()
		defer variants.mu.Unlock()
		return variants.lookups == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, handler.calls())
}

// TestDispatcherPool_PublishesMetricUpdate confirms a batch job that
// dispatches successfully ends up as one MetricUpdate on the metrics
// queue, carrying the variant id as an attribute.
func TestDispatcherPool_PublishesMetricUpdate(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	defer broker.Close()

	variantID := uuid.New()
	variant := entity.Variant{ID: variantID, Platform: constants.PlatformAndroid}
	variants := &fakeWorkerVariantRepository{byID: map[uuid.UUID]entity.Variant{variantID: variant}}
	dispatcher := &fakeWorkerDispatcher{metric: entity.VariantMetricInformation{
		VariantID:      variantID,
		DeliveryStatus: entity.DeliveryStatusSuccess,
		Receivers:      2,
	}}
	cfg := testConfig()
	cfg.Push.Workers.Dispatcher = 1

	metricsSub, err := broker.Subscription(ctx, constants.QueueMetrics)
	require.NoError(t, err)

	p := newDispatcherPool(cfg, dispatcher, variants, broker, discardLogger())
	require.NoError(t, p.start(ctx))
	defer p.stop(ctx)

	topic, err := broker.Topic(ctx, constants.QueueBatch)
	require.NoError(t, err)

	batch := entity.BatchJob{PushMessageInformationID: "pm-1", VariantID: variantID, Tokens: []string{"t1"}, IsLastBatch: true}
	body, err := json.Marshal(batch)
	require.NoError(t, err)
	require.NoError(t, topic.Send(ctx, body, nil, queue.PublishOptions{}))

	msg, err := metricsSub.Receive(ctx)
	require.NoError(t, err)
	msg.Ack()

	var update entity.MetricUpdate
	require.NoError(t, json.Unmarshal(msg.Body, &update))
	assert.Equal(t, "pm-1", update.PushMessageInformationID)
	assert.True(t, update.Delivered)
	assert.Equal(t, variantID.String(), msg.Attributes[constants.PropertyVariantID])
}

// TestCollectorPool_FoldsMetricUpdate confirms the collector pool
// unmarshals a MetricUpdate and forwards its fields to
// MetricsCollector.HandleMetric unchanged.
func TestCollectorPool_FoldsMetricUpdate(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	defer broker.Close()

	variantID := uuid.New()
	collector := &fakeWorkerMetricsCollector{}
	cfg := testConfig()
	cfg.Push.Workers.Collector = 1

	p := newCollectorPool(cfg, collector, broker, discardLogger())
	require.NoError(t, p.start(ctx))
	defer p.stop(ctx)

	topic, err := broker.Topic(ctx, constants.QueueMetrics)
	require.NoError(t, err)

	update := entity.MetricUpdate{PushMessageInformationID: "pm-2", VariantID: variantID, Receivers: 5, Delivered: true}
	body, err := json.Marshal(update)
	require.NoError(t, err)
	require.NoError(t, topic.Send(ctx, body, nil, queue.PublishOptions{}))

	require.Eventually(t, func() bool {
		return collector.calls() == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := collector.lastCall()
	assert.Equal(t, "pm-2", got.id)
	assert.Equal(t, variantID, got.variantID)
	assert.Equal(t, 5, got.receivers)
	assert.True(t, got.delivered)
}

// TestTriggerPool_AcksCompletedJobWithoutRepublishing confirms that
// once TriggerLoop reports a job complete, the pool acks the delivery
// and processes it exactly once, with no further redelivery.
func TestTriggerPool_AcksCompletedJobWithoutRepublishing(t *testing.T) {
	ctx := context.Background()
	broker := queue.NewGoCloudBroker("mem://", discardLogger())
	defer broker.Close()

	loop := &fakeWorkerTriggerLoop{completed: true}
	cfg := testConfig()
	cfg.Push.Workers.Trigger = 1

	p := newTriggerPool(cfg, loop, broker, discardLogger())
	require.NoError(t, p.start(ctx))
	defer p.stop(ctx)

	topic, err := broker.Topic(ctx, constants.QueueTrigger)
	require.NoError(t, err)
	require.NoError(t, topic.Send(ctx, []byte("pm-3"), nil, queue.PublishOptions{DeliveryAttempt: 1}))

	require.Eventually(t, func() bool {
		return loop.calls() == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, loop.calls(), "a completed job must not be redelivered")
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Push.Workers.Loader = 1
	cfg.Push.Workers.Dispatcher = 1
	cfg.Push.Workers.Collector = 1
	cfg.Push.Workers.Trigger = 1

	return cfg
}
