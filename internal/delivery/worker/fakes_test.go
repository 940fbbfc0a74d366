package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/usecase"
)

// fakeWorkerVariantRepository backs the loader/dispatcher pool tests,
// counting lookups so a test can confirm a handler actually ran
// without racing on a channel.
type fakeWorkerVariantRepository struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]entity.Variant
	findErr  error
	lookups  int
}

func (r *fakeWorkerVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Variant, error) {
	r.mu.Lock()
	r.lookups++
	r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	v, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrVariantNotFound
	}
	return &v, nil
}

func (r *fakeWorkerVariantRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]entity.Variant, error) {
	return nil, nil
}

// fakeVariantJobHandler records invocations for the loader pool test.
type fakeVariantJobHandler struct {
	mu   sync.Mutex
	n    int
	err  error
}

func (h *fakeVariantJobHandler) HandleVariantJob(ctx context.Context, job entity.VariantJob, variant entity.Variant) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.n++
	return h.err
}

func (h *fakeVariantJobHandler) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}

// fakeWorkerDispatcher returns a scripted metric for the dispatcher
// pool test.
type fakeWorkerDispatcher struct {
	metric entity.VariantMetricInformation
	err    error
}

func (d *fakeWorkerDispatcher) HandleBatch(ctx context.Context, variant entity.Variant, batch entity.BatchJob) (entity.VariantMetricInformation, error) {
	return d.metric, d.err
}

// collectorCall captures one HandleMetric invocation for assertion.
type collectorCall struct {
	id        string
	variantID uuid.UUID
	receivers int
	delivered bool
}

// fakeWorkerMetricsCollector records HandleMetric calls for the
// collector pool test.
type fakeWorkerMetricsCollector struct {
	mu    sync.Mutex
	last  collectorCall
	n     int
	err   error
}

func (c *fakeWorkerMetricsCollector) HandleMetric(ctx context.Context, pushMessageInformationID string, variantID uuid.UUID, receivers, servedBatches, totalBatches int, delivered bool, reason string) (usecase.CollectorOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	c.last = collectorCall{id: pushMessageInformationID, variantID: variantID, receivers: receivers, delivered: delivered}
	return usecase.CollectorOutcome{}, c.err
}

func (c *fakeWorkerMetricsCollector) Reconcile(ctx context.Context, pushMessageInformationID string) (usecase.CollectorOutcome, error) {
	return usecase.CollectorOutcome{}, nil
}

func (c *fakeWorkerMetricsCollector) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func (c *fakeWorkerMetricsCollector) lastCall() collectorCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// fakeWorkerTriggerLoop scripts TriggerLoop.HandleTrigger's outcome for
// the trigger pool test.
type fakeWorkerTriggerLoop struct {
	mu        sync.Mutex
	n         int
	completed bool
	err       error
}

func (l *fakeWorkerTriggerLoop) HandleTrigger(ctx context.Context, pushMessageInformationID string, deliveryAttempt int) (bool, error) {
	l.mu.Lock()
	l.n++
	l.mu.Unlock()
	return l.completed, l.err
}

func (l *fakeWorkerTriggerLoop) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}
