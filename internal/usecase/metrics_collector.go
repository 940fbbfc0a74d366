package usecase

import (
	"context"

	"github.com/google/uuid"
)

// CollectorOutcome reports what a single MetricsCollector invocation
// observed, so TriggerLoop (C9) can decide whether to ack or redeliver.
type CollectorOutcome struct {
	VariantCompleted     bool
	PushMessageCompleted bool
}

// MetricsCollector folds one VariantMetricInformation delivery into the
// persisted PushMessageInformation aggregate and decides whether the
// variant and/or the whole job has completed (C7, §4.7).
type MetricsCollector interface {
	// HandleMetric processes one VariantMetricInformation delivered on
	// MetricsQueue for (pushMessageInformationID, variantID).
	HandleMetric(ctx context.Context, pushMessageInformationID string, variantID uuid.UUID, receivers, servedBatches, totalBatches int, delivered bool, reason string) (CollectorOutcome, error)

	// Reconcile re-evaluates completion for a job without a fresh
	// metric delivery, the operation TriggerLoop (C9) drives on every
	// redelivery: it redoes steps 3 and 7 of §4.7 so that markers which
	// arrived after the last metric still converge the job.
	Reconcile(ctx context.Context, pushMessageInformationID string) (CollectorOutcome, error)
}
