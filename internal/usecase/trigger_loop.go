package usecase

import "context"

// TriggerLoop re-invokes MetricsCollector.Reconcile until a job either
// completes or its redelivery budget is exhausted (C9, §4.8).
type TriggerLoop interface {
	// HandleTrigger processes one TriggerMetricCollection delivery.
	// deliveryAttempt is the redelivery counter carried on the message
	// (0 for the first delivery); the implementation is responsible
	// for routing to the dead-letter queue once it reaches the
	// configured maximum.
	HandleTrigger(ctx context.Context, pushMessageInformationID string, deliveryAttempt int) (completed bool, err error)
}
