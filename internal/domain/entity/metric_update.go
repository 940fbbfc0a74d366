package entity

import "github.com/google/uuid"

// MetricUpdate is what the dispatcher (C4) publishes onto MetricsQueue
// after a batch's sender callback settles, and what the collector (C7)
// unmarshals to drive MetricsCollector.HandleMetric (§4.6, §4.7).
type MetricUpdate struct {
	PushMessageInformationID string
	VariantID                uuid.UUID
	Receivers                int
	ServedBatches            int
	TotalBatches             int
	Delivered                bool
	Reason                   string
}
