package entity

import "github.com/google/uuid"

// VariantMetricInformation is the aggregated per-variant counter set
// the collector (C7) folds batch-level metrics into (§3, §4.7.1).
type VariantMetricInformation struct {
	VariantID      uuid.UUID
	Receivers      int
	ServedBatches  int
	TotalBatches   int
	DeliveryStatus DeliveryStatus
	Reason         string
}

// Completed reports whether every expected batch for this variant has
// been served (invariant 2's equality condition).
func (v VariantMetricInformation) Completed() bool {
	return v.TotalBatches == v.ServedBatches
}

// Merge folds an incoming update into the existing aggregate per §4.7.1:
// counters add, DeliveryStatus follows the sticky-false lattice, and the
// first non-empty Reason wins.
func (v VariantMetricInformation) Merge(update VariantMetricInformation) VariantMetricInformation {
	merged := VariantMetricInformation{
		VariantID:      v.VariantID,
		Receivers:      v.Receivers + update.Receivers,
		ServedBatches:  v.ServedBatches + update.ServedBatches,
		TotalBatches:   v.TotalBatches + update.TotalBatches,
		DeliveryStatus: v.DeliveryStatus.Meet(update.DeliveryStatus),
		Reason:         v.Reason,
	}
	if merged.Reason == "" {
		merged.Reason = update.Reason
	}

	return merged
}
