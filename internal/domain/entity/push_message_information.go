package entity

import (
	"time"

	"github.com/google/uuid"
)

// PushMessageInformation is the persisted aggregate for one submitted
// UnifiedPushMessage (§3). It is created once by JobSplitter and
// mutated only by the collector thereafter (§4.4 Lifecycle).
type PushMessageInformation struct {
	ID                 string // ULID-like, ascending with submission order
	AppID              string
	RawJSONMessage     string
	SubmitDate         time.Time
	IPAddress          string
	ClientIdentifier   string
	TotalReceivers     int
	ServedVariants     int
	TotalVariants      int
	VariantInformation []VariantMetricInformation
}

// Completed reports the job-level completion condition (invariant 3).
func (p PushMessageInformation) Completed() bool {
	return p.ServedVariants == p.TotalVariants
}

// FindVariant locates a variant's aggregate by id, if already present.
func (p *PushMessageInformation) FindVariant(variantID uuid.UUID) (*VariantMetricInformation, bool) {
	for i := range p.VariantInformation {
		if p.VariantInformation[i].VariantID == variantID {
			return &p.VariantInformation[i], true
		}
	}

	return nil, false
}
