package entity

import "github.com/google/uuid"

// VariantJob is the work item enqueued onto VariantJobQueue[platform]
// (§3, §4.5): one round of "load the next window of tokens for this
// variant and fan them out into batches".
type VariantJob struct {
	PushMessageInformationID string
	VariantID                uuid.UUID
	SerializedMessage        string
	Cursor                   string // opaque TokenLoader pagination cursor; "" at the seed job
}

// DuplicateDetectionID is the broker dedup key for the seed job (§4.4,
// §8 Idempotence): P.id + ":" + v.id + ":seed". Re-enqueues carrying a
// cursor do not reuse this id — they are not duplicates of the seed.
func (j VariantJob) DuplicateDetectionID() string {
	return j.PushMessageInformationID + ":" + j.VariantID.String() + ":seed"
}
