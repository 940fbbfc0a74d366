package entity

import "github.com/google/uuid"

// BatchJob is one unit of sender work (§3, §4.6): a fixed-size window of
// recipient tokens for a single variant, carrying enough of the parent
// message to let the sender build the wire payload without a second
// lookup.
type BatchJob struct {
	PushMessageInformationID string
	VariantID                uuid.UUID
	SerializedMessage        string
	Tokens                   []string
	IsLastBatch              bool
}

// DuplicateDetectionID scopes dedup to this batch's position within
// one token window (cursor identifies both), so the broker's
// at-least-once redelivery of the seed VariantJob can never fan out the
// same batch twice (§8 Idempotence).
func (b BatchJob) DuplicateDetectionID(cursor string) string {
	return b.PushMessageInformationID + ":" + b.VariantID.String() + ":" + cursor
}
