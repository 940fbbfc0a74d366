package entity

import "github.com/google/uuid"

// VariantErrorStatus is one recorded transport rejection (§3, §4.11). It
// is an optional extension surface: nothing in the collector's
// completion logic reads it back.
type VariantErrorStatus struct {
	PushJobID   string
	VariantID   uuid.UUID
	ErrorReason string
}

// Key is the compound identity invariant 7 is keyed by.
func (v VariantErrorStatus) Key() string {
	return v.PushJobID + ":" + v.VariantID.String()
}
