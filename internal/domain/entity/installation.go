package entity

import "github.com/google/uuid"

// Installation is one device registration under a Variant. Token
// validity is per-network; the pipeline treats it as an opaque string.
type Installation struct {
	ID         uuid.UUID
	VariantID  uuid.UUID
	Token      string
	Categories []string
	Alias      string
	DeviceType string
}
