// Package entity holds the push dispatch core's domain types: the
// application/variant/installation registration model (§3) and the
// per-job work items the pipeline passes between stages.
package entity

import "github.com/google/uuid"

// PushApplication is an application registered with the server. It owns
// zero or more Variants.
type PushApplication struct {
	ID   uuid.UUID
	Name string
}
