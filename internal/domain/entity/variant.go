package entity

import (
	"github.com/google/uuid"

	"unified-push-server/internal/domain/constants"
)

// Variant is one delivery target group within an application: a single
// platform/push-network configuration with its own credentials.
type Variant struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	Platform      constants.Platform
	Production    bool

	// Credentials is network-specific: an FCM service-account JSON blob,
	// an APNs .p8 key plus key/team IDs, a WebPush VAPID key pair, etc.
	// internal/infra/senders decodes the shape it expects.
	Credentials map[string]string
}
