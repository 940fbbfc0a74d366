package service

import (
	"context"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
)

// SenderResult reports how a transport resolved one recipient token
// within a batch (§4.3, §4.6).
type SenderResult struct {
	Token     string
	Delivered bool
	Rejected  bool // permanent: the token should be removed (§4.10)
	Reason    string
}

// PushNotificationSender is the per-platform transport contract (C3,
// §4.3). One implementation exists per constants.Platform.
type PushNotificationSender interface {
	Platform() constants.Platform

	// Send delivers serializedMessage to every token in the batch using
	// credentials, returning a per-token result even on partial
	// failure. A transport-level error (unreachable gateway, oversize
	// payload) is returned instead of a result slice.
	Send(ctx context.Context, credentials map[string]string, serializedMessage string, tokens []string) ([]SenderResult, error)
}

// SenderRegistry resolves the PushNotificationSender for a platform,
// backing the Dispatcher's (C4) transport lookup.
type SenderRegistry interface {
	SenderFor(platform constants.Platform) (PushNotificationSender, bool)
}

// ClientInstallationService removes installations whose token a
// transport permanently rejected (§4.10).
type ClientInstallationService interface {
	RemoveInstallationsForVariantByDeviceTokens(ctx context.Context, variant entity.Variant, tokens []string) error
}
