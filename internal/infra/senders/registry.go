package senders

import (
	"log/slog"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/service"
)

// senderRegistry is the Dispatcher's transport lookup: one PushNotificationSender
// per platform, built once at startup.
type senderRegistry struct {
	senders map[constants.Platform]service.PushNotificationSender
}

// NewSenderRegistry wires every platform sender (§4.6).
func NewSenderRegistry(logger *slog.Logger) service.SenderRegistry {
	registry := &senderRegistry{senders: make(map[constants.Platform]service.PushNotificationSender, len(constants.AllPlatforms))}

	registry.senders[constants.PlatformAndroid] = NewFCMSender(logger)
	registry.senders[constants.PlatformIOS] = NewAPNSSender(logger)
	registry.senders[constants.PlatformWebPush] = NewWebPushSender(logger)
	registry.senders[constants.PlatformADM] = NewGenericHTTPSender(constants.PlatformADM, logger)
	registry.senders[constants.PlatformWindows] = NewGenericHTTPSender(constants.PlatformWindows, logger)
	registry.senders[constants.PlatformSimplePush] = NewGenericHTTPSender(constants.PlatformSimplePush, logger)

	return registry
}

func (r *senderRegistry) SenderFor(platform constants.Platform) (service.PushNotificationSender, bool) {
	sender, ok := r.senders[platform]

	return sender, ok
}
