package senders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/service"
)

// webPushSender is the web_push sender (§4.6). Each token is itself a
// serialized webpush.Subscription (endpoint + p256dh/auth keys), so
// unlike FCM/APNs there is no separate device-token format to parse.
type webPushSender struct {
	logger *slog.Logger
}

// NewWebPushSender constructs the WebPush PushNotificationSender.
func NewWebPushSender(logger *slog.Logger) service.PushNotificationSender {
	return &webPushSender{logger: logger.With("component", "webpush_sender")}
}

func (s *webPushSender) Platform() constants.Platform {
	return constants.PlatformWebPush
}

func (s *webPushSender) Send(ctx context.Context, credentials map[string]string, serializedMessage string, tokens []string) ([]service.SenderResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	vapidPublicKey := credentials["vapidPublicKey"]
	vapidPrivateKey := credentials["vapidPrivateKey"]
	subscriber := credentials["subscriberEmail"]
	if vapidPublicKey == "" || vapidPrivateKey == "" {
		return nil, fmt.Errorf("webpush: missing vapidPublicKey/vapidPrivateKey credentials")
	}

	var message entity.UnifiedPushMessage
	if err := json.Unmarshal([]byte(serializedMessage), &message); err != nil {
		return nil, fmt.Errorf("webpush: decode message: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"title": message.Title,
		"body":  message.Alert,
		"data":  message.UserData,
	})
	if err != nil {
		return nil, fmt.Errorf("webpush: encode payload: %w", err)
	}

	options := &webpush.Options{
		VAPIDPublicKey:  vapidPublicKey,
		VAPIDPrivateKey: vapidPrivateKey,
		Subscriber:      subscriber,
		TTL:             message.TimeToLive,
	}

	results := make([]service.SenderResult, 0, len(tokens))
	for _, raw := range tokens {
		var sub webpush.Subscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			results = append(results, service.SenderResult{Token: raw, Delivered: false, Rejected: true, Reason: "malformed subscription"})

			continue
		}

		resp, sendErr := webpush.SendNotificationWithContext(ctx, payload, &sub, options)
		if sendErr != nil {
			results = append(results, service.SenderResult{Token: raw, Delivered: false, Reason: sendErr.Error()})

			continue
		}
		resp.Body.Close()

		result := service.SenderResult{Token: raw}
		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			result.Delivered = true
		case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
			result.Rejected = true
			result.Reason = resp.Status
		default:
			result.Reason = resp.Status
		}
		results = append(results, result)
	}

	return results, nil
}
