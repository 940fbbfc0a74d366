package senders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/service"
)

// apnsClient is the subset of apns2.Client Send exercises; lets tests
// substitute a fake without a real HTTP/2 connection.
type apnsClient interface {
	Push(n *apns2.Notification) (*apns2.Response, error)
}

// apnsSender is the iOS sender (§4.6). APNs has no multicast endpoint:
// one HTTP/2 request per token, run sequentially per batch the way the
// dispatcher already bounds batch size.
type apnsSender struct {
	logger *slog.Logger
}

// NewAPNSSender constructs the iOS PushNotificationSender.
func NewAPNSSender(logger *slog.Logger) service.PushNotificationSender {
	return &apnsSender{logger: logger.With("component", "apns_sender")}
}

func (s *apnsSender) Platform() constants.Platform {
	return constants.PlatformIOS
}

func (s *apnsSender) Send(ctx context.Context, credentials map[string]string, serializedMessage string, tokens []string) ([]service.SenderResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	client, topic, err := s.clientFor(credentials)
	if err != nil {
		return nil, err
	}

	var message entity.UnifiedPushMessage
	if err := json.Unmarshal([]byte(serializedMessage), &message); err != nil {
		return nil, fmt.Errorf("apns: decode message: %w", err)
	}

	builder := payload.NewPayload().AlertTitle(message.Title).AlertBody(message.Alert)
	if message.Sound != "" {
		builder = builder.Sound(message.Sound)
	}
	if message.Badge != nil {
		builder = builder.Badge(*message.Badge)
	}
	if message.ContentAvailable {
		builder = builder.ContentAvailable()
	}
	for k, v := range message.UserData {
		builder = builder.Custom(k, v)
	}

	results := make([]service.SenderResult, 0, len(tokens))
	for _, deviceToken := range tokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       topic,
			Payload:     builder,
		}

		res, sendErr := client.Push(notification)
		if sendErr != nil {
			// Disconnect/transport failure: recorded as an undelivered
			// result for this token, not a permanent rejection.
			results = append(results, service.SenderResult{Token: deviceToken, Delivered: false, Reason: sendErr.Error()})

			continue
		}

		if res.Sent() {
			results = append(results, service.SenderResult{Token: deviceToken, Delivered: true})

			continue
		}

		result := service.SenderResult{Token: deviceToken, Delivered: false, Reason: res.Reason}
		switch res.Reason {
		case apns2.ReasonBadDeviceToken, apns2.ReasonUnregistered, apns2.ReasonDeviceTokenNotForTopic:
			result.Rejected = true
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *apnsSender) clientFor(credentials map[string]string) (apnsClient, string, error) {
	keyID := credentials["keyId"]
	teamID := credentials["teamId"]
	bundleID := credentials["bundleId"]
	p8Key := credentials["p8Key"]
	if keyID == "" || teamID == "" || bundleID == "" || p8Key == "" {
		return nil, "", fmt.Errorf("apns: missing keyId/teamId/bundleId/p8Key credentials")
	}

	authKey, err := token.AuthKeyFromBytes([]byte(p8Key))
	if err != nil {
		return nil, "", fmt.Errorf("apns: parse p8 key: %w", err)
	}

	tok := &token.Token{AuthKey: authKey, KeyID: keyID, TeamID: teamID}

	client := apns2.NewTokenClient(tok)
	if credentials["environment"] == "sandbox" {
		client = client.Development()
	} else {
		client = client.Production()
	}

	return client, bundleID, nil
}
