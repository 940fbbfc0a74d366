package senders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/service"
)

// fcmSender is the Android sender (§4.6): multicasts through Firebase
// Cloud Messaging, one *messaging.Client per variant because each
// variant carries its own service-account credentials.
type fcmSender struct {
	logger *slog.Logger
}

// NewFCMSender constructs the Android PushNotificationSender.
func NewFCMSender(logger *slog.Logger) service.PushNotificationSender {
	return &fcmSender{logger: logger.With("component", "fcm_sender")}
}

func (s *fcmSender) Platform() constants.Platform {
	return constants.PlatformAndroid
}

func (s *fcmSender) Send(ctx context.Context, credentials map[string]string, serializedMessage string, tokens []string) ([]service.SenderResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	client, err := s.clientFor(ctx, credentials)
	if err != nil {
		return nil, err
	}

	var message entity.UnifiedPushMessage
	if err := json.Unmarshal([]byte(serializedMessage), &message); err != nil {
		return nil, fmt.Errorf("fcm: decode message: %w", err)
	}

	multicast := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: message.Title,
			Body:  message.Alert,
		},
		Data: stringifyUserData(message.UserData),
	}

	response, err := client.SendEachForMulticast(ctx, multicast)
	if err != nil {
		return nil, fmt.Errorf("fcm: multicast send: %w", err)
	}

	results := make([]service.SenderResult, 0, len(tokens))
	for idx, resp := range response.Responses {
		result := service.SenderResult{Token: tokens[idx], Delivered: resp.Success}
		if resp.Error != nil {
			result.Reason = resp.Error.Error()
			if messaging.IsInvalidArgument(resp.Error) || messaging.IsUnregistered(resp.Error) {
				result.Rejected = true
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// clientFor builds a fresh Firebase app per call: variant credentials
// are per-tenant, so the client cannot be cached process-wide the way
// a single-project service would cache it.
func (s *fcmSender) clientFor(ctx context.Context, credentials map[string]string) (*messaging.Client, error) {
	projectID := credentials["projectId"]
	serviceAccountJSON := credentials["serviceAccountJSON"]
	if projectID == "" || serviceAccountJSON == "" {
		return nil, fmt.Errorf("fcm: missing projectId/serviceAccountJSON credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	if err != nil {
		return nil, fmt.Errorf("fcm: init app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: messaging client: %w", err)
	}

	return client, nil
}

// stringifyUserData flattens UnifiedPushMessage.UserData into the
// string map FCM's Data payload requires.
func stringifyUserData(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}

	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s

			continue
		}

		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		out[k] = string(b)
	}

	return out
}
