package senders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/service"
)

// genericHTTPSender backs ADM, Windows (WNS) and SimplePush (§4.6): all
// three are a plain HTTP POST of the message to a per-token endpoint
// URL, differing only in request shape, which none of the retrieved
// examples model as a dedicated client. Kept on net/http rather than a
// vendor SDK because no example in the corpus wires one for these
// three networks; every other sender in this package uses the
// corpus-provided SDK for its network.
type genericHTTPSender struct {
	platform   constants.Platform
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGenericHTTPSender constructs a PushNotificationSender for any
// platform whose wire protocol is "POST the payload to the token's
// delivery endpoint".
func NewGenericHTTPSender(platform constants.Platform, logger *slog.Logger) service.PushNotificationSender {
	return &genericHTTPSender{
		platform:   platform,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("component", "generic_http_sender", "platform", string(platform)),
	}
}

func (s *genericHTTPSender) Platform() constants.Platform {
	return s.platform
}

func (s *genericHTTPSender) Send(ctx context.Context, credentials map[string]string, serializedMessage string, tokens []string) ([]service.SenderResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	var message entity.UnifiedPushMessage
	if err := json.Unmarshal([]byte(serializedMessage), &message); err != nil {
		return nil, errors.Wrap(err, "generic http sender: decode message")
	}

	body, err := json.Marshal(map[string]any{
		"title": message.Title,
		"alert": message.Alert,
		"data":  message.UserData,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]service.SenderResult, 0, len(tokens))
	for _, endpointToken := range tokens {
		results = append(results, s.sendOne(ctx, credentials, endpointToken, body))
	}

	return results, nil
}

// sendOne treats the token itself as (or as containing) the delivery
// endpoint URL, the way ADM registration IDs and WNS channel URIs work.
func (s *genericHTTPSender) sendOne(ctx context.Context, credentials map[string]string, endpointToken string, body []byte) service.SenderResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointToken, bytes.NewReader(body))
	if err != nil {
		return service.SenderResult{Token: endpointToken, Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken := credentials["authToken"]; authToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authToken))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return service.SenderResult{Token: endpointToken, Reason: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return service.SenderResult{Token: endpointToken, Delivered: true}
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return service.SenderResult{Token: endpointToken, Rejected: true, Reason: resp.Status}
	default:
		return service.SenderResult{Token: endpointToken, Reason: resp.Status}
	}
}
