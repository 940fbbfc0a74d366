package senders

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-push-server/internal/domain/constants"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestGenericHTTPSender_Send_ClassifiesStatusCodes confirms the three
// outcomes a token endpoint can report: delivered (2xx), rejected
// (410/404, meaning the endpoint is gone for good), and a bare
// transport/HTTP failure recorded as neither.
func TestGenericHTTPSender_Send_ClassifiesStatusCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	sender := NewGenericHTTPSender(constants.PlatformADM, discardLogger())
	assert.Equal(t, constants.PlatformADM, sender.Platform())

	results, err := sender.Send(context.Background(), nil, `{"alert":"hi"}`,
		[]string{server.URL + "/ok", server.URL + "/gone", server.URL + "/broken"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byToken := make(map[string]int)
	for i, r := range results {
		byToken[r.Token] = i
	}

	ok := results[byToken[server.URL+"/ok"]]
	assert.True(t, ok.Delivered)
	assert.False(t, ok.Rejected)

	gone := results[byToken[server.URL+"/gone"]]
	assert.False(t, gone.Delivered)
	assert.True(t, gone.Rejected)

	broken := results[byToken[server.URL+"/broken"]]
	assert.False(t, broken.Delivered)
	assert.False(t, broken.Rejected)
	assert.NotEmpty(t, broken.Reason)
}

// TestGenericHTTPSender_Send_NoTokensIsANoOp confirms an empty batch
// short-circuits rather than making zero-length requests.
func TestGenericHTTPSender_Send_NoTokensIsANoOp(t *testing.T) {
	sender := NewGenericHTTPSender(constants.PlatformWindows, discardLogger())

	results, err := sender.Send(context.Background(), nil, `{}`, nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

// TestGenericHTTPSender_Send_InvalidMessageJSON confirms an
// unparseable serialized message is reported as an error rather than
// attempted against the endpoints.
func TestGenericHTTPSender_Send_InvalidMessageJSON(t *testing.T) {
	sender := NewGenericHTTPSender(constants.PlatformSimplePush, discardLogger())

	_, err := sender.Send(context.Background(), nil, "not json", []string{"http://example.invalid/token"})
	assert.Error(t, err)
}
