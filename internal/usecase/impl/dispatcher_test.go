package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_HandleBatch_Success(t *testing.T) {
	variantID := uuid.New()
	registry := newFakeSenderRegistry()
	registry.register(&fakeSender{
		platform: constants.PlatformAndroid,
		results: []service.SenderResult{
			{Token: "tok-1", Delivered: true},
			{Token: "tok-2", Delivered: true},
		},
	})
	installations := &fakeClientInstallationService{}
	pushMessages := newFakePushMessageRepository()

	d := NewDispatcher(registry, installations, pushMessages, time.Second, discardLogger())

	variant := entity.Variant{ID: variantID, Platform: constants.PlatformAndroid}
	batch := entity.BatchJob{
		PushMessageInformationID: "pm-1",
		VariantID:                variantID,
		Tokens:                   []string{"tok-1", "tok-2"},
	}

	metric, err := d.HandleBatch(context.Background(), variant, batch)
	require.NoError(t, err)

	assert.Equal(t, variantID, metric.VariantID)
	assert.Equal(t, 2, metric.Receivers)
	assert.Equal(t, 1, metric.ServedBatches)
	assert.Equal(t, entity.DeliveryStatusSuccess, metric.DeliveryStatus)
	assert.Empty(t, metric.Reason)
	assert.Zero(t, installations.calls)
}

func TestDispatcher_HandleBatch_RejectedTokensRemoveInstallations(t *testing.T) {
	variantID := uuid.New()
	registry := newFakeSenderRegistry()
	registry.register(&fakeSender{
		platform: constants.PlatformIOS,
		results: []service.SenderResult{
			{Token: "tok-1", Delivered: true},
			{Token: "tok-2", Rejected: true, Reason: "BadDeviceToken"},
		},
	})
	installations := &fakeClientInstallationService{}
	pushMessages := newFakePushMessageRepository()

	d := NewDispatcher(registry, installations, pushMessages, time.Second, discardLogger())

	variant := entity.Variant{ID: variantID, Platform: constants.PlatformIOS}
	batch := entity.BatchJob{
		PushMessageInformationID: "pm-1",
		VariantID:                variantID,
		Tokens:                   []string{"tok-1", "tok-2"},
	}

	metric, err := d.HandleBatch(context.Background(), variant, batch)
	require.NoError(t, err)

	assert.Equal(t, entity.DeliveryStatusSuccess, metric.DeliveryStatus)
	assert.Equal(t, 1, installations.calls)
	assert.Equal(t, []string{"tok-2"}, installations.tokens)
}

func TestDispatcher_HandleBatch_NoSenderConfigured(t *testing.T) {
	registry := newFakeSenderRegistry()
	pushMessages := newFakePushMessageRepository()

	d := NewDispatcher(registry, &fakeClientInstallationService{}, pushMessages, time.Second, discardLogger())

	variantID := uuid.New()
	variant := entity.Variant{ID: variantID, Platform: constants.PlatformWindows}
	batch := entity.BatchJob{PushMessageInformationID: "pm-1", VariantID: variantID, Tokens: []string{"t1"}}

	metric, err := d.HandleBatch(context.Background(), variant, batch)
	require.NoError(t, err)

	assert.Equal(t, entity.DeliveryStatusFailed, metric.DeliveryStatus)
	assert.Contains(t, metric.Reason, "no sender configured")
	require.Len(t, pushMessages.errors, 1)
	assert.Equal(t, "pm-1", pushMessages.errors[0].PushJobID)
}

func TestDispatcher_HandleBatch_SenderTransportError(t *testing.T) {
	variantID := uuid.New()
	registry := newFakeSenderRegistry()
	registry.register(&fakeSender{platform: constants.PlatformWebPush, err: assertErr("gateway unreachable")})
	pushMessages := newFakePushMessageRepository()

	d := NewDispatcher(registry, &fakeClientInstallationService{}, pushMessages, time.Second, discardLogger())

	variant := entity.Variant{ID: variantID, Platform: constants.PlatformWebPush}
	batch := entity.BatchJob{PushMessageInformationID: "pm-1", VariantID: variantID, Tokens: []string{"t1"}}

	metric, err := d.HandleBatch(context.Background(), variant, batch)
	require.NoError(t, err)

	assert.Equal(t, entity.DeliveryStatusFailed, metric.DeliveryStatus)
	assert.Equal(t, "gateway unreachable", metric.Reason)
}

// TestDispatcher_HandleBatch_DeadlineTreatedAsError resolves Open
// Question (i): a sender that outlives the configured send timeout is
// recorded exactly like a transport error, never silently dropped.
func TestDispatcher_HandleBatch_DeadlineTreatedAsError(t *testing.T) {
	variantID := uuid.New()
	registry := newFakeSenderRegistry()
	registry.register(&fakeSender{platform: constants.PlatformADM, delay: 50 * time.Millisecond})
	pushMessages := newFakePushMessageRepository()

	d := NewDispatcher(registry, &fakeClientInstallationService{}, pushMessages, 5*time.Millisecond, discardLogger())

	variant := entity.Variant{ID: variantID, Platform: constants.PlatformADM}
	batch := entity.BatchJob{PushMessageInformationID: "pm-1", VariantID: variantID, Tokens: []string{"t1"}}

	metric, err := d.HandleBatch(context.Background(), variant, batch)
	require.NoError(t, err)

	assert.Equal(t, entity.DeliveryStatusFailed, metric.DeliveryStatus)
	assert.Contains(t, metric.Reason, "deadline")
	require.Len(t, pushMessages.errors, 1)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
