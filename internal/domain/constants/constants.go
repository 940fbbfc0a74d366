// Package constants holds shared enumerations and default tuning values
// for the push dispatch core: platforms, queue names, and the
// conservative per-network defaults for SenderConfiguration (C1).
package constants

import "time"

// Platform identifies the push network a Variant targets.
type Platform string

const (
	PlatformIOS        Platform = "ios"
	PlatformAndroid    Platform = "android"
	PlatformWebPush    Platform = "web_push"
	PlatformADM        Platform = "adm"
	PlatformSimplePush Platform = "simple_push"
	PlatformWindows    Platform = "windows"
)

// AllPlatforms lists every platform SenderConfiguration must default.
var AllPlatforms = []Platform{
	PlatformIOS, PlatformAndroid, PlatformWebPush, PlatformADM, PlatformSimplePush, PlatformWindows,
}

// Queue name prefixes. internal/queue turns (name, variantID) into a
// broker address; see internal/queue/broker.go.
const (
	QueueVariantJob       = "variant-job"
	QueueBatch            = "batch"
	QueueBatchLoaded      = "batch-loaded"
	QueueAllBatchesLoaded = "all-batches-loaded"
	QueueMetrics          = "metrics"
	QueueTrigger          = "trigger"
	QueueDeadLetter       = "dead-letter"
)

// PropertyVariantID is the message attribute key the spec calls the
// "variantID" selector (§6).
const PropertyVariantID = "variantID"

// DefaultRedeliveryDelay is the REDELIVERY_DELAY_MS of §4.5/§4.8.
const DefaultRedeliveryDelay = 1000 * time.Millisecond

// DefaultMaxRedeliveries is the trigger's default max redelivery count (§4.8).
const DefaultMaxRedeliveries = 10

// DefaultSendTimeout bounds how long the dispatcher waits on a sender
// callback before treating the batch as SenderConnect-failed (§4.6, §9(i)).
const DefaultSendTimeout = 30 * time.Second

// SenderDefault is one row of the SenderConfiguration registry (C1).
type SenderDefault struct {
	BatchSize     int
	BatchesToLoad int
}

// TokensToLoad is the derived tokensToLoad = batchSize × batchesToLoad (§4.1).
func (d SenderDefault) TokensToLoad() int {
	return d.BatchSize * d.BatchesToLoad
}

// DefaultSenderConfiguration gives every platform a conservative starting
// point; config.Config.Push.Networks may override any of these entries
// (merged by NewSenderConfiguration in internal/usecase/impl).
var DefaultSenderConfiguration = map[Platform]SenderDefault{
	PlatformAndroid:    {BatchSize: 1000, BatchesToLoad: 3},
	PlatformIOS:        {BatchSize: 10000, BatchesToLoad: 1},
	PlatformWebPush:    {BatchSize: 500, BatchesToLoad: 2},
	PlatformADM:        {BatchSize: 100, BatchesToLoad: 2},
	PlatformSimplePush: {BatchSize: 100, BatchesToLoad: 2},
	PlatformWindows:    {BatchSize: 500, BatchesToLoad: 2},
}
