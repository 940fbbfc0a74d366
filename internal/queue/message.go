package queue

import "context"

// Message is a broker-agnostic envelope around one queue entry. It
// wraps whatever the underlying gocloud.dev/pubsub driver delivered so
// callers never import gocloud types directly (C5, §4.5-§4.9).
type Message struct {
	Body       []byte
	Attributes map[string]string

	ackFunc  func()
	nackFunc func()
}

// Ack confirms successful processing; the broker will not redeliver.
func (m *Message) Ack() {
	if m.ackFunc != nil {
		m.ackFunc()
	}
}

// Nack signals processing failed; the broker may redeliver per its
// own retry policy.
func (m *Message) Nack() {
	if m.nackFunc != nil {
		m.nackFunc()
	}
}

// DuplicateDetectionID returns the app-level dedup key stashed in the
// _DUP_ID attribute, emulating broker-native dedup on drivers that
// lack it (§9).
func (m *Message) DuplicateDetectionID() string {
	return m.Attributes[attrDuplicateID]
}

// ScheduledDeliveryUnixMilli returns the emulated delayed-delivery
// deadline stashed in the _SCHED_DELIVERY attribute, or 0 if the
// message carries none (§9).
func (m *Message) ScheduledDeliveryUnixMilli() int64 {
	v, ok := m.Attributes[attrScheduledDelivery]
	if !ok {
		return 0
	}

	return parseUnixMilli(v)
}

// DeliveryAttempt returns the emulated redelivery counter stashed in
// the _DELIVERY_ATTEMPT attribute (0 for a first delivery). Brokers
// vary in whether they expose a native redelivery count, so
// TriggerLoop (C9) manages this counter itself by republishing with
// an incremented value rather than relying on driver internals.
func (m *Message) DeliveryAttempt() int {
	v, ok := m.Attributes[attrDeliveryAttempt]
	if !ok {
		return 0
	}

	return int(parseUnixMilli(v))
}

// PublishOptions configures one Send call.
type PublishOptions struct {
	// DuplicateDetectionID, if set, lets the receiving Subscription
	// drop redeliveries that already succeeded once (§8 Idempotence).
	DuplicateDetectionID string

	// DelayUntilUnixMilli, if non-zero, instructs Receive to withhold
	// the message from callers until that time (§4.9 redelivery
	// backoff, §9 emulation note).
	DelayUntilUnixMilli int64

	// DeliveryAttempt, if non-zero, is carried forward so the next
	// receiver's Message.DeliveryAttempt reflects this republish.
	DeliveryAttempt int
}

// Topic is a named, writable destination (C5).
type Topic interface {
	Send(ctx context.Context, body []byte, attributes map[string]string, opts PublishOptions) error
	Shutdown(ctx context.Context) error
}

// Subscription is a named, readable source (C5).
type Subscription interface {
	// Receive blocks until a message is available or ctx is done.
	Receive(ctx context.Context) (*Message, error)

	// ReceiveNoWait waits at most 50 ms for a message and returns
	// (nil, nil) if none became available in that time, the bounded
	// peek the collector's marker checks use (§4.7, §4.9). It is not a
	// zero-wait receive.
	ReceiveNoWait(ctx context.Context) (*Message, error)

	Shutdown(ctx context.Context) error
}
