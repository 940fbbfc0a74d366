package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	attrDuplicateID       = "_DUP_ID"
	attrScheduledDelivery = "_SCHED_DELIVERY"
	attrDeliveryAttempt   = "_DELIVERY_ATTEMPT"
)

// Broker is the abstract message-queue dependency (C5, §3, §9): the
// Dispatcher, collector, and trigger loop depend only on this
// interface, never on a specific driver.
type Broker interface {
	Topic(ctx context.Context, name string) (Topic, error)
	Subscription(ctx context.Context, name string) (Subscription, error)

	// WithTransaction runs fn with a TxPublisher that buffers every
	// Send call and flushes them in order only if fn returns nil, so
	// the loader's fan-out (§4.5) and the trigger republish publish
	// nothing when fn fails. The underlying driver has no native
	// transaction support: if a send fails during the flush, the sends
	// before it stay published.
	WithTransaction(ctx context.Context, fn func(tx TxPublisher) error) error

	Close() error
}

// TxPublisher is the transactional view of Broker.Topic handed to the
// WithTransaction callback.
type TxPublisher interface {
	Send(ctx context.Context, topicName string, body []byte, attributes map[string]string, opts PublishOptions) error
}

// VariantTopicName applies the per-variant selector emulation (§9):
// brokers that lack server-side message filtering get one durable
// sub-topic per variant instead, named deterministically from the
// base queue and the variant id so every producer and consumer agree
// on it without coordination.
func VariantTopicName(base string, variantID uuid.UUID) string {
	return base + "." + variantID.String()
}

func formatUnixMilli(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseUnixMilli(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}

	return v
}
