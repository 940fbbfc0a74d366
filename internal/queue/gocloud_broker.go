package queue

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	gcpubsub "gocloud.dev/pubsub"

	// Driver registration: mem:// for tests and local development.
	_ "gocloud.dev/pubsub/mempubsub"
	// Driver registration: rabbit:// for AMQP-based brokers.
	_ "gocloud.dev/pubsub/rabbitpubsub"
)

// gocloudBroker is the default Broker (C5), opening topics and
// subscriptions by URL through gocloud.dev/pubsub so the same code
// runs against an in-memory broker in tests and a real AMQP broker
// in production (§9: "broker-agnostic Queues abstraction").
type gocloudBroker struct {
	baseURL string // e.g. "mem://" or "rabbit://amqp.example:5672"
	logger  *slog.Logger

	mu      sync.Mutex
	topics  map[string]*gcpubsub.Topic
	subs    map[string]*gcpubsub.Subscription
	dedup   *dedupCache
	delayed *delayGate
}

// NewGoCloudBroker opens a broker rooted at baseURL. Topic and
// subscription names are appended as gocloud.dev/pubsub query-less
// path segments, so "mem://" plus "variant-job" yields "mem://variant-job".
func NewGoCloudBroker(baseURL string, logger *slog.Logger) Broker {
	return &gocloudBroker{
		baseURL: baseURL,
		logger:  logger,
		topics:  make(map[string]*gcpubsub.Topic),
		subs:    make(map[string]*gcpubsub.Subscription),
		dedup:   newDedupCache(10 * time.Minute),
		delayed: newDelayGate(),
	}
}

func (b *gocloudBroker) urlFor(name string) string {
	return b.baseURL + name
}

func (b *gocloudBroker) openTopic(ctx context.Context, name string) (*gcpubsub.Topic, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.topics[name]; ok {
		return t, nil
	}

	t, err := gcpubsub.OpenTopic(ctx, b.urlFor(name))
	if err != nil {
		return nil, errors.Wrapf(err, "open topic %s", name)
	}

	b.topics[name] = t

	return t, nil
}

func (b *gocloudBroker) openSubscription(ctx context.Context, name string) (*gcpubsub.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.subs[name]; ok {
		return s, nil
	}

	s, err := gcpubsub.OpenSubscription(ctx, b.urlFor(name))
	if err != nil {
		return nil, errors.Wrapf(err, "open subscription %s", name)
	}

	b.subs[name] = s

	return s, nil
}

func (b *gocloudBroker) Topic(ctx context.Context, name string) (Topic, error) {
	t, err := b.openTopic(ctx, name)
	if err != nil {
		return nil, err
	}

	return &gocloudTopic{topic: t, dedup: b.dedup}, nil
}

func (b *gocloudBroker) Subscription(ctx context.Context, name string) (Subscription, error) {
	s, err := b.openSubscription(ctx, name)
	if err != nil {
		return nil, err
	}

	return &gocloudSubscription{sub: s, dedup: b.dedup, delayed: b.delayed, logger: b.logger}, nil
}

func (b *gocloudBroker) WithTransaction(ctx context.Context, fn func(tx TxPublisher) error) error {
	tx := &bufferedPublisher{broker: b}
	if err := fn(tx); err != nil {
		return err
	}

	return tx.flush(ctx)
}

func (b *gocloudBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for _, t := range b.topics {
		if err := t.Shutdown(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, s := range b.subs {
		if err := s.Shutdown(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

type gocloudTopic struct {
	topic *gcpubsub.Topic
	dedup *dedupCache
}

func (t *gocloudTopic) Send(ctx context.Context, body []byte, attributes map[string]string, opts PublishOptions) error {
	metadata := make(map[string]string, len(attributes)+2)
	for k, v := range attributes {
		metadata[k] = v
	}
	if opts.DuplicateDetectionID != "" {
		metadata[attrDuplicateID] = opts.DuplicateDetectionID
	}
	if opts.DelayUntilUnixMilli != 0 {
		metadata[attrScheduledDelivery] = formatUnixMilli(time.UnixMilli(opts.DelayUntilUnixMilli))
	}
	if opts.DeliveryAttempt != 0 {
		metadata[attrDeliveryAttempt] = strconv.Itoa(opts.DeliveryAttempt)
	}

	return errors.WithStack(t.topic.Send(ctx, &gcpubsub.Message{
		Body:     body,
		Metadata: metadata,
	}))
}

func (t *gocloudTopic) Shutdown(ctx context.Context) error {
	return errors.WithStack(t.topic.Shutdown(ctx))
}

type gocloudSubscription struct {
	sub     *gcpubsub.Subscription
	dedup   *dedupCache
	delayed *delayGate
	logger  *slog.Logger
}

func (s *gocloudSubscription) Receive(ctx context.Context) (*Message, error) {
	for {
		raw, err := s.sub.Receive(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		msg, keep := s.admit(raw)
		if keep {
			return msg, nil
		}
	}
}

func (s *gocloudSubscription) ReceiveNoWait(ctx context.Context) (*Message, error) {
	peekCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	raw, err := s.sub.Receive(peekCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}

		return nil, errors.WithStack(err)
	}

	msg, keep := s.admit(raw)
	if !keep {
		return nil, nil
	}

	return msg, nil
}

// admit applies the _DUP_ID and _SCHED_DELIVERY emulations (§9): a
// duplicate is acked and dropped silently, an early delivery is nacked
// so the driver's own redelivery policy presents it again later.
func (s *gocloudSubscription) admit(raw *gcpubsub.Message) (*Message, bool) {
	wrapped := &Message{
		Body:       raw.Body,
		Attributes: raw.Metadata,
		ackFunc:    raw.Ack,
		nackFunc:   nackFuncFor(raw),
	}

	if dupID := wrapped.DuplicateDetectionID(); dupID != "" && !s.dedup.admit(dupID) {
		s.logger.Debug("dropping duplicate delivery", slog.String("dup_id", dupID))
		wrapped.Ack()

		return nil, false
	}

	if due := wrapped.ScheduledDeliveryUnixMilli(); due != 0 && !s.delayed.due(due) {
		wrapped.Nack()

		return nil, false
	}

	return wrapped, true
}

func nackFuncFor(raw *gcpubsub.Message) func() {
	return func() {
		if raw.Nackable() {
			raw.Nack()

			return
		}

		raw.Ack()
	}
}

// bufferedPublisher accumulates Send calls issued during a
// Broker.WithTransaction callback and only touches the real topics
// once the callback has fully succeeded.
type bufferedPublisher struct {
	broker *gocloudBroker

	mu      sync.Mutex
	pending []pendingSend
}

type pendingSend struct {
	topicName  string
	body       []byte
	attributes map[string]string
	opts       PublishOptions
}

func (p *bufferedPublisher) Send(_ context.Context, topicName string, body []byte, attributes map[string]string, opts PublishOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = append(p.pending, pendingSend{topicName: topicName, body: body, attributes: attributes, opts: opts})

	return nil
}

func (p *bufferedPublisher) flush(ctx context.Context) error {
	for _, send := range p.pending {
		topic, err := p.broker.Topic(ctx, send.topicName)
		if err != nil {
			return err
		}

		if err := topic.Send(ctx, send.body, send.attributes, send.opts); err != nil {
			return err
		}
	}

	return nil
}
