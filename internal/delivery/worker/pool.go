// Package worker runs the pipeline's pull-based stages (§5): fixed
// goroutine pools that drain one logical broker queue each, replacing
// the teacher's single Pub/Sub-push echo.Server with "N goroutine
// pools" under the same fx.Lifecycle shape.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"unified-push-server/internal/domain/lifecycle"
	"unified-push-server/internal/queue"
)

// handleFunc processes one message pulled off a subscription. A
// non-nil error, of any kind, makes the pool nack the message; the
// message is acked otherwise, even if handling the underlying job
// failed in a way the handler already recorded and did not return.
type handleFunc func(ctx context.Context, msg *queue.Message) error

// pool is a fixed number of goroutines draining one subscription via
// for { select { case <-ctx.Done(): return; default: }; handle(Receive()) },
// started from server.Serve and stopped by the fx.Lifecycle OnStop hook (§5).
type pool struct {
	name      string
	size      int
	queueName string
	broker    queue.Broker
	handle    handleFunc
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newPool(name string, size int, queueName string, broker queue.Broker, handle handleFunc, logger *slog.Logger) *pool {
	return &pool{
		name:      name,
		size:      size,
		queueName: queueName,
		broker:    broker,
		handle:    handle,
		logger:    logger,
	}
}

// start spawns size worker goroutines. openCtx, the context handed to
// server.Serve, is only used to open the subscription; the goroutines
// run under their own independent context instead, cancelled only from
// stop.
func (p *pool) start(openCtx context.Context) error {
	sub, err := p.broker.Subscription(openCtx, p.queueName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for range p.size {
		p.wg.Go(func() {
			p.run(ctx, sub)
		})
	}

	p.logger.Info("worker pool started", slog.String("pool", p.name), slog.Int("size", p.size), slog.String("queue", p.queueName))

	return nil
}

func (p *pool) run(ctx context.Context, sub queue.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := sub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			p.logger.Error("receive failed", slog.String("pool", p.name), slog.Any("error", err))

			continue
		}

		if err := p.handle(ctx, msg); err != nil {
			p.logger.Warn("handler failed, nacking for redelivery",
				slog.String("pool", p.name),
				slog.Any("error", err),
			)
			msg.Nack()

			continue
		}

		msg.Ack()
	}
}

func (p *pool) stop(ctx context.Context) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timeout := time.NewTimer(lifecycle.DefaultTimeout)
	defer timeout.Stop()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("worker pool did not drain before shutdown deadline", slog.String("pool", p.name))
	case <-timeout.C:
		p.logger.Warn("worker pool did not drain before shutdown deadline", slog.String("pool", p.name))
	}

	return nil
}
