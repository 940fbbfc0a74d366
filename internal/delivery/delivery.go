// Package delivery defines the contract every inbound surface (HTTP
// server, queue worker pool) implements so cmd/ can start them uniformly
// under one fx.Lifecycle.
package delivery

import "context"

// Delivery is one long-running inbound surface of the process. Serve
// blocks until the surface stops (normally via its own fx.Hook OnStop).
type Delivery interface {
	Serve(ctx context.Context) error
}
