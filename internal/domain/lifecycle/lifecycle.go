// Package lifecycle holds small constants shared by every component that
// registers an fx.Hook, so shutdown timeouts stay consistent across the
// HTTP server, the worker pools, and the database client.
package lifecycle

import "time"

// DefaultTimeout bounds how long a graceful-shutdown hook is allowed to
// block before the process gives up and exits anyway.
const DefaultTimeout = 10 * time.Second
