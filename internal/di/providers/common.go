package providers

import "time"

// shutdownTimeout bounds graceful shutdown of the HTTP server and the SSE
// manager; in-flight requests past it are dropped.
const shutdownTimeout = 15 * time.Second
