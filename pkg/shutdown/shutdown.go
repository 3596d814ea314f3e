// Package shutdown binds a context to process termination signals.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM. Cancelling
// the returned CancelFunc releases the signal handler.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
