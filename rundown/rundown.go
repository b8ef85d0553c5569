// Package rundown ties command lifetimes to process termination signals.
package rundown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithContext returns a context cancelled on SIGINT or SIGTERM. A second
// signal is left to the default handler.
func WithContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
