package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/yungbote/microservice-production/internal/platform/logger"
)

// NotifyContext returns a context that is cancelled on the first SIGINT or SIGTERM.
// A second signal while draining exits the process with status 1.
func NotifyContext(parent context.Context, log *logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
			cancel()
		})
	}

	go func() {
		select {
		case sig := <-sigs:
			if log != nil {
				log.Info("shutdown signal received", "signal", sig.String())
			}
			cancel()
		case <-ctx.Done():
		case <-done:
			return
		}
		select {
		case sig := <-sigs:
			if log != nil {
				log.Warn("second signal while draining, exiting", "signal", sig.String())
			}
			os.Exit(1)
		case <-done:
		}
	}()
	return ctx, stop
}
