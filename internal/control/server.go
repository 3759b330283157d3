package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"timercraft/internal/logger"
)

const shutdownTimeout = 3 * time.Second

// Serve runs the control API on listener until ctx ends.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("control_listening", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve control api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("control_shutdown_failed", "err", err)
		return fmt.Errorf("shutdown control api: %w", err)
	}
	log.Infow("control_stopped")
	return nil
}
