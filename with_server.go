package editormcp

import (
	"context"
	"fmt"
)

// WithServer manages server lifecycle with automatic cleanup.
//
// This helper creates a server, starts it with the provided options, executes
// the callback function, and ensures proper cleanup via Shutdown() when done.
//
// The callback receives a listening Server. It is responsible for driving
// the host tick (DrainOne or Drain) while it runs. If the callback returns an
// error, it is returned to the caller. If Shutdown() fails, a warning is
// logged but does not override the callback's error.
//
// Example usage:
//
//	err := editormcp.WithServer(ctx, func(s *editormcp.Server) error {
//	    ticker := time.NewTicker(16 * time.Millisecond)
//	    defer ticker.Stop()
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return nil
//	        case <-ticker.C:
//	            s.Drain(0)
//	        }
//	    }
//	},
//	    editormcp.WithLogger(log),
//	    editormcp.WithAddr("127.0.0.1:3000"),
//	)
func WithServer(ctx context.Context, fn func(*Server) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	server, err := New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	defer func() {
		// The caller's ctx is usually done by now; shutdown still gets to run.
		if shutdownErr := server.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			server.log.Warn("failed to shut down server", "error", shutdownErr)
		}
	}()

	return fn(server)
}
