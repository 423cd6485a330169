package fastagi

import (
	"context"
	"net"

	"go.uber.org/zap"
)

// Serve runs the accept loop: bind to listener, and for each accepted
// stream spawn an independent goroutine running the per-connection state
// machine. router is shared read-only by every session. Serve blocks until
// the listener returns a fatal error — the framework imposes no
// graceful-shutdown contract; callers wanting one should close listener
// from another goroutine.
//
// A session goroutine that panics is recovered and logged rather than
// bringing down the whole server: this framework promises the server never
// panics on a peer-driven condition, and a library running
// application-supplied handlers in goroutines it spawns itself must
// enforce that structurally.
func Serve(ctx context.Context, listener net.Listener, router *Router, opts ...Option) error {
	cfg := NewConfig(opts...)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return &AGIError{Kind: ErrCannotSpawnListener, Err: err}
		}

		go func(conn net.Conn) {
			defer func() {
				if r := recover(); r != nil {
					cfg.Logger.Error("recovered from panic in session handler", zap.Any("panic", r))
					_ = conn.Close()
				}
			}()
			runSession(ctx, conn, router, cfg)
		}(conn)
	}
}
