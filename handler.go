package fastagi

import (
	"context"

	"github.com/dialplanio/fastagi/command"
)

// AGIHandler drives one call: given a Connection and the request the
// router dispatched, it issues AGI commands and returns nil on success or
// an error. Implementations must be safe to invoke from many goroutines
// concurrently, since one Router is shared by every session.
type AGIHandler interface {
	Handle(ctx context.Context, conn *Connection, req *AGIRequest) error
}

// HandlerFunc adapts a plain function to AGIHandler, the same adapter
// pattern as net/http.HandlerFunc.
type HandlerFunc func(ctx context.Context, conn *Connection, req *AGIRequest) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, conn *Connection, req *AGIRequest) error {
	return f(ctx, conn, req)
}

// AndThen chains two handlers:
// first runs; if it returns nil, second runs; otherwise the chain
// short-circuits with first's error.
func AndThen(first, second AGIHandler) AGIHandler {
	return HandlerFunc(func(ctx context.Context, conn *Connection, req *AGIRequest) error {
		if err := first.Handle(ctx, conn, req); err != nil {
			return err
		}
		return second.Handle(ctx, conn, req)
	})
}

// fallbackHandler is the router's built-in no-op: it sends
// VERBOSE "Route not found" and reports success, including on a 510, 511
// or 520 reply. A failed write, an unreadable or non-status reply, or a
// 200 reply whose result is not 1 is returned as an error.
var fallbackHandler AGIHandler = HandlerFunc(func(ctx context.Context, conn *Connection, _ *AGIRequest) error {
	_, err := SendCommand(ctx, conn, command.Verbose{Message: "Route not found"})
	return err
})
