package fastagi

import (
	"context"
	"errors"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// runSession drives the per-connection state machine:
//
//	[accept] → NetworkStartWait → VariableDumpWait → Dispatch → HandlerRunning → Closed
//
// Every exit path closes the connection; the function never panics on a
// peer-driven condition.
func runSession(ctx context.Context, conn net.Conn, router *Router, cfg *Config) {
	logger := cfg.Logger.With(
		zap.String("connection_id", uuid.NewString()),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	c := newConnection(conn, logger, cfg.ReadBufferSize)
	defer func() {
		if err := c.Close(); err != nil {
			logger.Debug("error closing connection", zap.Error(err))
		}
	}()

	// NetworkStartWait: any value other than NetworkStart, including an
	// unparseable read, closes the connection silently at INFO.
	msg, err := c.ReadMessage(ctx)
	if err != nil || msg.Kind != MessageNetworkStart {
		logger.Info("closing connection: did not receive network-start", zap.Error(err))
		return
	}

	// VariableDumpWait.
	msg, err = c.ReadMessage(ctx)
	if err != nil {
		logParseFailure(logger, "closing connection: error reading variable dump", err)
		return
	}
	if msg.Kind != MessageVariableDump {
		logger.Warn("closing connection: expected variable dump, got a different message")
		return
	}
	dump := msg.Dump

	// Dispatch.
	fastagiRequest, ok := dump.Request.(FastAGIRequestType)
	if !ok {
		logger.Info("closing connection: agi_request is not FastAGI", zap.String("request", dump.Request.String()))
		return
	}

	handler, captures, wildcard := router.dispatch(fastagiRequest.URL.Path)
	req := &AGIRequest{Variables: dump, Captures: captures, Wildcards: wildcard}

	// HandlerRunning.
	err = handler.Handle(ctx, c, req)
	switch {
	case err == nil:
		logger.Debug("connection closed cleanly")
	case IsClientSideError(err):
		logger.Info("closing connection: client-side error", zap.Error(err))
	default:
		logger.Warn("closing connection: handler error", zap.Error(err), zap.Any("request", req))
	}
}

// logParseFailure picks the log level this package's error taxonomy assigns
// to a given parse/* error kind: malformed-content kinds (bad variable
// dump, bad status line) are INFO, remote-closed is DEBUG, and
// transport/protocol-violation kinds (NotUtf8, ReadError,
// NetworkStartAfterOtherMessage) are WARN.
func logParseFailure(logger *zap.Logger, msg string, err error) {
	var pe *ParseError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case ParseNoBytes:
			logger.Debug(msg, zap.Error(err))
			return
		case ParseNotUtf8, ParseReadError, ParseNetworkStartAfterOtherMessage:
			logger.Warn(msg, zap.Error(err))
			return
		default:
			logger.Info(msg, zap.Error(err))
			return
		}
	}
	logger.Warn(msg, zap.Error(err))
}
