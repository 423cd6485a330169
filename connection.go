package fastagi

import (
	"context"
	"io"
	"net"
	"unicode/utf8"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dialplanio/fastagi/command"
)

const defaultReadBufferSize = 2048

// Connection owns one TCP stream, the wire parser's carry-over buffer, and
// a FIFO of already-parsed messages awaiting consumption. It is exclusively
// owned by the goroutine handling the call and is not safe for concurrent
// use.
type Connection struct {
	conn           net.Conn
	parser         *Parser
	queue          []AGIMessage
	logger         *zap.Logger
	readBufferSize int
}

func newConnection(conn net.Conn, logger *zap.Logger, readBufferSize int) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	if readBufferSize <= 0 {
		readBufferSize = defaultReadBufferSize
	}
	return &Connection{
		conn:           conn,
		parser:         NewParser(),
		logger:         logger,
		readBufferSize: readBufferSize,
	}
}

// RemoteAddr exposes the peer address for logging.
func (c *Connection) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// ReadMessage reads the next message: dequeue from the FIFO if non-empty;
// otherwise perform one TCP read into a fixed-size scratch buffer,
// NUL-strip and feed it through the wire parser, enqueue every produced
// message, and repeat. The FIFO is what lets a single read that coalesces
// network-start and the variable dump satisfy two successive calls without
// blocking for more bytes.
func (c *Connection) ReadMessage(ctx context.Context) (AGIMessage, error) {
	for len(c.queue) == 0 {
		if dl, ok := ctx.Deadline(); ok {
			_ = c.conn.SetReadDeadline(dl)
		}

		buf := make([]byte, c.readBufferSize)
		n, err := c.conn.Read(buf)
		if n == 0 {
			if err == io.EOF || err == nil {
				return AGIMessage{}, &ParseError{Kind: ParseNoBytes}
			}
			return AGIMessage{}, &ParseError{Kind: ParseReadError, Err: err}
		}
		if !utf8.Valid(buf[:n]) {
			return AGIMessage{}, &ParseError{Kind: ParseNotUtf8}
		}

		msgs, feedErr := c.parser.Feed(buf[:n])
		c.queue = append(c.queue, msgs...)
		if feedErr != nil {
			return AGIMessage{}, feedErr
		}
	}

	msg := c.queue[0]
	c.queue = c.queue[1:]
	return msg, nil
}

// writeAll writes data to the stream, looping if the OS returns a partial
// write.
func (c *Connection) writeAll(data []byte) error {
	for len(data) > 0 {
		n, err := c.conn.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Close closes the underlying stream and flushes any buffered log entries,
// combining both independent failures rather than silently dropping one.
func (c *Connection) Close() error {
	return multierr.Combine(c.conn.Close(), c.logger.Sync())
}

// SendCommand renders cmd, writes it (looping through partial writes),
// reads the reply, requires it to be a Status, and — on an Ok status —
// specializes it through cmd's own parser.
// 510/511/520 statuses pass through unspecialized. It is a free function
// rather than a method because Go methods cannot carry their own type
// parameters; R is supplied by the caller's concrete Command[R].
func SendCommand[R any](ctx context.Context, c *Connection, cmd command.Command[R]) (command.Response[R], error) {
	var zero command.Response[R]

	rendered := cmd.Render()
	if err := c.writeAll([]byte(rendered)); err != nil {
		return zero, &AGIError{Kind: ErrCannotSendCommand, Err: err}
	}
	c.logger.Debug("sent AGI command", zap.String("rendered", rendered))

	msg, err := c.ReadMessage(ctx)
	if err != nil {
		return zero, &AGIError{Kind: ErrParseError, Err: err}
	}
	if msg.Kind != MessageStatus {
		return zero, &AGIError{Kind: ErrNotAStatus}
	}

	status := msg.Status
	c.logger.Debug("received AGI status",
		zap.String("command", rendered),
		zap.Int("kind", int(status.Kind)),
		zap.String("result", status.Result),
	)

	switch status.Kind {
	case StatusOK:
		value, err := cmd.ParseOk(status.Result, status.OpData)
		if err != nil {
			return zero, &AGIError{Kind: ErrAGIStatusUnspecializable, Message: rendered, Err: err}
		}
		return command.NewOkResponse(value), nil
	case StatusInvalid:
		return command.NewInvalidResponse[R](), nil
	case StatusDeadChannel:
		return command.NewDeadChannelResponse[R](), nil
	case StatusEndUsage:
		return command.NewEndUsageResponse[R](), nil
	default:
		return zero, &AGIError{Kind: ErrNotAStatus}
	}
}
