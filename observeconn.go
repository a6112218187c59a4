//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/ooni/probe-cli/blob/v3.20.1/internal/measurexlite/conn.go
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/conn.go
//

package sdk

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bassosimone/safeconn"
)

// NewObserveConnFunc returns a new [*ObserveConnFunc] with default logging.
//
// The cfg argument contains the common configuration for SDK operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewObserveConnFunc(cfg *Config, logger SLogger) *ObserveConnFunc {
	return &ObserveConnFunc{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// ObserveConnFunc wraps a [net.Conn] so that reads, writes, and deadline
// changes are logged at [slog.LevelDebug] and close is logged at
// [slog.LevelInfo].
//
// Connections handed to [*http.Transport] are pooled and may outlive the
// request that dialed them, hence the wrapper never looks at the context.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ObserveConnFunc struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewObserveConnFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewObserveConnFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewObserveConnFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[net.Conn, net.Conn] = &ObserveConnFunc{}

// Call wraps conn; it never fails.
func (op *ObserveConnFunc) Call(ctx context.Context, conn net.Conn) (net.Conn, error) {
	observed := &observedConn{
		Conn: conn,
		addrs: []any{
			slog.String("localAddr", safeconn.LocalAddr(conn)),
			slog.String("protocol", safeconn.Network(conn)),
			slog.String("remoteAddr", safeconn.RemoteAddr(conn)),
		},
		op: op,
	}
	return observed, nil
}

// observedConn observes a [net.Conn].
type observedConn struct {
	net.Conn

	// addrs holds the connection metadata attached to every event.
	addrs []any

	closeOnce sync.Once
	op        *ObserveConnFunc
}

// event emits msg with the connection metadata plus extra attributes.
func (c *observedConn) event(log func(string, ...any), msg string, extra ...any) {
	args := make([]any, 0, len(c.addrs)+len(extra)+1)
	args = append(args, extra...)
	args = append(args, c.addrs...)
	args = append(args, slog.Time("t", c.op.TimeNow()))
	log(msg, args...)
}

// Close implements [net.Conn].
//
// Subsequent calls return [net.ErrClosed], consistent with Go's standard
// library behavior for closed connections.
func (c *observedConn) Close() error {
	err := net.ErrClosed
	c.closeOnce.Do(func() {
		t0 := c.op.TimeNow()
		c.event(c.op.Logger.Info, "closeStart")
		err = c.Conn.Close()
		c.event(c.op.Logger.Info, "closeDone",
			slog.Any("err", err),
			slog.String("errClass", c.op.ErrClassifier.Classify(err)),
			slog.Time("t0", t0),
		)
	})
	return err
}

// Read implements [net.Conn].
func (c *observedConn) Read(buf []byte) (int, error) {
	t0 := c.op.TimeNow()
	c.event(c.op.Logger.Debug, "readStart", slog.Int("ioBufferSize", len(buf)))
	count, err := c.Conn.Read(buf)
	c.event(c.op.Logger.Debug, "readDone",
		slog.Int("ioBytesCount", count),
		slog.Any("err", err),
		slog.String("errClass", c.op.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
	)
	return count, err
}

// Write implements [net.Conn].
func (c *observedConn) Write(data []byte) (int, error) {
	t0 := c.op.TimeNow()
	c.event(c.op.Logger.Debug, "writeStart", slog.Int("ioBufferSize", len(data)))
	count, err := c.Conn.Write(data)
	c.event(c.op.Logger.Debug, "writeDone",
		slog.Int("ioBytesCount", count),
		slog.Any("err", err),
		slog.String("errClass", c.op.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
	)
	return count, err
}

// SetDeadline implements [net.Conn].
func (c *observedConn) SetDeadline(t time.Time) error {
	c.event(c.op.Logger.Debug, "setDeadline", slog.Time("deadline", t))
	return c.Conn.SetDeadline(t)
}

// SetReadDeadline implements [net.Conn].
func (c *observedConn) SetReadDeadline(t time.Time) error {
	c.event(c.op.Logger.Debug, "setReadDeadline", slog.Time("deadline", t))
	return c.Conn.SetReadDeadline(t)
}

// SetWriteDeadline implements [net.Conn].
func (c *observedConn) SetWriteDeadline(t time.Time) error {
	c.event(c.op.Logger.Debug, "setWriteDeadline", slog.Time("deadline", t))
	return c.Conn.SetWriteDeadline(t)
}
