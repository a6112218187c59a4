//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/ooni/probe-cli/blob/v3.20.1/internal/netxlite/dialer.go
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/dialer.go
//

package sdk

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/bassosimone/safeconn"
)

// Dialer abstracts the [*net.Dialer] behavior.
//
// By making [*ConnectFunc] depend on an abstract implementation we
// allow for unit testing and for using alternative dialers.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// DialTarget is what [*http.Transport] asks a dial function to reach.
type DialTarget struct {
	// Network is the network to use (e.g., "tcp").
	Network string

	// Address is the "host:port" to connect to.
	Address string
}

// NewConnectFunc returns a new [*ConnectFunc] with the configured dialer.
//
// The cfg argument contains the common configuration for SDK operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewConnectFunc(cfg *Config, logger SLogger) *ConnectFunc {
	return &ConnectFunc{
		Dialer:        cfg.Dialer,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// ConnectFunc dials a [DialTarget].
//
// Returns either a valid [net.Conn] or an error, never both.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ConnectFunc struct {
	// Dialer is the [Dialer] to use.
	//
	// Set by [NewConnectFunc] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConnectFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewConnectFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewConnectFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[DialTarget, net.Conn] = &ConnectFunc{}

// Call connects to the given [DialTarget].
func (op *ConnectFunc) Call(ctx context.Context, target DialTarget) (net.Conn, error) {
	t0 := op.TimeNow()
	deadline, _ := ctx.Deadline()
	op.logConnectStart(target, t0, deadline)
	conn, err := op.Dialer.DialContext(ctx, target.Network, target.Address)
	op.logConnectDone(target, t0, deadline, conn, err)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (op *ConnectFunc) logConnectStart(target DialTarget, t0 time.Time, deadline time.Time) {
	op.Logger.Info(
		"connectStart",
		slog.Time("deadline", deadline),
		slog.String("protocol", target.Network),
		slog.String("remoteAddr", target.Address),
		slog.Time("t", t0),
	)
}

func (op *ConnectFunc) logConnectDone(
	target DialTarget, t0 time.Time, deadline time.Time, conn net.Conn, err error) {
	op.Logger.Info(
		"connectDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", op.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(conn)),
		slog.String("protocol", target.Network),
		slog.String("remoteAddr", target.Address),
		slog.Time("t0", t0),
		slog.Time("t", op.TimeNow()),
	)
}
