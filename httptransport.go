//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/httpslog/httpslog.go
//

package sdk

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/bassosimone/runtimex"
	"golang.org/x/net/http2"
)

// HTTPRoundTripper wraps an [http.RoundTripper] with structured logging.
//
// It emits httpRoundTripStart/httpRoundTripDone span events around each
// round trip and lazily wraps the response body to emit
// httpBodyStreamStart/httpBodyStreamDone events.
//
// The Authorization header is redacted in every logged header set.
//
// Construct using [NewHTTPRoundTripper].
type HTTPRoundTripper struct {
	// txp is the wrapped transport.
	txp http.RoundTripper

	// ErrClassifier classifies errors for structured logging.
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	TimeNow func() time.Time
}

// NewHTTPRoundTripper returns a new [*HTTPRoundTripper] wrapping txp.
func NewHTTPRoundTripper(cfg *Config, txp http.RoundTripper, logger SLogger) *HTTPRoundTripper {
	return &HTTPRoundTripper{
		txp:           txp,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

var _ http.RoundTripper = &HTTPRoundTripper{}

// RoundTrip implements [http.RoundTripper].
func (rt *HTTPRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	t0 := rt.TimeNow()
	deadline, _ := req.Context().Deadline()
	rt.logRoundTripStart(req, t0, deadline)

	resp, err := rt.txp.RoundTrip(req)

	rt.logRoundTripDone(req, t0, deadline, resp, err)
	if err != nil {
		return nil, err
	}

	resp.Body = httpBodyWrap(
		resp.Body,
		rt.ErrClassifier,
		rt.Logger,
		req.Method,
		req.URL.String(),
		rt.TimeNow,
	)
	return resp, nil
}

// CloseIdleConnections closes idle connections of the wrapped transport.
func (rt *HTTPRoundTripper) CloseIdleConnections() {
	type closeIdler interface {
		CloseIdleConnections()
	}
	if ci, ok := rt.txp.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

func (rt *HTTPRoundTripper) logRoundTripStart(req *http.Request, t0 time.Time, deadline time.Time) {
	rt.Logger.Info(
		"httpRoundTripStart",
		slog.Time("deadline", deadline),
		slog.String("httpMethod", req.Method),
		slog.String("httpUrl", req.URL.String()),
		slog.Any("httpRequestHeaders", redactHeaders(req.Header)),
		slog.Time("t", t0),
	)
}

func (rt *HTTPRoundTripper) logRoundTripDone(req *http.Request,
	t0 time.Time, deadline time.Time, resp *http.Response, err error) {
	var (
		statusCode int
		headers    http.Header
	)
	if resp != nil {
		statusCode = resp.StatusCode
		headers = resp.Header
	}
	rt.Logger.Info(
		"httpRoundTripDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", rt.ErrClassifier.Classify(err)),
		slog.String("httpMethod", req.Method),
		slog.String("httpUrl", req.URL.String()),
		slog.Any("httpRequestHeaders", redactHeaders(req.Header)),
		slog.Any("httpResponseHeaders", headers),
		slog.Int("httpResponseStatusCode", statusCode),
		slog.Time("t0", t0),
		slog.Time("t", rt.TimeNow()),
	)
}

// redactHeaders returns a copy of headers with credentials replaced.
func redactHeaders(headers http.Header) http.Header {
	if headers.Get("Authorization") == "" {
		return headers
	}
	out := headers.Clone()
	out.Set("Authorization", "[redacted]")
	return out
}

// NewHTTPClient builds the [*http.Client] used by [NewTransport] when
// [Config.HTTPClient] is nil.
//
// Connections are dialed through a [*ConnectFunc] composed with an
// [*ObserveConnFunc], HTTP/2 is enabled via [http2.ConfigureTransport],
// and every round trip goes through an [*HTTPRoundTripper].
func NewHTTPClient(cfg *Config, logger SLogger) *http.Client {
	dialPipe := Compose2[DialTarget, net.Conn, net.Conn](NewConnectFunc(cfg, logger), NewObserveConnFunc(cfg, logger))

	txp := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
			return dialPipe.Call(ctx, DialTarget{Network: network, Address: address})
		},
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	runtimex.Assert(http2.ConfigureTransport(txp) == nil)

	return &http.Client{
		Transport: NewHTTPRoundTripper(cfg, txp, logger),
		Timeout:   cfg.Timeout,
	}
}
