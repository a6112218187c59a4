// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Method is an HTTP method accepted by [*Transport].
type Method string

// The methods a [Call] may use.
const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodDelete  Method = http.MethodDelete
	MethodPatch   Method = http.MethodPatch
	MethodHead    Method = http.MethodHead
	MethodConnect Method = http.MethodConnect
	MethodOptions Method = http.MethodOptions
	MethodTrace   Method = http.MethodTrace
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
		MethodHead, MethodConnect, MethodOptions, MethodTrace:
		return true
	default:
		return false
	}
}

// Call describes a single API call.
type Call struct {
	// Method is the HTTP method.
	Method Method

	// URI is appended verbatim to [Transport.Endpoint].
	URI string

	// Body, when not nil, is serialized as the JSON request body.
	Body any

	// AuthToken, when not empty, is sent as a bearer token.
	AuthToken string
}

// CallOption customizes a [Call] built by [Fetch].
type CallOption func(*Call)

// WithBody sets [Call.Body].
func WithBody(body any) CallOption {
	return func(c *Call) {
		c.Body = body
	}
}

// WithAuthToken sets [Call.AuthToken].
func WithAuthToken(token string) CallOption {
	return func(c *Call) {
		c.AuthToken = token
	}
}

// Transport performs API calls and normalizes every outcome into an [*Envelope].
//
// Use [NewTransportFunc] or [Fetch] to obtain typed operations.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls.
type Transport struct {
	// Client performs the HTTP exchange.
	//
	// Set by [NewTransport] from [Config.HTTPClient] or [NewHTTPClient].
	Client HTTPClient

	// Endpoint is the base address.
	//
	// Set by [NewTransport] from [Config.Endpoint].
	Endpoint string

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewTransport] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewTransport] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewTransport] from [Config.TimeNow].
	TimeNow func() time.Time

	// UserAgent is the User-Agent header value.
	//
	// Set by [NewTransport] from [Config.UserAgent].
	UserAgent string
}

// NewTransport returns a new [*Transport].
//
// The cfg argument contains the common configuration for SDK operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewTransport(cfg *Config, logger SLogger) *Transport {
	client := cfg.HTTPClient
	if client == nil {
		client = NewHTTPClient(cfg, logger)
	}
	return &Transport{
		Client:        client,
		Endpoint:      cfg.Endpoint,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
		UserAgent:     cfg.UserAgent,
	}
}

// TransportFunc performs a [*Call] and decodes the success payload as S.
//
// Every modeled failure becomes an error [*Envelope]:
//   - [CodeNetworkError] when the exchange or the body read fails;
//   - [CodeNotJSON] when the body does not parse as JSON;
//   - [CodeUnexpectedType] when the JSON is not an envelope, or its
//     success payload does not decode as S.
//
// A non-nil error is returned only for malformed calls (invalid method,
// unserializable body, unparseable URL), which are caller defects.
//
// The server-provided envelope is otherwise trusted: no schema
// validation happens beyond JSON decoding.
type TransportFunc[S any] struct {
	Transport *Transport
}

// NewTransportFunc returns a new [*TransportFunc] bound to t.
func NewTransportFunc[S any](t *Transport) *TransportFunc[S] {
	return &TransportFunc[S]{Transport: t}
}

var _ Func[*Call, *Envelope[json.RawMessage]] = &TransportFunc[json.RawMessage]{}

// Call implements [Func].
func (op *TransportFunc[S]) Call(ctx context.Context, call *Call) (*Envelope[S], error) {
	t := op.Transport
	spanID := NewSpanID()
	t0 := t.TimeNow()
	t.logStart(spanID, call, t0)

	req, reqBody, err := t.newRequest(ctx, call)
	if err != nil {
		t.logDone(spanID, call, t0, "", err)
		return nil, err
	}

	text, err := t.exchange(req)
	if err != nil {
		t.logDone(spanID, call, t0, CodeNetworkError, err)
		return Failure[S](CodeNetworkError, nil), nil
	}

	env := decodeEnvelope[S](text)
	if env.Code == CodeNotJSON {
		t.logNotJSON(spanID, call, reqBody, text)
	}
	t.logDone(spanID, call, t0, env.Code, nil)
	return env, nil
}

// Fetch binds a call to a [*TransportFunc] so that the result can own
// a [*Request] via [NewRequest] and friends.
func Fetch[S any](t *Transport, method Method, uri string, opts ...CallOption) Func[Unit, *Envelope[S]] {
	call := &Call{Method: method, URI: uri}
	for _, opt := range opts {
		opt(call)
	}
	return Apply[*Call, *Envelope[S]](NewTransportFunc[S](t), call)
}

func (t *Transport) newRequest(ctx context.Context, call *Call) (*http.Request, []byte, error) {
	if !call.Method.Valid() {
		return nil, nil, fmt.Errorf("transport: unsupported method %q", call.Method)
	}

	var (
		reqBody []byte
		reader  io.Reader = http.NoBody
	)
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("transport: encode body: %w", err)
		}
		reqBody = data
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, string(call.Method), t.Endpoint+call.URI, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("transport: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	if call.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+call.AuthToken)
	}
	return req, reqBody, nil
}

// exchange performs the round trip and reads the whole body as text.
func (t *Transport) exchange(req *http.Request) ([]byte, error) {
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// decodeEnvelope classifies the response text.
func decodeEnvelope[S any](text []byte) *Envelope[S] {
	if !json.Valid(text) {
		env := Failure[S](CodeNotJSON, string(text))
		env.Text = text
		return env
	}
	env := &Envelope[S]{}
	if err := json.Unmarshal(text, env); err != nil {
		var compact bytes.Buffer
		_ = json.Compact(&compact, text)
		return Failure[S](CodeUnexpectedType, json.RawMessage(compact.Bytes()))
	}
	return env
}

func (t *Transport) logStart(spanID string, call *Call, t0 time.Time) {
	t.Logger.Info(
		"transportStart",
		slog.String("httpMethod", string(call.Method)),
		slog.String("spanID", spanID),
		slog.String("uri", call.URI),
		slog.Time("t", t0),
	)
}

func (t *Transport) logDone(spanID string, call *Call, t0 time.Time, code string, err error) {
	t.Logger.Info(
		"transportDone",
		slog.String("code", code),
		slog.Any("err", err),
		slog.String("errClass", t.ErrClassifier.Classify(err)),
		slog.String("httpMethod", string(call.Method)),
		slog.String("spanID", spanID),
		slog.String("uri", call.URI),
		slog.Time("t0", t0),
		slog.Time("t", t.TimeNow()),
	)
}

func (t *Transport) logNotJSON(spanID string, call *Call, reqBody []byte, text []byte) {
	t.Logger.Warn(
		"transportNotJson",
		slog.String("httpMethod", string(call.Method)),
		slog.String("requestBody", string(reqBody)),
		slog.String("responseBody", string(text)),
		slog.String("spanID", spanID),
		slog.String("uri", call.URI),
	)
}
