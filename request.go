// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bassosimone/runtimex"
)

// AnyKey is the registration key of the catch-all handler.
//
// The catch-all only runs when no other registered matcher accepts the code.
const AnyKey = "any"

// Matcher decides whether a handler applies to an error envelope.
type Matcher func(code string, data json.RawMessage) bool

// MatchCode returns a [Matcher] accepting exactly code.
func MatchCode(code string) Matcher {
	return func(got string, _ json.RawMessage) bool {
		return got == code
	}
}

// Handler reacts to an error envelope.
type Handler func(code string, data json.RawMessage)

// FallibleHandler reacts to an error envelope and may fail the send.
//
// A non-nil return value is returned by the send that dispatched to it.
type FallibleHandler func(code string, data json.RawMessage) error

// fallible adapts a [Handler] to a [FallibleHandler].
func fallible(h Handler) FallibleHandler {
	runtimex.Assert(h != nil)
	return func(code string, data json.RawMessage) error {
		h(code, data)
		return nil
	}
}

// Registrar is the registration surface the error groups build upon.
//
// [*Request] implements Registrar.
type Registrar interface {
	// Bind registers h under key, subject to [Registrar.WithoutOverwrite].
	Bind(key string, match Matcher, h FallibleHandler)

	// WithoutOverwrite runs fn with duplicate suppression active: any
	// registration inside fn whose key already exists is ignored.
	WithoutOverwrite(fn func())
}

// State is the lifecycle state of a [*Request].
type State int32

const (
	// StateUnsent means no send happened yet.
	StateUnsent State = iota

	// StatePending means the transport call is in flight.
	StatePending

	// StateResolved means the outcome is known and cached.
	StateResolved
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StateUnsent:
		return "unsent"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// registration is a (matcher, handler) pair stored under a key.
type registration struct {
	key    string
	match  Matcher
	handle FallibleHandler
}

// Request wraps one logical API call.
//
// The transport is invoked at most once per Request: the first send issues
// the call, concurrent sends wait for it, and later sends reuse the cached
// outcome. Each send then classifies that outcome again, so handlers
// registered between two sends affect the second dispatch.
//
// S is the type the server sends; R is the type callers receive after the
// map step. Handlers are matched in registration order and at most one
// runs per dispatch.
//
// Registration must not happen concurrently with a send.
type Request[S, R any] struct {
	// Logger is the [SLogger] to use.
	//
	// Set by the constructors to the user-provided logger.
	Logger SLogger

	call    Func[Unit, *Envelope[S]]
	mapFull func(*Envelope[S]) *Envelope[R]

	once    sync.Once
	state   atomic.Int32
	outcome *Envelope[S]

	entries      []registration
	index        map[string]int
	keepExisting int
}

// NewRequest returns a [*Request] delivering the server payload unchanged.
func NewRequest[S any](call Func[Unit, *Envelope[S]], logger SLogger) *Request[S, S] {
	return newRequest(call, func(env *Envelope[S]) *Envelope[S] {
		return env
	}, logger)
}

// NewMappedRequest returns a [*Request] applying mapFn to success payloads.
func NewMappedRequest[S, R any](
	call Func[Unit, *Envelope[S]], mapFn func(S) R, logger SLogger) *Request[S, R] {
	runtimex.Assert(mapFn != nil)
	return newRequest(call, func(env *Envelope[S]) *Envelope[R] {
		if env.Error {
			return &Envelope[R]{Error: true, Code: env.Code, ErrorData: env.ErrorData, Text: env.Text}
		}
		return Success(mapFn(env.Data))
	}, logger)
}

// NewFullMappedRequest returns a [*Request] applying mapFull to whole envelopes.
//
// The mapping may turn a success into an error or the other way around,
// which lets an endpoint wrapper reclassify server outcomes. It must
// not return nil.
func NewFullMappedRequest[S, R any](
	call Func[Unit, *Envelope[S]], mapFull func(*Envelope[S]) *Envelope[R], logger SLogger) *Request[S, R] {
	runtimex.Assert(mapFull != nil)
	return newRequest(call, mapFull, logger)
}

func newRequest[S, R any](
	call Func[Unit, *Envelope[S]], mapFull func(*Envelope[S]) *Envelope[R], logger SLogger) *Request[S, R] {
	runtimex.Assert(call != nil)
	return &Request[S, R]{
		Logger:  logger,
		call:    call,
		mapFull: mapFull,
		index:   make(map[string]int),
	}
}

var _ Registrar = &Request[Unit, Unit]{}

// State returns the current lifecycle state.
func (r *Request[S, R]) State() State {
	return State(r.state.Load())
}

// Register registers h for the given code, using the code as key.
func (r *Request[S, R]) Register(code string, h Handler) *Request[S, R] {
	return r.RegisterCode(code, code, h)
}

// RegisterCode registers h under key for the given code.
func (r *Request[S, R]) RegisterCode(key, code string, h Handler) *Request[S, R] {
	return r.RegisterMatch(key, MatchCode(code), h)
}

// RegisterMatch registers h under key for every code match accepts.
func (r *Request[S, R]) RegisterMatch(key string, match Matcher, h Handler) *Request[S, R] {
	r.Bind(key, match, fallible(h))
	return r
}

// Bind implements [Registrar].
//
// Registering an existing key replaces its matcher and handler but keeps
// the original position in the dispatch order.
func (r *Request[S, R]) Bind(key string, match Matcher, h FallibleHandler) {
	runtimex.Assert(match != nil && h != nil)
	entry := registration{key: key, match: match, handle: h}
	if idx, found := r.index[key]; found {
		if r.keepExisting <= 0 {
			r.entries[idx] = entry
		}
		return
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, entry)
}

// WithoutOverwrite implements [Registrar].
func (r *Request[S, R]) WithoutOverwrite(fn func()) {
	r.keepExisting++
	defer func() { r.keepExisting-- }()
	fn()
}

// Send resolves the request and returns the mapped payload.
//
// On success it returns the payload and true. On failure it dispatches to
// at most one handler and returns false together with the handler's error,
// an [*UnhandledError] when nothing accepted the code, or nil.
func (r *Request[S, R]) Send(ctx context.Context) (R, bool, error) {
	env := r.mapped(r.resolve(ctx))
	if !env.Error {
		return env.Data, true, nil
	}
	var zero R
	return zero, false, r.dispatch(env.Code, env.ErrorData)
}

// SendRaw is like [Request.Send] but skips the map step.
func (r *Request[S, R]) SendRaw(ctx context.Context) (S, bool, error) {
	env := r.resolve(ctx)
	if !env.Error {
		return env.Data, true, nil
	}
	var zero S
	return zero, false, r.dispatch(env.Code, env.ErrorData)
}

// SendFull resolves the request and returns the mapped envelope
// without dispatching to any handler.
func (r *Request[S, R]) SendFull(ctx context.Context) *Envelope[R] {
	env := *r.mapped(r.resolve(ctx))
	return &env
}

// SendFullRaw resolves the request and returns the envelope produced by
// the transport, without mapping or dispatching.
func (r *Request[S, R]) SendFullRaw(ctx context.Context) *Envelope[S] {
	env := *r.resolve(ctx)
	return &env
}

func (r *Request[S, R]) mapped(env *Envelope[S]) *Envelope[R] {
	out := r.mapFull(env)
	runtimex.Assert(out != nil)
	return out
}

// resolve returns the cached outcome, invoking the transport on first use.
//
// The context of the first sender governs the physical call.
func (r *Request[S, R]) resolve(ctx context.Context) *Envelope[S] {
	r.once.Do(func() {
		r.state.Store(int32(StatePending))
		r.outcome = r.invoke(ctx)
		r.state.Store(int32(StateResolved))
	})
	return r.outcome
}

// invoke calls the transport, turning defects into [CodeUnknownError].
func (r *Request[S, R]) invoke(ctx context.Context) (env *Envelope[S]) {
	defer func() {
		if p := recover(); p != nil {
			env = r.defect(fmt.Errorf("transport panic: %v", p))
		}
	}()
	var err error
	env, err = r.call.Call(ctx, Unit{})
	switch {
	case err != nil:
		return r.defect(err)
	case env == nil:
		return r.defect(errors.New("transport returned no envelope"))
	default:
		return env
	}
}

func (r *Request[S, R]) defect(err error) *Envelope[S] {
	r.Logger.Warn(
		"requestDefect",
		slog.String("code", CodeUnknownError),
		slog.Any("err", err),
	)
	return Failure[S](CodeUnknownError, err.Error())
}

// dispatch runs at most one handler for the given error.
func (r *Request[S, R]) dispatch(code string, data json.RawMessage) error {
	for _, entry := range r.entries {
		if entry.key == AnyKey {
			continue
		}
		if entry.match(code, data) {
			r.logDispatch(entry.key, code)
			return entry.handle(code, data)
		}
	}

	if idx, found := r.index[AnyKey]; found {
		r.logDispatch(AnyKey, code)
		return r.entries[idx].handle(code, data)
	}

	r.Logger.Warn(
		"requestUnhandled",
		slog.String("code", code),
		slog.String("data", string(data)),
	)
	return &UnhandledError{Code: code, Data: data}
}

func (r *Request[S, R]) logDispatch(key, code string) {
	r.Logger.Info(
		"requestDispatch",
		slog.String("code", code),
		slog.String("handler", key),
		slog.Bool("transportCode", IsTransportCode(code)),
	)
}
