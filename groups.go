// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"encoding/json"
	"strings"
)

// TypedHandler reacts to an error whose payload decodes as V.
type TypedHandler[V any] func(code string, value V)

// Typed adapts a [TypedHandler] to a [Handler].
//
// The payload is decoded on a best-effort basis: when it does not decode
// as V, the handler receives the zero value.
func Typed[V any](h TypedHandler[V]) Handler {
	return func(code string, data json.RawMessage) {
		var value V
		_ = json.Unmarshal(data, &value)
		h(code, value)
	}
}

// PayloadTooLarge is the payload of [CodeJSONPayloadTooLarge].
type PayloadTooLarge struct {
	// Length is the declared body length, when the client sent one.
	Length *int `json:"length,omitempty"`

	// Limit is the maximum accepted body length.
	Limit int `json:"limit"`
}

// ParsePermittedMethods turns the [CodeMethodNotAllowed] payload
// "Permitted: GET, POST" into []string{"GET", "POST"}.
func ParsePermittedMethods(data string) []string {
	return strings.Split(strings.TrimPrefix(data, "Permitted: "), ", ")
}

// binder attaches handlers to a [Registrar] and returns the chain value.
type binder[T any] struct {
	reg  Registrar
	self T
}

func (b binder[T]) bind(code string, h Handler) T {
	b.reg.Bind(code, MatchCode(code), fallible(h))
	return b.self
}

func (b binder[T]) umbrella(fn func()) T {
	b.reg.WithoutOverwrite(fn)
	return b.self
}

// ErrorGroups bundles every error group for an endpoint wrapper of type T.
//
// Embed it next to the [*Request] in the wrapper struct:
//
//	type Login struct {
//		*sdk.Request[LoginResponse, LoginResponse]
//		sdk.ErrorGroups[*Login]
//	}
type ErrorGroups[T any] struct {
	AnyErrors[T]
	FetchErrors[T]
	JSONErrors[T]
	AuthErrors[T]
	ServerErrors[T]
}

// NewErrorGroups returns all the groups registering on reg and chaining self.
func NewErrorGroups[T any](reg Registrar, self T) ErrorGroups[T] {
	return ErrorGroups[T]{
		AnyErrors:    NewAnyErrors(reg, self),
		FetchErrors:  NewFetchErrors(reg, self),
		JSONErrors:   NewJSONErrors(reg, self),
		AuthErrors:   NewAuthErrors(reg, self),
		ServerErrors: NewServerErrors(reg, self),
	}
}

// AnyErrors registers the catch-all handler.
type AnyErrors[T any] struct {
	binder[T]
}

// NewAnyErrors returns [AnyErrors] registering on reg and chaining self.
func NewAnyErrors[T any](reg Registrar, self T) AnyErrors[T] {
	return AnyErrors[T]{binder[T]{reg, self}}
}

// OnError runs h for any error no other handler accepts.
func (g AnyErrors[T]) OnError(h Handler) T {
	g.reg.Bind(AnyKey, MatchCode(AnyKey), fallible(h))
	return g.self
}

// EmptyOnError ignores any error no other handler accepts.
func (g AnyErrors[T]) EmptyOnError() T {
	return g.OnError(func(string, json.RawMessage) {})
}

// ThrowOnError makes the send fail with a [*ThrownError] for any error no
// other handler accepts.
func (g AnyErrors[T]) ThrowOnError() T {
	g.reg.Bind(AnyKey, MatchCode(AnyKey), func(code string, data json.RawMessage) error {
		return &ThrownError{Code: code, Data: data}
	})
	return g.self
}

// FetchErrors registers handlers for the codes synthesized by the client.
type FetchErrors[T any] struct {
	binder[T]
}

// NewFetchErrors returns [FetchErrors] registering on reg and chaining self.
func NewFetchErrors[T any](reg Registrar, self T) FetchErrors[T] {
	return FetchErrors[T]{binder[T]{reg, self}}
}

// OnNetworkError handles [CodeNetworkError].
func (g FetchErrors[T]) OnNetworkError(h Handler) T {
	return g.bind(CodeNetworkError, h)
}

// OnReturnsNotJSON handles [CodeNotJSON]; h receives the response text.
//
// Bytes that are not valid UTF-8 read as U+FFFD; [Envelope.Text] keeps them.
func (g FetchErrors[T]) OnReturnsNotJSON(h TypedHandler[string]) T {
	return g.bind(CodeNotJSON, Typed(h))
}

// OnReturnsUnexpectedType handles [CodeUnexpectedType]; h receives the parsed JSON.
func (g FetchErrors[T]) OnReturnsUnexpectedType(h Handler) T {
	return g.bind(CodeUnexpectedType, h)
}

// OnReturnsUnknownError handles [CodeUnknownError]; h receives the error text.
func (g FetchErrors[T]) OnReturnsUnknownError(h TypedHandler[string]) T {
	return g.bind(CodeUnknownError, Typed(h))
}

// OnFetchError handles every fetch code not handled yet.
func (g FetchErrors[T]) OnFetchError(h Handler) T {
	return g.umbrella(func() {
		g.OnNetworkError(h)
		g.bind(CodeNotJSON, h)
		g.OnReturnsUnexpectedType(h)
		g.bind(CodeUnknownError, h)
	})
}

// JSONErrors registers handlers for the server's payload codes.
type JSONErrors[T any] struct {
	binder[T]
}

// NewJSONErrors returns [JSONErrors] registering on reg and chaining self.
func NewJSONErrors[T any](reg Registrar, self T) JSONErrors[T] {
	return JSONErrors[T]{binder[T]{reg, self}}
}

// OnJSONPayloadTooLarge handles [CodeJSONPayloadTooLarge].
func (g JSONErrors[T]) OnJSONPayloadTooLarge(h TypedHandler[PayloadTooLarge]) T {
	return g.bind(CodeJSONPayloadTooLarge, Typed(h))
}

// OnJSONInvalidContentType handles [CodeJSONInvalidContentType].
func (g JSONErrors[T]) OnJSONInvalidContentType(h Handler) T {
	return g.bind(CodeJSONInvalidContentType, h)
}

// OnJSONUnknownDeserializeError handles [CodeJSONUnknownDeserializeError].
func (g JSONErrors[T]) OnJSONUnknownDeserializeError(h TypedHandler[string]) T {
	return g.bind(CodeJSONUnknownDeserializeError, Typed(h))
}

// OnJSONUnknownSerializeError handles [CodeJSONUnknownSerializeError].
func (g JSONErrors[T]) OnJSONUnknownSerializeError(h TypedHandler[string]) T {
	return g.bind(CodeJSONUnknownSerializeError, Typed(h))
}

// OnJSONUnknownErrorReadingPayload handles [CodeJSONUnknownErrorReadingPayload].
func (g JSONErrors[T]) OnJSONUnknownErrorReadingPayload(h TypedHandler[string]) T {
	return g.bind(CodeJSONUnknownErrorReadingPayload, Typed(h))
}

// OnJSONUnknownError handles [CodeJSONUnknownError].
func (g JSONErrors[T]) OnJSONUnknownError(h Handler) T {
	return g.bind(CodeJSONUnknownError, h)
}

// OnJSONError handles every JSON code not handled yet.
func (g JSONErrors[T]) OnJSONError(h Handler) T {
	return g.umbrella(func() {
		g.bind(CodeJSONPayloadTooLarge, h)
		g.OnJSONInvalidContentType(h)
		g.bind(CodeJSONUnknownDeserializeError, h)
		g.bind(CodeJSONUnknownSerializeError, h)
		g.bind(CodeJSONUnknownErrorReadingPayload, h)
		g.OnJSONUnknownError(h)
	})
}

// AuthErrors registers handlers for authentication codes.
type AuthErrors[T any] struct {
	binder[T]
}

// NewAuthErrors returns [AuthErrors] registering on reg and chaining self.
func NewAuthErrors[T any](reg Registrar, self T) AuthErrors[T] {
	return AuthErrors[T]{binder[T]{reg, self}}
}

// OnNoAuthToken handles [CodeNoAuthToken].
func (g AuthErrors[T]) OnNoAuthToken(h Handler) T {
	return g.bind(CodeNoAuthToken, h)
}

// OnBadAuthToken handles [CodeBadAuthToken].
func (g AuthErrors[T]) OnBadAuthToken(h Handler) T {
	return g.bind(CodeBadAuthToken, h)
}

// OnInvalidAuthToken handles [CodeInvalidAuthToken].
func (g AuthErrors[T]) OnInvalidAuthToken(h Handler) T {
	return g.bind(CodeInvalidAuthToken, h)
}

// OnAuthError handles every auth code not handled yet.
func (g AuthErrors[T]) OnAuthError(h Handler) T {
	return g.umbrella(func() {
		g.OnNoAuthToken(h)
		g.OnBadAuthToken(h)
		g.OnInvalidAuthToken(h)
	})
}

// ServerErrors registers handlers for generic server codes.
type ServerErrors[T any] struct {
	binder[T]
}

// NewServerErrors returns [ServerErrors] registering on reg and chaining self.
func NewServerErrors[T any](reg Registrar, self T) ServerErrors[T] {
	return ServerErrors[T]{binder[T]{reg, self}}
}

// OnInternalServerError handles [CodeInternalServerError].
func (g ServerErrors[T]) OnInternalServerError(h Handler) T {
	return g.bind(CodeInternalServerError, h)
}

// OnEndpointNotFound handles [CodeEndpointNotFound].
func (g ServerErrors[T]) OnEndpointNotFound(h Handler) T {
	return g.bind(CodeEndpointNotFound, h)
}

// OnMethodNotAllowed handles [CodeMethodNotAllowed]; h receives the
// permitted methods as parsed by [ParsePermittedMethods].
func (g ServerErrors[T]) OnMethodNotAllowed(h TypedHandler[[]string]) T {
	return g.bind(CodeMethodNotAllowed, Typed[string](func(code string, permitted string) {
		h(code, ParsePermittedMethods(permitted))
	}))
}

// OnServerError handles every server code not handled yet.
//
// For [CodeMethodNotAllowed], h receives the permitted methods as a JSON
// array, as parsed by [ParsePermittedMethods].
func (g ServerErrors[T]) OnServerError(h Handler) T {
	return g.umbrella(func() {
		g.OnInternalServerError(h)
		g.OnEndpointNotFound(h)
		g.OnMethodNotAllowed(func(code string, methods []string) {
			raw, _ := json.Marshal(methods)
			h(code, raw)
		})
	})
}
