// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotEnvelope indicates that a JSON value is not a response envelope.
var ErrNotEnvelope = errors.New("not an envelope")

// jsonNull is the encoding of an absent error payload.
var jsonNull = json.RawMessage("null")

// Envelope is a parsed server response.
//
// Exactly one variant is active. In the success variant Error is false,
// Code is empty, and Data holds the payload. In the error variant Error
// is true, Code is a non-empty machine-readable identifier, and ErrorData
// holds the code-specific payload as raw JSON (null when absent).
//
// The wire encoding is:
//
//	{"error": false, "data": <T>}
//	{"error": true, "code": "<string>", "data": <any>}
//
// Envelopes are immutable once produced by a transport.
type Envelope[T any] struct {
	Error     bool
	Code      string
	Data      T
	ErrorData json.RawMessage

	// Text is the verbatim response body of a [CodeNotJSON] error.
	//
	// ErrorData carries the same text as a JSON string, which cannot hold
	// bytes that are not valid UTF-8. Text is never encoded on the wire.
	Text []byte
}

// Success returns a success [*Envelope] carrying data.
func Success[T any](data T) *Envelope[T] {
	return &Envelope[T]{Data: data}
}

// Failure returns an error [*Envelope] with the given code and payload.
//
// A nil data becomes JSON null; a [json.RawMessage] is used verbatim;
// anything else is marshaled, falling back to its string form when it
// cannot be represented as JSON.
func Failure[T any](code string, data any) *Envelope[T] {
	return &Envelope[T]{Error: true, Code: code, ErrorData: encodeErrorData(data)}
}

func encodeErrorData(data any) json.RawMessage {
	switch value := data.(type) {
	case nil:
		return jsonNull
	case json.RawMessage:
		if len(value) == 0 {
			return jsonNull
		}
		return value
	}
	raw, err := marshalVerbatim(data)
	if err != nil {
		raw, _ = marshalVerbatim(fmt.Sprint(data))
	}
	return raw
}

// marshalVerbatim is like [json.Marshal] without escaping HTML characters.
func marshalVerbatim(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeErrorData unmarshals the error payload into v.
func (e *Envelope[T]) DecodeErrorData(v any) error {
	if !e.Error {
		return fmt.Errorf("decode error data: envelope is a success")
	}
	data := e.ErrorData
	if len(data) == 0 {
		data = jsonNull
	}
	return json.Unmarshal(data, v)
}

// wireEnvelope is the decoding view of the wire format.
type wireEnvelope struct {
	Error   *bool           `json:"error"`
	Code    *string         `json:"code"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// MarshalJSON implements [json.Marshaler].
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	if e.Error {
		data := e.ErrorData
		if len(data) == 0 {
			data = jsonNull
		}
		return json.Marshal(struct {
			Error bool            `json:"error"`
			Code  string          `json:"code"`
			Data  json.RawMessage `json:"data"`
		}{true, e.Code, data})
	}
	return json.Marshal(struct {
		Error bool `json:"error"`
		Data  T    `json:"data"`
	}{false, e.Data})
}

// UnmarshalJSON implements [json.Unmarshaler].
//
// Values that are not objects, or objects lacking a boolean "error" key, or
// error objects lacking a code fail with an error wrapping [ErrNotEnvelope].
// Older servers named the code field "message": it is accepted when "code"
// is absent.
func (e *Envelope[T]) UnmarshalJSON(data []byte) error {
	var wire wireEnvelope
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %w", ErrNotEnvelope, err)
	}
	if wire.Error == nil {
		return fmt.Errorf("%w: missing boolean error key", ErrNotEnvelope)
	}

	if *wire.Error {
		code := wire.Code
		if code == nil {
			code = wire.Message
		}
		if code == nil || *code == "" {
			return fmt.Errorf("%w: error envelope without code", ErrNotEnvelope)
		}
		*e = Envelope[T]{Error: true, Code: *code, ErrorData: encodeErrorData(wire.Data)}
		return nil
	}

	var payload T
	if len(wire.Data) > 0 && !bytes.Equal(wire.Data, jsonNull) {
		if err := json.Unmarshal(wire.Data, &payload); err != nil {
			return fmt.Errorf("decode envelope data: %w", err)
		}
	}
	*e = Envelope[T]{Data: payload}
	return nil
}
