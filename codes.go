// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import "strings"

// TransportCodePrefix namespaces the codes synthesized by the client.
//
// The server never sends a code with this prefix.
const TransportCodePrefix = "FETCH:"

// Fetch layer codes, synthesized locally by [*Transport] and [*Request].
const (
	// CodeNetworkError means the HTTP exchange failed. Data is null.
	CodeNetworkError = "FETCH:NetworkError"

	// CodeNotJSON means the body was not JSON. Data is the raw text.
	CodeNotJSON = "FETCH:NotJson"

	// CodeUnexpectedType means the body was JSON but not an envelope
	// of the expected shape. Data is the parsed JSON.
	CodeUnexpectedType = "FETCH:UnexpectedType"

	// CodeUnknownError means the transport itself failed unexpectedly.
	// Data is the error text.
	CodeUnknownError = "FETCH:UnknownError"
)

// JSON layer codes, sent by the server when it cannot handle a payload.
const (
	// CodeJSONPayloadTooLarge carries a [PayloadTooLarge] value.
	CodeJSONPayloadTooLarge = "JSON:PayloadTooLarge"

	CodeJSONInvalidContentType = "JSON:InvalidContentType"

	// The following three carry a string describing the failure.
	CodeJSONUnknownDeserializeError    = "JSON:UnknownDeserializeError"
	CodeJSONUnknownSerializeError      = "JSON:UnknownSerializeError"
	CodeJSONUnknownErrorReadingPayload = "JSON:UnknownErrorReadingPayload"

	CodeJSONUnknownError = "JSON:UnknownError"
)

// Auth layer codes.
const (
	CodeNoAuthToken      = "NoAuthToken"
	CodeBadAuthToken     = "BadAuthToken"
	CodeInvalidAuthToken = "InvalidAuthToken"
)

// Server layer codes.
const (
	CodeInternalServerError = "InternalServerError"
	CodeEndpointNotFound    = "EndpointNotFound"

	// CodeMethodNotAllowed carries "Permitted: GET, POST, ...".
	CodeMethodNotAllowed = "MethodNotAllowed"
)

// IsTransportCode reports whether code was synthesized by the client.
func IsTransportCode(code string) bool {
	return strings.HasPrefix(code, TransportCodePrefix)
}
