// SPDX-License-Identifier: GPL-3.0-or-later

// Package sdk is a client for the campfire JSON API that makes every
// failure mode of an endpoint an explicit, typed handler slot.
//
// # Envelopes
//
// Every server response is an [Envelope]: either a success carrying a
// payload, or an error carrying a code and a code-specific payload:
//
//	{"error": false, "data": ...}
//	{"error": true, "code": "NoAuthToken", "data": null}
//
// The client synthesizes its own codes, all prefixed with "FETCH:", when the
// exchange fails ([CodeNetworkError]), the body is not JSON ([CodeNotJSON]),
// the JSON is not an envelope ([CodeUnexpectedType]), or the transport
// itself misbehaves ([CodeUnknownError]).
//
// # Core Abstraction
//
// The transport is a [Func]:
//
//	type Func[A, B any] interface {
//		Call(ctx context.Context, input A) (B, error)
//	}
//
// [TransportFunc] performs a [*Call] and never fails for modeled outcomes.
// [Fetch] binds a call into a Func[Unit, *Envelope[S]], which a [*Request]
// owns and invokes at most once.
//
// # Requests
//
// A [*Request] goes through three states: [StateUnsent], [StatePending],
// and [StateResolved]. Before sending, callers register handlers keyed by
// name; the send then either returns the (optionally mapped) payload or
// dispatches the error to at most one handler:
//
//  1. handlers are tried in registration order, skipping [AnyKey];
//  2. the first matching handler runs and dispatch stops;
//  3. otherwise the [AnyKey] handler runs, when registered;
//  4. otherwise the send fails with an [*UnhandledError].
//
// The four send modes are [Request.Send], [Request.SendRaw],
// [Request.SendFull], and [Request.SendFullRaw].
//
// # Error Groups
//
// [FetchErrors], [JSONErrors], [AuthErrors], [ServerErrors], and [AnyErrors]
// register fixed codes fluently. Each group also provides an umbrella
// method (e.g., [AuthErrors.OnAuthError]) registering one handler for the
// whole group without overwriting handlers registered before it. The
// api subpackage builds per-endpoint wrappers on top of [ErrorGroups].
//
// # Observability
//
// All primitives support structured logging via [SLogger] (compatible with
// [log/slog]). By default, logging is disabled.
//
// Span events come in *Start/*Done pairs: transportStart/transportDone,
// httpRoundTripStart/httpRoundTripDone, connectStart/connectDone, and so on.
// Each transport call gets a UUIDv7 spanID (see [NewSpanID]). I/O-level
// events are emitted at [slog.LevelDebug]; defects (transportNotJson,
// requestDefect, requestUnhandled) at [slog.LevelWarn]; everything else
// at [slog.LevelInfo].
//
// # Design Boundaries
//
// Retry and backoff, cancellation of an in-flight request, batching, and
// caching across distinct requests are out of scope. Timeouts belong to
// the transport ([Config.Timeout]) and surface as [CodeNetworkError].
package sdk
