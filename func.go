// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import "context"

// Func is a generic operation that accepts an input and returns a result.
//
// The transport layer is expressed as a Func so that callers can swap the
// physical call for a fake, a recorded response, or a custom pipeline built
// with [Compose2] and [Apply]. A [*Request] consumes a Func[Unit, *Envelope[S]].
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter wraps a function as a [Func] implementation.
//
// Use this to create ad-hoc [Func] instances from closures, for example
// to serve canned envelopes in tests.
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}
