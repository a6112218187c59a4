// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 representing a span.
//
// Each physical transport call is a span: every log event it emits carries
// the same spanID so that start, round trip, and done events correlate.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
