// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnhandled matches every [*UnhandledError] via [errors.Is].
	ErrUnhandled = errors.New("request error went unhandled")

	// ErrThrown matches every [*ThrownError] via [errors.Is].
	ErrThrown = errors.New("request failed")
)

// UnhandledError is returned by a send when the request failed and no
// registered handler, including the catch-all, accepted the code.
//
// This is a caller defect: every code an endpoint may produce has a
// documented handler slot.
type UnhandledError struct {
	Code string
	Data json.RawMessage
}

// Error implements error.
func (e *UnhandledError) Error() string {
	return fmt.Sprintf("sdk: request error went unhandled and failed with code %s", e.Code)
}

// Is makes [errors.Is] match [ErrUnhandled].
func (e *UnhandledError) Is(target error) bool {
	return target == ErrUnhandled
}

// ThrownError is returned by a send when the request failed and the
// handler installed by [AnyErrors.ThrowOnError] ran.
type ThrownError struct {
	Code string
	Data json.RawMessage
}

// Error implements error.
func (e *ThrownError) Error() string {
	return fmt.Sprintf("sdk: request failed with code %s - %s", e.Code, string(e.Data))
}

// Is makes [errors.Is] match [ErrThrown].
func (e *ThrownError) Is(target error) bool {
	return target == ErrThrown
}
