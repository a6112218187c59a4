// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

// Unit is a type not containing any value.
//
// A [*Request] invokes its transport as a [Func] taking Unit, because all
// the call arguments are bound when the request is constructed.
type Unit struct{}
