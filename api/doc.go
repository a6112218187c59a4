// SPDX-License-Identifier: GPL-3.0-or-later

// Package api contains typed wrappers for the campfire chat endpoints.
//
// Each constructor returns a request builder embedding [*sdk.Request] and
// [sdk.ErrorGroups], extended with the handlers for the codes that endpoint
// documents. Registration methods chain on the concrete builder type:
//
//	txp := sdk.NewTransport(sdk.NewConfig(), logger)
//	resp, ok, err := api.Login(txp, api.LoginBody{Email: email, Password: password}).
//		OnInvalidCredentials(func(code string, _ json.RawMessage) {
//			fmt.Println("wrong email or password")
//		}).
//		OnFetchError(func(code string, _ json.RawMessage) {
//			fmt.Println("cannot reach the server")
//		}).
//		ThrowOnError().
//		Send(ctx)
//
// Nothing happens on the wire until the first send.
package api
