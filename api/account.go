// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "github.com/campfire-chat/sdk"

// Codes returned by the account endpoints.
const (
	CodeInvalidCredentials   = "InvalidCredentials"
	CodeInvalidUsername      = "InvalidUsername"
	CodeUsernameTaken        = "UsernameTaken"
	CodeInvalidEmail         = "InvalidEmail"
	CodeEmailTaken           = "EmailTaken"
	CodePasswordTooWeak      = "PasswordTooWeak"
	CodePasswordTooLong      = "PasswordTooLong"
	CodePasswordTooShort     = "PasswordTooShort"
	CodePasswordTooCommon    = "PasswordTooCommon"
	CodePasswordLikeUsername = "PasswordLikeUsername"
	CodePasswordLikeEmail    = "PasswordLikeEmail"
)

// Session is returned by a successful login or registration.
type Session struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// LoginBody is the body of [Login].
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the builder returned by [Login].
type LoginRequest struct {
	*sdk.Request[Session, Session]
	sdk.ErrorGroups[*LoginRequest]
}

// Login exchanges credentials for an access token.
func Login(t *sdk.Transport, body LoginBody) *LoginRequest {
	r := &LoginRequest{Request: sdk.NewRequest(
		sdk.Fetch[Session](t, sdk.MethodPost, "/account/login", sdk.WithBody(body)), t.Logger)}
	r.ErrorGroups = sdk.NewErrorGroups(r.Request, r)
	return r
}

// OnInvalidCredentials handles an unknown email or a wrong password.
func (r *LoginRequest) OnInvalidCredentials(h sdk.Handler) *LoginRequest {
	r.Register(CodeInvalidCredentials, h)
	return r
}

// RegisterBody is the body of [Register].
type RegisterBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the builder returned by [Register].
type RegisterRequest struct {
	*sdk.Request[Session, Session]
	sdk.ErrorGroups[*RegisterRequest]
}

// Register creates an account and logs into it.
func Register(t *sdk.Transport, body RegisterBody) *RegisterRequest {
	r := &RegisterRequest{Request: sdk.NewRequest(
		sdk.Fetch[Session](t, sdk.MethodPost, "/account/register", sdk.WithBody(body)), t.Logger)}
	r.ErrorGroups = sdk.NewErrorGroups(r.Request, r)
	return r
}

func (r *RegisterRequest) on(code string, h sdk.Handler) *RegisterRequest {
	r.Register(code, h)
	return r
}

// OnInvalidUsername handles a username the server does not accept.
func (r *RegisterRequest) OnInvalidUsername(h sdk.Handler) *RegisterRequest {
	return r.on(CodeInvalidUsername, h)
}

// OnUsernameTaken handles a username with no discriminator left.
func (r *RegisterRequest) OnUsernameTaken(h sdk.Handler) *RegisterRequest {
	return r.on(CodeUsernameTaken, h)
}

// OnInvalidEmail handles a malformed email address.
func (r *RegisterRequest) OnInvalidEmail(h sdk.Handler) *RegisterRequest {
	return r.on(CodeInvalidEmail, h)
}

// OnEmailTaken handles an email address already in use.
func (r *RegisterRequest) OnEmailTaken(h sdk.Handler) *RegisterRequest {
	return r.on(CodeEmailTaken, h)
}

// OnPasswordTooWeak handles [CodePasswordTooWeak].
func (r *RegisterRequest) OnPasswordTooWeak(h sdk.Handler) *RegisterRequest {
	return r.on(CodePasswordTooWeak, h)
}

// OnPasswordTooLong handles [CodePasswordTooLong].
func (r *RegisterRequest) OnPasswordTooLong(h sdk.Handler) *RegisterRequest {
	return r.on(CodePasswordTooLong, h)
}

// OnPasswordTooShort handles [CodePasswordTooShort].
func (r *RegisterRequest) OnPasswordTooShort(h sdk.Handler) *RegisterRequest {
	return r.on(CodePasswordTooShort, h)
}

// OnPasswordTooCommon handles [CodePasswordTooCommon].
func (r *RegisterRequest) OnPasswordTooCommon(h sdk.Handler) *RegisterRequest {
	return r.on(CodePasswordTooCommon, h)
}

// OnPasswordLikeUsername handles [CodePasswordLikeUsername].
func (r *RegisterRequest) OnPasswordLikeUsername(h sdk.Handler) *RegisterRequest {
	return r.on(CodePasswordLikeUsername, h)
}

// OnPasswordLikeEmail handles [CodePasswordLikeEmail].
func (r *RegisterRequest) OnPasswordLikeEmail(h sdk.Handler) *RegisterRequest {
	return r.on(CodePasswordLikeEmail, h)
}
