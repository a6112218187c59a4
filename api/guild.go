// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "github.com/campfire-chat/sdk"

// Codes returned by the guild and channel creation endpoints.
const (
	CodeNameTooShort        = "NameTooShort"
	CodeNameTooLong         = "NameTooLong"
	CodeNameInvalid         = "NameInvalid"
	CodeGuildNotFound       = "GuildNotFound"
	CodePlaceBeforeNotFound = "PlaceBeforeNotFound"
	CodePermissionDenied    = "PermissionDenied"
)

// GetJoinedGuildsRequest is the builder returned by [GetJoinedGuilds].
type GetJoinedGuildsRequest struct {
	*sdk.Request[[]Guild, []Guild]
	sdk.ErrorGroups[*GetJoinedGuildsRequest]
}

// GetJoinedGuilds lists the guilds the token owner is a member of.
func GetJoinedGuilds(t *sdk.Transport, token string) *GetJoinedGuildsRequest {
	r := &GetJoinedGuildsRequest{Request: sdk.NewRequest(
		sdk.Fetch[[]Guild](t, sdk.MethodGet, "/guild/get_joined", sdk.WithAuthToken(token)), t.Logger)}
	r.ErrorGroups = sdk.NewErrorGroups(r.Request, r)
	return r
}

// CreateGuildBody is the body of [CreateGuild].
type CreateGuildBody struct {
	Name string `json:"name"`
}

// CreateGuildResponse identifies the new guild and its default channel.
type CreateGuildResponse struct {
	GuildID   Snowflake `json:"guild_id"`
	ChannelID Snowflake `json:"channel_id"`
}

// CreateGuildRequest is the builder returned by [CreateGuild].
type CreateGuildRequest struct {
	*sdk.Request[CreateGuildResponse, CreateGuildResponse]
	sdk.ErrorGroups[*CreateGuildRequest]
}

// CreateGuild creates a guild owned by the token owner.
func CreateGuild(t *sdk.Transport, token string, body CreateGuildBody) *CreateGuildRequest {
	r := &CreateGuildRequest{Request: sdk.NewRequest(
		sdk.Fetch[CreateGuildResponse](t, sdk.MethodPost, "/guild/create",
			sdk.WithAuthToken(token), sdk.WithBody(body)), t.Logger)}
	r.ErrorGroups = sdk.NewErrorGroups(r.Request, r)
	return r
}

// OnNameTooShort handles a name below the minimum length; h receives it.
func (r *CreateGuildRequest) OnNameTooShort(h sdk.TypedHandler[int]) *CreateGuildRequest {
	r.Register(CodeNameTooShort, sdk.Typed(h))
	return r
}

// OnNameTooLong handles a name above the maximum length; h receives it.
func (r *CreateGuildRequest) OnNameTooLong(h sdk.TypedHandler[int]) *CreateGuildRequest {
	r.Register(CodeNameTooLong, sdk.Typed(h))
	return r
}

// CreateChannelBody is the body of [CreateChannel].
type CreateChannelBody struct {
	// GuildID selects the guild and travels in the path.
	GuildID Snowflake `json:"-"`

	Name string `json:"name"`

	// PlaceBefore optionally names the channel the new one precedes.
	PlaceBefore *Snowflake `json:"place_before,omitempty"`
}

// CreateChannelResponse identifies the new channel.
type CreateChannelResponse struct {
	ID Snowflake `json:"id"`
}

// CreateChannelRequest is the builder returned by [CreateChannel].
type CreateChannelRequest struct {
	*sdk.Request[CreateChannelResponse, CreateChannelResponse]
	sdk.ErrorGroups[*CreateChannelRequest]
}

// CreateChannel creates a channel in a guild.
func CreateChannel(t *sdk.Transport, token string, body CreateChannelBody) *CreateChannelRequest {
	uri := "/channel/" + body.GuildID.escape() + "/create"
	r := &CreateChannelRequest{Request: sdk.NewRequest(
		sdk.Fetch[CreateChannelResponse](t, sdk.MethodPost, uri,
			sdk.WithAuthToken(token), sdk.WithBody(body)), t.Logger)}
	r.ErrorGroups = sdk.NewErrorGroups(r.Request, r)
	return r
}

func (r *CreateChannelRequest) on(code string, h sdk.Handler) *CreateChannelRequest {
	r.Register(code, h)
	return r
}

// OnNameTooShort handles a name below the minimum length; h receives it.
func (r *CreateChannelRequest) OnNameTooShort(h sdk.TypedHandler[int]) *CreateChannelRequest {
	return r.on(CodeNameTooShort, sdk.Typed(h))
}

// OnNameTooLong handles a name above the maximum length; h receives it.
func (r *CreateChannelRequest) OnNameTooLong(h sdk.TypedHandler[int]) *CreateChannelRequest {
	return r.on(CodeNameTooLong, sdk.Typed(h))
}

// OnNameInvalid handles a badly formed name; h receives the pattern
// names must match.
func (r *CreateChannelRequest) OnNameInvalid(h sdk.TypedHandler[string]) *CreateChannelRequest {
	return r.on(CodeNameInvalid, sdk.Typed(h))
}

// OnGuildNotFound handles a guild that does not exist or that the token
// owner is not a member of.
func (r *CreateChannelRequest) OnGuildNotFound(h sdk.Handler) *CreateChannelRequest {
	return r.on(CodeGuildNotFound, h)
}

// OnPlaceBeforeNotFound handles a [CreateChannelBody.PlaceBefore] that
// does not exist.
func (r *CreateChannelRequest) OnPlaceBeforeNotFound(h sdk.Handler) *CreateChannelRequest {
	return r.on(CodePlaceBeforeNotFound, h)
}

// OnPermissionDenied handles [CodePermissionDenied].
func (r *CreateChannelRequest) OnPermissionDenied(h sdk.Handler) *CreateChannelRequest {
	return r.on(CodePermissionDenied, h)
}
