// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "github.com/campfire-chat/sdk"

// Codes returned by the message endpoints.
const (
	CodeNotFound        = "NotFound"
	CodeMessageTooShort = "MessageTooShort"
	CodeMessageTooLong  = "MessageTooLong"
	CodeChannelNotFound = "ChannelNotFound"
)

// GetMessagesRequest is the builder returned by [GetMessages].
type GetMessagesRequest struct {
	*sdk.Request[[]WireMessage, []Message]
	sdk.ErrorGroups[*GetMessagesRequest]
}

// GetMessages returns the latest messages of a channel.
func GetMessages(t *sdk.Transport, token string, channel Snowflake) *GetMessagesRequest {
	fetch := sdk.Fetch[[]WireMessage](t, sdk.MethodGet, "/message/"+channel.escape(), sdk.WithAuthToken(token))
	r := &GetMessagesRequest{Request: sdk.NewMappedRequest(fetch, toMessages, t.Logger)}
	r.ErrorGroups = sdk.NewErrorGroups(r.Request, r)
	return r
}

func toMessages(wire []WireMessage) []Message {
	out := make([]Message, 0, len(wire))
	for _, entry := range wire {
		out = append(out, NewMessage(entry))
	}
	return out
}

// OnNotFound handles a channel that does not exist or that the token
// owner cannot read.
func (r *GetMessagesRequest) OnNotFound(h sdk.Handler) *GetMessagesRequest {
	r.Register(CodeNotFound, h)
	return r
}

// SendMessageBody is the body of [SendMessage].
type SendMessageBody struct {
	// ChannelID selects the channel and travels in the path.
	ChannelID Snowflake `json:"-"`

	Content string `json:"content"`
}

// SendMessageResponse identifies the new message.
type SendMessageResponse struct {
	MessageID Snowflake `json:"message_id"`
}

// SendMessageRequest is the builder returned by [SendMessage].
type SendMessageRequest struct {
	*sdk.Request[SendMessageResponse, SendMessageResponse]
	sdk.ErrorGroups[*SendMessageRequest]
}

// SendMessage posts a message to a channel.
func SendMessage(t *sdk.Transport, token string, body SendMessageBody) *SendMessageRequest {
	r := &SendMessageRequest{Request: sdk.NewRequest(
		sdk.Fetch[SendMessageResponse](t, sdk.MethodPost, "/message/"+body.ChannelID.escape(),
			sdk.WithAuthToken(token), sdk.WithBody(body)), t.Logger)}
	r.ErrorGroups = sdk.NewErrorGroups(r.Request, r)
	return r
}

// OnMessageTooShort handles an empty message; h receives the minimum
// length, or zero when the server does not send one.
func (r *SendMessageRequest) OnMessageTooShort(h sdk.TypedHandler[int]) *SendMessageRequest {
	r.Register(CodeMessageTooShort, sdk.Typed(h))
	return r
}

// OnMessageTooLong handles a message above the maximum length; h receives it.
func (r *SendMessageRequest) OnMessageTooLong(h sdk.TypedHandler[int]) *SendMessageRequest {
	r.Register(CodeMessageTooLong, sdk.Typed(h))
	return r
}

// OnChannelNotFound handles [CodeChannelNotFound].
func (r *SendMessageRequest) OnChannelNotFound(h sdk.Handler) *SendMessageRequest {
	r.Register(CodeChannelNotFound, h)
	return r
}
