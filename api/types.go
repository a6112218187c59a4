// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/url"
	"time"
)

// Snowflake is a server-assigned identifier.
//
// The server always serializes snowflakes as strings.
type Snowflake string

// escape returns the snowflake as a path segment.
func (s Snowflake) escape() string {
	return url.PathEscape(string(s))
}

// EpochMillis is the Unix time, in milliseconds, the server measures
// timestamps from (2023-01-01T00:00:00Z).
const EpochMillis int64 = 1672531200000

// FromServerTime converts a server timestamp to a [time.Time] in UTC.
func FromServerTime(millis int64) time.Time {
	return time.UnixMilli(EpochMillis + millis).UTC()
}

// User is a user profile.
type User struct {
	ID           Snowflake  `json:"id"`
	Username     string     `json:"username"`
	Discrim      int        `json:"discrim"`
	ProfileImgID *Snowflake `json:"profile_img_id"`
	AccentColor  *string    `json:"accent_color"`
	Pronouns     *string    `json:"pronouns"`
	Bio          *string    `json:"bio"`
}

// Channel is a text channel of a guild.
type Channel struct {
	ID   Snowflake `json:"id"`
	Name string    `json:"name"`
}

// Guild is a guild with its owner and channels.
type Guild struct {
	ID       Snowflake `json:"id"`
	Owner    User      `json:"owner"`
	Name     string    `json:"name"`
	Channels []Channel `json:"channels"`
}

// WireMessage is a message as the server sends it.
type WireMessage struct {
	ID        Snowflake `json:"id"`
	ChannelID Snowflake `json:"channel_id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	SentAt    int64     `json:"sent_at"`
	UpdatedAt int64     `json:"updated_at"`
}

// Message is a message with its timestamps converted by [FromServerTime].
type Message struct {
	ID        Snowflake
	ChannelID Snowflake
	Author    User
	Content   string
	SentAt    time.Time
	UpdatedAt time.Time
}

// NewMessage converts a [WireMessage] into a [Message].
func NewMessage(wire WireMessage) Message {
	return Message{
		ID:        wire.ID,
		ChannelID: wire.ChannelID,
		Author:    wire.Author,
		Content:   wire.Content,
		SentAt:    FromServerTime(wire.SentAt),
		UpdatedAt: FromServerTime(wire.UpdatedAt),
	}
}
