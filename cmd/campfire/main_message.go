// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/campfire-chat/sdk/api"
)

type cmdMessages struct {
	global *cmdGlobal
}

func (c *cmdMessages) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "messages <channel>"
	cmd.Short = "Print the latest messages of a channel"
	cmd.Long = `Description:
  Print the latest messages of a channel
`

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdMessages) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	token, err := c.global.token()
	if err != nil {
		return err
	}

	var failure error
	messages, ok, err := api.GetMessages(c.global.transport, token, api.Snowflake(args[0])).
		OnNotFound(func(string, json.RawMessage) {
			failure = fmt.Errorf("channel %s not found", args[0])
		}).
		OnAuthError(func(string, json.RawMessage) {
			failure = errNotAuthenticated
		}).
		ThrowOnError().
		Send(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		return failure
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Sent", "Author", "Message")
	for _, message := range messages {
		row := []string{message.SentAt.Format(time.DateTime), message.Author.Username, message.Content}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

type cmdSend struct {
	global *cmdGlobal
}

func (c *cmdSend) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "send <channel> <text>..."
	cmd.Short = "Send a message to a channel"
	cmd.Long = `Description:
  Send a message to a channel

  All the arguments after the channel are joined with spaces.
`

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdSend) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 2, -1)
	if exit {
		return err
	}

	token, err := c.global.token()
	if err != nil {
		return err
	}

	body := api.SendMessageBody{ChannelID: api.Snowflake(args[0]), Content: strings.Join(args[1:], " ")}

	var failure error
	resp, ok, err := api.SendMessage(c.global.transport, token, body).
		OnMessageTooShort(func(string, int) {
			failure = errors.New("message is empty")
		}).
		OnMessageTooLong(func(_ string, limit int) {
			failure = fmt.Errorf("message is longer than %d characters", limit)
		}).
		OnChannelNotFound(func(string, json.RawMessage) {
			failure = fmt.Errorf("channel %s not found", args[0])
		}).
		OnAuthError(func(string, json.RawMessage) {
			failure = errNotAuthenticated
		}).
		ThrowOnError().
		Send(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		return failure
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", resp.MessageID)
	return nil
}
