// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"errors"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/campfire-chat/sdk/api"
)

// errNotAuthenticated is reported when the server rejects the token.
var errNotAuthenticated = errors.New("not authenticated: log in again")

type cmdGuilds struct {
	global *cmdGlobal
}

func (c *cmdGuilds) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "guilds"
	cmd.Short = "List joined guilds and their channels"
	cmd.Long = `Description:
  List joined guilds and their channels
`

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdGuilds) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	token, err := c.global.token()
	if err != nil {
		return err
	}

	var failure error
	guilds, ok, err := api.GetJoinedGuilds(c.global.transport, token).
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
	table.Header("Guild ID", "Guild", "Channel ID", "Channel")
	for _, guild := range guilds {
		if len(guild.Channels) == 0 {
			if err := table.Append([]string{string(guild.ID), guild.Name, "", ""}); err != nil {
				return err
			}
			continue
		}
		for _, channel := range guild.Channels {
			row := []string{string(guild.ID), guild.Name, string(channel.ID), "#" + channel.Name}
			if err := table.Append(row); err != nil {
				return err
			}
		}
	}
	return table.Render()
}
