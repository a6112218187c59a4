// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campfire-chat/sdk/api"
)

type cmdLogin struct {
	global *cmdGlobal

	flagEmail    string
	flagPassword string
}

func (c *cmdLogin) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "login"
	cmd.Short = "Log in and print an access token"
	cmd.Long = `Description:
  Log in and print an access token

  Export the printed token as $CAMPFIRE_TOKEN to use the other commands.
`

	cmd.RunE = c.Run
	cmd.Flags().StringVar(&c.flagEmail, "email", "", "Account email")
	cmd.Flags().StringVar(&c.flagPassword, "password", "", "Account password")

	return cmd
}

func (c *cmdLogin) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	if c.flagEmail == "" || c.flagPassword == "" {
		return errors.New("both --email and --password are required")
	}

	var failure error
	session, ok, err := api.Login(c.global.transport, api.LoginBody{Email: c.flagEmail, Password: c.flagPassword}).
		OnInvalidCredentials(func(string, json.RawMessage) {
			failure = errors.New("invalid email or password")
		}).
		OnFetchError(func(code string, _ json.RawMessage) {
			failure = fmt.Errorf("cannot reach the server (%s)", code)
		}).
		ThrowOnError().
		Send(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		return failure
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s#%04d\n%s\n",
		session.User.Username, session.User.Discrim, session.AccessToken)
	return nil
}
