// SPDX-License-Identifier: GPL-3.0-or-later

// Command campfire is a command line client for a campfire chat server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/campfire-chat/sdk"
)

// tokenEnv is the environment variable providing the access token.
const tokenEnv = "CAMPFIRE_TOKEN"

type cmdGlobal struct {
	cmd       *cobra.Command
	transport *sdk.Transport

	flagConfig  string
	flagToken   string
	flagVerbose bool
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree writing output to stdout and logs to stderr.
func newApp(stdout, stderr io.Writer) *cobra.Command {
	app := &cobra.Command{}
	app.Use = "campfire"
	app.Short = "Command line client for campfire chat"
	app.Long = `Description:
  Command line client for campfire chat

  The server address comes from the configuration file or from
  $CAMPFIRE_ENDPOINT. Authenticated commands read the access token
  from --token or $CAMPFIRE_TOKEN.
`
	app.SilenceUsage = true
	app.SilenceErrors = true
	app.CompletionOptions = cobra.CompletionOptions{HiddenDefaultCmd: true}
	app.SetOut(stdout)
	app.SetErr(stderr)

	globalCmd := cmdGlobal{cmd: app}
	app.PersistentFlags().StringVar(&globalCmd.flagConfig, "config", "", "Path to a TOML configuration file")
	app.PersistentFlags().StringVar(&globalCmd.flagToken, "token", "", "Access token (default $"+tokenEnv+")")
	app.PersistentFlags().BoolVarP(&globalCmd.flagVerbose, "verbose", "v", false, "Log every request as JSON to stderr")
	app.PersistentPreRunE = globalCmd.PreRun

	loginCmd := cmdLogin{global: &globalCmd}
	app.AddCommand(loginCmd.Command())

	guildsCmd := cmdGuilds{global: &globalCmd}
	app.AddCommand(guildsCmd.Command())

	messagesCmd := cmdMessages{global: &globalCmd}
	app.AddCommand(messagesCmd.Command())

	sendCmd := cmdSend{global: &globalCmd}
	app.AddCommand(sendCmd.Command())

	return app
}

// PreRun loads the configuration and builds the transport.
func (c *cmdGlobal) PreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" {
		return nil
	}

	cfg := sdk.NewConfig()
	if c.flagConfig != "" {
		loaded, err := sdk.LoadConfig(c.flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var logger sdk.SLogger = sdk.DefaultSLogger()
	if c.flagVerbose {
		logger = slog.New(slog.NewJSONHandler(c.cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	c.transport = sdk.NewTransport(cfg, logger)
	return nil
}

// token returns the access token or an error when none is configured.
func (c *cmdGlobal) token() (string, error) {
	if c.flagToken != "" {
		return c.flagToken, nil
	}
	if value := os.Getenv(tokenEnv); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing access token: use --token or $%s", tokenEnv)
}

// CheckArgs prints the help when the number of arguments is wrong.
func (c *cmdGlobal) CheckArgs(cmd *cobra.Command, args []string, minArgs int, maxArgs int) (bool, error) {
	if len(args) < minArgs || (maxArgs != -1 && len(args) > maxArgs) {
		_ = cmd.Help()

		if len(args) == 0 {
			return true, nil
		}

		return true, fmt.Errorf("Invalid number of arguments")
	}

	return false, nil
}
