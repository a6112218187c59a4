// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campfire-chat/sdk"
)

// newFakeServer serves the given bodies keyed by "METHOD path".
func newFakeServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, found := routes[r.Method+" "+r.URL.Path]
		if !found {
			body = `{"error":true,"code":"EndpointNotFound","data":"Check your spelling!"}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	t.Setenv(sdk.EndpointEnv, srv.URL)
	t.Setenv(tokenEnv, "")
	return srv
}

// run executes the CLI with args and returns stdout and the error.
func run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)
	app.SetArgs(args)
	err := app.Execute()
	return stdout.String(), err
}

func TestLoginCommand(t *testing.T) {
	newFakeServer(t, map[string]string{
		"POST /account/login": `{"error":false,"data":{"access_token":"tok","user":{"id":"1","username":"ann","discrim":7}}}`,
	})

	out, err := run("login", "--email", "a@b.c", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Logged in as ann#0007\ntok\n", out)
}

func TestLoginCommandInvalidCredentials(t *testing.T) {
	newFakeServer(t, map[string]string{
		"POST /account/login": `{"error":true,"code":"InvalidCredentials","data":null}`,
	})

	_, err := run("login", "--email", "a@b.c", "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())
}

func TestLoginCommandMissingFlags(t *testing.T) {
	newFakeServer(t, nil)

	_, err := run("login", "--email", "a@b.c")
	require.Error(t, err)
}

func TestGuildsCommand(t *testing.T) {
	newFakeServer(t, map[string]string{
		"GET /guild/get_joined": `{"error":false,"data":[{"id":"10","owner":{"id":"1","username":"ann","discrim":1},"name":"home","channels":[{"id":"11","name":"general"}]}]}`,
	})

	out, err := run("guilds", "--token", "tok")
	require.NoError(t, err)
	for _, want := range []string{"10", "home", "11", "#general"} {
		assert.Contains(t, out, want)
	}
}

func TestGuildsCommandGuildWithoutChannels(t *testing.T) {
	newFakeServer(t, map[string]string{
		"GET /guild/get_joined": `{"error":false,"data":[{"id":"20","owner":{"id":"1","username":"ann","discrim":1},"name":"empty","channels":[]}]}`,
	})

	out, err := run("guilds", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, out, "20")
	assert.Contains(t, out, "empty")
	assert.NotContains(t, out, "#")
}

func TestGuildsCommandRequiresToken(t *testing.T) {
	newFakeServer(t, nil)

	_, err := run("guilds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing access token")
}

func TestGuildsCommandBadToken(t *testing.T) {
	newFakeServer(t, map[string]string{
		"GET /guild/get_joined": `{"error":true,"code":"InvalidAuthToken","data":null}`,
	})
	t.Setenv(tokenEnv, "expired")

	_, err := run("guilds")
	require.ErrorIs(t, err, errNotAuthenticated)
}

func TestMessagesCommand(t *testing.T) {
	newFakeServer(t, map[string]string{
		"GET /message/11": `{"error":false,"data":[{"id":"40","channel_id":"11","author":{"id":"1","username":"ann","discrim":1},"content":"hi","sent_at":60000,"updated_at":60000}]}`,
	})

	out, err := run("messages", "11", "--token", "tok")
	require.NoError(t, err)
	for _, want := range []string{"2023-01-01 00:01:00", "ann", "hi"} {
		assert.Contains(t, out, want)
	}
}

func TestMessagesCommandEmptyChannel(t *testing.T) {
	newFakeServer(t, map[string]string{
		"GET /message/11": `{"error":false,"data":[]}`,
	})

	out, err := run("messages", "11", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(out), "AUTHOR")
}

func TestMessagesCommandNotFound(t *testing.T) {
	newFakeServer(t, map[string]string{
		"GET /message/99": `{"error":true,"code":"NotFound","data":null}`,
	})

	_, err := run("messages", "99", "--token", "tok")
	require.Error(t, err)
	assert.Equal(t, "channel 99 not found", err.Error())
}

func TestSendCommand(t *testing.T) {
	newFakeServer(t, map[string]string{
		"POST /message/11": `{"error":false,"data":{"message_id":"50"}}`,
	})

	out, err := run("send", "11", "hello", "world", "--token", "tok")
	require.NoError(t, err)
	assert.Equal(t, "50\n", out)
}

func TestSendCommandTooLong(t *testing.T) {
	newFakeServer(t, map[string]string{
		"POST /message/11": `{"error":true,"code":"MessageTooLong","data":10000}`,
	})

	_, err := run("send", "11", "x", "--token", "tok")
	require.Error(t, err)
	assert.Equal(t, "message is longer than 10000 characters", err.Error())
}

func TestUnexpectedErrorIsThrown(t *testing.T) {
	newFakeServer(t, nil)

	_, err := run("send", "11", "x", "--token", "tok")
	require.ErrorIs(t, err, sdk.ErrThrown)
	assert.Contains(t, err.Error(), "EndpointNotFound")
}

func TestConfigFlag(t *testing.T) {
	srv := newFakeServer(t, map[string]string{
		"GET /guild/get_joined": `{"error":false,"data":[]}`,
	})
	t.Setenv(sdk.EndpointEnv, "")

	path := filepath.Join(t.TempDir(), "campfire.toml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint = \""+srv.URL+"\"\n"), 0o600))

	_, err := run("guilds", "--config", path, "--token", "tok")
	require.NoError(t, err)
}

func TestConfigFlagInvalidFile(t *testing.T) {
	newFakeServer(t, nil)

	path := filepath.Join(t.TempDir(), "campfire.toml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint = ["), 0o600))

	_, err := run("guilds", "--config", path, "--token", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
