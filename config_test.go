// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	cfg := NewConfig()

	require.NotNil(t, cfg)

	_, ok := cfg.Dialer.(*net.Dialer)
	assert.True(t, ok, "Dialer should be *net.Dialer")

	assert.Equal(t, "http://localhost:8080", cfg.Endpoint)
	assert.Equal(t, "", cfg.ErrClassifier.Classify(nil))
	assert.Nil(t, cfg.HTTPClient)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "campfire-sdk/0.1", cfg.UserAgent)
	assert.False(t, cfg.TimeNow().IsZero())
}

func TestNewConfigEndpointFromEnvironment(t *testing.T) {
	t.Setenv(EndpointEnv, "https://chat.example.com/api/")
	cfg := NewConfig()
	assert.Equal(t, "https://chat.example.com/api", cfg.Endpoint)
}

func TestLoadConfig(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv(EndpointEnv, "")
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.Endpoint)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Setenv(EndpointEnv, "")
		path := writeConfig(t, `
endpoint = "https://campfire.example.org/"
timeout = "5s"
user_agent = "tests/1.0"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "https://campfire.example.org", cfg.Endpoint)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, "tests/1.0", cfg.UserAgent)
	})

	t.Run("environment wins over file endpoint", func(t *testing.T) {
		t.Setenv(EndpointEnv, "http://10.0.0.1:8080")
		path := writeConfig(t, `endpoint = "https://campfire.example.org"`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.1:8080", cfg.Endpoint)
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := writeConfig(t, `endpoint = `)
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		path := writeConfig(t, `timeout = "soon"`)
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}
