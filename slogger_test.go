// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSLogger(t *testing.T) {
	logger := DefaultSLogger()

	// Should return a non-nil logger
	assert.NotNil(t, logger)

	// Every level discards without panicking
	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
}

func TestSlogLoggerIsSLogger(t *testing.T) {
	var _ SLogger = slog.Default()
}
