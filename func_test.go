// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncAdapter(t *testing.T) {
	called := false
	adapter := FuncAdapter[Unit, *Envelope[string]](func(ctx context.Context, _ Unit) (*Envelope[string], error) {
		called = true
		return Success("pong"), nil
	})

	env, err := adapter.Call(context.Background(), Unit{})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "pong", env.Data)
}
