// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewConnectFunc populates all fields from Config and the provided logger.
func TestNewConnectFunc(t *testing.T) {
	fn := NewConnectFunc(NewConfig(), DefaultSLogger())

	require.NotNil(t, fn)
	assert.NotNil(t, fn.Dialer)
	assert.NotNil(t, fn.Logger)
	assert.NotNil(t, fn.TimeNow)
	assert.NotNil(t, fn.ErrClassifier)
}

// Call dials the target and returns a net.Conn or an error.
func TestConnectFunc(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// dialErr is the error returned by the mock dialer.
		dialErr error

		// wantErr indicates whether we expect an error.
		wantErr bool
	}{
		{name: "successful connect", dialErr: nil, wantErr: false},
		{name: "connection refused", dialErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotNetwork, gotAddress string
			cfg := NewConfig()
			cfg.Dialer = &netstub.FuncDialer{
				DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
					gotNetwork, gotAddress = network, address
					if tt.dialErr != nil {
						return nil, tt.dialErr
					}
					conn := newMinimalConn()
					conn.CloseFunc = func() error { return nil }
					return conn, nil
				},
			}

			fn := NewConnectFunc(cfg, DefaultSLogger())
			conn, err := fn.Call(context.Background(), DialTarget{Network: "tcp", Address: "127.0.0.1:8080"})

			assert.Equal(t, "tcp", gotNetwork)
			assert.Equal(t, "127.0.0.1:8080", gotAddress)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.dialErr)
				assert.Nil(t, conn)
				return
			}
			require.NoError(t, err)
			require.NoError(t, conn.Close())
		})
	}
}

// Call propagates the caller's context deadline to the dialer.
func TestConnectFuncCallerContextDeadline(t *testing.T) {
	cfg := NewConfig()
	dialCalled := false
	expectedTimeout := 5 * time.Second
	cfg.Dialer = &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			dialCalled = true
			deadline, ok := ctx.Deadline()
			assert.True(t, ok, "context should have deadline from caller")
			assert.True(t, time.Until(deadline) <= expectedTimeout)
			return nil, errors.New("expected error")
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), expectedTimeout)
	defer cancel()

	_, _ = NewConnectFunc(cfg, DefaultSLogger()).Call(ctx, DialTarget{Network: "tcp", Address: "127.0.0.1:8080"})

	assert.True(t, dialCalled)
}

// Call emits connectStart/connectDone log events.
func TestConnectFuncLogging(t *testing.T) {
	logger, records := newCapturingLogger()

	cfg := NewConfig()
	cfg.Dialer = &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, _ = NewConnectFunc(cfg, logger).Call(context.Background(), DialTarget{Network: "tcp", Address: "127.0.0.1:8080"})

	require.Equal(t, []string{"connectStart", "connectDone"}, messages(*records))
	assert.Equal(t, "127.0.0.1:8080", recordAttr((*records)[1], "remoteAddr"))
	assert.NotEmpty(t, recordAttr((*records)[1], "errClass"))
}
