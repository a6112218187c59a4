// SPDX-License-Identifier: GPL-3.0-or-later

package sdk

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var (
		mu      sync.Mutex
		records []slog.Record
	)
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			mu.Lock()
			records = append(records, record)
			mu.Unlock()
			return nil
		},
	}
	return slog.New(handler), &records
}

// messages returns the message of each record, in order.
func messages(records []slog.Record) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.Message)
	}
	return out
}

// recordAttr returns the string form of the named attribute of record.
func recordAttr(record slog.Record, key string) string {
	var value string
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			value = attr.Value.String()
			return false
		}
		return true
	})
	return value
}

// newMinimalConn returns a [*netstub.FuncConn] with only LocalAddrFunc and
// RemoteAddrFunc set. This is the minimum needed for code that calls
// [safeconn.LocalAddr], [safeconn.RemoteAddr], and [safeconn.Network]
// during construction.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{} },
	}
}

// funcHTTPClient implements [HTTPClient] using a function.
type funcHTTPClient func(*http.Request) (*http.Response, error)

func (f funcHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// newEnvelopeServer starts an [httptest.Server] replying with body to
// every request and returns a [*Transport] pointed at it.
func newEnvelopeServer(t *testing.T, status int, body string, logger SLogger) (*Transport, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := NewConfig()
	cfg.Endpoint = srv.URL
	cfg.HTTPClient = srv.Client()
	return NewTransport(cfg, logger), srv
}

// newSnapshotLogger is like newCapturingLogger but returns a function
// taking a consistent snapshot, for code logging from background goroutines.
func newSnapshotLogger() (*slog.Logger, func() []slog.Record) {
	var (
		mu      sync.Mutex
		records []slog.Record
	)
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			mu.Lock()
			records = append(records, record.Clone())
			mu.Unlock()
			return nil
		},
	}
	snapshot := func() []slog.Record {
		mu.Lock()
		defer mu.Unlock()
		return append([]slog.Record(nil), records...)
	}
	return slog.New(handler), snapshot
}
