// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nuclio/logger"
	"github.com/pkg/errors"
)

const (
	// DefaultRequestTimeout bounds a call whose context has no deadline.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultEventQueueSize is the handler backlog above which a warning is logged.
	DefaultEventQueueSize = 256
)

// Option configures a Conn.
type Option func(*options)

type options struct {
	logger         logger.Logger
	metrics        *Metrics
	requestTimeout time.Duration
	eventQueueSize int
	dialer         *websocket.Dialer
	header         http.Header
	url            string
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:         nopLogger{},
		requestTimeout: DefaultRequestTimeout,
		eventQueueSize: DefaultEventQueueSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger; a child logger is created per connection.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records request and event counters into m
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRequestTimeout bounds calls whose context carries no deadline. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithEventQueueSize sets the handler backlog above which a warning is logged.
// The queue itself is unbounded; the receive loop never waits for handlers.
func WithEventQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.eventQueueSize = n
		}
	}
}

// WithDialer sets the websocket dialer
func WithDialer(d *websocket.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithHeader adds headers to the websocket handshake.
func WithHeader(h http.Header) Option {
	return func(o *options) { o.header = h }
}

// withURL labels a Conn built over an existing Transport.
func withURL(url string) Option {
	return func(o *options) { o.url = url }
}

// Connect opens a socket to the media server at url and starts its receive loop.
// Failure to open the socket is reported as a *ConnectionError.
func Connect(ctx context.Context, url string, opts ...Option) (*Conn, error) {
	o := newOptions(opts)

	parsed, err := neturl.Parse(url)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: errors.Wrap(err, "Failed to parse URL")}
	}

	var transport Transport
	if isWebSocketScheme(parsed.Scheme) {
		transport, err = DialWebSocket(ctx, url, o.dialer, o.header)
	} else if dial, ok := lookupTransport(parsed.Scheme); ok {
		transport, err = dial(ctx, url)
	} else {
		err = errors.Errorf("Unknown transport: %s", parsed.Scheme)
	}
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}

	return NewConn(transport, append(opts, withURL(url))...), nil
}

// Dial connects to the media server and returns a Client over the new Conn.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	conn, err := Connect(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

type nopLogger struct{}

func (nopLogger) Error(interface{}, ...interface{})     {}
func (nopLogger) Warn(interface{}, ...interface{})      {}
func (nopLogger) Info(interface{}, ...interface{})      {}
func (nopLogger) Debug(interface{}, ...interface{})     {}
func (nopLogger) ErrorWith(interface{}, ...interface{}) {}
func (nopLogger) WarnWith(interface{}, ...interface{})  {}
func (nopLogger) InfoWith(interface{}, ...interface{})  {}
func (nopLogger) DebugWith(interface{}, ...interface{}) {}

func (nopLogger) ErrorCtx(context.Context, interface{}, ...interface{})     {}
func (nopLogger) WarnCtx(context.Context, interface{}, ...interface{})      {}
func (nopLogger) InfoCtx(context.Context, interface{}, ...interface{})      {}
func (nopLogger) DebugCtx(context.Context, interface{}, ...interface{})     {}
func (nopLogger) ErrorWithCtx(context.Context, interface{}, ...interface{}) {}
func (nopLogger) WarnWithCtx(context.Context, interface{}, ...interface{})  {}
func (nopLogger) InfoWithCtx(context.Context, interface{}, ...interface{})  {}
func (nopLogger) DebugWithCtx(context.Context, interface{}, ...interface{}) {}

func (nopLogger) Flush()                          {}
func (l nopLogger) GetChild(string) logger.Logger { return l }
