// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 16 << 20
)

type webSocketTransport struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// DialWebSocket opens a websocket Transport. A nil dialer means websocket.DefaultDialer.
func DialWebSocket(ctx context.Context, url string, dialer *websocket.Dialer, header http.Header) (Transport, error) {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to dial %s", url)
	}

	return NewWebSocketTransport(conn), nil
}

// NewWebSocketTransport wraps an established websocket connection.
func NewWebSocketTransport(conn *websocket.Conn) Transport {
	conn.SetReadLimit(maxFrameSize)
	return &webSocketTransport{conn: conn}
}

// Send bounds each frame by writeWait rather than by ctx. A write that times out
// leaves the socket unusable, so one caller's deadline must not decide it.
func (t *webSocketTransport) Send(_ context.Context, data []byte) error {
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *webSocketTransport) Recv(ctx context.Context) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (t *webSocketTransport) Close() error {
	t.closeOnce.Do(func() {

		// best effort; the peer may already be gone
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
