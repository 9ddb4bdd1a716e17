// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurentotest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketServer exposes a Server on a local websocket endpoint.
type WebSocketServer struct {
	*Server
	httpServer *httptest.Server
	upgrader   websocket.Upgrader
}

// NewWebSocketServer starts a fake server listening on a loopback port.
func NewWebSocketServer(handler HandlerFunc) *WebSocketServer {
	w := &WebSocketServer{
		Server: NewServer(handler),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	w.httpServer = httptest.NewServer(http.HandlerFunc(w.serveHTTP))
	return w
}

// URL returns the ws:// address of the endpoint.
func (w *WebSocketServer) URL() string {
	return "ws" + strings.TrimPrefix(w.httpServer.URL, "http") + "/kurento"
}

// Close stops the server and its listener.
func (w *WebSocketServer) Close() {
	w.Server.Close()
	w.httpServer.Close()
}

func (w *WebSocketServer) serveHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close() // nolint: errcheck

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			select {
			case w.inbound <- data:
			case <-w.dropped:
				return
			case <-w.stopped:
				return
			}
		}
	}()

	for {
		select {
		case data := <-w.outbound:
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-w.dropped:

			// no close frame, the client sees an abnormal closure
			conn.Close() // nolint: errcheck
			<-readerDone
			return
		case <-w.stopped:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close() // nolint: errcheck
			<-readerDone
			return
		case <-readerDone:
			return
		}
	}
}
