// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
	"io"
	"sort"
	"sync"
)

// Transport is a persistent, message-oriented socket carrying whole text frames.
// Send may be called concurrently with Recv; Conn serialises Send calls.
// Send may return ctx.Err() only when nothing was written. Any other Send
// error ends the Conn.
type Transport interface {
	io.Closer
	Send(ctx context.Context, data []byte) error
	Recv(ctx context.Context) ([]byte, error)
}

// DialFunc opens a Transport to url.
type DialFunc func(ctx context.Context, url string) (Transport, error)

var (
	transportsMu sync.RWMutex
	transports   = map[string]DialFunc{}
)

// schemes served by the built-in websocket transport
var webSocketSchemes = []string{"ws", "wss"}

// RegisterTransport makes Connect use dial for URLs with the given scheme.
// The websocket schemes cannot be overridden.
func RegisterTransport(scheme string, dial DialFunc) {
	if isWebSocketScheme(scheme) || dial == nil {
		return
	}
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[scheme] = dial
}

// AvailableTransports returns the registered URL schemes, sorted
func AvailableTransports() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	result := append([]string{}, webSocketSchemes...)
	for scheme := range transports {
		result = append(result, scheme)
	}
	sort.Strings(result)
	return result
}

// HasTransport checks if a scheme can be dialed
func HasTransport(scheme string) bool {
	if isWebSocketScheme(scheme) {
		return true
	}
	_, ok := lookupTransport(scheme)
	return ok
}

func isWebSocketScheme(scheme string) bool {
	for _, candidate := range webSocketSchemes {
		if candidate == scheme {
			return true
		}
	}
	return false
}

func lookupTransport(scheme string) (DialFunc, bool) {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	dial, ok := transports[scheme]
	return dial, ok
}
