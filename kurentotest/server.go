// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kurentotest provides an in-process fake media server for tests.
//
// A Server speaks the server side of the JSON-RPC protocol. With a HandlerFunc it
// answers every request itself; with a nil handler it runs in manual mode, where the
// test takes requests from Requests and answers them with Respond in any order.
package kurentotest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrDropped is returned by a client transport after Drop.
	ErrDropped = errors.New("Connection reset by fake server")

	// ErrStopped is returned by a client transport after the server was closed.
	ErrStopped = errors.New("Fake server stopped")

	errTransportClosed = errors.New("Transport closed")
)

// Request is a request frame as received by the server.
type Request struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      uint64                 `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`

	// Raw is the frame exactly as written by the client
	Raw []byte `json:"-"`
}

// Param returns a named param, or nil.
func (r *Request) Param(name string) interface{} {
	return r.Params[name]
}

// StringParam returns a named param if it is a string.
func (r *Request) StringParam(name string) string {
	value, _ := r.Params[name].(string)
	return value
}

// MapParam returns a named param if it is an object.
func (r *Request) MapParam(name string) map[string]interface{} {
	value, _ := r.Params[name].(map[string]interface{})
	return value
}

// HandlerFunc answers a request. Returning nil leaves the request unanswered.
type HandlerFunc func(request *Request) *Response

// Server is a fake media server reachable through Transport.
type Server struct {
	handler HandlerFunc

	inbound  chan []byte
	outbound chan []byte
	requests chan *Request

	dropped  chan struct{}
	dropOnce sync.Once
	stopped  chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu       sync.Mutex
	received []*Request
}

// NewServer starts a fake server. A nil handler selects manual mode.
func NewServer(handler HandlerFunc) *Server {
	s := &Server{
		handler:  handler,
		inbound:  make(chan []byte, 64),
		outbound: make(chan []byte, 1024),
		requests: make(chan *Request, 1024),
		dropped:  make(chan struct{}),
		stopped:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	go s.serve()
	return s
}

// Transport returns the client end of an in-memory socket to the server.
func (s *Server) Transport() *PipeTransport {
	return &PipeTransport{
		server: s,
		closed: make(chan struct{}),
	}
}

// Requests delivers the requests received in manual mode.
func (s *Server) Requests() <-chan *Request {
	return s.requests
}

// NextRequest waits for the next request in manual mode.
func (s *Server) NextRequest(timeout time.Duration) (*Request, error) {
	select {
	case request := <-s.requests:
		return request, nil
	case <-time.After(timeout):
		return nil, errors.Errorf("No request within %s", timeout)
	}
}

// Received returns every request received so far, in arrival order.
func (s *Server) Received() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Request{}, s.received...)
}

// ReceivedMethod returns the received requests with the given method.
func (s *Server) ReceivedMethod(method string) []*Request {
	var matching []*Request
	for _, request := range s.Received() {
		if request.Method == method {
			matching = append(matching, request)
		}
	}
	return matching
}

// Respond sends the response for request id.
func (s *Server) Respond(id uint64, response *Response) error {
	data, err := response.frame(id)
	if err != nil {
		return err
	}
	return s.SendFrame(data)
}

// Notify sends an onEvent notification. An empty object leaves it out of the frame.
func (s *Server) Notify(object, eventType string, data interface{}) error {
	value := map[string]interface{}{
		"type": eventType,
		"data": data,
	}
	if object != "" {
		value["object"] = object
	}

	frame, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "onEvent",
		"params":  map[string]interface{}{"value": value},
	})
	if err != nil {
		return errors.Wrap(err, "Failed to encode notification")
	}
	return s.SendFrame(frame)
}

// SendFrame writes a raw frame to the client.
func (s *Server) SendFrame(data []byte) error {
	select {
	case s.outbound <- data:
		return nil
	case <-s.dropped:
		return ErrDropped
	case <-s.stopped:
		return ErrStopped
	}
}

// Drop breaks the connection as if the socket died.
func (s *Server) Drop() {
	s.dropOnce.Do(func() {
		close(s.dropped)
	})
}

// Close stops the server and waits for its loop to exit.
func (s *Server) Close() {
	s.stopOnce.Do(func() {
		close(s.stopped)
	})
	<-s.done
}

func (s *Server) serve() {
	defer close(s.done)

	for {
		select {
		case data := <-s.inbound:
			s.handle(data)
		case <-s.dropped:
			return
		case <-s.stopped:
			return
		}
	}
}

func (s *Server) handle(data []byte) {
	request := &Request{}
	if err := json.Unmarshal(data, request); err != nil {
		return
	}
	request.Raw = data

	s.mu.Lock()
	s.received = append(s.received, request)
	s.mu.Unlock()

	if s.handler == nil {
		select {
		case s.requests <- request:
		case <-s.stopped:
		}
		return
	}

	if response := s.handler(request); response != nil {
		_ = s.Respond(request.ID, response)
	}
}

// PipeTransport is the client end of a Server. It satisfies kurento.Transport.
type PipeTransport struct {
	server    *Server
	closed    chan struct{}
	closeOnce sync.Once
}

func (t *PipeTransport) Send(ctx context.Context, data []byte) error {
	if err := t.broken(); err != nil {
		return err
	}

	select {
	case t.server.inbound <- data:
		return nil
	case <-t.closed:
		return errTransportClosed
	case <-t.server.dropped:
		return ErrDropped
	case <-t.server.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *PipeTransport) Recv(ctx context.Context) ([]byte, error) {
	select {
	case data := <-t.server.outbound:
		return data, nil
	case <-t.closed:
		return nil, errTransportClosed
	case <-t.server.dropped:
		return nil, ErrDropped
	case <-t.server.stopped:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *PipeTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
	})
	return nil
}

func (t *PipeTransport) broken() error {
	select {
	case <-t.closed:
		return errTransportClosed
	case <-t.server.dropped:
		return ErrDropped
	case <-t.server.stopped:
		return ErrStopped
	default:
		return nil
	}
}
