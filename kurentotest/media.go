// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurentotest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Error codes used by FakeMediaServer, matching the real server's.
const (
	CodeObjectNotFound       = 40101
	CodeUnknownSubscription  = 40102
	CodeMethodNotFound       = -32601
	CodeConstructorNotFound  = 40107
	CodeInvalidParams        = -32602
	defaultFakeSessionPrefix = "session-"
)

// FakeMediaServer keeps a registry of objects and answers every method the client
// sends. Pass its Handle method to NewServer.
type FakeMediaServer struct {
	mu            sync.Mutex
	sessionID     string
	nextObject    int
	nextSub       int
	objects       map[string]string
	subscriptions map[string]string
	results       map[string]interface{}
	failures      map[string]*Error
}

// NewFakeMediaServer returns a server with an empty registry and a fresh session id.
func NewFakeMediaServer() *FakeMediaServer {
	return &FakeMediaServer{
		sessionID:     defaultFakeSessionPrefix + uuid.New().String(),
		objects:       map[string]string{},
		subscriptions: map[string]string{},
		results:       map[string]interface{}{},
		failures:      map[string]*Error{},
	}
}

// SessionID returns the session id sent with every result.
func (f *FakeMediaServer) SessionID() string {
	return f.sessionID
}

// SetResult makes invocations of operation return value.
func (f *FakeMediaServer) SetResult(operation string, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[operation] = value
}

// SetFailure makes invocations of operation fail.
func (f *FakeMediaServer) SetFailure(operation string, code int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[operation] = &Error{Code: code, Message: message}
}

// Objects returns the live objects, id to type.
func (f *FakeMediaServer) Objects() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	objects := make(map[string]string, len(f.objects))
	for id, typ := range f.objects {
		objects[id] = typ
	}
	return objects
}

// AddObject registers an object as if another client had created it.
func (f *FakeMediaServer) AddObject(id, typ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[id] = typ
}

// Subscriptions returns the live subscriptions, id to object.
func (f *FakeMediaServer) Subscriptions() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscriptions := make(map[string]string, len(f.subscriptions))
	for id, object := range f.subscriptions {
		subscriptions[id] = object
	}
	return subscriptions
}

// Handle answers request.
func (f *FakeMediaServer) Handle(request *Request) *Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	var response *Response
	switch request.Method {
	case "create":
		response = f.create(request)
	case "invoke":
		response = f.invoke(request)
	case "subscribe":
		response = f.subscribe(request)
	case "unsubscribe":
		response = f.unsubscribe(request)
	case "release":
		response = f.release(request)
	case "ping":
		response = Result("pong")
	case "describe":
		response = f.describe(request)
	default:
		response = Fail(CodeMethodNotFound, fmt.Sprintf("Method not found: %s", request.Method))
	}

	if response.Error == nil {
		response.SessionID = f.sessionID
	}
	return response
}

func (f *FakeMediaServer) create(request *Request) *Response {
	typ := request.StringParam("type")
	if typ == "" {
		return Fail(CodeInvalidParams, "create requires a type")
	}

	f.nextObject++
	id := fmt.Sprintf("%s_%d", uuid.New().String(), f.nextObject)

	// elements are named under their pipeline, like the real server does
	if pipeline, ok := request.MapParam("constructorParams")["mediaPipeline"].(string); ok {
		if _, found := f.objects[pipeline]; !found {
			return Fail(CodeObjectNotFound, fmt.Sprintf("Object '%s' not found", pipeline))
		}
		id = pipeline + "/" + id
	}

	f.objects[id] = typ
	return Result(id)
}

func (f *FakeMediaServer) invoke(request *Request) *Response {
	object := request.StringParam("object")
	if _, found := f.objects[object]; !found {
		return Fail(CodeObjectNotFound, fmt.Sprintf("Object '%s' not found", object))
	}

	operation := request.StringParam("operation")
	if failure, found := f.failures[operation]; found {
		return &Response{Error: failure}
	}
	return Result(f.results[operation])
}

func (f *FakeMediaServer) subscribe(request *Request) *Response {
	object := request.StringParam("object")
	if _, found := f.objects[object]; !found {
		return Fail(CodeObjectNotFound, fmt.Sprintf("Object '%s' not found", object))
	}

	f.nextSub++
	id := fmt.Sprintf("%s-%s-%d", object, request.StringParam("type"), f.nextSub)
	f.subscriptions[id] = object
	return Result(id)
}

func (f *FakeMediaServer) unsubscribe(request *Request) *Response {
	id := request.StringParam("subscription")
	if _, found := f.subscriptions[id]; !found {
		return Fail(CodeUnknownSubscription, fmt.Sprintf("Subscription '%s' not found", id))
	}
	delete(f.subscriptions, id)
	return Result(nil)
}

func (f *FakeMediaServer) release(request *Request) *Response {
	object := request.StringParam("object")
	if _, found := f.objects[object]; !found {
		return Fail(CodeObjectNotFound, fmt.Sprintf("Object '%s' not found", object))
	}

	// releasing a pipeline takes its elements with it
	for id := range f.objects {
		if id == object || strings.HasPrefix(id, object+"/") {
			delete(f.objects, id)
		}
	}
	return Result(nil)
}

func (f *FakeMediaServer) describe(request *Request) *Response {
	object := request.StringParam("object")
	typ, found := f.objects[object]
	if !found {
		return Fail(CodeObjectNotFound, fmt.Sprintf("Object '%s' not found", object))
	}

	hierarchy := []string{"kurento.MediaObject"}
	if typ != "MediaPipeline" {
		hierarchy = append([]string{"kurento.MediaElement"}, hierarchy...)
	}
	return Result(map[string]interface{}{
		"type":          typ,
		"qualifiedType": "kurento." + typ,
		"hierarchy":     hierarchy,
	})
}
