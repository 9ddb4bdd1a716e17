// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nuclio/logger"
	"github.com/pkg/errors"
)

// pingInterval is the keepalive interval announced to the server on ping.
const pingInterval = 240 * time.Second

// EventFunc receives the data of one event notification.
type EventFunc func(data interface{})

// Description is the server's view of an object's type.
type Description struct {
	Type          string   `json:"type"`
	QualifiedType string   `json:"qualifiedType"`
	Hierarchy     []string `json:"hierarchy"`
}

type subscriptionKey struct {
	object    string
	eventType string
}

type subscription struct {
	id  string
	key subscriptionKey
	fn  EventFunc
}

type delivery struct {
	event    *notification
	handlers []EventFunc
}

// Conn multiplexes correlated requests and event notifications over one Transport.
// A single goroutine reads the transport for the lifetime of the Conn; any number of
// goroutines may issue calls concurrently.
type Conn struct {
	transport      Transport
	url            string
	logger         logger.Logger
	metrics        *Metrics
	requestTimeout time.Duration

	// held across id assignment and write, so frames hit the socket in id order
	writeMu sync.Mutex

	mu            sync.Mutex
	nextID        uint64
	sessionID     string
	pending       map[uint64]chan *response
	subscriptions map[string]*subscription
	handlers      map[subscriptionKey]*subscription
	closed        bool
	err           error

	events       *eventQueue
	eventBacklog int
	done         chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewConn takes ownership of transport and starts reading from it.
func NewConn(transport Transport, opts ...Option) *Conn {
	o := newOptions(opts)

	c := &Conn{
		transport:      transport,
		url:            o.url,
		logger:         o.logger.GetChild("conn-" + uuid.New().String()[:8]),
		metrics:        o.metrics,
		requestTimeout: o.requestTimeout,
		pending:        make(map[uint64]chan *response),
		subscriptions:  make(map[string]*subscription),
		handlers:       make(map[subscriptionKey]*subscription),
		events:         newEventQueue(),
		eventBacklog:   o.eventQueueSize,
		done:           make(chan struct{}),
	}

	go c.receiveLoop()
	go c.dispatchLoop()

	c.logger.DebugWith("Connection started", "url", c.url)
	return c
}

// URL returns the address the Conn was dialed with, if any.
func (c *Conn) URL() string {
	return c.url
}

// SessionID returns the session assigned by the server, or "" before one is known.
func (c *Conn) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Done is closed once the receive loop has stopped.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the *ConnectionError that ended the Conn, or nil while it is usable.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Create asks the server for a new object of typeName and returns its id.
func (c *Conn) Create(ctx context.Context, typeName string, constructorParams Params) (string, error) {
	if constructorParams == nil {
		constructorParams = Params{}
	}

	resp, err := c.call(ctx, MethodCreate, Params{
		"type":              typeName,
		"constructorParams": constructorParams,
	})
	if err != nil {
		return "", err
	}

	var objectID string
	if err := decodeValue(resp.value, &objectID); err != nil {
		return "", errors.Wrap(err, "Failed to decode object id")
	}
	if objectID == "" {
		return "", errors.Errorf("Server returned no id for new %s", typeName)
	}
	return objectID, nil
}

// Invoke calls operation on objectID and decodes result.value into reply.
// reply is left untouched when the result carries no value.
func (c *Conn) Invoke(ctx context.Context, objectID, operation string, operationParams Params, reply interface{}) error {
	value, err := c.InvokeRaw(ctx, objectID, operation, operationParams)
	if err != nil {
		return err
	}
	if err := decodeValue(value, reply); err != nil {
		return errors.Wrapf(err, "Failed to decode %s result", operation)
	}
	return nil
}

// InvokeRaw calls operation on objectID and returns result.value, or nil when absent.
func (c *Conn) InvokeRaw(ctx context.Context, objectID, operation string, operationParams Params) (json.RawMessage, error) {
	if operationParams == nil {
		operationParams = Params{}
	}

	resp, err := c.call(ctx, MethodInvoke, Params{
		"object":          objectID,
		"operation":       operation,
		"operationParams": operationParams,
	})
	if err != nil {
		return nil, err
	}
	return resp.value, nil
}

// Subscribe registers fn for eventType notifications emitted by objectID and returns
// the server's subscription id. A later Subscribe for the same object and event type
// replaces fn locally.
func (c *Conn) Subscribe(ctx context.Context, objectID, eventType string, fn EventFunc) (string, error) {
	if fn == nil {
		return "", errors.New("Subscribe requires a callback")
	}

	sub := &subscription{
		key: subscriptionKey{object: objectID, eventType: eventType},
		fn:  fn,
	}

	// register first so events sent right after the server acknowledges are not lost
	c.mu.Lock()
	previous := c.handlers[sub.key]
	c.handlers[sub.key] = sub
	c.mu.Unlock()

	var subscriptionID string
	resp, err := c.call(ctx, MethodSubscribe, Params{
		"object": objectID,
		"type":   eventType,
	})
	if err == nil {
		err = decodeValue(resp.value, &subscriptionID)
		if err == nil && subscriptionID == "" {
			err = errors.Errorf("Server returned no subscription id for %s", eventType)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if c.handlers[sub.key] == sub {
			if previous != nil && c.subscriptions[previous.id] == previous {
				c.handlers[sub.key] = previous
			} else {
				delete(c.handlers, sub.key)
			}
		}
		return "", err
	}

	sub.id = subscriptionID
	c.subscriptions[subscriptionID] = sub
	return subscriptionID, nil
}

// Unsubscribe drops the local registration for subscriptionID and cancels it on the server.
func (c *Conn) Unsubscribe(ctx context.Context, subscriptionID string) error {
	c.mu.Lock()
	sub, ok := c.subscriptions[subscriptionID]
	if ok {
		delete(c.subscriptions, subscriptionID)
		if c.handlers[sub.key] == sub {
			delete(c.handlers, sub.key)
		}
	}
	c.mu.Unlock()

	if !ok {
		return &UnknownSubscriptionError{SubscriptionID: subscriptionID}
	}

	_, err := c.call(ctx, MethodUnsubscribe, Params{
		"subscription": subscriptionID,
		"object":       sub.key.object,
	})
	return err
}

// Release asks the server to destroy objectID.
func (c *Conn) Release(ctx context.Context, objectID string) error {
	_, err := c.call(ctx, MethodRelease, Params{"object": objectID})
	return err
}

// Ping checks that the server answers on this connection.
func (c *Conn) Ping(ctx context.Context) error {
	_, err := c.call(ctx, MethodPing, Params{"interval": pingInterval.Milliseconds()})
	return err
}

// Describe returns the server-side type information of objectID.
func (c *Conn) Describe(ctx context.Context, objectID string) (*Description, error) {
	resp, err := c.call(ctx, MethodDescribe, Params{"object": objectID})
	if err != nil {
		return nil, err
	}

	description := &Description{}
	if err := decodeValue(resp.value, description); err != nil {
		return nil, errors.Wrap(err, "Failed to decode description")
	}
	return description, nil
}

// Close closes the transport and waits for the receive loop to stop. Calls blocked
// on the Conn fail with a *ConnectionError wrapping ErrClosed. Handlers already
// queued may still run after Close returns.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.closeErr = c.transport.Close()
		<-c.done

		c.logger.DebugWith("Connection closed", "url", c.url)
	})
	return c.closeErr
}

func (c *Conn) call(ctx context.Context, method string, params Params) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "Not sending %s request", method)
	}
	if c.requestTimeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
			defer cancel()
		}
	}

	replyCh := make(chan *response, 1)

	c.writeMu.Lock()

	// the caller may have given up while an earlier frame was being written
	if err := ctx.Err(); err != nil {
		c.writeMu.Unlock()
		return nil, errors.Wrapf(err, "Abandoned %s request before sending", method)
	}

	c.mu.Lock()
	if err := c.unusableLocked(); err != nil {
		c.mu.Unlock()
		c.writeMu.Unlock()
		return nil, err
	}
	c.nextID++
	requestID := c.nextID
	c.pending[requestID] = replyCh
	params = params.clone()
	if c.sessionID != "" {
		params["sessionId"] = c.sessionID
	}
	c.mu.Unlock()

	data, err := encodeRequest(requestID, method, params)
	if err != nil {
		c.writeMu.Unlock()
		c.forget(requestID)
		return nil, err
	}

	c.metrics.requestStarted()
	c.logger.DebugWith("Sending request", "id", requestID, "method", method)
	err = c.transport.Send(ctx, data)
	c.writeMu.Unlock()

	if err != nil {
		c.forget(requestID)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			c.metrics.requestFinished(method, OutcomeAbandoned)
			return nil, errors.Wrapf(ctxErr, "Abandoned %s request %d", method, requestID)
		}
		c.metrics.requestFinished(method, OutcomeConnectionError)
		return nil, c.abort(errors.Wrap(err, "Failed to write frame"))
	}

	select {
	case resp := <-replyCh:
		return c.finish(method, resp)
	case <-ctx.Done():
		c.forget(requestID)
		c.metrics.requestFinished(method, OutcomeAbandoned)
		return nil, errors.Wrapf(ctx.Err(), "Abandoned %s request %d", method, requestID)
	case <-c.done:
		c.forget(requestID)

		// the reply may have been delivered just before the loop stopped
		select {
		case resp := <-replyCh:
			return c.finish(method, resp)
		default:
		}
		c.metrics.requestFinished(method, OutcomeConnectionError)
		return nil, c.Err()
	}
}

func (c *Conn) finish(method string, resp *response) (*response, error) {
	if resp.err != nil {
		c.metrics.requestFinished(method, OutcomeRemoteError)
		return nil, resp.err
	}
	c.metrics.requestFinished(method, OutcomeOK)
	return resp, nil
}

func (c *Conn) unusableLocked() error {
	if c.err != nil {
		return c.err
	}
	if c.closed {
		return &ConnectionError{URL: c.url, Err: ErrClosed}
	}
	return nil
}

// forget drops a pending slot; a response arriving later is discarded.
func (c *Conn) forget(requestID uint64) {
	c.mu.Lock()
	delete(c.pending, requestID)
	c.mu.Unlock()
}

// abort ends the Conn with err after a failed write. Closing the transport stops
// the receive loop, which fails every pending call with the same error.
func (c *Conn) abort(err error) error {
	c.mu.Lock()
	if c.err == nil {
		if c.closed {
			c.err = &ConnectionError{URL: c.url, Err: ErrClosed}
		} else {
			c.err = &ConnectionError{URL: c.url, Err: err}
			c.logger.ErrorWith("Connection broken", "url", c.url, "err", err.Error(), "pending", len(c.pending))
		}
	}
	connErr := c.err
	c.mu.Unlock()

	c.transport.Close() // nolint: errcheck
	return connErr
}

func (c *Conn) receiveLoop() {
	defer close(c.done)
	defer c.events.close()

	ctx := context.Background()
	for {
		data, err := c.transport.Recv(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		c.handleFrame(data)
	}
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// a failed write already recorded why the Conn ended
	if c.err != nil {
		return
	}

	if c.closed {
		c.err = &ConnectionError{URL: c.url, Err: ErrClosed}
		return
	}

	c.err = &ConnectionError{URL: c.url, Err: err}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.DebugWith("Server closed the connection", "url", c.url)
		return
	}
	c.logger.ErrorWith("Connection lost", "url", c.url, "err", err.Error(), "pending", len(c.pending))
}

func (c *Conn) handleFrame(data []byte) {
	c.logger.DebugWith("Received frame", "frame", string(data))

	decoded, err := decodeFrame(data)
	if err != nil {
		c.metrics.frameDropped()
		c.logger.WarnWith("Dropping malformed frame", "err", err.Error())
		return
	}

	switch {
	case decoded.response != nil:
		c.deliver(decoded.response)
	case decoded.notification != nil:
		c.dispatch(decoded.notification)
	default:
		c.metrics.frameDropped()
		c.logger.DebugWith("Dropping frame with unhandled method", "method", decoded.method)
	}
}

func (c *Conn) deliver(resp *response) {
	c.mu.Lock()
	replyCh, ok := c.pending[resp.id]
	delete(c.pending, resp.id)
	sessionChanged := resp.sessionID != "" && resp.sessionID != c.sessionID
	if sessionChanged {
		c.sessionID = resp.sessionID
	}
	c.mu.Unlock()

	if sessionChanged {
		c.logger.DebugWith("Session established", "sessionID", resp.sessionID)
	}

	if !ok {
		c.metrics.frameDropped()
		c.logger.DebugWith("Dropping response with no waiter", "id", resp.id)
		return
	}

	// buffered and removed from pending above, so this never blocks
	replyCh <- resp
}

func (c *Conn) dispatch(event *notification) {
	c.metrics.eventReceived(event.eventType)

	handlers := c.handlersFor(event)
	if len(handlers) == 0 {
		c.logger.DebugWith("No subscriber for event",
			"type", event.eventType,
			"object", event.object)
		return
	}

	// never blocks, so a handler waiting on its own call cannot stall the reader
	if backlog := c.events.push(&delivery{event: event, handlers: handlers}); backlog == c.eventBacklog+1 {
		c.logger.WarnWith("Event handlers are falling behind",
			"backlog", backlog,
			"type", event.eventType)
	}
}

func (c *Conn) handlersFor(event *notification) []EventFunc {
	c.mu.Lock()
	defer c.mu.Unlock()

	if event.object != "" {
		sub, ok := c.handlers[subscriptionKey{object: event.object, eventType: event.eventType}]
		if !ok {
			return nil
		}
		return []EventFunc{sub.fn}
	}

	var handlers []EventFunc
	for key, sub := range c.handlers {
		if key.eventType == event.eventType {
			handlers = append(handlers, sub.fn)
		}
	}
	return handlers
}

func (c *Conn) dispatchLoop() {
	for {
		d, ok := c.events.pop()
		if !ok {
			return
		}
		for _, handler := range d.handlers {
			c.runHandler(d.event, handler)
		}
	}
}

func (c *Conn) runHandler(event *notification, handler EventFunc) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorWith("Event handler panicked",
				"type", event.eventType,
				"object", event.object,
				"panic", r)
		}
	}()
	handler(event.data)
}

// eventQueue is an unbounded FIFO with a single consumer.
type eventQueue struct {
	mu     sync.Mutex
	items  []*delivery
	closed bool
	ready  chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{ready: make(chan struct{}, 1)}
}

// push appends d and returns the number of queued deliveries
func (q *eventQueue) push(d *delivery) int {
	q.mu.Lock()
	q.items = append(q.items, d)
	backlog := len(q.items)
	q.mu.Unlock()

	q.signal()
	return backlog
}

// pop blocks until a delivery is queued. It returns false once the queue is
// closed and drained.
func (q *eventQueue) pop() (*delivery, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			d := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return d, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, false
		}
		<-q.ready
	}
}

func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

func (q *eventQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func decodeValue(value json.RawMessage, reply interface{}) error {
	if reply == nil || value == nil {
		return nil
	}
	return json.Unmarshal(value, reply)
}
