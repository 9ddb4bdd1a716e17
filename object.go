// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Type is the wire name of a media object type, sent as the type of create.
type Type string

// Parent is what a media object is created under. It resolves the Conn and the
// owning pipeline for everything below it.
type Parent interface {
	Conn() *Conn
	Pipeline() *MediaPipeline
}

// Object is anything with a server-side identity.
type Object interface {
	ID() string
	Type() Type
}

// EventHandler receives event data together with the object that emitted it.
type EventHandler func(data interface{}, source *MediaObject)

// MediaObject is a local handle to one server-side entity. Every taxonomy member
// embeds one; all remote behaviour goes through it.
type MediaObject struct {
	id       string
	typ      Type
	parent   Parent
	params   Params
	released atomic.Bool
}

// build adopts existingID when set, otherwise creates a new object of typ on the server.
func build(ctx context.Context, parent Parent, typ Type, params Params, existingID string) (*MediaObject, error) {
	if parent == nil {
		return nil, errors.Errorf("%s requires a parent", typ)
	}

	object := &MediaObject{
		typ:    typ,
		parent: parent,
	}

	conn := parent.Conn()
	if existingID != "" {
		conn.logger.DebugWith("Adopting existing object", "type", typ, "id", existingID)
		object.id = existingID
		return object, nil
	}

	object.params = params
	conn.logger.DebugWith("Creating object", "type", typ)

	id, err := conn.Create(ctx, string(typ), params)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create %s", typ)
	}
	object.id = id
	return object, nil
}

// ID returns the server-assigned identifier.
func (o *MediaObject) ID() string {
	return o.id
}

// Type returns the type tag the object was built with.
func (o *MediaObject) Type() Type {
	return o.typ
}

// Parent returns the object this one was created under.
func (o *MediaObject) Parent() Parent {
	return o.parent
}

// Params returns the constructor params, or nil for an adopted object.
func (o *MediaObject) Params() Params {
	return o.params
}

// Conn resolves the connection through the parent chain.
func (o *MediaObject) Conn() *Conn {
	return o.parent.Conn()
}

// Pipeline resolves the owning pipeline through the parent chain.
func (o *MediaObject) Pipeline() *MediaPipeline {
	return o.parent.Pipeline()
}

// Released reports whether Release succeeded on this handle.
func (o *MediaObject) Released() bool {
	return o.released.Load()
}

// Invoke calls a remote operation and decodes its value into reply, which may be nil.
func (o *MediaObject) Invoke(ctx context.Context, operation string, params Params, reply interface{}) error {
	if o.released.Load() {
		return ErrReleased
	}
	return o.Conn().Invoke(ctx, o.id, operation, params, reply)
}

// InvokeRaw calls a remote operation and returns its raw value, nil when there is none.
func (o *MediaObject) InvokeRaw(ctx context.Context, operation string, params Params) (json.RawMessage, error) {
	if o.released.Load() {
		return nil, ErrReleased
	}
	return o.Conn().InvokeRaw(ctx, o.id, operation, params)
}

// Subscribe registers handler for eventType and returns the subscription id.
func (o *MediaObject) Subscribe(ctx context.Context, eventType string, handler EventHandler) (string, error) {
	if o.released.Load() {
		return "", ErrReleased
	}
	if handler == nil {
		return "", errors.New("Subscribe requires a handler")
	}
	return o.Conn().Subscribe(ctx, o.id, eventType, func(data interface{}) {
		handler(data, o)
	})
}

// Unsubscribe cancels a subscription made through this object's connection.
func (o *MediaObject) Unsubscribe(ctx context.Context, subscriptionID string) error {
	return o.Conn().Unsubscribe(ctx, subscriptionID)
}

// Release destroys the server-side object. Children are not released; the server
// tears them down with their pipeline.
func (o *MediaObject) Release(ctx context.Context) error {
	if o.released.Load() {
		return ErrReleased
	}
	if err := o.Conn().Release(ctx, o.id); err != nil {
		return err
	}
	o.released.Store(true)
	return nil
}
