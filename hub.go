// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"

	"github.com/pkg/errors"
)

// Hub is implemented by the hub types; ports are created under a hub.
type Hub interface {
	Object
	Parent
}

// HubPort attaches an element to a hub.
type HubPort struct {
	*MediaObject
	ElementOps
}

// NewHubPort creates a port on hub. The port lives in the hub's pipeline.
func NewHubPort(ctx context.Context, hub Hub, params Params) (*HubPort, error) {
	if hub == nil {
		return nil, errors.New("HubPort requires a hub")
	}
	pipeline := hub.Pipeline()
	if pipeline == nil {
		return nil, errors.New("HubPort requires a hub inside a pipeline")
	}

	params = params.clone()
	params["mediaPipeline"] = pipeline.ID()
	params["hub"] = hub.ID()

	object, err := build(ctx, hub, TypeHubPort, params, "")
	if err != nil {
		return nil, err
	}
	return &HubPort{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// HubPortFromID wraps an existing port of hub.
func HubPortFromID(hub Hub, id string) (*HubPort, error) {
	if hub == nil {
		return nil, errors.New("HubPort requires a hub")
	}
	object, err := adopt(hub, TypeHubPort, id)
	if err != nil {
		return nil, err
	}
	return &HubPort{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// Composite mixes the media of all its ports into one stream.
type Composite struct {
	*MediaObject
	ElementOps
}

// NewComposite creates a mixing hub in pipeline.
func NewComposite(ctx context.Context, pipeline *MediaPipeline, params Params) (*Composite, error) {
	object, err := newElement(ctx, pipeline, TypeComposite, params)
	if err != nil {
		return nil, err
	}
	return &Composite{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// CompositeFromID adopts an existing composite.
func CompositeFromID(pipeline *MediaPipeline, id string) (*Composite, error) {
	object, err := adoptElement(pipeline, TypeComposite, id)
	if err != nil {
		return nil, err
	}
	return &Composite{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// Dispatcher routes media between pairs of its ports.
type Dispatcher struct {
	*MediaObject
	ElementOps
}

// NewDispatcher creates a routing hub in pipeline.
func NewDispatcher(ctx context.Context, pipeline *MediaPipeline, params Params) (*Dispatcher, error) {
	object, err := newElement(ctx, pipeline, TypeDispatcher, params)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// DispatcherFromID adopts an existing dispatcher.
func DispatcherFromID(pipeline *MediaPipeline, id string) (*Dispatcher, error) {
	object, err := adoptElement(pipeline, TypeDispatcher, id)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// ConnectPorts routes the media arriving at source out through sink.
func (d *Dispatcher) ConnectPorts(ctx context.Context, source, sink *HubPort) error {
	return d.Invoke(ctx, "connect", Params{"source": source.ID(), "sink": sink.ID()}, nil)
}

// DispatcherOneToMany sends the media of one source port to every other port.
type DispatcherOneToMany struct {
	*MediaObject
	ElementOps
}

// NewDispatcherOneToMany creates a broadcasting hub in pipeline.
func NewDispatcherOneToMany(ctx context.Context, pipeline *MediaPipeline, params Params) (*DispatcherOneToMany, error) {
	object, err := newElement(ctx, pipeline, TypeDispatcherOneToMany, params)
	if err != nil {
		return nil, err
	}
	return &DispatcherOneToMany{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// DispatcherOneToManyFromID adopts an existing one-to-many dispatcher.
func DispatcherOneToManyFromID(pipeline *MediaPipeline, id string) (*DispatcherOneToMany, error) {
	object, err := adoptElement(pipeline, TypeDispatcherOneToMany, id)
	if err != nil {
		return nil, err
	}
	return &DispatcherOneToMany{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// SetSource makes source the port broadcast to all others.
func (d *DispatcherOneToMany) SetSource(ctx context.Context, source *HubPort) error {
	return d.Invoke(ctx, "setSource", Params{"source": source.ID()}, nil)
}

// RemoveSource stops broadcasting.
func (d *DispatcherOneToMany) RemoveSource(ctx context.Context) error {
	return d.Invoke(ctx, "removeSource", nil, nil)
}
