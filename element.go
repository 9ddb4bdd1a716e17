// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"

	"github.com/pkg/errors"
)

// Type tags. These are the names sent on the wire and never change with Go names.
const (
	TypeMediaPipeline       Type = "MediaPipeline"
	TypePlayerEndpoint      Type = "PlayerEndpoint"
	TypeRecorderEndpoint    Type = "RecorderEndpoint"
	TypeHTTPGetEndpoint     Type = "HttpGetEndpoint"
	TypeHTTPPostEndpoint    Type = "HttpPostEndpoint"
	TypeRtpEndpoint         Type = "RtpEndpoint"
	TypeWebRtcEndpoint      Type = "WebRtcEndpoint"
	TypeGStreamerFilter     Type = "GStreamerFilter"
	TypeFaceOverlayFilter   Type = "FaceOverlayFilter"
	TypeZBarFilter          Type = "ZBarFilter"
	TypeComposite           Type = "Composite"
	TypeDispatcher          Type = "Dispatcher"
	TypeDispatcherOneToMany Type = "DispatcherOneToMany"
	TypeHubPort             Type = "HubPort"
)

var elementTypes = []Type{
	TypePlayerEndpoint,
	TypeRecorderEndpoint,
	TypeHTTPGetEndpoint,
	TypeHTTPPostEndpoint,
	TypeRtpEndpoint,
	TypeWebRtcEndpoint,
	TypeGStreamerFilter,
	TypeFaceOverlayFilter,
	TypeZBarFilter,
	TypeComposite,
	TypeDispatcher,
	TypeDispatcherOneToMany,
}

// ElementTypes lists the element types that can be created directly in a pipeline.
// HubPort is excluded since it is created under a hub.
func ElementTypes() []Type {
	return append([]Type{}, elementTypes...)
}

// IsElementType reports whether typ is listed by ElementTypes.
func IsElementType(typ Type) bool {
	for _, candidate := range elementTypes {
		if candidate == typ {
			return true
		}
	}
	return false
}

// newElement creates an element of typ, injecting the owning pipeline's id.
func newElement(ctx context.Context, pipeline *MediaPipeline, typ Type, params Params) (*MediaObject, error) {
	if pipeline == nil {
		return nil, errors.Errorf("%s requires a pipeline", typ)
	}

	merged := params.clone()
	merged["mediaPipeline"] = pipeline.ID()
	return build(ctx, pipeline, typ, merged, "")
}

// adopt wraps an existing object without contacting the server.
func adopt(parent Parent, typ Type, id string) (*MediaObject, error) {
	if id == "" {
		return nil, errors.Errorf("%s requires an id", typ)
	}
	return build(context.Background(), parent, typ, nil, id)
}

func adoptElement(pipeline *MediaPipeline, typ Type, id string) (*MediaObject, error) {
	if pipeline == nil {
		return nil, errors.Errorf("%s requires a pipeline", typ)
	}
	return adopt(pipeline, typ, id)
}

// ElementOps are the operations shared by every media element.
type ElementOps struct {
	object *MediaObject
}

// Connect links this element's output to sink.
func (e ElementOps) Connect(ctx context.Context, sink Object) error {
	return e.object.Invoke(ctx, "connect", Params{"sink": sink.ID()}, nil)
}

// ConnectMedia links only the mediaType track of this element to sink.
func (e ElementOps) ConnectMedia(ctx context.Context, sink Object, mediaType MediaType) error {
	return e.object.Invoke(ctx, "connect", Params{"sink": sink.ID(), "mediaType": mediaType}, nil)
}

// Disconnect removes the link to sink.
func (e ElementOps) Disconnect(ctx context.Context, sink Object) error {
	return e.object.Invoke(ctx, "disconnect", Params{"sink": sink.ID()}, nil)
}

// SetAudioFormat forces the raw audio caps the element produces.
func (e ElementOps) SetAudioFormat(ctx context.Context, caps AudioCaps) error {
	return e.object.Invoke(ctx, "setAudioFormat", Params{"caps": caps}, nil)
}

// SetVideoFormat forces the raw video caps the element produces.
func (e ElementOps) SetVideoFormat(ctx context.Context, caps VideoCaps) error {
	return e.object.Invoke(ctx, "setVideoFormat", Params{"caps": caps}, nil)
}

// GetSourceConnections lists links feeding this element. An empty mediaType means all.
func (e ElementOps) GetSourceConnections(ctx context.Context, mediaType MediaType) ([]ElementConnection, error) {
	return e.connections(ctx, "getSourceConnections", mediaType)
}

// GetSinkConnections lists links leaving this element. An empty mediaType means all.
func (e ElementOps) GetSinkConnections(ctx context.Context, mediaType MediaType) ([]ElementConnection, error) {
	return e.connections(ctx, "getSinkConnections", mediaType)
}

func (e ElementOps) connections(ctx context.Context, operation string, mediaType MediaType) ([]ElementConnection, error) {
	params := Params{}
	if mediaType != "" {
		params["mediaType"] = mediaType
	}

	var connections []ElementConnection
	if err := e.object.Invoke(ctx, operation, params, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

// Element is a media element of any type, with only the shared operations.
type Element struct {
	*MediaObject
	ElementOps
}

// NewElement creates an element of an arbitrary type in pipeline.
func NewElement(ctx context.Context, pipeline *MediaPipeline, typ Type, params Params) (*Element, error) {
	object, err := newElement(ctx, pipeline, typ, params)
	if err != nil {
		return nil, err
	}
	return &Element{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// ElementFromID wraps an existing element of typ.
func ElementFromID(pipeline *MediaPipeline, typ Type, id string) (*Element, error) {
	object, err := adoptElement(pipeline, typ, id)
	if err != nil {
		return nil, err
	}
	return &Element{MediaObject: object, ElementOps: ElementOps{object}}, nil
}
