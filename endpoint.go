// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"

	"github.com/pkg/errors"
)

// URIOps control an endpoint bound to a resource URI.
type URIOps struct {
	object *MediaObject
}

// GetURI returns the URI the endpoint was created with.
func (u URIOps) GetURI(ctx context.Context) (string, error) {
	var uri string
	err := u.object.Invoke(ctx, "getUri", nil, &uri)
	return uri, err
}

// Pause suspends the media flow.
func (u URIOps) Pause(ctx context.Context) error {
	return u.object.Invoke(ctx, "pause", nil, nil)
}

// Stop ends the media flow.
func (u URIOps) Stop(ctx context.Context) error {
	return u.object.Invoke(ctx, "stop", nil, nil)
}

// EndOfStreamEvents is implemented by endpoints that can run out of media.
type EndOfStreamEvents struct {
	object *MediaObject
}

// OnEndOfStream subscribes to the end of the source media.
func (e EndOfStreamEvents) OnEndOfStream(ctx context.Context, handler EventHandler) (string, error) {
	return e.object.Subscribe(ctx, EventEndOfStream, handler)
}

// SessionEvents report the media session lifecycle of a network endpoint.
type SessionEvents struct {
	object *MediaObject
}

// OnMediaSessionStarted subscribes to the start of the media session.
func (s SessionEvents) OnMediaSessionStarted(ctx context.Context, handler EventHandler) (string, error) {
	return s.object.Subscribe(ctx, EventMediaSessionStarted, handler)
}

// OnMediaSessionTerminated subscribes to the end of the media session.
func (s SessionEvents) OnMediaSessionTerminated(ctx context.Context, handler EventHandler) (string, error) {
	return s.object.Subscribe(ctx, EventMediaSessionTerminated, handler)
}

// HTTPOps expose the URL an HTTP endpoint serves on.
type HTTPOps struct {
	object *MediaObject
}

// GetURL returns the URL clients use to reach the endpoint.
func (h HTTPOps) GetURL(ctx context.Context) (string, error) {
	var url string
	err := h.object.Invoke(ctx, "getUrl", nil, &url)
	return url, err
}

// SDPOps negotiate a session through SDP offer/answer.
type SDPOps struct {
	object *MediaObject
}

// GenerateOffer returns a local SDP offer.
func (s SDPOps) GenerateOffer(ctx context.Context) (string, error) {
	return s.invokeString(ctx, "generateOffer", nil)
}

// ProcessOffer takes a remote offer and returns the local answer.
func (s SDPOps) ProcessOffer(ctx context.Context, offer string) (string, error) {
	return s.invokeString(ctx, "processOffer", Params{"offer": offer})
}

// ProcessAnswer takes the remote answer to an offer made with GenerateOffer.
func (s SDPOps) ProcessAnswer(ctx context.Context, answer string) (string, error) {
	return s.invokeString(ctx, "processAnswer", Params{"answer": answer})
}

// GetLocalSessionDescriptor returns the local SDP, once negotiated.
func (s SDPOps) GetLocalSessionDescriptor(ctx context.Context) (string, error) {
	return s.invokeString(ctx, "getLocalSessionDescriptor", nil)
}

// GetRemoteSessionDescriptor returns the SDP received from the peer.
func (s SDPOps) GetRemoteSessionDescriptor(ctx context.Context) (string, error) {
	return s.invokeString(ctx, "getRemoteSessionDescriptor", nil)
}

func (s SDPOps) invokeString(ctx context.Context, operation string, params Params) (string, error) {
	var sdp string
	err := s.object.Invoke(ctx, operation, params, &sdp)
	return sdp, err
}

// ICEOps add trickle ICE to an SDP endpoint.
type ICEOps struct {
	object *MediaObject
}

// OnIceCandidate subscribes to locally gathered candidates. Decode the data with
// DecodeEventData into an IceCandidateEvent.
func (i ICEOps) OnIceCandidate(ctx context.Context, handler EventHandler) (string, error) {
	return i.object.Subscribe(ctx, EventIceCandidate, handler)
}

// AddIceCandidate hands a remote candidate to the endpoint.
func (i ICEOps) AddIceCandidate(ctx context.Context, candidate IceCandidate) error {
	return i.object.Invoke(ctx, "addIceCandidate", Params{"candidate": candidate}, nil)
}

// GatherCandidates starts local candidate gathering.
func (i ICEOps) GatherCandidates(ctx context.Context) error {
	return i.object.Invoke(ctx, "gatherCandidates", nil, nil)
}

// PlayerEndpoint reads media from a URI into the pipeline.
type PlayerEndpoint struct {
	*MediaObject
	ElementOps
	URIOps
	EndOfStreamEvents
}

func newPlayerEndpoint(object *MediaObject) *PlayerEndpoint {
	return &PlayerEndpoint{
		MediaObject:       object,
		ElementOps:        ElementOps{object},
		URIOps:            URIOps{object},
		EndOfStreamEvents: EndOfStreamEvents{object},
	}
}

// NewPlayerEndpoint creates a player for uri. params may carry extra constructor arguments.
func NewPlayerEndpoint(ctx context.Context, pipeline *MediaPipeline, uri string, params Params) (*PlayerEndpoint, error) {
	if uri == "" {
		return nil, errors.New("PlayerEndpoint requires a uri")
	}
	params = params.clone()
	params["uri"] = uri

	object, err := newElement(ctx, pipeline, TypePlayerEndpoint, params)
	if err != nil {
		return nil, err
	}
	return newPlayerEndpoint(object), nil
}

// PlayerEndpointFromID adopts an existing player without contacting the server.
func PlayerEndpointFromID(pipeline *MediaPipeline, id string) (*PlayerEndpoint, error) {
	object, err := adoptElement(pipeline, TypePlayerEndpoint, id)
	if err != nil {
		return nil, err
	}
	return newPlayerEndpoint(object), nil
}

// Play starts reading the source URI.
func (p *PlayerEndpoint) Play(ctx context.Context) error {
	return p.Invoke(ctx, "play", nil, nil)
}

// RecorderEndpoint stores the media it receives at a URI.
type RecorderEndpoint struct {
	*MediaObject
	ElementOps
	URIOps
}

func newRecorderEndpoint(object *MediaObject) *RecorderEndpoint {
	return &RecorderEndpoint{
		MediaObject: object,
		ElementOps:  ElementOps{object},
		URIOps:      URIOps{object},
	}
}

// NewRecorderEndpoint creates a recorder writing to uri.
func NewRecorderEndpoint(ctx context.Context, pipeline *MediaPipeline, uri string, params Params) (*RecorderEndpoint, error) {
	if uri == "" {
		return nil, errors.New("RecorderEndpoint requires a uri")
	}
	params = params.clone()
	params["uri"] = uri

	object, err := newElement(ctx, pipeline, TypeRecorderEndpoint, params)
	if err != nil {
		return nil, err
	}
	return newRecorderEndpoint(object), nil
}

// RecorderEndpointFromID adopts an existing recorder.
func RecorderEndpointFromID(pipeline *MediaPipeline, id string) (*RecorderEndpoint, error) {
	object, err := adoptElement(pipeline, TypeRecorderEndpoint, id)
	if err != nil {
		return nil, err
	}
	return newRecorderEndpoint(object), nil
}

// Record starts writing to the target URI.
func (r *RecorderEndpoint) Record(ctx context.Context) error {
	return r.Invoke(ctx, "record", nil, nil)
}

// HTTPGetEndpoint serves pipeline media over HTTP GET.
type HTTPGetEndpoint struct {
	*MediaObject
	ElementOps
	SessionEvents
	HTTPOps
}

func newHTTPGetEndpoint(object *MediaObject) *HTTPGetEndpoint {
	return &HTTPGetEndpoint{
		MediaObject:   object,
		ElementOps:    ElementOps{object},
		SessionEvents: SessionEvents{object},
		HTTPOps:       HTTPOps{object},
	}
}

// NewHTTPGetEndpoint creates an HTTP GET endpoint in pipeline.
func NewHTTPGetEndpoint(ctx context.Context, pipeline *MediaPipeline, params Params) (*HTTPGetEndpoint, error) {
	object, err := newElement(ctx, pipeline, TypeHTTPGetEndpoint, params)
	if err != nil {
		return nil, err
	}
	return newHTTPGetEndpoint(object), nil
}

// HTTPGetEndpointFromID adopts an existing HTTP GET endpoint.
func HTTPGetEndpointFromID(pipeline *MediaPipeline, id string) (*HTTPGetEndpoint, error) {
	object, err := adoptElement(pipeline, TypeHTTPGetEndpoint, id)
	if err != nil {
		return nil, err
	}
	return newHTTPGetEndpoint(object), nil
}

// HTTPPostEndpoint feeds media uploaded over HTTP POST into the pipeline.
type HTTPPostEndpoint struct {
	*MediaObject
	ElementOps
	SessionEvents
	HTTPOps
	EndOfStreamEvents
}

func newHTTPPostEndpoint(object *MediaObject) *HTTPPostEndpoint {
	return &HTTPPostEndpoint{
		MediaObject:       object,
		ElementOps:        ElementOps{object},
		SessionEvents:     SessionEvents{object},
		HTTPOps:           HTTPOps{object},
		EndOfStreamEvents: EndOfStreamEvents{object},
	}
}

// NewHTTPPostEndpoint creates an HTTP POST endpoint in pipeline.
func NewHTTPPostEndpoint(ctx context.Context, pipeline *MediaPipeline, params Params) (*HTTPPostEndpoint, error) {
	object, err := newElement(ctx, pipeline, TypeHTTPPostEndpoint, params)
	if err != nil {
		return nil, err
	}
	return newHTTPPostEndpoint(object), nil
}

// HTTPPostEndpointFromID adopts an existing HTTP POST endpoint.
func HTTPPostEndpointFromID(pipeline *MediaPipeline, id string) (*HTTPPostEndpoint, error) {
	object, err := adoptElement(pipeline, TypeHTTPPostEndpoint, id)
	if err != nil {
		return nil, err
	}
	return newHTTPPostEndpoint(object), nil
}

// RtpEndpoint exchanges plain RTP negotiated with SDP.
type RtpEndpoint struct {
	*MediaObject
	ElementOps
	SessionEvents
	SDPOps
}

func newRtpEndpoint(object *MediaObject) *RtpEndpoint {
	return &RtpEndpoint{
		MediaObject:   object,
		ElementOps:    ElementOps{object},
		SessionEvents: SessionEvents{object},
		SDPOps:        SDPOps{object},
	}
}

// NewRtpEndpoint creates an RTP endpoint in pipeline.
func NewRtpEndpoint(ctx context.Context, pipeline *MediaPipeline, params Params) (*RtpEndpoint, error) {
	object, err := newElement(ctx, pipeline, TypeRtpEndpoint, params)
	if err != nil {
		return nil, err
	}
	return newRtpEndpoint(object), nil
}

// RtpEndpointFromID adopts an existing RTP endpoint.
func RtpEndpointFromID(pipeline *MediaPipeline, id string) (*RtpEndpoint, error) {
	object, err := adoptElement(pipeline, TypeRtpEndpoint, id)
	if err != nil {
		return nil, err
	}
	return newRtpEndpoint(object), nil
}

// WebRtcEndpoint is an SDP endpoint with ICE, talking to browsers.
type WebRtcEndpoint struct {
	*MediaObject
	ElementOps
	SessionEvents
	SDPOps
	ICEOps
}

func newWebRtcEndpoint(object *MediaObject) *WebRtcEndpoint {
	return &WebRtcEndpoint{
		MediaObject:   object,
		ElementOps:    ElementOps{object},
		SessionEvents: SessionEvents{object},
		SDPOps:        SDPOps{object},
		ICEOps:        ICEOps{object},
	}
}

// NewWebRtcEndpoint creates a WebRTC endpoint in pipeline.
func NewWebRtcEndpoint(ctx context.Context, pipeline *MediaPipeline, params Params) (*WebRtcEndpoint, error) {
	object, err := newElement(ctx, pipeline, TypeWebRtcEndpoint, params)
	if err != nil {
		return nil, err
	}
	return newWebRtcEndpoint(object), nil
}

// WebRtcEndpointFromID adopts an existing WebRTC endpoint.
func WebRtcEndpointFromID(pipeline *MediaPipeline, id string) (*WebRtcEndpoint, error) {
	object, err := adoptElement(pipeline, TypeWebRtcEndpoint, id)
	if err != nil {
		return nil, err
	}
	return newWebRtcEndpoint(object), nil
}
