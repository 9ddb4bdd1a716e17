// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"

	"github.com/pkg/errors"
)

// GStreamerFilter runs an arbitrary GStreamer element description.
type GStreamerFilter struct {
	*MediaObject
	ElementOps
}

// NewGStreamerFilter creates a filter running command, e.g. "videoflip method=horizontal-flip".
func NewGStreamerFilter(ctx context.Context, pipeline *MediaPipeline, command string, params Params) (*GStreamerFilter, error) {
	if command == "" {
		return nil, errors.New("GStreamerFilter requires a command")
	}
	params = params.clone()
	params["command"] = command

	object, err := newElement(ctx, pipeline, TypeGStreamerFilter, params)
	if err != nil {
		return nil, err
	}
	return &GStreamerFilter{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// GStreamerFilterFromID adopts an existing GStreamer filter.
func GStreamerFilterFromID(pipeline *MediaPipeline, id string) (*GStreamerFilter, error) {
	object, err := adoptElement(pipeline, TypeGStreamerFilter, id)
	if err != nil {
		return nil, err
	}
	return &GStreamerFilter{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// FaceOverlayFilter draws an image over detected faces.
type FaceOverlayFilter struct {
	*MediaObject
	ElementOps
}

// NewFaceOverlayFilter creates a face overlay filter in pipeline.
func NewFaceOverlayFilter(ctx context.Context, pipeline *MediaPipeline, params Params) (*FaceOverlayFilter, error) {
	object, err := newElement(ctx, pipeline, TypeFaceOverlayFilter, params)
	if err != nil {
		return nil, err
	}
	return &FaceOverlayFilter{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// FaceOverlayFilterFromID adopts an existing face overlay filter.
func FaceOverlayFilterFromID(pipeline *MediaPipeline, id string) (*FaceOverlayFilter, error) {
	object, err := adoptElement(pipeline, TypeFaceOverlayFilter, id)
	if err != nil {
		return nil, err
	}
	return &FaceOverlayFilter{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// SetOverlayedImage places the image at uri relative to each face. Offsets and
// sizes are fractions of the face's bounding box.
func (f *FaceOverlayFilter) SetOverlayedImage(ctx context.Context, uri string, offsetX, offsetY, width, height float64) error {
	return f.Invoke(ctx, "setOverlayedImage", Params{
		"uri":            uri,
		"offsetXPercent": offsetX,
		"offsetYPercent": offsetY,
		"widthPercent":   width,
		"heightPercent":  height,
	}, nil)
}

// UnsetOverlayedImage removes the overlay.
func (f *FaceOverlayFilter) UnsetOverlayedImage(ctx context.Context) error {
	return f.Invoke(ctx, "unsetOverlayedImage", nil, nil)
}

// ZBarFilter detects bar and QR codes in the video.
type ZBarFilter struct {
	*MediaObject
	ElementOps
}

// NewZBarFilter creates a code detector in pipeline.
func NewZBarFilter(ctx context.Context, pipeline *MediaPipeline, params Params) (*ZBarFilter, error) {
	object, err := newElement(ctx, pipeline, TypeZBarFilter, params)
	if err != nil {
		return nil, err
	}
	return &ZBarFilter{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// ZBarFilterFromID adopts an existing code detector.
func ZBarFilterFromID(pipeline *MediaPipeline, id string) (*ZBarFilter, error) {
	object, err := adoptElement(pipeline, TypeZBarFilter, id)
	if err != nil {
		return nil, err
	}
	return &ZBarFilter{MediaObject: object, ElementOps: ElementOps{object}}, nil
}

// OnCodeFound subscribes to detections; decode the data into a CodeFoundEvent.
func (z *ZBarFilter) OnCodeFound(ctx context.Context, handler EventHandler) (string, error) {
	return z.Subscribe(ctx, EventCodeFound, handler)
}
