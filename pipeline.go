// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
)

// MediaPipeline is the root object; every element lives in exactly one pipeline.
type MediaPipeline struct {
	*MediaObject
}

// NewMediaPipeline creates a pipeline under parent, usually a *Client.
func NewMediaPipeline(ctx context.Context, parent Parent, params Params) (*MediaPipeline, error) {
	object, err := build(ctx, parent, TypeMediaPipeline, params, "")
	if err != nil {
		return nil, err
	}
	return &MediaPipeline{MediaObject: object}, nil
}

// MediaPipelineFromID wraps an existing pipeline without contacting the server.
func MediaPipelineFromID(parent Parent, id string) (*MediaPipeline, error) {
	object, err := adopt(parent, TypeMediaPipeline, id)
	if err != nil {
		return nil, err
	}
	return &MediaPipeline{MediaObject: object}, nil
}

// Pipeline returns p; a pipeline is its own root.
func (p *MediaPipeline) Pipeline() *MediaPipeline {
	return p
}

// GetGstreamerDot returns the pipeline graph in graphviz dot format.
func (p *MediaPipeline) GetGstreamerDot(ctx context.Context) (string, error) {
	var dot string
	err := p.Invoke(ctx, "getGstreamerDot", nil, &dot)
	return dot, err
}
