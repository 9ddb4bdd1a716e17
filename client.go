// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
)

// Client is the entry point for building media objects. It is the parent of
// every pipeline created through it.
type Client struct {
	conn *Conn
}

// NewClient wraps an existing Conn.
func NewClient(conn *Conn) *Client {
	return &Client{conn: conn}
}

// Conn returns the underlying connection.
func (c *Client) Conn() *Conn {
	return c.conn
}

// Pipeline returns nil; the client sits above every pipeline.
func (c *Client) Pipeline() *MediaPipeline {
	return nil
}

// CreatePipeline creates a new, empty pipeline.
func (c *Client) CreatePipeline(ctx context.Context) (*MediaPipeline, error) {
	return NewMediaPipeline(ctx, c, nil)
}

// GetPipeline wraps the existing pipeline id without contacting the server.
func (c *Client) GetPipeline(id string) (*MediaPipeline, error) {
	return MediaPipelineFromID(c, id)
}

// Ping checks that the media server answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the connection. Server-side objects are left to the server's
// session garbage collection.
func (c *Client) Close() error {
	return c.conn.Close()
}
