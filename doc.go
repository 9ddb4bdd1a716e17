// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kurento is a client for Kurento-style media servers.
//
// The server is driven over one persistent websocket speaking JSON-RPC 2.0.
// Every media entity (pipelines, endpoints, filters, hubs) lives on the server;
// this package only holds local handles that name them by id.
//
// # Usage
//
//	client, err := kurento.Dial(ctx, "ws://localhost:8888/kurento",
//	    kurento.WithLogger(loggerInstance))
//	if err != nil {
//	    return errors.Wrap(err, "Failed to connect")
//	}
//	defer client.Close()
//
//	pipeline, err := client.CreatePipeline(ctx)
//	...
//	webRtc, err := kurento.NewWebRtcEndpoint(ctx, pipeline, nil)
//	...
//	// loop the browser's media back to it
//	err = webRtc.Connect(ctx, webRtc)
//
//	answer, err := webRtc.ProcessOffer(ctx, offer)
//
// # Architecture
//
//   - codec.go: JSON-RPC request encoding and inbound frame classification
//   - transport.go: Transport interface and scheme registry
//   - websocket.go: websocket Transport (the default)
//   - conn.go: request correlation, the receive loop and event dispatch
//   - object.go: MediaObject, the handle every taxonomy member embeds
//   - element.go, endpoint.go, filter.go, hub.go: the object taxonomy
//
// A Conn serves any number of goroutines. Responses are matched to requests by id,
// so they may arrive in any order. Event handlers run on a dedicated goroutine in
// arrival order and may call back into the Conn. A caller that gives up stops
// waiting without affecting the others; a failed write ends the Conn for all.
package kurento
