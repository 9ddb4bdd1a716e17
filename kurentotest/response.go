// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurentotest

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Response is what a fake server answers to one request.
type Response struct {
	Value     interface{}
	SessionID string
	Error     *Error

	// NullResult sends "result": null instead of a result object
	NullResult bool
}

// Error is a JSON-RPC error member.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Result answers with value, which may be nil for a void operation.
func Result(value interface{}) *Response {
	return &Response{Value: value}
}

// Fail answers with an error envelope.
func Fail(code int, message string) *Response {
	return &Response{Error: &Error{Code: code, Message: message}}
}

// WithSession sets the sessionId carried in the result.
func (r *Response) WithSession(sessionID string) *Response {
	r.SessionID = sessionID
	return r
}

func (r *Response) frame(id uint64) ([]byte, error) {
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
	}

	switch {
	case r.Error != nil:
		body["error"] = r.Error
	case r.NullResult:
		body["result"] = nil
	default:
		result := map[string]interface{}{}
		if r.Value != nil {
			result["value"] = r.Value
		}
		if r.SessionID != "" {
			result["sessionId"] = r.SessionID
		}
		body["result"] = result
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode response %d", id)
	}
	return data, nil
}
