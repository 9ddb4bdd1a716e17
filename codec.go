// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"bytes"
	"encoding/json"

	rpc "github.com/gorilla/rpc/v2/json2"
	"github.com/pkg/errors"
)

const jsonRPCVersion = "2.0"

// Methods understood by the media server.
const (
	MethodCreate      = "create"
	MethodInvoke      = "invoke"
	MethodSubscribe   = "subscribe"
	MethodUnsubscribe = "unsubscribe"
	MethodRelease     = "release"
	MethodPing        = "ping"
	MethodDescribe    = "describe"

	// MethodOnEvent is the only method the server sends unprompted.
	MethodOnEvent = "onEvent"
)

// Params holds the named arguments of a remote call.
type Params map[string]interface{}

func (p Params) clone() Params {
	cloned := make(Params, len(p)+1)
	for key, value := range p {
		cloned[key] = value
	}
	return cloned
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

func encodeRequest(id uint64, method string, params Params) ([]byte, error) {
	if params == nil {
		params = Params{}
	}
	data, err := json.Marshal(&request{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode %s request", method)
	}
	return data, nil
}

// envelope is the union of every inbound frame shape.
type envelope struct {
	ID     *uint64         `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type result struct {
	Value     json.RawMessage `json:"value"`
	SessionID string          `json:"sessionId"`
}

// response is a decoded reply correlated by ID. Exactly one of value or err is meaningful.
type response struct {
	id        uint64
	value     json.RawMessage
	sessionID string
	err       *RemoteError
}

type notification struct {
	eventType string
	object    string
	data      interface{}
}

type frame struct {
	response     *response
	notification *notification

	// set for frames that are neither responses nor onEvent notifications
	method string
}

func decodeFrame(data []byte) (*frame, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ProtocolDecodeError{Frame: data, Err: err}
	}

	if env.ID != nil {
		resp, err := decodeResponse(*env.ID, data)
		if err != nil {
			return nil, &ProtocolDecodeError{Frame: data, Err: err}
		}
		return &frame{response: resp}, nil
	}

	if env.Method == "" {
		return nil, &ProtocolDecodeError{Frame: data, Err: errors.New("Frame has neither id nor method")}
	}

	if env.Method != MethodOnEvent {
		return &frame{method: env.Method}, nil
	}

	event, err := decodeNotification(env.Params)
	if err != nil {
		return nil, &ProtocolDecodeError{Frame: data, Err: err}
	}
	return &frame{notification: event, method: env.Method}, nil
}

func decodeResponse(id uint64, data []byte) (*response, error) {
	var res result
	err := rpc.DecodeClientResponse(bytes.NewReader(data), &res)
	switch {
	case err == nil:
	case errors.Is(err, rpc.ErrNullResult):

		// no result at all is a null return
		return &response{id: id}, nil
	default:
		var rpcErr *rpc.Error
		if errors.As(err, &rpcErr) {
			return &response{
				id: id,
				err: &RemoteError{
					Code:     int(rpcErr.Code),
					Message:  rpcErr.Message,
					Data:     rpcErr.Data,
					Response: data,
				},
			}, nil
		}
		return nil, errors.Wrap(err, "Failed to decode result")
	}

	value := res.Value
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		value = nil
	}
	return &response{id: id, value: value, sessionID: res.SessionID}, nil
}

func decodeNotification(params json.RawMessage) (*notification, error) {
	var body struct {
		Value *struct {
			Type   string      `json:"type"`
			Object string      `json:"object"`
			Data   interface{} `json:"data"`
		} `json:"value"`
	}
	if len(params) == 0 {
		return nil, errors.New("Notification has no params")
	}
	if err := json.Unmarshal(params, &body); err != nil {
		return nil, errors.Wrap(err, "Failed to decode notification params")
	}
	if body.Value == nil || body.Value.Type == "" {
		return nil, errors.New("Notification has no event type")
	}

	event := &notification{
		eventType: body.Value.Type,
		object:    body.Value.Object,
		data:      body.Value.Data,
	}

	// older servers only name the emitter inside the payload
	if event.object == "" {
		if fields, ok := event.data.(map[string]interface{}); ok {
			if source, ok := fields["source"].(string); ok {
				event.object = source
			}
		}
	}
	return event, nil
}
