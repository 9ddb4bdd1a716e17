// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Event types emitted by the media server.
const (
	EventEndOfStream            = "EndOfStream"
	EventMediaSessionStarted    = "MediaSessionStarted"
	EventMediaSessionTerminated = "MediaSessionTerminated"
	EventIceCandidate           = "OnIceCandidate"
	EventCodeFound              = "CodeFound"
	EventError                  = "Error"
)

// EventHeader holds the fields every event payload carries.
type EventHeader struct {
	Type      string `mapstructure:"type"`
	Source    string `mapstructure:"source"`
	Timestamp string `mapstructure:"timestamp"`
}

// IceCandidateEvent is the payload of OnIceCandidate.
type IceCandidateEvent struct {
	EventHeader `mapstructure:",squash"`
	Candidate   IceCandidate `mapstructure:"candidate"`
}

// CodeFoundEvent is the payload of CodeFound.
type CodeFoundEvent struct {
	EventHeader `mapstructure:",squash"`
	CodeType    string `mapstructure:"codeType"`
	Value       string `mapstructure:"value"`
}

// ErrorEvent is the payload of Error.
type ErrorEvent struct {
	EventHeader `mapstructure:",squash"`
	Description string `mapstructure:"description"`
	ErrorCode   int    `mapstructure:"errorCode"`
}

// DecodeEventData converts the generic data passed to an EventHandler into out,
// which must be a pointer to a struct. Unknown fields are ignored; numbers decode
// into string fields.
func DecodeEventData(data interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "Failed to create event decoder")
	}
	if err := decoder.Decode(data); err != nil {
		return errors.Wrap(err, "Failed to decode event data")
	}
	return nil
}
