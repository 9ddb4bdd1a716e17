// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrClosed is the cause of a ConnectionError returned after Close.
	ErrClosed = errors.New("Connection closed")

	// ErrReleased is returned by calls on a media object after Release.
	ErrReleased = errors.New("Media object released")
)

// ConnectionError reports that the socket could not be opened or dropped.
// It is fatal to the Conn: every blocked caller and every later call gets it.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("Connection failed: %v", e.Err)
	}
	return fmt.Sprintf("Connection to %s failed: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// RemoteError is an error envelope returned by the media server for one request.
type RemoteError struct {
	Code     int
	Message  string
	Data     interface{}
	Response []byte
}

func (e *RemoteError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("Remote error %d: %s", e.Code, e.Message)
	}
	return "Remote error: " + e.Message
}

// ProtocolDecodeError describes an inbound frame that could not be parsed.
// The receive loop logs and drops such frames.
type ProtocolDecodeError struct {
	Frame []byte
	Err   error
}

func (e *ProtocolDecodeError) Error() string {
	return fmt.Sprintf("Undecodable frame: %v", e.Err)
}

func (e *ProtocolDecodeError) Unwrap() error {
	return e.Err
}

// UnknownSubscriptionError is returned by Unsubscribe for an id with no local registration.
type UnknownSubscriptionError struct {
	SubscriptionID string
}

func (e *UnknownSubscriptionError) Error() string {
	return fmt.Sprintf("Unknown subscription %q", e.SubscriptionID)
}

// IsConnectionError reports whether err is, or wraps, a *ConnectionError.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// IsRemoteError reports whether err is, or wraps, a *RemoteError.
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}
