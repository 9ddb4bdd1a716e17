// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type watchCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	count          int
}

type watchedEvent struct {
	Type   string      `json:"type"`
	Object string      `json:"object"`
	Data   interface{} `json:"data"`
}

func newWatchCommandeer(rootCommandeer *RootCommandeer) *watchCommandeer {
	commandeer := &watchCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "watch object-id event-type [event-type ...]",
		Short: "Print events of a media object as JSON lines",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commandeer.watch(cmd, args[0], args[1:])
		},
	}

	cmd.Flags().IntVarP(&commandeer.count, "count", "n", 0, "Stop after this many events (0 waits until interrupted)")

	commandeer.cmd = cmd

	return commandeer
}

func (wc *watchCommandeer) watch(cmd *cobra.Command, objectID string, eventTypes []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, err := wc.rootCommandeer.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close() // nolint: errcheck

	events := make(chan *watchedEvent, 64)
	for _, eventType := range eventTypes {
		eventType := eventType

		subscriptionID, err := client.Conn().Subscribe(ctx, objectID, eventType, func(data interface{}) {
			select {
			case events <- &watchedEvent{Type: eventType, Object: objectID, Data: data}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return errors.Wrapf(err, "Failed to subscribe to %s", eventType)
		}

		wc.rootCommandeer.loggerInstance.DebugWith("Subscribed",
			"object", objectID,
			"type", eventType,
			"subscription", subscriptionID)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	for received := 0; wc.count == 0 || received < wc.count; received++ {
		select {
		case event := <-events:
			if err := encoder.Encode(event); err != nil {
				return errors.Wrap(err, "Failed to write event")
			}
		case <-client.Conn().Done():
			return errors.Wrap(client.Conn().Err(), "Connection lost while watching")
		case <-ctx.Done():

			// interrupted
			return nil
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Received %d events\n", wc.count) // nolint: errcheck
	return nil
}
