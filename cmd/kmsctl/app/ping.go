// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type pingCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
}

func newPingCommandeer(rootCommandeer *RootCommandeer) *pingCommandeer {
	commandeer := &pingCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the media server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootCommandeer.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close() // nolint: errcheck

			if err := client.Ping(cmd.Context()); err != nil {
				return errors.Wrap(err, "Ping failed")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pong (session %s)\n", client.Conn().SessionID()) // nolint: errcheck
			return nil
		},
	}

	commandeer.cmd = cmd

	return commandeer
}
