// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/kurento"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type invokeCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	params         string
}

func newInvokeCommandeer(rootCommandeer *RootCommandeer) *invokeCommandeer {
	commandeer := &invokeCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "invoke object-id operation",
		Short: "Invoke an operation on a media object and print its result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params kurento.Params
			if commandeer.params != "" {
				if err := json.Unmarshal([]byte(commandeer.params), &params); err != nil {
					return errors.Wrap(err, "Failed to parse params, expected a JSON object")
				}
			}

			client, err := rootCommandeer.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close() // nolint: errcheck

			value, err := client.Conn().InvokeRaw(cmd.Context(), args[0], args[1], params)
			if err != nil {
				return errors.Wrapf(err, "Failed to invoke %s", args[1])
			}

			if value != nil {
				fmt.Fprintln(cmd.OutOrStdout(), string(value)) // nolint: errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&commandeer.params, "params", "", "Operation params as a JSON object")

	commandeer.cmd = cmd

	return commandeer
}

type describeCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
}

type describeOutput struct {
	ID            string   `yaml:"id"`
	Type          string   `yaml:"type"`
	QualifiedType string   `yaml:"qualifiedType"`
	Hierarchy     []string `yaml:"hierarchy,omitempty"`
}

func newDescribeCommandeer(rootCommandeer *RootCommandeer) *describeCommandeer {
	commandeer := &describeCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "describe object-id",
		Short: "Print the type of a media object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootCommandeer.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close() // nolint: errcheck

			description, err := client.Conn().Describe(cmd.Context(), args[0])
			if err != nil {
				return errors.Wrapf(err, "Failed to describe %s", args[0])
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			defer encoder.Close() // nolint: errcheck

			return encoder.Encode(&describeOutput{
				ID:            args[0],
				Type:          description.Type,
				QualifiedType: description.QualifiedType,
				Hierarchy:     description.Hierarchy,
			})
		},
	}

	commandeer.cmd = cmd

	return commandeer
}

type releaseCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
}

func newReleaseCommandeer(rootCommandeer *RootCommandeer) *releaseCommandeer {
	commandeer := &releaseCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:     "release object-id [object-id ...]",
		Aliases: []string{"rm"},
		Short:   "Release media objects",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootCommandeer.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close() // nolint: errcheck

			for _, objectID := range args {
				if err := client.Conn().Release(cmd.Context(), objectID); err != nil {
					return errors.Wrapf(err, "Failed to release %s", objectID)
				}

				rootCommandeer.loggerInstance.DebugWith("Released object", "id", objectID)
			}

			return nil
		},
	}

	commandeer.cmd = cmd

	return commandeer
}
