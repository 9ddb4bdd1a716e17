// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/luxfi/kurento"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type createCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
}

func newCreateCommandeer(rootCommandeer *RootCommandeer) *createCommandeer {
	commandeer := &createCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"cr"},
		Short:   "Create media objects",
	}

	cmd.AddCommand(
		newCreatePipelineCommandeer(commandeer).cmd,
		newCreateElementCommandeer(commandeer).cmd,
	)

	commandeer.cmd = cmd

	return commandeer
}

type createPipelineCommandeer struct {
	*createCommandeer
}

func newCreatePipelineCommandeer(createCommandeer *createCommandeer) *createPipelineCommandeer {
	commandeer := &createPipelineCommandeer{
		createCommandeer: createCommandeer,
	}

	cmd := &cobra.Command{
		Use:     "pipeline",
		Aliases: []string{"pi"},
		Short:   "Create a media pipeline and print its id",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createCommandeer.rootCommandeer.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close() // nolint: errcheck

			pipeline, err := client.CreatePipeline(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "Failed to create pipeline")
			}

			fmt.Fprintln(cmd.OutOrStdout(), pipeline.ID()) // nolint: errcheck
			return nil
		},
	}

	commandeer.cmd = cmd

	return commandeer
}

type createElementCommandeer struct {
	*createCommandeer
	pipelineID string
	params     []string
}

func newCreateElementCommandeer(createCommandeer *createCommandeer) *createElementCommandeer {
	commandeer := &createElementCommandeer{
		createCommandeer: createCommandeer,
	}

	cmd := &cobra.Command{
		Use:     "element type",
		Aliases: []string{"el"},
		Short:   "Create a media element in a pipeline and print its id",
		Long:    "Create a media element in a pipeline and print its id.\n\nElement types: " + elementTypeNames(),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			elementType := kurento.Type(args[0])
			if !kurento.IsElementType(elementType) {
				return errors.Errorf("Unknown element type: %s", elementType)
			}

			if commandeer.pipelineID == "" {
				return errors.New("Element creation requires a pipeline (--pipeline)")
			}

			params, err := parseParams(commandeer.params)
			if err != nil {
				return err
			}

			client, err := createCommandeer.rootCommandeer.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close() // nolint: errcheck

			pipeline, err := client.GetPipeline(commandeer.pipelineID)
			if err != nil {
				return errors.Wrap(err, "Failed to get pipeline")
			}

			element, err := kurento.NewElement(cmd.Context(), pipeline, elementType, params)
			if err != nil {
				return errors.Wrapf(err, "Failed to create %s", elementType)
			}

			fmt.Fprintln(cmd.OutOrStdout(), element.ID()) // nolint: errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&commandeer.pipelineID, "pipeline", "p", "", "Id of the pipeline to create the element in")
	cmd.Flags().StringArrayVar(&commandeer.params, "param", nil, "Constructor param as name=value; JSON values are decoded (may be repeated)")

	commandeer.cmd = cmd

	return commandeer
}

// parseParams turns name=value pairs into params. Values that parse as JSON are
// used decoded, anything else is taken as a string.
func parseParams(pairs []string) (kurento.Params, error) {
	params := kurento.Params{}
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, errors.Errorf("Param must be name=value, got %q", pair)
		}

		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			decoded = value
		}
		params[name] = decoded
	}

	return params, nil
}

func elementTypeNames() string {
	var names []string
	for _, elementType := range kurento.ElementTypes() {
		names = append(names, string(elementType))
	}
	return strings.Join(names, ", ")
}
