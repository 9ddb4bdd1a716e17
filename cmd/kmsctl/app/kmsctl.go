// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/luxfi/kurento"

	"github.com/jpillora/backoff"
	"github.com/nuclio/logger"
	"github.com/nuclio/zap"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Run executes kmsctl with os.Args, stopping on interrupt.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewRootCommandeer().ExecuteContext(ctx)
}

// RootCommandeer holds the flags and state shared by every kmsctl command
type RootCommandeer struct {
	loggerInstance  logger.Logger
	cmd             *cobra.Command
	config          *Config
	configPath      string
	url             string
	verbose         bool
	requestTimeout  time.Duration
	connectAttempts int

	// minimum delay between connect attempts
	retryDelay time.Duration
}

// NewRootCommandeer builds the root command with all subcommands attached
func NewRootCommandeer() *RootCommandeer {
	commandeer := &RootCommandeer{
		retryDelay: 200 * time.Millisecond,
	}

	cmd := &cobra.Command{
		Use:           "kmsctl [command]",
		Short:         "Media server command-line interface",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&commandeer.url, "url", "u", "", "Media server websocket URL (default \""+defaultURL+"\", env "+urlEnvVarName+")")
	cmd.PersistentFlags().StringVarP(&commandeer.configPath, "config", "c", "", "Path to a yaml configuration file (env "+configEnvVarName+")")
	cmd.PersistentFlags().BoolVarP(&commandeer.verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().DurationVarP(&commandeer.requestTimeout, "timeout", "t", kurento.DefaultRequestTimeout, "Timeout of each request")
	cmd.PersistentFlags().IntVar(&commandeer.connectAttempts, "connect-attempts", defaultConnectAttempts, "Number of connection attempts before giving up")

	// add children
	cmd.AddCommand(
		newPingCommandeer(commandeer).cmd,
		newCreateCommandeer(commandeer).cmd,
		newInvokeCommandeer(commandeer).cmd,
		newDescribeCommandeer(commandeer).cmd,
		newReleaseCommandeer(commandeer).cmd,
		newWatchCommandeer(commandeer).cmd,
	)

	commandeer.cmd = cmd

	return commandeer
}

// Execute uses os.Args to execute the command
func (rc *RootCommandeer) Execute() error {
	return rc.cmd.Execute()
}

// ExecuteContext is Execute with a context handed to every subcommand
func (rc *RootCommandeer) ExecuteContext(ctx context.Context) error {
	return rc.cmd.ExecuteContext(ctx)
}

// GetCmd returns the underlying cobra command
func (rc *RootCommandeer) GetCmd() *cobra.Command {
	return rc.cmd
}

// initialize resolves the configuration (flags over env over file over defaults)
// and creates the logger
func (rc *RootCommandeer) initialize() error {
	var err error

	configPath := rc.configPath
	if configPath == "" {
		configPath = os.Getenv(configEnvVarName)
	}

	rc.config, err = LoadConfig(configPath)
	if err != nil {
		return errors.Wrap(err, "Failed to load configuration")
	}

	if url := os.Getenv(urlEnvVarName); url != "" {
		rc.config.URL = url
	}

	flags := rc.cmd.PersistentFlags()
	if flags.Changed("url") {
		rc.config.URL = rc.url
	}
	if flags.Changed("timeout") {
		rc.config.RequestTimeout = rc.requestTimeout
	}
	if flags.Changed("connect-attempts") {
		rc.config.ConnectAttempts = rc.connectAttempts
	}
	if rc.verbose {
		rc.config.LogLevel = "debug"
	}

	if err := rc.config.Validate(); err != nil {
		return errors.Wrap(err, "Invalid configuration")
	}

	rc.loggerInstance, err = rc.createLogger()
	if err != nil {
		return errors.Wrap(err, "Failed to create logger")
	}

	return nil
}

func (rc *RootCommandeer) createLogger() (logger.Logger, error) {
	// logs go to stderr, command output to stdout
	loggerInstance, err := nucliozap.NewNuclioZapCmd("kmsctl",
		nucliozap.GetLevelByName(rc.config.LogLevel),
		rc.cmd.ErrOrStderr())
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create logger")
	}

	return loggerInstance, nil
}

// connect initializes the root and dials the media server, retrying with backoff
func (rc *RootCommandeer) connect(ctx context.Context) (*kurento.Client, error) {
	if err := rc.initialize(); err != nil {
		return nil, errors.Wrap(err, "Failed to initialize root")
	}

	retry := &backoff.Backoff{
		Min:    rc.retryDelay,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	for {
		client, err := kurento.Dial(ctx,
			rc.config.URL,
			kurento.WithLogger(rc.loggerInstance),
			kurento.WithRequestTimeout(rc.config.RequestTimeout))
		if err == nil {
			rc.loggerInstance.DebugWith("Connected", "url", rc.config.URL)
			return client, nil
		}

		attempt := int(retry.Attempt()) + 1
		if attempt >= rc.config.ConnectAttempts {
			return nil, errors.Wrapf(err, "Failed to connect after %d attempts", attempt)
		}

		delay := retry.Duration()
		rc.loggerInstance.WarnWith("Failed to connect, retrying",
			"url", rc.config.URL,
			"attempt", attempt,
			"delay", delay.String(),
			"err", err.Error())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "Gave up connecting")
		}
	}
}
