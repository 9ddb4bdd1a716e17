// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type configTestSuite struct {
	suite.Suite
}

func (suite *configTestSuite) TestDefaults() {
	config, err := LoadConfig("")
	suite.Require().NoError(err)
	suite.Require().Equal(NewConfig(), config)
	suite.Require().NoError(config.Validate())
}

func (suite *configTestSuite) TestLoadOverridesDefaults() {
	path := suite.writeConfig("url: ws://kms:8888/kurento\nrequestTimeout: 5s\nlogLevel: debug\n")

	config, err := LoadConfig(path)
	suite.Require().NoError(err)
	suite.Require().Equal("ws://kms:8888/kurento", config.URL)
	suite.Require().Equal(5*time.Second, config.RequestTimeout)
	suite.Require().Equal("debug", config.LogLevel)

	// untouched keys keep their defaults
	suite.Require().Equal(defaultConnectAttempts, config.ConnectAttempts)
}

func (suite *configTestSuite) TestLoadFailures() {
	_, err := LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Require().Error(err)

	_, err = LoadConfig(suite.writeConfig("url: [unterminated"))
	suite.Require().Error(err)
}

func (suite *configTestSuite) TestValidate() {
	for _, mutate := range []func(*Config){
		func(config *Config) { config.URL = "" },
		func(config *Config) { config.ConnectAttempts = 0 },
		func(config *Config) { config.RequestTimeout = -time.Second },
		func(config *Config) { config.LogLevel = "chatty" },
	} {
		config := NewConfig()
		mutate(config)
		suite.Require().Error(config.Validate())
	}
}

func (suite *configTestSuite) writeConfig(contents string) string {
	path := filepath.Join(suite.T().TempDir(), "kmsctl.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(configTestSuite))
}
