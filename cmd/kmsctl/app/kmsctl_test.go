// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luxfi/kurento/kurentotest"

	"github.com/stretchr/testify/suite"
)

const unreachableURL = "ws://127.0.0.1:1/kurento"

type kmsctlTestSuite struct {
	suite.Suite
	fake   *kurentotest.FakeMediaServer
	server *kurentotest.WebSocketServer
	ctx    context.Context
	cancel context.CancelFunc
}

func (suite *kmsctlTestSuite) SetupTest() {
	suite.T().Setenv(urlEnvVarName, "")
	suite.T().Setenv(configEnvVarName, "")

	suite.fake = kurentotest.NewFakeMediaServer()
	suite.server = kurentotest.NewWebSocketServer(suite.fake.Handle)
	suite.ctx, suite.cancel = context.WithTimeout(context.Background(), 10*time.Second)
}

func (suite *kmsctlTestSuite) TearDownTest() {
	suite.cancel()
	suite.server.Close()
}

func (suite *kmsctlTestSuite) TestPing() {
	output, err := suite.executeAgainstServer("ping")
	suite.Require().NoError(err)
	suite.Require().Equal("pong (session "+suite.fake.SessionID()+")\n", output)
}

func (suite *kmsctlTestSuite) TestCreatePipelineAndElement() {
	output, err := suite.executeAgainstServer("create", "pipeline")
	suite.Require().NoError(err)

	pipelineID := strings.TrimSpace(output)
	suite.Require().Contains(suite.fake.Objects(), pipelineID)

	output, err = suite.executeAgainstServer("create", "element", "PlayerEndpoint",
		"--pipeline", pipelineID,
		"--param", "uri=http://media/video.webm",
		"--param", "useEncodedMedia=true")
	suite.Require().NoError(err)

	elementID := strings.TrimSpace(output)
	suite.Require().Equal("PlayerEndpoint", suite.fake.Objects()[elementID])

	creates := suite.server.ReceivedMethod("create")
	suite.Require().Equal(map[string]interface{}{
		"mediaPipeline":   pipelineID,
		"uri":             "http://media/video.webm",
		"useEncodedMedia": true,
	}, creates[len(creates)-1].MapParam("constructorParams"))
}

func (suite *kmsctlTestSuite) TestCreateElementValidatesBeforeConnecting() {
	_, err := suite.executeAgainstServer("create", "element", "Toaster", "--pipeline", "p")
	suite.Require().Error(err)
	suite.Require().Contains(err.Error(), "Unknown element type")

	_, err = suite.executeAgainstServer("create", "element", "WebRtcEndpoint")
	suite.Require().Error(err)
	suite.Require().Contains(err.Error(), "requires a pipeline")

	_, err = suite.executeAgainstServer("create", "element", "WebRtcEndpoint", "--pipeline", "p", "--param", "novalue")
	suite.Require().Error(err)

	suite.Require().Empty(suite.server.Received())
}

func (suite *kmsctlTestSuite) TestInvoke() {
	suite.fake.AddObject("player-1", "PlayerEndpoint")
	suite.fake.SetResult("getUri", "http://media/video.webm")

	output, err := suite.executeAgainstServer("invoke", "player-1", "getUri", "--params", `{"verbose":1}`)
	suite.Require().NoError(err)
	suite.Require().Equal("\"http://media/video.webm\"\n", output)

	invokes := suite.server.ReceivedMethod("invoke")
	suite.Require().Len(invokes, 1)
	suite.Require().Equal(map[string]interface{}{"verbose": float64(1)}, invokes[0].MapParam("operationParams"))

	// void operations print nothing
	output, err = suite.executeAgainstServer("invoke", "player-1", "play")
	suite.Require().NoError(err)
	suite.Require().Empty(output)

	_, err = suite.executeAgainstServer("invoke", "player-1", "play", "--params", "[1,2]")
	suite.Require().Error(err)
}

func (suite *kmsctlTestSuite) TestInvokeRemoteError() {
	_, err := suite.executeAgainstServer("invoke", "missing", "play")
	suite.Require().Error(err)
	suite.Require().Contains(err.Error(), "Object 'missing' not found")
}

func (suite *kmsctlTestSuite) TestDescribe() {
	suite.fake.AddObject("pipeline-1", "MediaPipeline")

	output, err := suite.executeAgainstServer("describe", "pipeline-1")
	suite.Require().NoError(err)
	suite.Require().Contains(output, "id: pipeline-1\n")
	suite.Require().Contains(output, "type: MediaPipeline\n")
	suite.Require().Contains(output, "qualifiedType: kurento.MediaPipeline\n")
}

func (suite *kmsctlTestSuite) TestRelease() {
	suite.fake.AddObject("pipeline-1", "MediaPipeline")
	suite.fake.AddObject("pipeline-2", "MediaPipeline")

	_, err := suite.executeAgainstServer("release", "pipeline-1", "pipeline-2")
	suite.Require().NoError(err)
	suite.Require().Empty(suite.fake.Objects())
}

func (suite *kmsctlTestSuite) TestWatch() {
	suite.fake.AddObject("player-1", "PlayerEndpoint")

	type commandResult struct {
		output string
		err    error
	}

	resultCh := make(chan commandResult, 1)
	go func() {
		output, err := suite.executeAgainstServer("watch", "player-1", "EndOfStream", "--count", "2")
		resultCh <- commandResult{output: output, err: err}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for len(suite.fake.Subscriptions()) == 0 {
		suite.Require().True(time.Now().Before(deadline), "Watch never subscribed")
		time.Sleep(10 * time.Millisecond)
	}

	suite.Require().NoError(suite.server.Notify("player-1", "EndOfStream", map[string]interface{}{"n": 1}))
	suite.Require().NoError(suite.server.Notify("player-1", "EndOfStream", map[string]interface{}{"n": 2}))

	var result commandResult
	select {
	case result = <-resultCh:
	case <-time.After(5 * time.Second):
		suite.FailNow("Watch did not finish")
	}
	suite.Require().NoError(result.err)

	lines := strings.Split(strings.TrimSpace(result.output), "\n")
	suite.Require().Len(lines, 2)

	for lineIndex, line := range lines {
		event := watchedEvent{}
		suite.Require().NoError(json.Unmarshal([]byte(line), &event))
		suite.Require().Equal("EndOfStream", event.Type)
		suite.Require().Equal("player-1", event.Object)
		suite.Require().Equal(map[string]interface{}{"n": float64(lineIndex + 1)}, event.Data)
	}
}

func (suite *kmsctlTestSuite) TestConnectGivesUpAfterAttempts() {
	_, err := suite.execute("ping", "--url", unreachableURL, "--connect-attempts", "2")
	suite.Require().Error(err)
	suite.Require().Contains(err.Error(), "after 2 attempts")
}

func (suite *kmsctlTestSuite) TestConfigPrecedence() {
	configPath := filepath.Join(suite.T().TempDir(), "kmsctl.yaml")
	suite.Require().NoError(os.WriteFile(configPath, []byte(
		"url: "+unreachableURL+"\nconnectAttempts: 1\nrequestTimeout: 2s\n"), 0600))

	// the file alone points nowhere
	_, err := suite.execute("ping", "--config", configPath)
	suite.Require().Error(err)

	// env beats the file
	suite.T().Setenv(urlEnvVarName, suite.server.URL())
	_, err = suite.execute("ping", "--config", configPath)
	suite.Require().NoError(err)

	// flags beat env
	suite.T().Setenv(configEnvVarName, configPath)
	_, err = suite.execute("ping", "--url", unreachableURL)
	suite.Require().Error(err)
}

func (suite *kmsctlTestSuite) execute(args ...string) (string, error) {
	rootCommandeer := NewRootCommandeer()
	rootCommandeer.retryDelay = time.Millisecond

	output := &bytes.Buffer{}
	rootCommandeer.GetCmd().SetOut(output)
	rootCommandeer.GetCmd().SetErr(io.Discard)
	rootCommandeer.GetCmd().SetArgs(args)

	err := rootCommandeer.ExecuteContext(suite.ctx)
	return output.String(), err
}

func (suite *kmsctlTestSuite) executeAgainstServer(args ...string) (string, error) {
	return suite.execute(append(args, "--url", suite.server.URL())...)
}

func TestKmsctlTestSuite(t *testing.T) {
	suite.Run(t, new(kmsctlTestSuite))
}
