// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type codecTestSuite struct {
	suite.Suite
}

func (suite *codecTestSuite) TestEncodeRequest() {
	data, err := encodeRequest(7, MethodInvoke, Params{"object": "obj", "operation": "play"})
	suite.Require().NoError(err)

	var decoded map[string]interface{}
	suite.Require().NoError(json.Unmarshal(data, &decoded))
	suite.Require().Equal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      float64(7),
		"method":  "invoke",
		"params": map[string]interface{}{
			"object":    "obj",
			"operation": "play",
		},
	}, decoded)
}

func (suite *codecTestSuite) TestEncodeRequestWithoutParams() {
	data, err := encodeRequest(1, MethodPing, nil)
	suite.Require().NoError(err)
	suite.Require().JSONEq(`{"jsonrpc":"2.0","id":1,"method":"ping","params":{}}`, string(data))
}

func (suite *codecTestSuite) TestDecodeResponse() {
	decoded, err := decodeFrame([]byte(`{"jsonrpc":"2.0","id":3,"result":{"value":"obj-1","sessionId":"s-1"}}`))
	suite.Require().NoError(err)
	suite.Require().Nil(decoded.notification)
	suite.Require().NotNil(decoded.response)
	suite.Require().Equal(uint64(3), decoded.response.id)
	suite.Require().Equal(`"obj-1"`, string(decoded.response.value))
	suite.Require().Equal("s-1", decoded.response.sessionID)
	suite.Require().Nil(decoded.response.err)
}

func (suite *codecTestSuite) TestDecodeResponseWithoutValue() {
	for _, frame := range []string{
		`{"jsonrpc":"2.0","id":3,"result":{}}`,
		`{"jsonrpc":"2.0","id":3,"result":{"value":null}}`,
		`{"jsonrpc":"2.0","id":3,"result":null}`,
	} {
		decoded, err := decodeFrame([]byte(frame))
		suite.Require().NoError(err, frame)
		suite.Require().Nil(decoded.response.value, frame)
		suite.Require().Nil(decoded.response.err, frame)
	}
}

func (suite *codecTestSuite) TestDecodeErrorResponse() {
	frame := []byte(`{"jsonrpc":"2.0","id":4,"error":{"code":40101,"message":"boom","data":{"type":"NOT_FOUND"}}}`)

	decoded, err := decodeFrame(frame)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(4), decoded.response.id)
	suite.Require().NotNil(decoded.response.err)
	suite.Require().Equal(40101, decoded.response.err.Code)
	suite.Require().Equal("boom", decoded.response.err.Message)
	suite.Require().Equal(map[string]interface{}{"type": "NOT_FOUND"}, decoded.response.err.Data)
	suite.Require().Equal(frame, decoded.response.err.Response)
	suite.Require().Equal("Remote error 40101: boom", decoded.response.err.Error())
}

func (suite *codecTestSuite) TestDecodeNotification() {
	decoded, err := decodeFrame([]byte(`{"jsonrpc":"2.0","method":"onEvent","params":{"value":{` +
		`"type":"EndOfStream","object":"player-1","data":{"source":"ignored","tags":[]}}}}`))
	suite.Require().NoError(err)
	suite.Require().Nil(decoded.response)
	suite.Require().Equal("EndOfStream", decoded.notification.eventType)
	suite.Require().Equal("player-1", decoded.notification.object)
	suite.Require().Equal(map[string]interface{}{
		"source": "ignored",
		"tags":   []interface{}{},
	}, decoded.notification.data)
}

func (suite *codecTestSuite) TestDecodeNotificationSourceFallback() {
	decoded, err := decodeFrame([]byte(`{"jsonrpc":"2.0","method":"onEvent","params":{"value":{` +
		`"type":"CodeFound","data":{"source":"zbar-1","value":"hello"}}}}`))
	suite.Require().NoError(err)
	suite.Require().Equal("zbar-1", decoded.notification.object)
}

func (suite *codecTestSuite) TestDecodeUnknownMethod() {
	decoded, err := decodeFrame([]byte(`{"jsonrpc":"2.0","method":"onTransaction","params":{}}`))
	suite.Require().NoError(err)
	suite.Require().Nil(decoded.response)
	suite.Require().Nil(decoded.notification)
	suite.Require().Equal("onTransaction", decoded.method)
}

func (suite *codecTestSuite) TestDecodeMalformedFrames() {
	for _, frame := range []string{
		`not json`,
		`{"jsonrpc":"2.0"}`,
		`{"jsonrpc":"2.0","id":"abc","result":{}}`,
		`{"jsonrpc":"2.0","id":5,"result":"bare"}`,
		`{"jsonrpc":"2.0","method":"onEvent"}`,
		`{"jsonrpc":"2.0","method":"onEvent","params":{"value":{"object":"x"}}}`,
	} {
		_, err := decodeFrame([]byte(frame))

		var decodeErr *ProtocolDecodeError
		suite.Require().True(errors.As(err, &decodeErr), frame)
		suite.Require().Equal(frame, string(decodeErr.Frame))
	}
}

func (suite *codecTestSuite) TestParamsClone() {
	var nilParams Params
	cloned := nilParams.clone()
	suite.Require().NotNil(cloned)

	original := Params{"a": 1}
	cloned = original.clone()
	cloned["b"] = 2
	suite.Require().Len(original, 1)
}

func TestCodecTestSuite(t *testing.T) {
	suite.Run(t, new(codecTestSuite))
}
