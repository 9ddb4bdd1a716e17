// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luxfi/kurento/kurentotest"

	"github.com/nuclio/logger"
	"github.com/nuclio/zap"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type transportTestSuite struct {
	suite.Suite
	logger logger.Logger
	fake   *kurentotest.FakeMediaServer
	ctx    context.Context
	cancel context.CancelFunc
}

func (suite *transportTestSuite) SetupSuite() {
	var err error

	suite.logger, err = nucliozap.NewNuclioZapTest("test")
	suite.Require().NoError(err)
}

func (suite *transportTestSuite) SetupTest() {
	suite.fake = kurentotest.NewFakeMediaServer()
	suite.ctx, suite.cancel = context.WithTimeout(context.Background(), 10*time.Second)
}

func (suite *transportTestSuite) TearDownTest() {
	suite.cancel()
}

func (suite *transportTestSuite) TestDialWebSocket() {
	server := kurentotest.NewWebSocketServer(suite.fake.Handle)
	defer server.Close()

	client, err := Dial(suite.ctx, server.URL(), WithLogger(suite.logger))
	suite.Require().NoError(err)
	defer client.Close() // nolint: errcheck

	suite.Require().Equal(server.URL(), client.Conn().URL())
	suite.Require().NoError(client.Ping(suite.ctx))

	pipeline, err := client.CreatePipeline(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Contains(suite.fake.Objects(), pipeline.ID())
	suite.Require().Equal(suite.fake.SessionID(), client.Conn().SessionID())
}

func (suite *transportTestSuite) TestWebSocketDropFailsCalls() {
	server := kurentotest.NewWebSocketServer(nil)
	defer server.Close()

	conn, err := Connect(suite.ctx, server.URL(), WithLogger(suite.logger))
	suite.Require().NoError(err)
	defer conn.Close() // nolint: errcheck

	errCh := make(chan error, 1)
	go func() {
		errCh <- conn.Ping(suite.ctx)
	}()

	_, err = server.NextRequest(waitTimeout)
	suite.Require().NoError(err)
	server.Drop()

	select {
	case err := <-errCh:
		suite.Require().True(IsConnectionError(err), "got %v", err)
	case <-time.After(waitTimeout):
		suite.FailNow("Call did not fail")
	}
}

func (suite *transportTestSuite) TestExpiredCallersDoNotBreakWebSocket() {
	server := kurentotest.NewWebSocketServer(suite.fake.Handle)
	defer server.Close()

	conn, err := Connect(suite.ctx, server.URL(), WithLogger(suite.logger))
	suite.Require().NoError(err)
	defer conn.Close() // nolint: errcheck

	// large frames keep the socket busy while queued callers run out of time
	payload := strings.Repeat("x", 2<<20)

	var errGroup errgroup.Group
	for callerIndex := 0; callerIndex < 40; callerIndex++ {
		errGroup.Go(func() error {
			ctx, cancel := context.WithTimeout(suite.ctx, 5*time.Millisecond)
			defer cancel()

			_, err := conn.InvokeRaw(ctx, "missing", "echo", Params{"payload": payload})
			if IsConnectionError(err) {
				return err
			}
			return nil
		})
	}
	suite.Require().NoError(errGroup.Wait())

	pingCtx, cancel := context.WithTimeout(suite.ctx, 2*time.Second)
	defer cancel()

	suite.Require().NoError(conn.Ping(pingCtx))
	suite.Require().NoError(conn.Err())
}

func (suite *transportTestSuite) TestServerCloseEndsConn() {
	server := kurentotest.NewWebSocketServer(suite.fake.Handle)

	conn, err := Connect(suite.ctx, server.URL(), WithLogger(suite.logger))
	suite.Require().NoError(err)
	defer conn.Close() // nolint: errcheck

	server.Close()

	select {
	case <-conn.Done():
	case <-time.After(waitTimeout):
		suite.FailNow("Conn did not notice the close")
	}
	suite.Require().True(IsConnectionError(conn.Err()))
}

func (suite *transportTestSuite) TestDialFailureIsConnectionError() {
	httpServer := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http")
	httpServer.Close()

	_, err := Connect(suite.ctx, url)
	suite.Require().True(IsConnectionError(err), "got %v", err)

	_, err = Dial(suite.ctx, "carrier-pigeon://kms")
	suite.Require().True(IsConnectionError(err))
	suite.Require().Contains(err.Error(), "Unknown transport: carrier-pigeon")
}

func (suite *transportTestSuite) TestRegisteredTransport() {
	server := kurentotest.NewServer(suite.fake.Handle)
	defer server.Close()

	RegisterTransport("kurentotest", func(ctx context.Context, url string) (Transport, error) {
		return server.Transport(), nil
	})
	suite.Require().True(HasTransport("kurentotest"))
	suite.Require().True(HasTransport("wss"))
	suite.Require().False(HasTransport("carrier-pigeon"))
	suite.Require().Subset(AvailableTransports(), []string{"kurentotest", "ws", "wss"})

	client, err := Dial(suite.ctx, "kurentotest://fake", WithLogger(suite.logger))
	suite.Require().NoError(err)
	defer client.Close() // nolint: errcheck

	suite.Require().NoError(client.Ping(suite.ctx))
}

func (suite *transportTestSuite) TestWebSocketSchemesCannotBeOverridden() {
	RegisterTransport("ws", func(ctx context.Context, url string) (Transport, error) {
		suite.FailNow("Override was used")
		return nil, nil
	})

	server := kurentotest.NewWebSocketServer(suite.fake.Handle)
	defer server.Close()

	conn, err := Connect(suite.ctx, server.URL())
	suite.Require().NoError(err)
	suite.Require().NoError(conn.Close())

	count := 0
	for _, scheme := range AvailableTransports() {
		if scheme == "ws" {
			count++
		}
	}
	suite.Require().Equal(1, count)
}

func TestTransportTestSuite(t *testing.T) {
	suite.Run(t, new(transportTestSuite))
}
