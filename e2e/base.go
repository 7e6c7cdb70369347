package e2e

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"chat-client/restapi"
	"chat-client/runtime"
	"chat-client/session"
	"chat-client/transport"
)

// BaseSuite connects real clients against a live conversation service. The
// suite skips itself when no service endpoint is configured, so it never
// breaks an offline test run.
type BaseSuite struct {
	suite.Suite
	Config Config
}

func (s *BaseSuite) SetupSuite() {
	cfg, err := LoadConfig()
	s.Require().NoError(err)
	if cfg.APIBaseURL == "" || cfg.ChannelURL == "" {
		s.T().Skip("E2E_API_BASE_URL / E2E_CHANNEL_URL not set, skipping live scenarios")
	}
	s.Config = cfg
}

func (s *BaseSuite) logger() *slog.Logger {
	if s.Config.Debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StartClient brings up a fully wired client for the given account token and
// waits until its channel is connected.
func (s *BaseSuite) StartClient(ctx context.Context, token string) *runtime.Client {
	t := s.T()
	t.Helper()

	sess, err := session.FromToken(token)
	s.Require().NoError(err)

	log := s.logger()
	channel := transport.NewChannel(log, s.Config.ChannelURL)
	api := restapi.NewClient(s.Config.APIBaseURL, sess)

	client := runtime.NewClient(log, sess, channel, api, runtime.Options{})
	client.Start(ctx)
	t.Cleanup(client.Stop)

	s.Require().Eventually(func() bool {
		return onLoop(t, client, func() bool { return client.Connected() })
	}, 15*time.Second, 200*time.Millisecond, "channel never connected")
	return client
}

// onLoop evaluates fn on the client's event loop, so scenarios read
// loop-owned state without racing it.
func onLoop(t *testing.T, c *runtime.Client, fn func() bool) bool {
	t.Helper()
	result := make(chan bool, 1)
	c.Post(func() { result <- fn() })
	select {
	case ok := <-result:
		return ok
	case <-time.After(10 * time.Second):
		t.Fatal("client loop did not answer in time")
		return false
	}
}
