package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/internal/pkg/logger"
)

func newClient(hub *Hub, sessionID string, handle TurnHandler) *Client {
	return &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 4), handle: handle}
}

func receive(t *testing.T, c *Client) outboundFrame {
	t.Helper()
	select {
	case raw := <-c.Send:
		var f outboundFrame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame")
		return outboundFrame{}
	}
}

func TestHubDeliversRepliesToEverySocketOfSession(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	echo := func(_ context.Context, sessionID, message string) (interface{}, error) {
		return map[string]string{"session": sessionID, "echo": message}, nil
	}
	tabA := newClient(hub, "s1", echo)
	tabB := newClient(hub, "s1", echo)
	other := newClient(hub, "s2", echo)
	for _, c := range []*Client{tabA, tabB, other} {
		hub.register <- c
	}
	require.Eventually(t, func() bool { return hub.Connected("s1") == 2 }, time.Second, 10*time.Millisecond)

	tabA.process([]byte(`{"message":"iphone 15"}`))

	for _, c := range []*Client{tabA, tabB} {
		f := receive(t, c)
		assert.Equal(t, "reply", f.Type)
		assert.Equal(t, "iphone 15", f.Data.(map[string]interface{})["echo"])
	}
	assert.Empty(t, other.Send)

	hub.unregister <- tabB
	require.Eventually(t, func() bool { return hub.Connected("s1") == 1 }, time.Second, 10*time.Millisecond)
}

func TestClientErrorsStayOnTheSocket(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	failing := func(context.Context, string, string) (interface{}, error) {
		return nil, errors.New("catalog down")
	}
	c := newClient(hub, "s1", failing)

	c.process([]byte(`not json`))
	assert.Equal(t, "error", receive(t, c).Type)

	c.process([]byte(`{"message":"iphone 15"}`))
	assert.Equal(t, "error", receive(t, c).Type)
}
