package channel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

var upgrader = websocket.Upgrader{}

// newPushServer runs a test websocket endpoint. Each accepted connection is
// handed to serve; the returned URL uses the ws scheme.
func newPushServer(t *testing.T, serve func(conn *websocket.Conn, r *http.Request)) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serve(conn, r)
	}))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestChannel_DeliversEvents(t *testing.T) {
	var gotToken atomic.Value
	_, wsURL := newPushServer(t, func(conn *websocket.Conn, r *http.Request) {
		gotToken.Store(r.URL.Query().Get("token"))

		_ = conn.WriteJSON(models.VMEvent{Kind: models.EventVMCreated, Record: models.VM{ID: "vm-1", Name: "web-01"}})
		_ = conn.WriteJSON(models.VMEvent{Kind: models.EventVMDeleted, Record: models.VM{ID: "vm-1"}})

		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := New(wsURL, staticTokens("tkn"), logger.Nop())

	events := make(chan Event, 8)
	unsubscribe := c.Subscribe(func(e Event) { events <- e })
	defer unsubscribe()

	c.Connect(context.Background())
	defer c.Disconnect()

	first := <-events
	assert.Equal(t, KindCreated, first.Kind)
	assert.Equal(t, "web-01", first.Record.Name)

	second := <-events
	assert.Equal(t, KindDeleted, second.Kind)

	assert.Equal(t, "tkn", gotToken.Load(), "handshake must carry the bearer token")
	assert.Equal(t, StateConnected, c.Status())
}

func TestChannel_UnknownEventsDropped(t *testing.T) {
	_, wsURL := newPushServer(t, func(conn *websocket.Conn, _ *http.Request) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"vm:rebooted","record":{}}`))
		_ = conn.WriteJSON(models.VMEvent{Kind: models.EventVMUpdated, Record: models.VM{ID: "vm-2"}})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := New(wsURL, staticTokens(""), logger.Nop())
	events := make(chan Event, 8)
	defer c.Subscribe(func(e Event) { events <- e })()

	c.Connect(context.Background())
	defer c.Disconnect()

	got := <-events
	assert.Equal(t, KindUpdated, got.Kind, "unknown event kinds must be skipped, not delivered")
}

func TestChannel_DisconnectStopsLoop(t *testing.T) {
	_, wsURL := newPushServer(t, func(conn *websocket.Conn, _ *http.Request) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := New(wsURL, staticTokens(""), logger.Nop())
	c.Connect(context.Background())

	waitFor(t, func() bool { return c.Status() == StateConnected }, "channel never connected")

	c.Disconnect()
	assert.Equal(t, StateDisconnected, c.Status())

	// second Disconnect must be a no-op
	c.Disconnect()
}

func TestChannel_ReconnectsAfterDrop(t *testing.T) {
	var connects atomic.Int32
	_, wsURL := newPushServer(t, func(conn *websocket.Conn, _ *http.Request) {
		n := connects.Add(1)
		if n == 1 {
			conn.Close() // simulate a transport drop
			return
		}

		_ = conn.WriteJSON(models.VMEvent{Kind: models.EventVMCreated, Record: models.VM{ID: "vm-after"}})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := New(wsURL, staticTokens(""), logger.Nop())
	events := make(chan Event, 8)
	defer c.Subscribe(func(e Event) { events <- e })()

	c.Connect(context.Background())
	defer c.Disconnect()

	select {
	case got := <-events:
		assert.Equal(t, "vm-after", got.Record.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not reconnect after drop")
	}
	assert.GreaterOrEqual(t, connects.Load(), int32(2))
}

func TestChannel_ConnectIsIdempotent(t *testing.T) {
	_, wsURL := newPushServer(t, func(conn *websocket.Conn, _ *http.Request) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := New(wsURL, staticTokens(""), logger.Nop())
	c.Connect(context.Background())
	c.Connect(context.Background()) // must not spawn a second loop
	defer c.Disconnect()

	waitFor(t, func() bool { return c.Status() == StateConnected }, "channel never connected")
	require.Equal(t, StateConnected, c.Status())
}

func TestChannel_Unsubscribe(t *testing.T) {
	var sent atomic.Int32
	_, wsURL := newPushServer(t, func(conn *websocket.Conn, _ *http.Request) {
		for {
			_ = conn.WriteJSON(models.VMEvent{Kind: models.EventVMUpdated, Record: models.VM{ID: "vm-x"}})
			sent.Add(1)
			time.Sleep(20 * time.Millisecond)
			if sent.Load() > 100 {
				return
			}
		}
	})

	c := New(wsURL, staticTokens(""), logger.Nop())

	var calls atomic.Int32
	unsubscribe := c.Subscribe(func(Event) { calls.Add(1) })

	c.Connect(context.Background())
	defer c.Disconnect()

	waitFor(t, func() bool { return calls.Load() > 0 }, "subscriber never called")

	unsubscribe()
	after := calls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), after+1, "no further deliveries after unsubscribe")
}
