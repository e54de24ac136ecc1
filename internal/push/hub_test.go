package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierStub struct{}

func (verifierStub) ParseToken(tokenString string) (models.Identity, error) {
	if tokenString != "valid-token" {
		return models.Identity{}, errors.New("invalid token")
	}
	return models.Identity{ID: "u-1", Email: "viewer@example.com", Role: models.RoleClient}, nil
}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(verifierStub{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return hub, server
}

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func dial(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_ServeWS_RejectsMissingToken(t *testing.T) {
	_, server := newTestHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_ServeWS_RejectsInvalidToken(t *testing.T) {
	_, server := newTestHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	hub, server := newTestHub(t)

	first := dial(t, server, "valid-token")
	second := dial(t, server, "valid-token")

	// registration happens after the handshake, give the hub a moment
	time.Sleep(100 * time.Millisecond)

	published := models.VMEvent{
		Kind:   models.EventVMCreated,
		Record: models.VM{ID: "vm-1", Name: "web-frontend", Status: models.StatusRunning},
	}
	hub.Publish(published)

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var got models.VMEvent
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, models.EventVMCreated, got.Kind)
		assert.Equal(t, "vm-1", got.Record.ID)
	}
}

func TestHub_WireFormat(t *testing.T) {
	hub, server := newTestHub(t)

	conn := dial(t, server, "valid-token")
	time.Sleep(100 * time.Millisecond)

	hub.Publish(models.VMEvent{Kind: models.EventVMDeleted, Record: models.VM{ID: "vm-9"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Contains(t, raw, "event")
	assert.Contains(t, raw, "record")
	assert.JSONEq(t, `"vm:deleted"`, string(raw["event"]))
}
