// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package channel maintains the persistent push connection to the inventory
// server.
//
// The channel is a small state machine (Disconnected -> Connecting ->
// Connected -> Disconnected) driven from the outside by session identity
// changes: the client app connects it when an identity appears and
// disconnects it on logout. While connected it decodes server-pushed
// [models.VMEvent] frames and fans them out to subscribers registered via
// [Channel.Subscribe].
//
// Reconnection after a transport drop is the channel's own concern and is
// opaque to consumers: an exponential backoff (cenkalti/backoff) retries the
// dial until Disconnect is called. Consumers only ever observe the status
// and the event sequence.
package channel

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// State is the observable connection status of the channel.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String implements [fmt.Stringer] for log output.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// TokenSource supplies the bearer token attached to the websocket
// handshake. The session store satisfies it.
type TokenSource interface {
	Token() string
}

// Channel is the client side of the push boundary.
type Channel struct {
	wsURL  string
	tokens TokenSource
	logger *logger.Logger

	dialer *websocket.Dialer

	state atomic.Int32

	mu          sync.Mutex
	subscribers map[int]func(Event)
	nextSub     int
	cancel      context.CancelFunc
	done        chan struct{}
}

// New constructs a disconnected channel. wsURL is the push endpoint
// (ws:// or wss://); the token is appended as a query parameter on dial.
func New(wsURL string, tokens TokenSource, logger *logger.Logger) *Channel {
	return &Channel{
		wsURL:       wsURL,
		tokens:      tokens,
		logger:      logger,
		dialer:      &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		subscribers: make(map[int]func(Event)),
	}
}

// Connect starts the connection loop if it is not already running. The loop
// keeps reconnecting with exponential backoff until Disconnect is called or
// ctx is cancelled.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return // already running
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(runCtx, c.done)
}

// Disconnect stops the connection loop and waits for it to exit. Safe to
// call when already disconnected.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Status returns the current connection state.
func (c *Channel) Status() State {
	return State(c.state.Load())
}

// Subscribe registers fn for every decoded event. The returned function
// removes the registration; it is safe to call more than once. fn runs on
// the channel's read goroutine and must not block.
func (c *Channel) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Channel) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer c.state.Store(int32(StateDisconnected))

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0 // retry until Disconnect

	for {
		c.state.Store(int32(StateConnecting))

		conn, err := c.dial(ctx)
		if err != nil {
			c.state.Store(int32(StateDisconnected))
			if ctx.Err() != nil {
				return
			}
			c.logger.Debug().Err(err).Msg("push dial failed, backing off")

			select {
			case <-ctx.Done():
				return
			case <-time.After(policy.NextBackOff()):
				continue
			}
		}

		policy.Reset()
		c.state.Store(int32(StateConnected))
		c.logger.Info().Str("url", c.wsURL).Msg("push channel connected")

		c.readLoop(ctx, conn)
		c.state.Store(int32(StateDisconnected))

		if ctx.Err() != nil {
			return
		}
		c.logger.Debug().Msg("push connection dropped, reconnecting")
	}
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("token", c.tokens.Token())
	u.RawQuery = q.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	return conn, err
}

// readLoop decodes frames until the connection breaks or ctx is cancelled.
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	go func() {
		<-ctx.Done()
		// Unblocks ReadMessage so the loop can exit promptly.
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var wire models.VMEvent
		if err = json.Unmarshal(data, &wire); err != nil {
			c.logger.Debug().Err(err).Msg("undecodable push frame dropped")
			continue
		}

		kind, ok := kindOf(wire.Kind)
		if !ok {
			c.logger.Debug().Str("event", string(wire.Kind)).Msg("unknown push event dropped")
			continue
		}

		c.deliver(Event{Kind: kind, Record: wire.Record})
	}
}

func (c *Channel) deliver(event Event) {
	c.mu.Lock()
	subscribers := make([]func(Event), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
