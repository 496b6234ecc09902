// Package socket wraps the user-scoped Socket.IO connection that delivers
// push events (nearby diffs, messages, presence, duel rounds) and carries
// client heartbeats.
package socket

import (
	"fmt"
	"sync"
	"time"

	sio "github.com/zishang520/socket.io/clients/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/sia12-web/unihood/internal/wire"
	"github.com/sia12-web/unihood/pkg/logger"
)

// EventType represents different types of Socket.IO events.
type EventType string

const (
	EventUpdate     EventType = "update"
	EventNearbyDiff EventType = "nearby-diff"
	EventMessage    EventType = "message"
	EventPresence   EventType = "presence"
	EventDuelRound  EventType = "duel-round"
	EventHeartbeat  EventType = "heartbeat"
)

// pushEvents are the server-initiated events the client listens for.
var pushEvents = []EventType{EventUpdate, EventNearbyDiff, EventMessage, EventPresence, EventDuelRound}

// Client is a user-scoped Socket.IO client connection.
type Client struct {
	serverURL string
	token     string

	mu        sync.RWMutex
	socket    *sio.Socket
	handlers  map[EventType]func(map[string]any)
	connected bool
	debug     bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewClient creates a user-scoped Socket.IO client.
func NewClient(serverURL, token string, debug bool) *Client {
	return &Client{
		serverURL: serverURL,
		token:     token,
		handlers:  make(map[EventType]func(map[string]any)),
		done:      make(chan struct{}),
		debug:     debug,
	}
}

// SetDebug toggles verbose socket logging.
func (c *Client) SetDebug(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debug = enabled
}

// On registers an event handler, replacing any previous handler for the
// event. The returned cancel unregisters it; safe to call more than once.
func (c *Client) On(eventType EventType, handler func(map[string]any)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = handler
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers, eventType)
	}
}

// Connect establishes the Socket.IO connection.
func (c *Client) Connect() error {
	if c.debug {
		logger.Debugf("[socket] connecting to %s (path: /v1/updates)", c.serverURL)
	}

	opts := sio.DefaultOptions()
	opts.SetPath("/v1/updates")
	opts.SetTransports(types.NewSet(sio.Polling, sio.WebSocket))
	opts.SetAuth(map[string]any{
		"token":      c.token,
		"clientType": "user-scoped",
	})

	sock, err := sio.Connect(c.serverURL, opts)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.socket = sock
	c.mu.Unlock()

	sock.On(types.EventName("connect"), func(args ...any) {
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		if c.debug {
			logger.Debugf("[socket] connected, id=%s", sock.Id())
		}
	})

	sock.On(types.EventName("disconnect"), func(args ...any) {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		reason := ""
		if len(args) > 0 {
			if r, ok := args[0].(string); ok {
				reason = r
			}
		}
		if c.debug {
			logger.Debugf("[socket] disconnected: %s", reason)
		}
	})

	sock.On(types.EventName("connect_error"), func(args ...any) {
		if len(args) > 0 {
			logger.Warnf("[socket] connection error: %v", args[0])
		}
	})

	for _, eventType := range pushEvents {
		et := eventType // capture for closure
		sock.On(types.EventName(et), func(args ...any) {
			var data map[string]any
			if len(args) > 0 {
				if m, ok := args[0].(map[string]any); ok {
					data = m
				}
			}

			c.mu.RLock()
			handler, ok := c.handlers[et]
			c.mu.RUnlock()

			// Invoked inline: the socket delivers callbacks serially, which
			// preserves per-peer receipt order for the presence tracker.
			if ok && handler != nil {
				handler(data)
			}
		})
	}

	return nil
}

// WaitForConnect waits for the socket to report connected. It returns early
// when the timeout elapses or the client is closed.
func (c *Client) WaitForConnect(timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for {
		if c.IsConnected() {
			return true
		}
		select {
		case <-poll.C:
		case <-deadline.C:
			return c.IsConnected()
		case <-c.done:
			return false
		}
	}
}

// Emit sends an event to the server.
func (c *Client) Emit(eventType EventType, data map[string]any) error {
	c.mu.RLock()
	sock := c.socket
	c.mu.RUnlock()

	if sock == nil {
		return fmt.Errorf("not connected")
	}
	sock.Emit(string(eventType), data)
	return nil
}

// EmitWithAck sends an event and waits for an ACK response.
func (c *Client) EmitWithAck(eventType EventType, data map[string]any, timeout time.Duration) (map[string]any, error) {
	c.mu.RLock()
	sock := c.socket
	c.mu.RUnlock()

	if sock == nil {
		return nil, fmt.Errorf("not connected")
	}

	resultCh := make(chan map[string]any, 1)
	errCh := make(chan error, 1)

	sock.Emit(string(eventType), data, func(args []any, err error) {
		if err != nil {
			errCh <- err
			return
		}
		if len(args) == 0 {
			resultCh <- nil
			return
		}
		if payload, ok := args[0].(map[string]any); ok {
			resultCh <- payload
			return
		}
		resultCh <- nil
	})

	select {
	case res := <-resultCh:
		return res, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(timeout):
		return nil, fmt.Errorf("ack timeout")
	}
}

// SendHeartbeat emits a location heartbeat and waits for the server ACK.
func (c *Client) SendHeartbeat(hb wire.Heartbeat, timeout time.Duration) error {
	resp, err := c.EmitWithAck(EventHeartbeat, map[string]any{
		"lat":      hb.Lat,
		"lon":      hb.Lon,
		"accuracy": hb.Accuracy,
		"sent_at":  hb.SentAt,
	}, timeout)
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("missing ack")
	}
	if result, _ := resp["result"].(string); result != "success" {
		return fmt.Errorf("heartbeat rejected: %v", result)
	}
	return nil
}

// Close closes the Socket.IO connection.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.socket != nil {
		c.socket.Disconnect()
		c.socket = nil
	}
	c.connected = false
	return nil
}

// IsConnected returns whether the client is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	sock := c.socket
	connected := c.connected
	c.mu.RUnlock()

	if connected {
		return true
	}
	if sock != nil && sock.Connected() {
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		return true
	}
	return false
}
