// Package sdk is the embeddable uniHood client: it owns the REST and
// Socket.IO connections and wires push events into the proximity reconciler,
// the unread/presence tracker and the typing-duel match state.
package sdk

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sia12-web/unihood/internal/api"
	"github.com/sia12-web/unihood/internal/config"
	"github.com/sia12-web/unihood/internal/duel"
	"github.com/sia12-web/unihood/internal/presence"
	"github.com/sia12-web/unihood/internal/proximity"
	"github.com/sia12-web/unihood/internal/redact"
	"github.com/sia12-web/unihood/internal/socket"
	"github.com/sia12-web/unihood/internal/telemetry"
	"github.com/sia12-web/unihood/internal/wire"
	"github.com/sia12-web/unihood/pkg/logger"
)

const (
	connectTimeout   = 10 * time.Second
	requestTimeout   = 10 * time.Second
	heartbeatTimeout = 5 * time.Second
)

// ErrInvalidAccuracy is returned when a caller tries to send a heartbeat with
// a negative or non-finite GPS accuracy.
var ErrInvalidAccuracy = errors.New("invalid heartbeat accuracy")

// Listener receives SDK events. Methods must be safe to call from any
// goroutine; the SDK serializes invocations.
type Listener interface {
	OnConnected()
	OnDisconnected(reason string)
	OnNearby(users []wire.NearbyUser)
	OnUnread(total int, counts map[string]int)
	OnError(message string)
}

// Client is the uniHood client SDK entry point.
type Client struct {
	serverURL string

	mu         sync.Mutex
	token      string
	debug      bool
	listener   Listener
	userSocket *socket.Client
	radiusM    int
	nearby     []wire.NearbyUser

	api      *api.Client
	tracker  *presence.Tracker
	match    *duel.Match
	recorder *telemetry.Recorder

	unsubUnread   func()
	cancelHandler []func()

	dispatch  *queue
	callbacks *queue
}

// NewClient creates a new SDK client.
func NewClient(serverURL string) *Client {
	restClient := api.New(serverURL, "")

	c := &Client{
		serverURL: serverURL,
		radiusM:   config.DefaultRadiusM,
		api:       restClient,
		tracker:   presence.NewTracker(),
		match:     duel.NewMatch(),
		recorder:  telemetry.NewRecorder(restClient, redact.New(newTelemetryKey()), 0),
		dispatch:  newQueue(256),
		callbacks: newQueue(256),
	}
	c.unsubUnread = c.tracker.Subscribe(c.emitUnread)
	return c
}

// newTelemetryKey generates the device-local pseudonymization key for this
// process. Losing it across restarts only rotates pseudonyms.
func newTelemetryKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil
	}
	return key
}

// SetListener registers the listener for SDK events.
func (c *Client) SetListener(listener Listener) {
	_ = c.dispatch.exec(func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.listener = listener
		return nil
	})
}

// SetToken configures the auth token for REST and socket connections.
func (c *Client) SetToken(token string) {
	_ = c.dispatch.exec(func() error {
		c.mu.Lock()
		c.token = token
		c.mu.Unlock()
		c.api.SetToken(token)
		return nil
	})
}

// SetDebug enables debug logging for the underlying socket.
func (c *Client) SetDebug(enabled bool) {
	_ = c.dispatch.exec(func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.debug = enabled
		if c.userSocket != nil {
			c.userSocket.SetDebug(enabled)
		}
		return nil
	})
}

// Connect opens the user-scoped socket, binds the presence tracker and seeds
// state from REST snapshots.
func (c *Client) Connect() error {
	return c.dispatch.exec(c.connect)
}

func (c *Client) connect() error {
	c.mu.Lock()
	token := c.token
	debug := c.debug
	c.mu.Unlock()

	if token == "" {
		return fmt.Errorf("token not set")
	}
	if TokenExpired(token, time.Now()) {
		return fmt.Errorf("token expired")
	}

	sock := socket.NewClient(c.serverURL, token, debug)

	cancelDiff := sock.OnNearbyDiff(func(diff wire.NearbyDiff) {
		c.dispatch.post(func() { c.applyNearbyDiff(diff) })
	})
	cancelDuel := sock.OnDuelRound(func(round wire.DuelRound) {
		c.match.StartRound(round)
	})

	identity, err := UserIDFromToken(token)
	if err != nil {
		identity = token
	}
	c.tracker.Bind(identity, sock)

	if err := sock.Connect(); err != nil {
		c.emitError(fmt.Sprintf("connect failed: %v", err))
		cancelDiff()
		cancelDuel()
		c.tracker.Unbind()
		return err
	}
	if !sock.WaitForConnect(connectTimeout) {
		err := fmt.Errorf("connect timeout")
		c.emitError(err.Error())
		cancelDiff()
		cancelDuel()
		c.tracker.Unbind()
		return err
	}

	c.mu.Lock()
	c.userSocket = sock
	c.cancelHandler = []func(){cancelDiff, cancelDuel}
	listener := c.listener
	c.mu.Unlock()

	c.recorder.Start()

	// Seed from REST; push events take over from here. Failures are not
	// fatal: the next refresh reconciles.
	if err := c.refreshUnread(); err != nil {
		logger.Warnf("[sdk] initial unread snapshot failed: %v", err)
	}
	if err := c.refreshNearby(); err != nil {
		logger.Warnf("[sdk] initial nearby snapshot failed: %v", err)
	}

	if listener != nil {
		c.callbacks.post(func() { listener.OnConnected() })
	}
	return nil
}

// Disconnect closes the socket and releases the presence binding. The client
// can Connect again afterwards.
func (c *Client) Disconnect() {
	_ = c.dispatch.exec(func() error {
		c.disconnect("closed")
		return nil
	})
}

func (c *Client) disconnect(reason string) {
	c.mu.Lock()
	sock := c.userSocket
	cancels := c.cancelHandler
	listener := c.listener
	c.userSocket = nil
	c.cancelHandler = nil
	c.nearby = nil
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	c.tracker.Unbind()
	c.match.Clear()

	if sock != nil {
		_ = sock.Close()
	}
	if listener != nil {
		c.callbacks.post(func() { listener.OnDisconnected(reason) })
	}
}

// Close disconnects and releases all resources. The client cannot be reused
// afterwards.
func (c *Client) Close() error {
	c.Disconnect()
	c.recorder.Stop()
	c.unsubUnread()
	return c.api.Close()
}

// applyNearbyDiff merges a pushed diff into the nearby list. Runs on the
// dispatch goroutine.
func (c *Client) applyNearbyDiff(diff wire.NearbyDiff) {
	c.mu.Lock()
	if diff.RadiusM != c.radiusM {
		logger.Tracef("[sdk] dropping stale nearby diff for radius %dm (active %dm)", diff.RadiusM, c.radiusM)
		c.mu.Unlock()
		return
	}
	c.nearby = proximity.ApplyDiff(c.nearby, diff, c.radiusM)
	users := copyNearby(c.nearby)
	c.mu.Unlock()

	c.emitNearby(users)
}

// SetRadius changes the active proximity radius. The nearby list is
// invalidated immediately; in-flight diffs for the old radius are dropped by
// scope checking, and a fresh REST snapshot reseeds the list.
func (c *Client) SetRadius(radiusM int) error {
	return c.dispatch.exec(func() error {
		if radiusM <= 0 {
			return fmt.Errorf("radius must be positive, got %d", radiusM)
		}

		c.mu.Lock()
		c.radiusM = radiusM
		c.nearby = nil
		c.mu.Unlock()
		c.emitNearby(nil)

		c.recorder.Record("nearby.radius_change", map[string]string{
			"radius_m": strconv.Itoa(radiusM),
		})
		return c.refreshNearby()
	})
}

// Radius returns the active proximity radius in meters.
func (c *Client) Radius() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radiusM
}

// Nearby returns the current nearby-user list, sorted by distance.
func (c *Client) Nearby() []wire.NearbyUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyNearby(c.nearby)
}

// refreshNearby replaces the nearby list with a REST snapshot for the active
// radius.
func (c *Client) refreshNearby() error {
	c.mu.Lock()
	radius := c.radiusM
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	users, err := c.api.NearbySnapshot(ctx, radius)
	if err != nil {
		return err
	}

	// The snapshot is an empty diff's worth of adds; reuse the reconciler so
	// ordering rules stay in one place.
	merged := proximity.ApplyDiff(nil, wire.NearbyDiff{RadiusM: radius, Added: users}, radius)

	c.mu.Lock()
	if c.radiusM != radius {
		// Radius changed while the request was in flight; discard.
		c.mu.Unlock()
		return nil
	}
	c.nearby = merged
	result := copyNearby(c.nearby)
	c.mu.Unlock()

	c.emitNearby(result)
	return nil
}

// RefreshUnread pulls the authoritative unread snapshot and resets the
// tracker with it.
func (c *Client) RefreshUnread() error {
	return c.dispatch.exec(c.refreshUnread)
}

func (c *Client) refreshUnread() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	counts, err := c.api.UnreadCounts(ctx)
	if err != nil {
		return err
	}
	c.tracker.LoadSnapshot(counts)
	return nil
}

// SendHeartbeat reports the device location. A negative or non-finite
// accuracy is rejected with ErrInvalidAccuracy; valid values are clamped to
// the outbound cap before leaving the device. Prefers the socket; falls back
// to REST when not connected.
func (c *Client) SendHeartbeat(lat, lon float64, accuracyMeters *float64) error {
	return c.dispatch.exec(func() error {
		if accuracyMeters != nil && !proximity.CanSendHeartbeat(*accuracyMeters) {
			return ErrInvalidAccuracy
		}
		hb := proximity.BuildHeartbeat(lat, lon, accuracyMeters, time.Now())

		c.mu.Lock()
		sock := c.userSocket
		c.mu.Unlock()

		if sock != nil && sock.IsConnected() {
			return sock.SendHeartbeat(hb, heartbeatTimeout)
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return c.api.SendHeartbeat(ctx, hb)
	})
}

// SetActiveConversation marks a peer's conversation as open, suppressing
// unread increments for it. Pass an empty peer to clear.
func (c *Client) SetActiveConversation(peer string) {
	c.tracker.SetActivePeer(peer)
}

// AcknowledgePeer resets a peer's unread count, e.g. once its thread
// rendered.
func (c *Client) AcknowledgePeer(peer string) {
	c.tracker.Acknowledge(peer)
}

// AcknowledgeAll resets every unread count.
func (c *Client) AcknowledgeAll() {
	c.tracker.AcknowledgeAll()
}

// TotalUnread returns the current total unread count.
func (c *Client) TotalUnread() int {
	return c.tracker.TotalUnread()
}

// StartDuelRound registers a duel round, normally driven by the duel-round
// push event; exposed for UIs that receive rounds out of band.
func (c *Client) StartDuelRound(round wire.DuelRound) {
	c.match.StartRound(round)
}

// SubmitDuelTyping scores the typed text for a round, reports the result to
// the server best-effort, and returns the local score.
func (c *Client) SubmitDuelTyping(roundID, typed string) (wire.DuelResult, error) {
	result, err := c.match.Submit(roundID, typed, time.Now())
	if err != nil {
		return wire.DuelResult{}, err
	}

	c.recorder.Record("duel.submit", map[string]string{
		"round_id": roundID,
		"accuracy": strconv.FormatFloat(result.Accuracy, 'f', 3, 64),
	})

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := c.api.SubmitDuelResult(ctx, result); err != nil {
		logger.Warnf("[sdk] duel result upload failed: %v", err)
	}
	return result, nil
}

func (c *Client) emitNearby(users []wire.NearbyUser) {
	listener := c.getListener()
	if listener == nil {
		return
	}
	c.callbacks.post(func() { listener.OnNearby(users) })
}

func (c *Client) emitUnread(snap presence.Snapshot) {
	listener := c.getListener()
	if listener == nil {
		return
	}
	c.callbacks.post(func() { listener.OnUnread(snap.Total, snap.Counts) })
}

func (c *Client) emitError(message string) {
	listener := c.getListener()
	if listener == nil {
		return
	}
	c.callbacks.post(func() { listener.OnError(message) })
}

func (c *Client) getListener() Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}

func copyNearby(users []wire.NearbyUser) []wire.NearbyUser {
	if users == nil {
		return nil
	}
	out := make([]wire.NearbyUser, len(users))
	copy(out, users)
	return out
}
