// Package api wraps the uniHood REST backend. Endpoints are thin: the core
// packages own all interesting behavior, this client only moves payloads.
package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"resty.dev/v3"

	"github.com/sia12-web/unihood/internal/wire"
)

const requestTimeout = 15 * time.Second

// Client is an authenticated REST client for the uniHood API.
type Client struct {
	http *resty.Client
}

// New creates a client for the given base URL. Token may be empty and set
// later with SetToken.
func New(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// Close releases idle connections held by the underlying client.
func (c *Client) Close() error {
	return c.http.Close()
}

// UnreadCounts fetches the authoritative unread-count snapshot.
func (c *Client) UnreadCounts(ctx context.Context) (map[string]int, error) {
	var out wire.UnreadSnapshot
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/chat/unread")
	if err != nil {
		return nil, fmt.Errorf("unread counts: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("unread counts: server returned %s", res.Status())
	}
	if out.Counts == nil {
		out.Counts = map[string]int{}
	}
	return out.Counts, nil
}

// NearbySnapshot fetches the full nearby-user list for a radius. Used to
// seed the reconciler on load and after a radius change.
func (c *Client) NearbySnapshot(ctx context.Context, radiusM int) ([]wire.NearbyUser, error) {
	var out struct {
		Users []wire.NearbyUser `json:"users"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("radius_m", strconv.Itoa(radiusM)).
		SetResult(&out).
		Get("/v1/nearby")
	if err != nil {
		return nil, fmt.Errorf("nearby snapshot: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("nearby snapshot: server returned %s", res.Status())
	}
	return out.Users, nil
}

// SendHeartbeat reports a (clamped) location heartbeat.
func (c *Client) SendHeartbeat(ctx context.Context, hb wire.Heartbeat) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(hb).
		Post("/v1/nearby/heartbeat")
	if err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("heartbeat: server returned %s", res.Status())
	}
	return nil
}

// SubmitDuelResult reports a scored typing-duel submission.
func (c *Client) SubmitDuelResult(ctx context.Context, result wire.DuelResult) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(result).
		Post("/v1/duel/results")
	if err != nil {
		return fmt.Errorf("duel result: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("duel result: server returned %s", res.Status())
	}
	return nil
}

// PostBeacons delivers a telemetry batch. Implements telemetry.Poster.
func (c *Client) PostBeacons(ctx context.Context, beacons []wire.Beacon) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"beacons": beacons}).
		Post("/v1/telemetry/beacons")
	if err != nil {
		return fmt.Errorf("beacons: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("beacons: server returned %s", res.Status())
	}
	return nil
}
