package socket

import (
	"encoding/json"

	"github.com/sia12-web/unihood/internal/wire"
	"github.com/sia12-web/unihood/pkg/logger"
)

// decodeInto converts a raw Socket.IO payload into a typed wire struct via a
// JSON round-trip.
func decodeInto(data map[string]any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// OnMessage registers a typed handler for message push events. Implements
// presence.PushSource. Payloads that fail to decode are dropped.
func (c *Client) OnMessage(handler func(wire.MessagePush)) (cancel func()) {
	return c.On(EventMessage, func(data map[string]any) {
		var evt wire.MessagePush
		if err := decodeInto(data, &evt); err != nil {
			logger.Warnf("[socket] bad message payload: %v", err)
			return
		}
		handler(evt)
	})
}

// OnPresence registers a typed handler for presence push events. Implements
// presence.PushSource.
func (c *Client) OnPresence(handler func(wire.PresencePush)) (cancel func()) {
	return c.On(EventPresence, func(data map[string]any) {
		var evt wire.PresencePush
		if err := decodeInto(data, &evt); err != nil {
			logger.Warnf("[socket] bad presence payload: %v", err)
			return
		}
		handler(evt)
	})
}

// OnNearbyDiff registers a typed handler for nearby-diff push events.
func (c *Client) OnNearbyDiff(handler func(wire.NearbyDiff)) (cancel func()) {
	return c.On(EventNearbyDiff, func(data map[string]any) {
		var diff wire.NearbyDiff
		if err := decodeInto(data, &diff); err != nil {
			logger.Warnf("[socket] bad nearby-diff payload: %v", err)
			return
		}
		handler(diff)
	})
}

// OnDuelRound registers a typed handler for duel round announcements.
func (c *Client) OnDuelRound(handler func(wire.DuelRound)) (cancel func()) {
	return c.On(EventDuelRound, func(data map[string]any) {
		var round wire.DuelRound
		if err := decodeInto(data, &round); err != nil {
			logger.Warnf("[socket] bad duel-round payload: %v", err)
			return
		}
		handler(round)
	})
}
