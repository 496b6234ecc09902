package socket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sia12-web/unihood/internal/wire"
)

func TestOnNearbyDiff_DecodesPayload(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.invalid", "token", false)

	var got wire.NearbyDiff
	c.OnNearbyDiff(func(diff wire.NearbyDiff) { got = diff })

	c.handlers[EventNearbyDiff](map[string]any{
		"radius_m": 500,
		"added": []any{map[string]any{
			"user_id":      "1",
			"display_name": "Ana",
			"handle":       "@ana",
			"distance_m":   12.5,
		}},
		"removed": []any{"2"},
	})

	require.Equal(t, 500, got.RadiusM)
	require.Len(t, got.Added, 1)
	require.Equal(t, "1", got.Added[0].UserID)
	require.Equal(t, 12.5, *got.Added[0].DistanceM)
	require.Equal(t, []string{"2"}, got.Removed)
}

func TestOnMessage_BadPayloadIsDropped(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.invalid", "token", false)

	calls := 0
	c.OnMessage(func(wire.MessagePush) { calls++ })

	c.handlers[EventMessage](map[string]any{"delta": "not-a-number"})
	require.Equal(t, 0, calls)

	c.handlers[EventMessage](map[string]any{"from_user_id": "A", "delta": 2})
	require.Equal(t, 1, calls)
}

func TestOnPresence_CancelDetachesHandler(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.invalid", "token", false)

	calls := 0
	cancel := c.OnPresence(func(wire.PresencePush) { calls++ })
	cancel()
	cancel() // cancel is safe to call twice

	_, registered := c.handlers[EventPresence]
	require.False(t, registered)
	require.Equal(t, 0, calls)
}

func TestWaitForConnect_AbortsOnClose(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.invalid", "token", false)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Close()
	}()

	start := time.Now()
	require.False(t, c.WaitForConnect(5*time.Second))
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestEmit_NotConnected(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.invalid", "token", false)
	require.Error(t, c.Emit(EventHeartbeat, nil))
}
