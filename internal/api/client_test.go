package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sia12-web/unihood/internal/wire"
)

func TestUnreadCounts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/unread", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"counts":{"A":2,"B":0}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	defer c.Close()

	counts, err := c.UnreadCounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]int{"A": 2, "B": 0}, counts)
}

func TestUnreadCounts_EmptyBodyYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	defer c.Close()

	counts, err := c.UnreadCounts(context.Background())
	require.NoError(t, err)
	require.NotNil(t, counts)
	require.Empty(t, counts)
}

func TestNearbySnapshot(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/nearby", r.URL.Path)
		require.Equal(t, "500", r.URL.Query().Get("radius_m"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"user_id":"1","display_name":"Ana","handle":"@ana","distance_m":12.5}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	defer c.Close()

	users, err := c.NearbySnapshot(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "1", users[0].UserID)
	require.NotNil(t, users[0].DistanceM)
	require.Equal(t, 12.5, *users[0].DistanceM)
}

func TestSendHeartbeat(t *testing.T) {
	t.Parallel()

	var got wire.Heartbeat
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/nearby/heartbeat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	defer c.Close()

	err := c.SendHeartbeat(context.Background(), wire.Heartbeat{Lat: 1, Lon: 2, Accuracy: 50, SentAt: 3})
	require.NoError(t, err)
	require.Equal(t, 50.0, got.Accuracy)
}

func TestServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	defer c.Close()

	_, err := c.UnreadCounts(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

func TestPostBeacons(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/telemetry/beacons", r.URL.Path)
		var body struct {
			Beacons []wire.Beacon `json:"beacons"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Beacons, 2)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	defer c.Close()

	err := c.PostBeacons(context.Background(), []wire.Beacon{
		{ID: "b1", Kind: "app.open", At: 1},
		{ID: "b2", Kind: "app.close", At: 2},
	})
	require.NoError(t, err)
}
