package proximity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		meters *float64
		want   string
	}{
		{name: "known", meters: meters(42), want: "42m"},
		{name: "rounds", meters: meters(12.6), want: "13m"},
		{name: "zero", meters: meters(0), want: "0m"},
		{name: "unknown", meters: nil, want: "Approx"},
		{name: "nan", meters: meters(math.NaN()), want: "Approx"},
		{name: "inf", meters: meters(math.Inf(1)), want: "Approx"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, FormatDistance(tt.meters))
		})
	}
}

func TestRoundToBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  int
		bucket int
		want   int
	}{
		{name: "zeroStaysZero", value: 0, bucket: 10, want: 0},
		{name: "roundsUp", value: 11, bucket: 10, want: 20},
		{name: "exactMultiple", value: 10, bucket: 10, want: 10},
		{name: "justBelow", value: 9, bucket: 10, want: 10},
		{name: "bigBucket", value: 130, bucket: 250, want: 250},
		{name: "degenerateBucket", value: 7, bucket: 0, want: 7},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, RoundToBucket(tt.value, tt.bucket))
		})
	}
}

func TestCanSendHeartbeat(t *testing.T) {
	t.Parallel()

	require.False(t, CanSendHeartbeat(-1))
	require.False(t, CanSendHeartbeat(math.Inf(1)))
	require.False(t, CanSendHeartbeat(math.Inf(-1)))
	require.False(t, CanSendHeartbeat(math.NaN()))
	require.True(t, CanSendHeartbeat(0))
	require.True(t, CanSendHeartbeat(60))
	require.True(t, CanSendHeartbeat(5000)) // coarse fixes are still usable
}

func TestClampHeartbeatAccuracy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *float64
		want float64
	}{
		{name: "absent", in: nil, want: 50},
		{name: "aboveCap", in: meters(75), want: 50},
		{name: "belowCap", in: meters(5), want: 5},
		{name: "negative", in: meters(-10), want: 50},
		{name: "nan", in: meters(math.NaN()), want: 50},
		{name: "exactCap", in: meters(50), want: 50},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ClampHeartbeatAccuracy(tt.in))
		})
	}
}

func TestBuildHeartbeat(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)
	hb := BuildHeartbeat(47.5, 19.05, meters(120), now)

	require.Equal(t, 47.5, hb.Lat)
	require.Equal(t, 19.05, hb.Lon)
	require.Equal(t, 50.0, hb.Accuracy)
	require.Equal(t, now.UnixMilli(), hb.SentAt)
}
