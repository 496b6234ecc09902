package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPseudonym_StablePerKey(t *testing.T) {
	t.Parallel()

	r := New([]byte("device-key"))
	first := r.Pseudonym("user-123")
	second := r.Pseudonym("user-123")

	require.Equal(t, first, second)
	require.Regexp(t, `^u_[0-9a-f]{16}$`, first)
}

func TestPseudonym_DiffersAcrossKeysAndIDs(t *testing.T) {
	t.Parallel()

	a := New([]byte("key-a"))
	b := New([]byte("key-b"))

	require.NotEqual(t, a.Pseudonym("user-123"), b.Pseudonym("user-123"))
	require.NotEqual(t, a.Pseudonym("user-123"), a.Pseudonym("user-456"))
}

func TestPseudonym_EmptyID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", New(nil).Pseudonym(""))
}

func TestScrubText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "email", in: "mail me at jo.doe@uni.edu please", want: "mail me at [redacted] please"},
		{name: "handle", in: "ping @jodoe later", want: "ping [redacted] later"},
		{name: "both", in: "@jodoe is jo@uni.edu", want: "[redacted] is [redacted]"},
		{name: "clean", in: "see you at the library", want: "see you at the library"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ScrubText(tt.in))
		})
	}
}
