package sdk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFriendInviteURL(t *testing.T) {
	t.Parallel()

	link, err := FriendInviteURL("@ana")
	require.NoError(t, err)
	require.Equal(t, "unihood://friend?handle=ana", link)

	link, err = FriendInviteURL("ben smith")
	require.NoError(t, err)
	require.Equal(t, "unihood://friend?handle=ben+smith", link)

	_, err = FriendInviteURL("  ")
	require.Error(t, err)
}

func TestFriendInviteQR_ProducesPNG(t *testing.T) {
	t.Parallel()

	png, err := FriendInviteQR("ana")
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	// PNG signature.
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
