package sdk

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const friendQRSizePx = 256

// FriendInviteURL builds the deep link encoded in a friend-invite QR code.
func FriendInviteURL(handle string) (string, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "", fmt.Errorf("handle required")
	}
	return "unihood://friend?handle=" + url.QueryEscape(handle), nil
}

// FriendInviteQR renders a friend-invite QR code PNG for a profile handle,
// for the in-person "scan to add" flow.
func FriendInviteQR(handle string) ([]byte, error) {
	link, err := FriendInviteURL(handle)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, friendQRSizePx)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
