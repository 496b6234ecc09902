package wire

// NearbyUser is a user visible in the caller's proximity feed.
//
// DistanceM is server-bucketed and approximate; nil means the server only
// knows the user is in range, not how far ("Approx" in UI terms).
type NearbyUser struct {
	// UserID is the unique user id and the reconciliation key.
	UserID string `json:"user_id"`
	// DisplayName is the user's display name.
	DisplayName string `json:"display_name"`
	// Handle is the user's unique @handle.
	Handle string `json:"handle"`
	// DistanceM is the approximate distance in meters; nil when unknown.
	DistanceM *float64 `json:"distance_m"`
}

// NearbyDiff is an incremental update to the proximity feed, scoped to the
// radius it was computed for.
//
// A diff only applies when RadiusM matches the client's active radius;
// otherwise it must be dropped in its entirety. Diffs carry no sequence
// number: add/update are keyed replacements and remove is keyed deletion, so
// replaying or dropping a diff is safe.
type NearbyDiff struct {
	// RadiusM is the radius in meters this diff was computed for.
	RadiusM int `json:"radius_m"`
	// Added lists users that entered the radius.
	Added []NearbyUser `json:"added"`
	// Removed lists user ids that left the radius.
	Removed []string `json:"removed"`
	// Updated lists users whose record changed (full replacement).
	Updated []NearbyUser `json:"updated"`
}

// Heartbeat is the outbound location ping the client reports to the server.
type Heartbeat struct {
	// Lat is the latitude in degrees.
	Lat float64 `json:"lat"`
	// Lon is the longitude in degrees.
	Lon float64 `json:"lon"`
	// Accuracy is the GPS accuracy in meters, clamped before sending.
	Accuracy float64 `json:"accuracy"`
	// SentAt is the client send time in milliseconds since epoch.
	SentAt int64 `json:"sent_at"`
}
