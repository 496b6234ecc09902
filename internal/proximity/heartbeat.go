package proximity

import (
	"fmt"
	"math"
	"time"

	"github.com/sia12-web/unihood/internal/wire"
)

// MaxReportedAccuracyM caps the GPS accuracy (meters) the client is willing
// to advertise outward. Coarse inbound fixes are still accepted; the clamp
// only bounds what leaves the device.
const MaxReportedAccuracyM = 50

// FormatDistance renders an approximate distance for display: "<N>m" for a
// known value, "Approx" when the server only knows the user is in range.
func FormatDistance(meters *float64) string {
	if meters == nil || math.IsNaN(*meters) || math.IsInf(*meters, 0) {
		return "Approx"
	}
	return fmt.Sprintf("%dm", int(math.Round(*meters)))
}

// RoundToBucket coarsens value to the nearest multiple of bucketSize,
// rounding up, except that zero stays zero.
func RoundToBucket(value, bucketSize int) int {
	if value == 0 || bucketSize <= 0 {
		return value
	}
	return (value + bucketSize - 1) / bucketSize * bucketSize
}

// CanSendHeartbeat reports whether a local GPS fix is usable for a heartbeat.
// Zero and arbitrarily coarse accuracies pass; negative and non-finite values
// do not.
func CanSendHeartbeat(accuracyMeters float64) bool {
	if math.IsNaN(accuracyMeters) || math.IsInf(accuracyMeters, 0) {
		return false
	}
	return accuracyMeters >= 0
}

// ClampHeartbeatAccuracy returns the accuracy value to report outward: the
// default cap when the input is absent or invalid, otherwise the input capped
// at MaxReportedAccuracyM.
func ClampHeartbeatAccuracy(accuracyMeters *float64) float64 {
	if accuracyMeters == nil || !CanSendHeartbeat(*accuracyMeters) {
		return MaxReportedAccuracyM
	}
	return math.Min(*accuracyMeters, MaxReportedAccuracyM)
}

// BuildHeartbeat assembles the outbound heartbeat payload, applying the
// accuracy clamp.
func BuildHeartbeat(lat, lon float64, accuracyMeters *float64, now time.Time) wire.Heartbeat {
	return wire.Heartbeat{
		Lat:      lat,
		Lon:      lon,
		Accuracy: ClampHeartbeatAccuracy(accuracyMeters),
		SentAt:   now.UnixMilli(),
	}
}
