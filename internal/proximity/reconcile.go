// Package proximity maintains the client's view of nearby users from
// server-pushed incremental diffs, and owns the distance/heartbeat helpers
// used by the same feature.
package proximity

import (
	"math"
	"sort"

	"github.com/sia12-web/unihood/internal/wire"
)

// ApplyDiff merges an incremental nearby-user diff into the current list and
// returns the re-sorted result.
//
// A diff scoped to a radius other than activeRadius is stale (the client
// changed radius while it was in flight) and is dropped whole: the input
// slice is returned untouched. Within a diff, removals apply first, then
// updates (full record replacement), then additions; when the same id appears
// in both updated and added, the added record wins because it lands last.
//
// The result is ordered by ascending distance with unknown distances last;
// ties keep their prior relative order.
func ApplyDiff(current []wire.NearbyUser, diff wire.NearbyDiff, activeRadius int) []wire.NearbyUser {
	if diff.RadiusM != activeRadius {
		return current
	}

	// Keyed working set; order preserves first observation so the final
	// stable sort keeps ties deterministic.
	index := make(map[string]int, len(current))
	merged := make([]wire.NearbyUser, 0, len(current)+len(diff.Added))
	for _, u := range current {
		if _, ok := index[u.UserID]; ok {
			continue
		}
		index[u.UserID] = len(merged)
		merged = append(merged, u)
	}

	removed := make(map[string]bool, len(diff.Removed))
	for _, id := range diff.Removed {
		removed[id] = true
	}

	upsert := func(u wire.NearbyUser) {
		delete(removed, u.UserID)
		if i, ok := index[u.UserID]; ok {
			merged[i] = u
			return
		}
		index[u.UserID] = len(merged)
		merged = append(merged, u)
	}
	for _, u := range diff.Updated {
		upsert(u)
	}
	for _, u := range diff.Added {
		upsert(u)
	}

	out := make([]wire.NearbyUser, 0, len(merged))
	for _, u := range merged {
		if removed[u.UserID] {
			continue
		}
		out = append(out, u)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return sortDistance(out[i].DistanceM) < sortDistance(out[j].DistanceM)
	})
	return out
}

// sortDistance maps an approximate distance to a sort key; unknown distances
// sort last.
func sortDistance(m *float64) float64 {
	if m == nil || math.IsNaN(*m) {
		return math.Inf(1)
	}
	return *m
}
