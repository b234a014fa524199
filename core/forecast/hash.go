package forecast

import (
	"sort"
	"time"

	"github.com/kilianp07/occupancy/core/model"
)

// Hash maps a (device, weekday, hour of day) key to its historical occupancy.
// A missing key means the combination was never observed.
type Hash map[model.HashKey]bool

// HashEntry is a single key/value pair of a Hash.
type HashEntry struct {
	Key      model.HashKey
	Occupied bool
}

// KeyFor returns the hash key of device at time t.
func KeyFor(device string, t time.Time) model.HashKey {
	return model.HashKey{Device: device, Weekday: t.Weekday(), Hour: t.Hour()}
}

// BuildHash aggregates feature records into a Hash. Records later than cutoff
// are skipped so that no future observation can leak into the history. A key
// is occupied if any of its records is occupied.
func BuildHash(features []model.FeatureRecord, cutoff time.Time) Hash {
	h := make(Hash)
	for _, f := range features {
		if f.Hour.After(cutoff) {
			continue
		}
		k := model.HashKey{Device: f.Device, Weekday: f.Weekday, Hour: f.HourOfDay}
		h[k] = h[k] || f.Occupied
	}
	return h
}

// Lookup returns the historical occupancy of device at the weekday and hour
// of t. found is false when the key was never observed.
func (h Hash) Lookup(device string, t time.Time) (occupied, found bool) {
	occupied, found = h[KeyFor(device, t)]
	return occupied, found
}

// Entries returns the hash content sorted by device, weekday (Sunday first)
// and hour.
func (h Hash) Entries() []HashEntry {
	out := make([]HashEntry, 0, len(h))
	for k, v := range h {
		out = append(out, HashEntry{Key: k, Occupied: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Device != b.Device {
			return a.Device < b.Device
		}
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		return a.Hour < b.Hour
	})
	return out
}
