package forecast

import (
	"time"

	"github.com/kilianp07/occupancy/core/model"
)

// CeilHour returns t when it lies exactly on an hour boundary and the start
// of the following hour otherwise.
func CeilHour(t time.Time) time.Time {
	h := TruncateHour(t)
	if h.Equal(t) {
		return h
	}
	return h.Add(time.Hour)
}

// GenerateSlots enumerates horizon hourly slots starting at CeilHour(cutoff)
// for every device. Slots are ordered hour first, then in the order of
// devices.
func GenerateSlots(cutoff time.Time, devices []string, horizon int) []model.Slot {
	if horizon <= 0 || len(devices) == 0 {
		return nil
	}
	start := CeilHour(cutoff)
	slots := make([]model.Slot, 0, horizon*len(devices))
	for i := 0; i < horizon; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		for _, d := range devices {
			slots = append(slots, model.Slot{Time: ts, Device: d})
		}
	}
	return slots
}
