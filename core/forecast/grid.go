package forecast

import (
	"sort"
	"time"

	"github.com/kilianp07/occupancy/core/model"
)

// FillGrid expands sparse activation events into a dense hourly series per
// device.
//
// Events sharing a device and hour are merged with a logical OR. Each device
// then gets one record per hour from its own first observed hour up to the
// hour containing cutoff, inclusive; hours without any event are recorded as
// not occupied. Events later than the cutoff hour are ignored and devices
// without events do not appear. Records are sorted by device, then hour, and
// expressed in the cutoff's location.
func FillGrid(events []model.ActivationEvent, cutoff time.Time) []model.HourlyRecord {
	end := TruncateHour(cutoff)
	loc := end.Location()

	observed := make(map[string]map[int64]bool)
	first := make(map[string]time.Time)
	for _, ev := range events {
		h := TruncateHour(ev.Time.In(loc))
		if h.After(end) {
			continue
		}
		hours, ok := observed[ev.Device]
		if !ok {
			hours = make(map[int64]bool)
			observed[ev.Device] = hours
		}
		key := h.Unix()
		hours[key] = hours[key] || ev.Activated
		if f, ok := first[ev.Device]; !ok || h.Before(f) {
			first[ev.Device] = h
		}
	}

	devices := make([]string, 0, len(first))
	size := 0
	for d, f := range first {
		devices = append(devices, d)
		size += int(end.Sub(f)/time.Hour) + 1
	}
	sort.Strings(devices)

	grid := make([]model.HourlyRecord, 0, size)
	for _, d := range devices {
		hours := observed[d]
		for h := first[d]; !h.After(end); h = h.Add(time.Hour) {
			grid = append(grid, model.HourlyRecord{
				Device:   d,
				Hour:     h,
				Occupied: hours[h.Unix()],
			})
		}
	}
	return grid
}
