package forecast

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/occupancy/core/model"
)

// DeviceSummary describes the gap-filled history of one device.
type DeviceSummary struct {
	Device        string
	Hours         int
	OccupiedHours int
	// Rate is the fraction of grid hours that were occupied.
	Rate float64
}

// Summarize computes per-device occupancy statistics over a grid, sorted by
// device.
func Summarize(grid []model.HourlyRecord) []DeviceSummary {
	series := make(map[string][]float64)
	for _, r := range grid {
		v := 0.0
		if r.Occupied {
			v = 1
		}
		series[r.Device] = append(series[r.Device], v)
	}
	out := make([]DeviceSummary, 0, len(series))
	for d, xs := range series {
		occupied := 0
		for _, x := range xs {
			if x > 0 {
				occupied++
			}
		}
		out = append(out, DeviceSummary{
			Device:        d,
			Hours:         len(xs),
			OccupiedHours: occupied,
			Rate:          stat.Mean(xs, nil),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Device < out[j].Device })
	return out
}
