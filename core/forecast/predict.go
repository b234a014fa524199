package forecast

import "github.com/kilianp07/occupancy/core/model"

// PredictStats counts how the slots of a forecast were resolved.
type PredictStats struct {
	Slots     int
	Occupied  int
	ColdStart int
	Forced    int
}

// Predict resolves every slot against the historical hash. Slots whose key
// was never observed are predicted empty, and devices listed in alwaysEmpty
// are predicted empty whatever their history says. The output keeps the
// order of slots.
func Predict(slots []model.Slot, hash Hash, alwaysEmpty []string) ([]model.Prediction, PredictStats) {
	forced := make(map[string]bool, len(alwaysEmpty))
	for _, d := range alwaysEmpty {
		forced[d] = true
	}

	stats := PredictStats{Slots: len(slots)}
	preds := make([]model.Prediction, len(slots))
	for i, s := range slots {
		occupied, found := hash.Lookup(s.Device, s.Time)
		if !found {
			stats.ColdStart++
		}
		if forced[s.Device] {
			occupied = false
			stats.Forced++
		}
		if occupied {
			stats.Occupied++
		}
		preds[i] = model.Prediction{Time: s.Time, Device: s.Device, Occupied: occupied}
	}
	return preds, stats
}
