package forecast

import "github.com/kilianp07/occupancy/core/model"

// Features derives the weekday and hour of day of an hourly record.
func Features(r model.HourlyRecord) model.FeatureRecord {
	return model.FeatureRecord{
		HourlyRecord: r,
		Weekday:      r.Hour.Weekday(),
		HourOfDay:    r.Hour.Hour(),
	}
}

// ExtractFeatures applies Features to every record of the grid.
func ExtractFeatures(grid []model.HourlyRecord) []model.FeatureRecord {
	out := make([]model.FeatureRecord, len(grid))
	for i, r := range grid {
		out[i] = Features(r)
	}
	return out
}
