package model

import "time"

// ActivationEvent is a single row of the sensor log.
type ActivationEvent struct {
	Device    string
	Time      time.Time
	Activated bool
}

// HourlyRecord is the occupancy state of a device for one clock hour.
// Hour is always aligned on an hour boundary.
type HourlyRecord struct {
	Device   string
	Hour     time.Time
	Occupied bool
}

// FeatureRecord augments an HourlyRecord with calendar features derived from
// its hour.
type FeatureRecord struct {
	HourlyRecord
	Weekday   time.Weekday
	HourOfDay int
}

// HashKey identifies an entry of the historical occupancy hash.
type HashKey struct {
	Device  string
	Weekday time.Weekday
	Hour    int
}

// Slot is a future hour for which a device must be forecast.
type Slot struct {
	Time   time.Time
	Device string
}

// Prediction is the forecast occupancy of a device for one slot.
type Prediction struct {
	Time     time.Time
	Device   string
	Occupied bool
}

// Flag returns the occupancy as the 0/1 integer used in CSV files.
func (p Prediction) Flag() int {
	if p.Occupied {
		return 1
	}
	return 0
}
