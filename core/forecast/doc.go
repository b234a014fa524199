// Package forecast turns a log of room sensor activations into an hourly
// occupancy forecast.
//
// Events are snapped to their clock hour, expanded into a dense per-device
// hourly grid where a missing hour means "not occupied", and folded into a
// lookup keyed by device, weekday and hour of day. The lookup is then joined
// against the next hourly slots after the cutoff. Any occupied observation
// for a key makes the key occupied, so the forecast leans towards predicting
// occupancy.
package forecast
