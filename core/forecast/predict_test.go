package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/occupancy/core/model"
)

func TestCeilHour(t *testing.T) {
	cases := []struct {
		in, want time.Time
	}{
		{time.Date(2016, 8, 31, 23, 59, 59, 0, time.UTC), time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2016, 8, 31, 10, 0, 0, 0, time.UTC), time.Date(2016, 8, 31, 10, 0, 0, 0, time.UTC)},
		{time.Date(2016, 8, 31, 10, 0, 0, 1, time.UTC), time.Date(2016, 8, 31, 11, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := CeilHour(c.in); !got.Equal(c.want) {
			t.Fatalf("CeilHour(%v): expected %v got %v", c.in, c.want, got)
		}
	}
}

func TestGenerateSlotsShape(t *testing.T) {
	devices := DefaultDevices()
	for _, cutoff := range []time.Time{
		time.Date(2016, 8, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2016, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 31, 12, 30, 0, 0, time.UTC),
	} {
		slots := GenerateSlots(cutoff, devices, 24)
		require.Len(t, slots, 168)
		start := CeilHour(cutoff)
		for i, s := range slots {
			wantTime := start.Add(time.Duration(i/7) * time.Hour)
			if !s.Time.Equal(wantTime) || s.Device != devices[i%7] {
				t.Fatalf("slot %d: got %v %s", i, s.Time, s.Device)
			}
		}
	}
}

func TestGenerateSlotsDegenerate(t *testing.T) {
	assert.Nil(t, GenerateSlots(at(1, 0, 0), nil, 24))
	assert.Nil(t, GenerateSlots(at(1, 0, 0), []string{"a"}, 0))
}

func TestPredictJoinAndOverride(t *testing.T) {
	start := time.Date(2016, 9, 1, 9, 0, 0, 0, time.UTC) // Thursday
	hash := Hash{
		{Device: "device_1", Weekday: time.Thursday, Hour: 9}:  true,
		{Device: "device_2", Weekday: time.Thursday, Hour: 9}:  false,
		{Device: "device_7", Weekday: time.Thursday, Hour: 9}:  true,
		{Device: "device_1", Weekday: time.Thursday, Hour: 10}: false,
	}
	slots := GenerateSlots(start, []string{"device_1", "device_2", "device_3", "device_7"}, 2)
	preds, stats := Predict(slots, hash, []string{"device_7"})
	require.Len(t, preds, 8)

	want := []bool{true, false, false, false, false, false, false, false}
	for i, p := range preds {
		assert.Equal(t, slots[i].Device, p.Device)
		assert.True(t, slots[i].Time.Equal(p.Time))
		assert.Equal(t, want[i], p.Occupied, "prediction %d (%s %v)", i, p.Device, p.Time)
	}
	assert.Equal(t, PredictStats{Slots: 8, Occupied: 1, ColdStart: 4, Forced: 2}, stats)
}

func TestPredictFlag(t *testing.T) {
	assert.Equal(t, 1, model.Prediction{Occupied: true}.Flag())
	assert.Equal(t, 0, model.Prediction{}.Flag())
}
