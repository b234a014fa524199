// Package export writes forecasts and the learned occupancy hash.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/occupancy/core/forecast"
	"github.com/kilianp07/occupancy/core/model"
)

// DefaultTimeLayout matches the timestamp format of the input logs.
const DefaultTimeLayout = "2006-01-02 15:04:05"

type predictionJSON struct {
	Time            string `json:"time"`
	Device          string `json:"device"`
	DeviceActivated int    `json:"device_activated"`
}

// WriteCSV writes predictions to w with the time,device,device_activated
// header. An empty layout selects DefaultTimeLayout.
func WriteCSV(w io.Writer, preds []model.Prediction, layout string) error {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "device", "device_activated"}); err != nil {
		return err
	}
	for _, p := range preds {
		rec := []string{
			p.Time.Format(layout),
			p.Device,
			strconv.Itoa(p.Flag()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes predictions to w as a JSON array using the CSV field
// names.
func WriteJSON(w io.Writer, preds []model.Prediction, layout string) error {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	out := make([]predictionJSON, len(preds))
	for i, p := range preds {
		out[i] = predictionJSON{Time: p.Time.Format(layout), Device: p.Device, DeviceActivated: p.Flag()}
	}
	return json.NewEncoder(w).Encode(out)
}

// WriteHashCSV writes the historical hash as device,weekday,hour,
// device_activated rows in Entries order.
func WriteHashCSV(w io.Writer, h forecast.Hash) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"device", "weekday", "hour", "device_activated"}); err != nil {
		return err
	}
	for _, e := range h.Entries() {
		flag := "0"
		if e.Occupied {
			flag = "1"
		}
		rec := []string{e.Key.Device, e.Key.Weekday.String(), strconv.Itoa(e.Key.Hour), flag}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
