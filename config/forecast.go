package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/occupancy/core/forecast"
	"github.com/kilianp07/occupancy/pkg/export"
)

// ForecastConfig configures the devices, forecast window and time handling.
type ForecastConfig struct {
	Devices      []string `json:"devices"`
	AlwaysEmpty  []string `json:"always_empty"`
	HorizonHours int      `json:"horizon_hours"`
	// Timezone is an IANA name used for timestamps without an offset.
	Timezone string `json:"timezone"`
	// OutputLayout is the Go time layout of the output time column.
	OutputLayout string `json:"output_layout"`
}

// Pipeline returns the core pipeline configuration.
func (c ForecastConfig) Pipeline() forecast.Config {
	return forecast.Config{
		Devices:      c.Devices,
		AlwaysEmpty:  c.AlwaysEmpty,
		HorizonHours: c.HorizonHours,
	}
}

// Location resolves Timezone.
func (c ForecastConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// SetDefaults applies the seven-room defaults.
func (c *ForecastConfig) SetDefaults() {
	p := c.Pipeline()
	p.SetDefaults()
	c.Devices, c.AlwaysEmpty, c.HorizonHours = p.Devices, p.AlwaysEmpty, p.HorizonHours
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.OutputLayout == "" {
		c.OutputLayout = export.DefaultTimeLayout
	}
}

// Validate checks the pipeline settings and the timezone.
func (c ForecastConfig) Validate() error {
	if err := c.Pipeline().Validate(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}
