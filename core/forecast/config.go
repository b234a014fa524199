package forecast

import (
	"errors"
	"fmt"
)

// Config defines the device universe and forecast window.
type Config struct {
	// Devices lists the forecast devices in output order.
	Devices []string `json:"devices"`
	// AlwaysEmpty lists devices that are always forecast as not occupied.
	AlwaysEmpty []string `json:"always_empty"`
	// HorizonHours is the number of hourly slots after the cutoff.
	HorizonHours int `json:"horizon_hours"`
}

// DefaultDevices returns device_1 to device_7.
func DefaultDevices() []string {
	devices := make([]string, 7)
	for i := range devices {
		devices[i] = fmt.Sprintf("device_%d", i+1)
	}
	return devices
}

// DefaultConfig returns the seven-room configuration with device_7 forced
// empty and a 24 hour horizon.
func DefaultConfig() Config {
	return Config{
		Devices:      DefaultDevices(),
		AlwaysEmpty:  []string{"device_7"},
		HorizonHours: 24,
	}
}

// SetDefaults fills unset fields from DefaultConfig. AlwaysEmpty is only
// defaulted together with Devices; an explicit device list without overrides
// keeps none.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if len(c.Devices) == 0 {
		c.Devices = def.Devices
		if c.AlwaysEmpty == nil {
			c.AlwaysEmpty = def.AlwaysEmpty
		}
	}
	if c.HorizonHours == 0 {
		c.HorizonHours = def.HorizonHours
	}
}

// Validate checks that the configuration describes a usable forecast.
func (c Config) Validate() error {
	if len(c.Devices) == 0 {
		return errors.New("at least one device is required")
	}
	if c.HorizonHours <= 0 {
		return fmt.Errorf("horizon_hours must be positive, got %d", c.HorizonHours)
	}
	seen := make(map[string]bool, len(c.Devices))
	for _, d := range c.Devices {
		if d == "" {
			return errors.New("device identifiers must not be empty")
		}
		if seen[d] {
			return fmt.Errorf("duplicate device %s", d)
		}
		seen[d] = true
	}
	for _, d := range c.AlwaysEmpty {
		if !seen[d] {
			return fmt.Errorf("always_empty device %s is not a forecast device", d)
		}
	}
	return nil
}
