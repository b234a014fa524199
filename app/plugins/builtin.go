// Package plugins registers the built-in publish sinks. Import it for its
// side effects.
package plugins

import (
	"github.com/kilianp07/occupancy/core/factory"
	"github.com/kilianp07/occupancy/core/publish"
	"github.com/kilianp07/occupancy/infra/logger"
	"github.com/kilianp07/occupancy/infra/mqtt"
)

func init() {
	if err := publish.RegisterSink("nop", func(map[string]any) (publish.Sink, error) {
		return publish.NopSink{}, nil
	}); err != nil {
		panic(err)
	}
	if err := publish.RegisterSink("mqtt", func(conf map[string]any) (publish.Sink, error) {
		var mc mqtt.Config
		if err := factory.Decode(conf, &mc); err != nil {
			return nil, err
		}
		return mqtt.NewPublisher(mc, logger.New("mqtt-publisher"))
	}); err != nil {
		panic(err)
	}
}
