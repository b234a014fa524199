package forecast

import (
	"errors"
	"time"

	"github.com/kilianp07/occupancy/core/logger"
	"github.com/kilianp07/occupancy/core/model"
)

// Result holds the forecast together with the intermediate artifacts of a
// run.
type Result struct {
	Cutoff      time.Time
	Start       time.Time
	Grid        []model.HourlyRecord
	Hash        Hash
	Predictions []model.Prediction
	Stats       PredictStats
	Summaries   []DeviceSummary
}

// Pipeline runs the occupancy forecast for a fixed configuration.
type Pipeline struct {
	cfg Config
	log logger.Logger
}

// NewPipeline validates cfg and returns a Pipeline. A nil logger discards
// all output.
func NewPipeline(cfg Config, log logger.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Pipeline{cfg: cfg, log: log}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Learn builds the historical hash from events observed up to cutoff.
func (p *Pipeline) Learn(events []model.ActivationEvent, cutoff time.Time) (Hash, []model.HourlyRecord) {
	grid := FillGrid(Normalize(events), cutoff)
	hash := BuildHash(ExtractFeatures(grid), cutoff)
	p.log.Debugw("history learned", map[string]any{
		"events":       len(events),
		"grid_hours":   len(grid),
		"hash_entries": len(hash),
	})
	return hash, grid
}

// Run produces the forecast for the slots following cutoff.
func (p *Pipeline) Run(events []model.ActivationEvent, cutoff time.Time) (Result, error) {
	if cutoff.IsZero() {
		return Result{}, errors.New("cutoff timestamp is required")
	}
	hash, grid := p.Learn(events, cutoff)
	slots := GenerateSlots(cutoff, p.cfg.Devices, p.cfg.HorizonHours)
	preds, stats := Predict(slots, hash, p.cfg.AlwaysEmpty)
	if stats.ColdStart > 0 {
		p.log.Debugf("%d of %d slots had no history and default to empty", stats.ColdStart, stats.Slots)
	}
	return Result{
		Cutoff:      cutoff,
		Start:       CeilHour(cutoff),
		Grid:        grid,
		Hash:        hash,
		Predictions: preds,
		Stats:       stats,
		Summaries:   Summarize(grid),
	}, nil
}
