package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/occupancy/core/publish"
	"github.com/kilianp07/occupancy/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher sends every forecast as a single JSON message.
type Publisher struct {
	cli        pahoClient
	broker     string
	topic      string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

type predictionMessage struct {
	Time            time.Time `json:"time"`
	Device          string    `json:"device"`
	DeviceActivated int       `json:"device_activated"`
}

type forecastMessage struct {
	RunID       string              `json:"run_id"`
	Cutoff      time.Time           `json:"cutoff"`
	Start       time.Time           `json:"start"`
	Predictions []predictionMessage `json:"predictions"`
}

// NewPublisher prepares a client for the broker described by cfg. The
// connection is opened by the first Publish.
func NewPublisher(cfg Config, log logger.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "occupancy-" + uuid.NewString()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	p := &Publisher{
		broker:     cfg.Broker,
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}
	p.cli = newMQTTClient(opts)
	return p, nil
}

// connect opens the broker connection on first use so an unreachable broker
// only fails the publish, never the forecast itself.
func (p *Publisher) connect() error {
	if p.cli.IsConnected() {
		return nil
	}
	if token := p.cli.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect %s: %w", p.broker, token.Error())
	}
	p.log.Infof("MQTT connected to %s", p.broker)
	return nil
}

// Publish sends f to the configured topic, retrying with exponential backoff.
func (p *Publisher) Publish(ctx context.Context, f publish.Forecast) error {
	msg := forecastMessage{
		RunID:       f.RunID,
		Cutoff:      f.Cutoff,
		Start:       f.Start,
		Predictions: make([]predictionMessage, len(f.Predictions)),
	}
	for i, pr := range f.Predictions {
		msg.Predictions[i] = predictionMessage{Time: pr.Time, Device: pr.Device, DeviceActivated: pr.Flag()}
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := p.connect(); err != nil {
		return err
	}

	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(p.topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Infof("published forecast %s to %s", f.RunID, p.topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == p.maxRetries {
			break
		}
		timer := time.NewTimer(p.backoff * time.Duration(1<<attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("publish forecast to %s: %w", p.topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
