package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"antarctic-dashboard/internal/models"
)

// Client is the subset of the paho client used for publishing.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type ClientConfig struct {
	Broker   string
	ClientID string
}

// Connect dials the broker with auto-reconnect enabled.
func Connect(cfg ClientConfig, log *slog.Logger) (Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info("mqtt connection established", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

// ReadingMessage is the JSON payload published per reading.
type ReadingMessage struct {
	Cycle     uint64  `json:"cycle"`
	Temp      float64 `json:"temp"`
	Timestamp string  `json:"timestamp"`
	Station   string  `json:"station"`
}

// Publisher sends each new reading to a single topic.
type Publisher struct {
	client  Client
	topic   string
	timeout time.Duration
	log     *slog.Logger
}

func NewPublisher(client Client, topic string, log *slog.Logger) *Publisher {
	return &Publisher{
		client:  client,
		topic:   topic,
		timeout: 2 * time.Second,
		log:     log,
	}
}

func (p *Publisher) PublishReading(cycle uint64, r models.Reading) error {
	payload, err := json.Marshal(ReadingMessage{
		Cycle:     cycle,
		Temp:      r.Value,
		Timestamp: r.Timestamp,
		Station:   "McMurdo",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("timed out publishing to %s", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish reading: %w", err)
	}
	return nil
}

func (p *Publisher) OnTick(_ context.Context, snap models.Snapshot) {
	if err := p.PublishReading(snap.Cycle, snap.Latest); err != nil {
		p.log.Warn("failed to publish reading", "topic", p.topic, "cycle", snap.Cycle, "error", err)
	}
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
