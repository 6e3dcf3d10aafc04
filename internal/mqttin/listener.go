package mqttin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"tagcly-telemetry-backend/config"
	"tagcly-telemetry-backend/internal/parse"
	"tagcly-telemetry-backend/internal/telemetry"
)

// minPayloadBytes rejects obviously truncated messages before JSON parsing.
const minPayloadBytes = 10

// Listener subscribes to the per-pet sensor topic and feeds each message to
// the ingestion orchestrator. Delivery is best effort: a message that fails
// any stage is logged and dropped, the device gets no acknowledgement.
type Listener struct {
	cfg      *config.MQTTConfig
	client   mqtt.Client
	ingestor telemetry.Ingestor
}

// NewListener creates a listener for the configured broker. The connection is
// not opened until Start.
func NewListener(cfg *config.MQTTConfig, ingestor telemetry.Ingestor) *Listener {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	// Handlers run concurrently so one slow persistence call does not hold up
	// the next message. No ordering is required across readings.
	opts.SetOrderMatters(false)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		log.Printf("Connected to MQTT broker %s", cfg.Broker)
	})

	return &Listener{
		cfg:      cfg,
		client:   mqtt.NewClient(opts),
		ingestor: ingestor,
	}
}

// Start connects to the broker and subscribes to the sensor topic.
func (l *Listener) Start() error {
	if token := l.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	token := l.client.Subscribe(l.cfg.Topic, l.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		l.handleMessage(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", l.cfg.Topic, token.Error())
	}

	log.Printf("Subscribed to %s (qos %d)", l.cfg.Topic, l.cfg.QoS)
	return nil
}

// Stop disconnects from the broker, allowing in-flight handlers to finish.
func (l *Listener) Stop() {
	l.client.Disconnect(250)
}

// handleMessage runs the defensive pre-parse checks and hands a well-formed
// payload to the orchestrator.
func (l *Listener) handleMessage(topic string, payload []byte) {
	if len(payload) < minPayloadBytes {
		log.Printf("Dropping message from %s: payload too short (%d bytes)", topic, len(payload))
		return
	}

	trimmed := bytes.TrimSpace(payload)
	if !bytes.HasPrefix(trimmed, []byte("{")) || !bytes.HasSuffix(trimmed, []byte("}")) {
		log.Printf("Dropping message from %s: payload is not a JSON object (starts %q, ends %q)",
			topic, head(trimmed, 50), tail(trimmed, 50))
		return
	}

	var raw telemetry.RawReading
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		log.Printf("Dropping malformed message from %s: %v", topic, err)
		for _, issue := range Diagnose(trimmed, err) {
			log.Printf("  json diagnosis: %s", issue)
		}
		return
	}

	if petID, err := parse.PetIDFromTopic(topic); err == nil && petID != raw.PetID {
		log.Printf("Warning: topic pet %q does not match payload pet %q", petID, raw.PetID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := l.ingestor.Ingest(ctx, raw); err != nil {
		log.Printf("Failed to ingest message from %s: %v", topic, err)
		return
	}
	log.Printf("Processed sensor message from %s", topic)
}

// PublishTest publishes a synthetic reading to a pet's topic, useful when
// verifying broker connectivity from a dev environment.
func (l *Listener) PublishTest(petID string) error {
	sample := telemetry.RawReading{
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		PetID:             petID,
		DeviceID:          "ESP32_001",
		Temperature:       ptr(38.5),
		HeartRate:         ptr(80.0),
		Steps:             ptrInt(50),
		ActivityIntensity: ptr(4.2),
		Latitude:          ptr(40.7128),
		Longitude:         ptr(-74.006),
		Vocalization:      "bark",
		Loudness:          ptr(70.0),
		Status:            "ok",
	}
	body, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	token := l.client.Publish(parse.SensorTopic(petID), l.cfg.QoS, false, body)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish test message: %w", token.Error())
	}
	return nil
}

func head(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}

func ptr(v float64) *float64 { return &v }
func ptrInt(v int) *int      { return &v }
