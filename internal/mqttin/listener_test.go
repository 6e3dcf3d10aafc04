package mqttin

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagcly-telemetry-backend/config"
	"tagcly-telemetry-backend/internal/model"
	"tagcly-telemetry-backend/internal/telemetry"
)

// fakeIngestor records the raw readings handed to it.
type fakeIngestor struct {
	mu       sync.Mutex
	received []telemetry.RawReading
	err      error
}

func (f *fakeIngestor) Ingest(_ context.Context, raw telemetry.RawReading) (*model.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.received = append(f.received, raw)
	return &model.SensorReading{PetID: raw.PetID}, nil
}

func (f *fakeIngestor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.received)
}

func newTestListener(ingestor telemetry.Ingestor) *Listener {
	return &Listener{
		cfg:      &config.MQTTConfig{Topic: "tagcly/pet/+/sensors", QoS: 1},
		ingestor: ingestor,
	}
}

const testTopic = "tagcly/pet/PET123/sensors"

func TestHandleMessage_ValidPayloadIngested(t *testing.T) {
	ingestor := &fakeIngestor{}
	l := newTestListener(ingestor)

	payload := []byte(`{
		"timestamp": "2026-08-30T12:00:00Z",
		"pet_id": "PET123",
		"device_id": "ESP32_001",
		"temperature": 38.5,
		"heart_rate": 80,
		"steps": 50,
		"status": "ok"
	}`)
	l.handleMessage(testTopic, payload)

	require.Equal(t, 1, ingestor.count())
	assert.Equal(t, "PET123", ingestor.received[0].PetID)
	assert.Equal(t, "ESP32_001", ingestor.received[0].DeviceID)
	require.NotNil(t, ingestor.received[0].Temperature)
	assert.Equal(t, 38.5, *ingestor.received[0].Temperature)
}

func TestHandleMessage_ShortPayloadDropped(t *testing.T) {
	ingestor := &fakeIngestor{}
	l := newTestListener(ingestor)

	l.handleMessage(testTopic, []byte(`{}`))

	assert.Equal(t, 0, ingestor.count())
}

func TestHandleMessage_NonObjectPayloadDropped(t *testing.T) {
	ingestor := &fakeIngestor{}
	l := newTestListener(ingestor)

	l.handleMessage(testTopic, []byte(`["not", "an", "object"]`))

	assert.Equal(t, 0, ingestor.count())
}

func TestHandleMessage_TruncatedJSONDropped(t *testing.T) {
	ingestor := &fakeIngestor{}
	l := newTestListener(ingestor)

	// Balanced prefix/suffix bytes but invalid JSON in between.
	l.handleMessage(testTopic, []byte(`{"pet_id": "PET123", "steps": }`))

	assert.Equal(t, 0, ingestor.count())
}

func TestHandleMessage_IngestFailureIsSwallowed(t *testing.T) {
	ingestor := &fakeIngestor{err: &telemetry.ValidationError{Field: "status", Reason: "is required"}}
	l := newTestListener(ingestor)

	payload := []byte(`{"timestamp": "2026-08-30T12:00:00Z", "pet_id": "PET123", "device_id": "ESP32_001"}`)
	assert.NotPanics(t, func() {
		l.handleMessage(testTopic, payload)
	})
}

func TestHandleMessage_MismatchedTopicStillIngested(t *testing.T) {
	ingestor := &fakeIngestor{}
	l := newTestListener(ingestor)

	// The payload pet wins; the mismatch is only logged.
	payload := []byte(`{"timestamp": "2026-08-30T12:00:00Z", "pet_id": "PET999", "device_id": "ESP32_001", "status": "ok"}`)
	l.handleMessage(testTopic, payload)

	require.Equal(t, 1, ingestor.count())
	assert.Equal(t, "PET999", ingestor.received[0].PetID)
}
