package telemetry

import (
	"time"

	"tagcly-telemetry-backend/internal/model"
)

// RawReading is the wire shape of one collar sample. Optional numerics are
// pointers so absent and zero can be told apart.
type RawReading struct {
	Timestamp         string   `json:"timestamp"`
	PetID             string   `json:"pet_id"`
	DeviceID          string   `json:"device_id"`
	Temperature       *float64 `json:"temperature"`
	HeartRate         *float64 `json:"heart_rate"`
	Steps             *int     `json:"steps"`
	ActivityIntensity *float64 `json:"activity_intensity"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Vocalization      string   `json:"vocalization"`
	Loudness          *float64 `json:"loudness"`
	Status            string   `json:"status"`
}

type rangeCheck struct {
	field  string
	value  *float64
	min    float64
	max    float64
	hasMax bool
}

// Validate checks a raw payload against the wire contract and returns a typed
// reading with optional fields defaulted. It has no side effects; the returned
// reading carries only raw fields, derived fields are filled in by enrichment.
func Validate(raw RawReading) (*model.SensorReading, error) {
	if raw.Timestamp == "" {
		return nil, &ValidationError{Field: "timestamp", Reason: "required field is missing"}
	}
	if raw.PetID == "" {
		return nil, &ValidationError{Field: "pet_id", Reason: "required field is missing"}
	}
	if raw.DeviceID == "" {
		return nil, &ValidationError{Field: "device_id", Reason: "required field is missing"}
	}
	if raw.Status == "" {
		return nil, &ValidationError{Field: "status", Reason: "required field is missing"}
	}

	ts, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		return nil, &ValidationError{Field: "timestamp", Reason: "must be an RFC 3339 timestamp"}
	}

	checks := []rangeCheck{
		{field: "temperature", value: raw.Temperature, min: 37.0, max: 41.0, hasMax: true},
		{field: "heart_rate", value: raw.HeartRate, min: 60, max: 180, hasMax: true},
		{field: "activity_intensity", value: raw.ActivityIntensity, min: 0, max: 10, hasMax: true},
		{field: "latitude", value: raw.Latitude, min: -90, max: 90, hasMax: true},
		{field: "longitude", value: raw.Longitude, min: -180, max: 180, hasMax: true},
		{field: "loudness", value: raw.Loudness, min: 0, max: 100, hasMax: true},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if *c.value < c.min {
			return nil, &ValidationError{Field: c.field, Reason: "value is below minimum"}
		}
		if c.hasMax && *c.value > c.max {
			return nil, &ValidationError{Field: c.field, Reason: "value is above maximum"}
		}
	}
	if raw.Steps != nil && *raw.Steps < 0 {
		return nil, &ValidationError{Field: "steps", Reason: "value is below minimum"}
	}

	if raw.Vocalization != "" &&
		raw.Vocalization != model.VocalizationBark &&
		raw.Vocalization != model.VocalizationWhine &&
		raw.Vocalization != model.VocalizationNone {
		return nil, &ValidationError{Field: "vocalization", Reason: "unknown value"}
	}
	if raw.Status != model.StatusOK && raw.Status != model.StatusError {
		return nil, &ValidationError{Field: "status", Reason: "unknown value"}
	}

	reading := &model.SensorReading{
		Timestamp:    ts,
		PetID:        raw.PetID,
		DeviceID:     raw.DeviceID,
		Temperature:  raw.Temperature,
		HeartRate:    raw.HeartRate,
		Latitude:     raw.Latitude,
		Longitude:    raw.Longitude,
		Vocalization: model.VocalizationNone,
		Status:       raw.Status,
	}
	if raw.Steps != nil {
		reading.Steps = *raw.Steps
	}
	if raw.ActivityIntensity != nil {
		reading.ActivityIntensity = *raw.ActivityIntensity
	}
	if raw.Vocalization != "" {
		reading.Vocalization = raw.Vocalization
	}
	if raw.Loudness != nil {
		reading.Loudness = *raw.Loudness
	}
	return reading, nil
}
