package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetIDFromTopic(t *testing.T) {
	petID, err := PetIDFromTopic("tagcly/pet/PET123/sensors")
	require.NoError(t, err)
	assert.Equal(t, "PET123", petID)
}

func TestPetIDFromTopic_Rejects(t *testing.T) {
	testCases := []struct {
		name  string
		topic string
	}{
		{"wrong prefix", "other/pet/PET123/sensors"},
		{"wrong suffix", "tagcly/pet/PET123/status"},
		{"missing segment", "tagcly/pet/sensors"},
		{"extra segment", "tagcly/pet/PET123/sensors/extra"},
		{"empty pet id", "tagcly/pet//sensors"},
		{"empty topic", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PetIDFromTopic(tc.topic)
			assert.Error(t, err)
		})
	}
}

func TestSensorTopic_RoundTrips(t *testing.T) {
	topic := SensorTopic("PET123")
	assert.Equal(t, "tagcly/pet/PET123/sensors", topic)

	petID, err := PetIDFromTopic(topic)
	require.NoError(t, err)
	assert.Equal(t, "PET123", petID)
}
