package parse

import (
	"fmt"
	"strings"
)

// PetIDFromTopic extracts the pet id from a sensor topic of the form
// tagcly/pet/{petId}/sensors.
func PetIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "tagcly" || parts[1] != "pet" || parts[3] != "sensors" {
		return "", fmt.Errorf("unexpected sensor topic: %q", topic)
	}
	if parts[2] == "" {
		return "", fmt.Errorf("empty pet id in topic: %q", topic)
	}
	return parts[2], nil
}

// SensorTopic builds the per-pet sensor topic for a pet id.
func SensorTopic(petID string) string {
	return fmt.Sprintf("tagcly/pet/%s/sensors", petID)
}
