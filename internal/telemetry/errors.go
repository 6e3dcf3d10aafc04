package telemetry

import "fmt"

// ValidationError rejects a whole reading. Nothing is persisted when one is
// returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed storage write. The HTTP adapter maps it to
// a 500; the MQTT adapter logs it and drops the message.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
