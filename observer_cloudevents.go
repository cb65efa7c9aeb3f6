package modhook

import (
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

const eventSource = "modhook"

// CloudEvent is an alias for the CloudEvents Event type for convenience
type CloudEvent = cloudevents.Event

// NewCloudEvent creates a CloudEvent with a time-ordered ID, the current
// time and JSON data. Metadata keys become extensions and must be lowercase
// alphanumeric.
func NewCloudEvent(eventType, source string, data any, metadata map[string]any) cloudevents.Event {
	event := cloudevents.NewEvent()
	event.SetID(generateEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)

	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	for key, value := range metadata {
		event.SetExtension(key, value)
	}
	return event
}

// generateEventID uses UUIDv7 and falls back to v4.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// ValidateCloudEvent validates that a CloudEvent conforms to the CloudEvents 1.0 format.
func ValidateCloudEvent(event cloudevents.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("CloudEvent validation failed: %w", err)
	}
	return nil
}
