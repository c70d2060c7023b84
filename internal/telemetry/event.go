package telemetry

import "time"

type EventType string

const (
	EventQuestGenerated EventType = "quest_generated"
	EventQuestSkipped   EventType = "quest_skipped"
	EventQuestRejected  EventType = "quest_rejected"
	EventQuestSucceeded EventType = "quest_succeeded"
	EventQuestFailed    EventType = "quest_failed"
	EventQuestAborted   EventType = "quest_aborted"
	EventHunterInvalid  EventType = "hunter_invalid"
	EventPopulationGone EventType = "population_empty"
	EventBatchCompleted EventType = "batch_completed"
)

// Event is one thing that happened to a quest or batch. Metadata is owned by
// the event; callers get a copy.
type Event struct {
	Seq       int           `json:"seq"`
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  EventMetadata `json:"metadata,omitempty"`
}

type EventMetadata map[string]any

func (m EventMetadata) clone() EventMetadata {
	if m == nil {
		return nil
	}
	out := make(EventMetadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Int reads a numeric field, whatever integer or float type it was stored as.
func (m EventMetadata) Int(key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// String reads a text field.
func (m EventMetadata) String(key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}
