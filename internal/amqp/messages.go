package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotEvent is the lightweight message emitted after a snapshot is
// appended. Consumers fetch the full snapshot from history by ID.
type SnapshotEvent struct {
	Session         string    `json:"session"`
	SnapshotID      string    `json:"snapshot_id"`
	TotalSpendCents int64     `json:"total_spend_cents"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewSnapshotEvent(session, snapshotID string, totalSpendCents int64) *SnapshotEvent {
	return &SnapshotEvent{
		Session:         session,
		SnapshotID:      snapshotID,
		TotalSpendCents: totalSpendCents,
		Timestamp:       time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *SnapshotEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotEventFromJSON creates an event from JSON bytes
func SnapshotEventFromJSON(data []byte) (*SnapshotEvent, error) {
	var msg SnapshotEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
