package model

import (
	"encoding/json"
	"time"
)

// Event is an append-only audit record for a task. Events are recorded by
// the command layer on every mutation and surfaced by `flowtask history`.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	TaskID    int64           `json:"task_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
