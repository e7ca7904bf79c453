package main

import (
	"context"
	"encoding/json"

	"github.com/groblegark/flowtask/internal/model"
	"github.com/groblegark/flowtask/internal/store"
)

// recordEvent appends an audit event for a mutation. Failures are logged
// rather than surfaced; the mutation itself already succeeded.
func recordEvent(ctx context.Context, s store.Store, topic string, taskID int64, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Warn("encode event payload", "topic", topic, "err", err)
			return
		}
		raw = data
	}
	err := s.RecordEvent(ctx, &model.Event{
		Topic:   topic,
		TaskID:  taskID,
		Payload: raw,
	})
	if err != nil {
		logger.Warn("record event", "topic", topic, "task_id", taskID, "err", err)
	}
}
