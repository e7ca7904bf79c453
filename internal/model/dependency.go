package model

import "time"

// Dependency represents a directed prerequisite relationship between two
// tasks: TaskID depends on DependsOnID and is not ready until the
// prerequisite is done. Pairs form a set; self-edges are never stored.
type Dependency struct {
	TaskID      int64     `json:"task_id"`
	DependsOnID int64     `json:"depends_on_id"`
	CreatedAt   time.Time `json:"created_at"`
}
