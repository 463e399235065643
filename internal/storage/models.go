package storage

import (
	"encoding/json"
	"time"
)

// Keys of the per-family documents.
const (
	KeyProfile   = "profile"
	KeyTasks     = "tasks"
	KeyRewards   = "rewards"
	KeySettings  = "settings"
	KeyPenalties = "penalties"
	KeyGoal      = "goal"
	KeyMessages  = "messages"
)

// ListActivities is the append-only activity log.
const ListActivities = "activities"

// Change is published after a committed write.
type Change struct {
	Family string
	// Keys lists the documents and lists touched. Nil on the initial
	// notification a subscriber receives.
	Keys []string
}

// Touches reports whether key is part of the change. An initial
// notification touches everything.
func (c Change) Touches(key string) bool {
	if c.Keys == nil {
		return true
	}
	for _, k := range c.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Document is one stored JSON value.
type Document struct {
	Family    string          `json:"family"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ListItem is one entry of an append-only list.
type ListItem struct {
	Seq       int64
	ID        string
	Value     json.RawMessage
	CreatedAt time.Time
}
