package entity

import "github.com/google/uuid"

const (
	CollectionNotebooks = "notebooks"
	CollectionTasks     = "tasks"
)

// Change describes a committed write. Live queries are re-evaluated for every
// subscription whose filter matches UserId (notebooks) or NotebookId (tasks).
type Change struct {
	Collection string    `json:"collection"`
	UserId     uuid.UUID `json:"user_id"`
	NotebookId uuid.UUID `json:"notebook_id"`
	Origin     string    `json:"origin,omitempty"`
}
