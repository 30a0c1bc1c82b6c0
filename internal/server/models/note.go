package models

import "time"

// Note is a stored document. Notes are shared across accounts; access is
// controlled by the REST layer, not per-row ownership.
type Note struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
