package task

import "time"

// Task is a single owner-scoped task record.
type Task struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Text      string    `json:"text"`
	IsChecked bool      `json:"is_checked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows List results.
type Filter struct {
	// HideChecked excludes completed tasks from the listing.
	HideChecked bool
}
