package api

import (
	"time"

	"shortlist/internal/feed"
	"shortlist/internal/task"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// TaskRecord describes a task in a transport-friendly format.
type TaskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsChecked bool   `json:"isChecked"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// TaskEvent is a feed delta in transport form.
type TaskEvent struct {
	Sequence  uint64     `json:"seq"`
	Kind      string     `json:"kind"`
	Task      TaskRecord `json:"task"`
	Timestamp string     `json:"ts"`
}

// TaskListResponse wraps a collection of tasks for API responses.
type TaskListResponse struct {
	Tasks []TaskRecord `json:"tasks"`
}

// TaskResponse wraps a single task payload.
type TaskResponse struct {
	Task TaskRecord `json:"task"`
}

// ToggleResponse reports the new checked state after a toggle.
type ToggleResponse struct {
	ID        string `json:"id"`
	IsChecked bool   `json:"isChecked"`
}

// FeedResponse carries feed deltas plus the cursor to resume from. Ready is
// always true: an unauthenticated subscriber receives an empty, closed result
// rather than an error or a hang.
type FeedResponse struct {
	Events []TaskEvent `json:"events"`
	Next   uint64      `json:"next"`
	Ready  bool        `json:"ready"`
}

// InsertRequest is the payload for task creation.
type InsertRequest struct {
	Text string `json:"text"`
}

// LoginRequest carries credentials for session issuance.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expiresAt"`
}

// StatusResponse aggregates daemon runtime information for API consumers.
type StatusResponse struct {
	Running        bool           `json:"running"`
	PID            int            `json:"pid"`
	DatabasePath   string         `json:"databasePath"`
	LockFilePath   string         `json:"lockFilePath"`
	TaskCounts     map[string]int `json:"taskCounts"`
	ActiveSessions int            `json:"activeSessions"`
	FeedSequence   uint64         `json:"feedSequence"`
}

// ErrorResponse is the uniform failure payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromTask converts an internal record into its transport representation.
// OwnerID deliberately stays server-side; every payload is already scoped to
// its owner.
func FromTask(record *task.Task) TaskRecord {
	if record == nil {
		return TaskRecord{}
	}
	return TaskRecord{
		ID:        record.ID,
		Text:      record.Text,
		IsChecked: record.IsChecked,
		CreatedAt: formatTime(record.CreatedAt),
		UpdatedAt: formatTime(record.UpdatedAt),
	}
}

// FromTasks converts a slice of internal records.
func FromTasks(records []*task.Task) []TaskRecord {
	out := make([]TaskRecord, 0, len(records))
	for _, record := range records {
		out = append(out, FromTask(record))
	}
	return out
}

// FromEvent converts a feed event into its transport representation.
func FromEvent(evt feed.Event) TaskEvent {
	record := evt.Task
	return TaskEvent{
		Sequence:  evt.Sequence,
		Kind:      string(evt.Kind),
		Task:      FromTask(&record),
		Timestamp: formatTime(evt.Timestamp),
	}
}

// FromEvents converts a slice of feed events.
func FromEvents(events []feed.Event) []TaskEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]TaskEvent, 0, len(events))
	for _, evt := range events {
		out = append(out, FromEvent(evt))
	}
	return out
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(dateTimeFormat)
}
