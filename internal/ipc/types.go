package ipc

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse reports daemon liveness.
type PingResponse struct {
	PID int `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information for IPC callers.
type StatusResponse struct {
	Running        bool           `json:"running"`
	PID            int            `json:"pid"`
	APIAddr        string         `json:"api_addr"`
	DatabasePath   string         `json:"database_path"`
	LockPath       string         `json:"lock_path"`
	TaskCounts     map[string]int `json:"task_counts"`
	ActiveSessions int            `json:"active_sessions"`
	FeedSequence   uint64         `json:"feed_sequence"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
