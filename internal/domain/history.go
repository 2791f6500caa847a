package domain

import "time"

// Session bounds shared with the storage adapter.
const (
	MaxSessionRecords   = 20
	SessionTTL          = 24 * time.Hour
	OutputTruncateLimit = 500
)

// SessionRecord captures one interaction inside a terminal session.
// ExitCode is nil for outcomes that never executed (cancelled,
// informational, abandoned).
type SessionRecord struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Command     string    `json:"command"`
	Explanation string    `json:"explanation"`
	Confidence  int       `json:"confidence"`
	Outcome     Outcome   `json:"outcome"`
	ExitCode    *int      `json:"exit_code,omitempty"`
	Stdout      string    `json:"stdout,omitempty"`
	Stderr      string    `json:"stderr,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	WorkingDir  string    `json:"cwd"`
}

// TruncateOutput trims captured output to the history limit.
func TruncateOutput(s string) string {
	if len(s) <= OutputTruncateLimit {
		return s
	}
	return s[:OutputTruncateLimit]
}
