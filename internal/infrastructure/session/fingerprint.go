package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Fingerprint derives a stable identifier for the current terminal, so
// history survives across invocations in the same window but not across
// terminals. Raw identity material is hashed, never stored.
func Fingerprint() string {
	parts := []string{identitySource()}
	if host, err := os.Hostname(); err == nil {
		parts = append(parts, host)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

func identitySource() string {
	// The controlling tty is the most stable per-terminal handle.
	if tty, err := os.Readlink("/proc/self/fd/0"); err == nil && strings.HasPrefix(tty, "/dev/") {
		return tty
	}
	for _, name := range []string{"TERM_SESSION_ID", "WEZTERM_PANE", "TMUX_PANE", "WINDOWID", "SSH_TTY"} {
		if value := os.Getenv(name); value != "" {
			return name + "=" + value
		}
	}
	return fmt.Sprintf("ppid=%d", os.Getppid())
}
