// Package update performs a best-effort release check. The check starts once
// at process start and is observed exactly once, non-blocking, after command
// execution; an unresolved result is silently dropped for that invocation.
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nlshell/nlsh/internal/pkg/version"
	"github.com/nlshell/nlsh/internal/ports"
)

const defaultReleaseURL = "https://api.github.com/repos/nlshell/nlsh/releases/latest"

// Checker implements the UpdateChecker port.
type Checker struct {
	url    string
	client *http.Client
	result chan string
}

// NewChecker constructs a checker; Start must be called to launch the fetch.
func NewChecker(url string) *Checker {
	if url == "" {
		url = defaultReleaseURL
	}
	return &Checker{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		result: make(chan string, 1),
	}
}

// Start launches the background fetch. It never blocks the caller and never
// reports an error; a failed check simply leaves the channel empty.
func (c *Checker) Start(ctx context.Context) {
	go func() {
		if tag := c.fetchLatest(ctx); tag != "" {
			c.result <- tag
		}
	}()
}

// Observe implements ports.UpdateChecker. It consumes the result if one has
// arrived by now; otherwise it reports nothing available, with no waiting
// and no retry.
func (c *Checker) Observe() (string, bool) {
	select {
	case tag := <-c.result:
		if newer(tag, version.Version) {
			return tag, true
		}
		return "", false
	default:
		return "", false
	}
}

type releasePayload struct {
	TagName string `json:"tag_name"`
}

func (c *Checker) fetchLatest(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload releasePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.TagName
}

func newer(tag, current string) bool {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "v")
	current = strings.TrimPrefix(strings.TrimSpace(current), "v")
	return tag != "" && tag != current && current != "dev"
}

var _ ports.UpdateChecker = (*Checker)(nil)
