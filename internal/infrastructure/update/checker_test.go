package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nlshell/nlsh/internal/pkg/version"
)

func releaseServer(t *testing.T, tag string, delay time.Duration) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name": "` + tag + `"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	old := version.Version
	version.Version = v
	t.Cleanup(func() { version.Version = old })
}

func observeEventually(t *testing.T, c *Checker) (string, bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tag, ok := c.Observe(); ok {
			return tag, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return "", false
}

func TestObserveWithoutStartReportsNothing(t *testing.T) {
	c := NewChecker("http://unused.invalid")
	if tag, ok := c.Observe(); ok {
		t.Fatalf("nothing fetched, got %q", tag)
	}
}

func TestObserveReportsNewerRelease(t *testing.T) {
	withVersion(t, "1.0.0")
	server := releaseServer(t, "v1.2.3", 0)

	c := NewChecker(server.URL)
	c.Start(context.Background())

	tag, ok := observeEventually(t, c)
	if !ok {
		t.Fatal("expected an update notice")
	}
	if tag != "v1.2.3" {
		t.Fatalf("tag = %q", tag)
	}

	// The result is consumed exactly once.
	if _, ok := c.Observe(); ok {
		t.Fatal("second observe must report nothing")
	}
}

func TestObserveSameVersionStaysQuiet(t *testing.T) {
	withVersion(t, "1.2.3")
	server := releaseServer(t, "v1.2.3", 0)

	c := NewChecker(server.URL)
	c.Start(context.Background())

	time.Sleep(100 * time.Millisecond)
	if tag, ok := c.Observe(); ok {
		t.Fatalf("same version must not notify, got %q", tag)
	}
}

func TestObserveNeverBlocks(t *testing.T) {
	withVersion(t, "1.0.0")
	server := releaseServer(t, "v9.9.9", 500*time.Millisecond)

	c := NewChecker(server.URL)
	c.Start(context.Background())

	start := time.Now()
	_, ok := c.Observe()
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("Observe took %v, must not wait for the fetch", elapsed)
	}
	if ok {
		t.Fatal("slow fetch cannot have resolved yet")
	}
}

func TestDevBuildNeverNotified(t *testing.T) {
	withVersion(t, "dev")
	server := releaseServer(t, "v9.9.9", 0)

	c := NewChecker(server.URL)
	c.Start(context.Background())

	time.Sleep(100 * time.Millisecond)
	if tag, ok := c.Observe(); ok {
		t.Fatalf("dev builds must not nag, got %q", tag)
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		tag     string
		current string
		want    bool
	}{
		{"v1.2.3", "1.0.0", true},
		{"1.2.3", "v1.0.0", true},
		{"v1.0.0", "1.0.0", false},
		{"", "1.0.0", false},
		{"v2.0.0", "dev", false},
	}
	for _, tt := range tests {
		if got := newer(tt.tag, tt.current); got != tt.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tt.tag, tt.current, got, tt.want)
		}
	}
}
