package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nlshell/nlsh/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddRecordRoundTrip(t *testing.T) {
	store := newTestStore(t)

	code := 0
	require.NoError(t, store.AddRecord(domain.SessionRecord{
		Query:       "list files",
		Command:     "ls -la",
		Explanation: "list everything",
		Confidence:  90,
		Outcome:     domain.OutcomeExecuted,
		ExitCode:    &code,
		Stdout:      "total 0",
		WorkingDir:  "/tmp",
	}))

	records, err := store.Records(10, "")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "ls -la", rec.Command)
	require.Equal(t, domain.OutcomeExecuted, rec.Outcome)
	require.NotNil(t, rec.ExitCode)
	require.Equal(t, 0, *rec.ExitCode)
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.Timestamp.IsZero())
}

func TestRecordsNewestFirstAndBounded(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < domain.MaxSessionRecords+5; i++ {
		require.NoError(t, store.AddRecord(domain.SessionRecord{
			Query:     fmt.Sprintf("query %d", i),
			Command:   fmt.Sprintf("cmd-%d", i),
			Outcome:   domain.OutcomeCancelled,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.Records(0, "")
	require.NoError(t, err)
	require.Len(t, records, domain.MaxSessionRecords)

	// Newest first, and the five oldest entries fell off.
	require.Equal(t, "cmd-24", records[0].Command)
	require.Equal(t, "cmd-5", records[len(records)-1].Command)
}

func TestOutputTruncatedAtLimit(t *testing.T) {
	store := newTestStore(t)

	long := strings.Repeat("x", domain.OutputTruncateLimit*3)
	require.NoError(t, store.AddRecord(domain.SessionRecord{
		Query:   "big output",
		Command: "cat big.txt",
		Outcome: domain.OutcomeExecuted,
		Stdout:  long,
		Stderr:  long,
	}))

	records, err := store.Records(1, "")
	require.NoError(t, err)
	require.Len(t, records[0].Stdout, domain.OutputTruncateLimit)
	require.Len(t, records[0].Stderr, domain.OutputTruncateLimit)
}

func TestRecordsSearchFilters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddRecord(domain.SessionRecord{Query: "list files", Command: "ls", Outcome: domain.OutcomeExecuted}))
	require.NoError(t, store.AddRecord(domain.SessionRecord{Query: "disk usage", Command: "df -h", Outcome: domain.OutcomeExecuted}))

	records, err := store.Records(10, "disk")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "df -h", records[0].Command)

	records, err = store.Records(10, "ls")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestRecordsScopedToFingerprint(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddRecord(domain.SessionRecord{Query: "mine", Command: "ls", Outcome: domain.OutcomeExecuted}))

	other := &Store{db: store.db, fingerprint: "another-terminal"}
	records, err := other.Records(10, "")
	require.NoError(t, err)
	require.Empty(t, records, "history must not leak across terminals")

	require.NoError(t, other.AddRecord(domain.SessionRecord{Query: "theirs", Command: "pwd", Outcome: domain.OutcomeExecuted}))
	mine, err := store.Records(10, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "ls", mine[0].Command)
}

func TestExpiredSessionPurged(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddRecord(domain.SessionRecord{Query: "old", Command: "ls", Outcome: domain.OutcomeExecuted}))

	// Backdate the session past the TTL, then purge as a fresh open would.
	stale := time.Now().Add(-domain.SessionTTL - time.Hour).UTC().Format(time.RFC3339)
	_, err := store.db.Exec(`UPDATE sessions SET updated = ?`, stale)
	require.NoError(t, err)
	require.NoError(t, store.purgeExpired(time.Now()))

	records, err := store.Records(10, "")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestContextSummaryOldestFirst(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	code := 1
	require.NoError(t, store.AddRecord(domain.SessionRecord{
		Query: "list files", Command: "ls", Outcome: domain.OutcomeExecuted,
		Timestamp: base,
	}))
	require.NoError(t, store.AddRecord(domain.SessionRecord{
		Query: "remove temp", Command: "rm tmp.txt", Outcome: domain.OutcomeExecuted, ExitCode: &code,
		Timestamp: base.Add(time.Minute),
	}))

	summary, err := store.ContextSummary(5)
	require.NoError(t, err)

	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"list files" -> ls`)
	require.Contains(t, lines[1], "exit 1")
}

func TestContextSummaryEmpty(t *testing.T) {
	store := newTestStore(t)
	summary, err := store.ContextSummary(5)
	require.NoError(t, err)
	require.Empty(t, summary)
}

func TestClearRemovesOnlyThisTerminal(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddRecord(domain.SessionRecord{Query: "mine", Command: "ls", Outcome: domain.OutcomeExecuted}))

	other := &Store{db: store.db, fingerprint: "another-terminal"}
	require.NoError(t, other.AddRecord(domain.SessionRecord{Query: "theirs", Command: "pwd", Outcome: domain.OutcomeExecuted}))

	require.NoError(t, store.Clear())

	mine, err := store.Records(10, "")
	require.NoError(t, err)
	require.Empty(t, mine)

	theirs, err := other.Records(10, "")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint()
	b := Fingerprint()
	require.Equal(t, a, b)
	require.Len(t, a, 16)
}
