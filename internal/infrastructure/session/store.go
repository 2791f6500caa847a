// Package session persists per-terminal command history in SQLite. Sessions
// are created lazily on the first command of a terminal, refreshed on every
// command, bounded to the 20 most recent records, and deleted outright after
// 24 hours of inactivity.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// Store implements the SessionStore port.
type Store struct {
	db          *sql.DB
	fingerprint string
	mu          sync.Mutex
}

// NewStore opens (or creates) the session database and scopes all reads and
// writes to the current terminal's fingerprint. Expired sessions are purged
// on open.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = filepath.Join(userHome(), ".nlsh", "sessions.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	store := &Store{db: db, fingerprint: Fingerprint()}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.purgeExpired(time.Now()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		fingerprint TEXT PRIMARY KEY,
		created TEXT NOT NULL,
		updated TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		query TEXT,
		command TEXT,
		explanation TEXT,
		confidence INTEGER,
		outcome TEXT,
		exit_code INTEGER,
		stdout TEXT,
		stderr TEXT,
		cwd TEXT
	);`)
	return err
}

// purgeExpired deletes sessions idle past the TTL together with their
// records. Expired history is discarded, not merely marked.
func (s *Store) purgeExpired(now time.Time) error {
	cutoff := now.Add(-domain.SessionTTL).UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(
		`DELETE FROM records WHERE fingerprint IN (SELECT fingerprint FROM sessions WHERE updated < ?)`, cutoff); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM sessions WHERE updated < ?`, cutoff)
	return err
}

// AddRecord implements ports.SessionStore. The session row is created on
// first use and refreshed on every command; the record set is trimmed to the
// newest MaxSessionRecords entries.
func (s *Store) AddRecord(record domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`
		INSERT INTO sessions (fingerprint, created, updated) VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET updated = excluded.updated`,
		s.fingerprint, now, now); err != nil {
		return err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	var exitCode sql.NullInt64
	if record.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*record.ExitCode), Valid: true}
	}

	if _, err := s.db.Exec(`
		INSERT INTO records (id, fingerprint, timestamp, query, command, explanation, confidence, outcome, exit_code, stdout, stderr, cwd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		s.fingerprint,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.Query,
		record.Command,
		record.Explanation,
		record.Confidence,
		string(record.Outcome),
		exitCode,
		domain.TruncateOutput(record.Stdout),
		domain.TruncateOutput(record.Stderr),
		record.WorkingDir,
	); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		DELETE FROM records WHERE fingerprint = ? AND id NOT IN (
			SELECT id FROM records WHERE fingerprint = ?
			ORDER BY datetime(timestamp) DESC, rowid DESC LIMIT ?
		)`, s.fingerprint, s.fingerprint, domain.MaxSessionRecords)
	return err
}

// Records returns this terminal's history, newest first.
func (s *Store) Records(limit int, search string) ([]domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.Builder{}
	query.WriteString(`SELECT id, timestamp, query, command, explanation, confidence, outcome, exit_code, stdout, stderr, cwd
		FROM records WHERE fingerprint = ?`)
	args := []interface{}{s.fingerprint}
	if search != "" {
		query.WriteString(" AND (query LIKE ? OR command LIKE ?)")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	query.WriteString(" ORDER BY datetime(timestamp) DESC, rowid DESC")
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.Query(query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SessionRecord
	for rows.Next() {
		var rec domain.SessionRecord
		var ts, outcome string
		var exitCode sql.NullInt64
		if err := rows.Scan(&rec.ID, &ts, &rec.Query, &rec.Command, &rec.Explanation, &rec.Confidence, &outcome, &exitCode, &rec.Stdout, &rec.Stderr, &rec.WorkingDir); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Outcome = domain.Outcome(outcome)
		if exitCode.Valid {
			code := int(exitCode.Int64)
			rec.ExitCode = &code
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ContextSummary renders the last n interactions as a text block for prompt
// injection, oldest first.
func (s *Store) ContextSummary(n int) (string, error) {
	records, err := s.Records(n, "")
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		fmt.Fprintf(&b, "- %q -> %s (%s", rec.Query, rec.Command, rec.Outcome)
		if rec.ExitCode != nil {
			fmt.Fprintf(&b, ", exit %d", *rec.ExitCode)
		}
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Clear removes this terminal's session entirely.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM records WHERE fingerprint = ?`, s.fingerprint); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM sessions WHERE fingerprint = ?`, s.fingerprint)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.SessionStore = (*Store)(nil)
