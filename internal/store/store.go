// Package store persists refinement sessions and cached oracle rhyme
// verdicts in SQLite. Verdict lookups key on NFC-normalized bait text so
// that composed and decomposed diacritics hit the same row.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/diwan/internal"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (and migrates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS refinement_sessions (
		id TEXT PRIMARY KEY,
		meter TEXT NOT NULL,
		qafiya TEXT,
		bait_count INTEGER,
		outcome TEXT,
		score REAL,
		iterations INTEGER,
		input_verses TEXT NOT NULL,
		final_verses TEXT NOT NULL,
		provider TEXT,
		model TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS refinement_steps (
		session_id TEXT NOT NULL,
		step_idx INTEGER NOT NULL,
		refiner TEXT NOT NULL,
		iteration INTEGER NOT NULL,
		score_before REAL,
		score_after REAL,
		detail TEXT,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, step_idx),
		FOREIGN KEY (session_id) REFERENCES refinement_sessions(id)
	);

	-- rhyme_verdicts caches per-bait oracle rhyme checks
	CREATE TABLE IF NOT EXISTS rhyme_verdicts (
		id TEXT PRIMARY KEY,
		bait_text TEXT NOT NULL,
		spec TEXT NOT NULL,
		valid BOOLEAN NOT NULL,
		issue TEXT,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(bait_text, spec)
	);

	CREATE INDEX IF NOT EXISTS idx_verdict_lookup ON rhyme_verdicts(bait_text, spec);
	CREATE INDEX IF NOT EXISTS idx_steps_session ON refinement_steps(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func normalizeText(text string) string {
	return norm.NFC.String(text)
}

// Session is one stored refinement run.
type Session struct {
	ID         string
	Meter      string
	Qafiya     string
	BaitCount  int
	Outcome    string
	Score      float64
	Iterations int
	InputPoem  []string
	FinalPoem  []string
	Provider   string
	Model      string
	Steps      []internal.RefinementStep
	CreatedAt  time.Time
}

// SaveSession persists a completed refinement run and its step history.
// It returns the generated session ID.
func (s *Store) SaveSession(ctx context.Context, sess Session) (string, error) {
	id := sess.ID
	if id == "" {
		id = uuid.New().String()
	}

	inputJSON, err := json.Marshal(sess.InputPoem)
	if err != nil {
		return "", fmt.Errorf("failed to encode input verses: %w", err)
	}
	finalJSON, err := json.Marshal(sess.FinalPoem)
	if err != nil {
		return "", fmt.Errorf("failed to encode final verses: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refinement_sessions (id, meter, qafiya, bait_count, outcome, score, iterations, input_verses, final_verses, provider, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sess.Meter, sess.Qafiya, sess.BaitCount, sess.Outcome, sess.Score, sess.Iterations,
		string(inputJSON), string(finalJSON), sess.Provider, sess.Model, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	for i, step := range sess.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO refinement_steps (session_id, step_idx, refiner, iteration, score_before, score_after, detail, applied_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, step.Refiner, step.Iteration, step.ScoreBefore, step.ScoreAfter, step.Detail, step.AppliedAt)
		if err != nil {
			return "", fmt.Errorf("failed to save step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}
	return id, nil
}

// GetSession loads one session with its step history.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	var inputJSON, finalJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, meter, qafiya, bait_count, outcome, score, iterations, input_verses, final_verses, provider, model, created_at
		 FROM refinement_sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Meter, &sess.Qafiya, &sess.BaitCount, &sess.Outcome, &sess.Score, &sess.Iterations,
			&inputJSON, &finalJSON, &sess.Provider, &sess.Model, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(inputJSON), &sess.InputPoem); err != nil {
		return nil, fmt.Errorf("failed to decode input verses: %w", err)
	}
	if err := json.Unmarshal([]byte(finalJSON), &sess.FinalPoem); err != nil {
		return nil, fmt.Errorf("failed to decode final verses: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT refiner, iteration, score_before, score_after, detail, applied_at
		 FROM refinement_steps WHERE session_id = ? ORDER BY step_idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var step internal.RefinementStep
		if err := rows.Scan(&step.Refiner, &step.Iteration, &step.ScoreBefore, &step.ScoreAfter, &step.Detail, &step.AppliedAt); err != nil {
			return nil, err
		}
		sess.Steps = append(sess.Steps, step)
	}
	return &sess, rows.Err()
}

// ListSessions returns all sessions, newest first, without step details.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meter, qafiya, bait_count, outcome, score, iterations, created_at
		 FROM refinement_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Meter, &sess.Qafiya, &sess.BaitCount, &sess.Outcome, &sess.Score, &sess.Iterations, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// DeleteSession removes one session and its steps.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM refinement_steps WHERE session_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM refinement_sessions WHERE id = ?`, id)
	return err
}

// ClearSessions removes all sessions and returns how many were deleted.
func (s *Store) ClearSessions(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM refinement_steps`); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM refinement_sessions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetRhymeVerdict returns a cached oracle verdict for the bait/spec pair
// and bumps its usage counter on a hit.
func (s *Store) GetRhymeVerdict(ctx context.Context, baitText, spec string) (bool, string, bool, error) {
	var valid bool
	var issue sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT valid, issue FROM rhyme_verdicts WHERE bait_text = ? AND spec = ?`,
		normalizeText(baitText), spec).Scan(&valid, &issue)
	if err == sql.ErrNoRows {
		return false, "", false, nil
	}
	if err != nil {
		return false, "", false, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE rhyme_verdicts SET usage_count = usage_count + 1, last_used = ? WHERE bait_text = ? AND spec = ?`,
		time.Now(), normalizeText(baitText), spec)

	return valid, issue.String, true, err
}

// SaveRhymeVerdict stores (or refreshes) an oracle verdict.
func (s *Store) SaveRhymeVerdict(ctx context.Context, baitText, spec string, valid bool, issue string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rhyme_verdicts (id, bait_text, spec, valid, issue, usage_count, last_used, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		uuid.New().String(), normalizeText(baitText), spec, valid, issue, time.Now(), time.Now())
	return err
}

// VerdictStats summarises the rhyme verdict cache.
type VerdictStats struct {
	TotalEntries int
	ValidEntries int
	TotalUsage   int
}

// Stats returns rhyme verdict cache statistics.
func (s *Store) Stats(ctx context.Context) (*VerdictStats, error) {
	var st VerdictStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(valid), 0), COALESCE(SUM(usage_count), 0) FROM rhyme_verdicts`).
		Scan(&st.TotalEntries, &st.ValidEntries, &st.TotalUsage)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
