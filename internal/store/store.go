// Package store handles SQLite persistence of the practice history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuear/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			daily_goal INTEGER NOT NULL,
			daily_progress INTEGER NOT NULL,
			max_streak INTEGER NOT NULL,
			interval_correct INTEGER NOT NULL,
			interval_wrong INTEGER NOT NULL,
			note_correct INTEGER NOT NULL,
			note_wrong INTEGER NOT NULL,
			chord_correct INTEGER NOT NULL,
			chord_wrong INTEGER NOT NULL,
			scale_correct INTEGER NOT NULL,
			scale_wrong INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_interval_stats (
			session_id TEXT NOT NULL,
			interval_id INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			wrong INTEGER NOT NULL,
			PRIMARY KEY (session_id, interval_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its per-interval results.
// Intervals with no attempts are not written.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, intervals []model.IntervalStats) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var correct, wrong int
	for _, is := range intervals {
		correct += is.Correct
		wrong += is.Wrong
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, mode, daily_goal, daily_progress, max_streak,
			interval_correct, interval_wrong, note_correct, note_wrong, chord_correct, chord_wrong,
			scale_correct, scale_wrong, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		string(stats.Mode),
		stats.DailyGoal,
		stats.DailyProgress,
		stats.MaxStreak,
		correct,
		wrong,
		stats.Notes.Correct,
		stats.Notes.Wrong,
		stats.Chords.Correct,
		stats.Chords.Wrong,
		stats.Scales.Correct,
		stats.Scales.Wrong,
		stats.EndedAt.Sub(stats.StartedAt).Milliseconds(),
	)
	if err != nil {
		return "", err
	}

	if len(intervals) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO session_interval_stats (session_id, interval_id, correct, wrong)
			 VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, is := range intervals {
			if is.Correct+is.Wrong == 0 {
				continue
			}
			if _, err = stmt.ExecContext(ctx, id, is.Interval, is.Correct, is.Wrong); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, interval_correct, interval_wrong, max_streak, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.IntervalCorrect, &agg.IntervalWrong, &agg.MaxStreak, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// ListIntervalAggregatesForSessions sums per-interval results across sessions.
func (s *Store) ListIntervalAggregatesForSessions(ctx context.Context, sessionIDs []string) ([]model.IntervalAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT interval_id, SUM(correct) AS correct, SUM(wrong) AS wrong
		FROM session_interval_stats
		WHERE session_id IN (%s)
		GROUP BY interval_id
		ORDER BY interval_id`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.IntervalAggregate
	for rows.Next() {
		var agg model.IntervalAggregate
		if err := rows.Scan(&agg.Interval, &agg.Correct, &agg.Wrong); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
