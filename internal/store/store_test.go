package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuear/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "tuear.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return s
}

func insertAt(t *testing.T, s *Store, ended time.Time, intervals []model.IntervalStats) string {
	t.Helper()
	stats := model.SessionStats{
		StartedAt: ended.Add(-2 * time.Minute),
		EndedAt:   ended,
		Mode:      model.ModeIntervals,
		DailyGoal: 10,
		MaxStreak: 3,
		Notes:     model.Tally{Correct: 1, Wrong: 2},
	}
	id, err := s.InsertSession(context.Background(), stats, intervals)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatalf("expected session id")
	}
	return id
}

func TestInsertAndListSessions(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id := insertAt(t, s, base, []model.IntervalStats{
		{Interval: 0, Correct: 2, Wrong: 1},
		{Interval: 5, Correct: 0, Wrong: 0},
		{Interval: 7, Correct: 4, Wrong: 3},
	})

	sessions, err := s.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.SessionID != id {
		t.Fatalf("id mismatch: %q vs %q", got.SessionID, id)
	}
	if got.IntervalCorrect != 6 || got.IntervalWrong != 4 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.MaxStreak != 3 {
		t.Fatalf("expected max streak 3, got %d", got.MaxStreak)
	}
	if got.DurationMs != 120000 {
		t.Fatalf("expected 120000ms, got %d", got.DurationMs)
	}
	if !got.EndedAt.Equal(base) {
		t.Fatalf("expected ended_at %v, got %v", base, got.EndedAt)
	}
}

func TestListSessionsFilters(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		insertAt(t, s, base.Add(time.Duration(i)*24*time.Hour), nil)
	}

	since := base.Add(36 * time.Hour)
	sessions, err := s.ListSessions(context.Background(), model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions since, got %d", len(sessions))
	}

	sessions, err = s.ListSessions(context.Background(), model.StatsConfig{Last: 3})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if !sessions[0].EndedAt.Equal(base.Add(24 * time.Hour)) {
		t.Fatalf("expected oldest of last three first, got %v", sessions[0].EndedAt)
	}
	if !sessions[2].EndedAt.After(sessions[1].EndedAt) {
		t.Fatalf("expected ascending order")
	}
}

func TestIntervalAggregates(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := insertAt(t, s, base, []model.IntervalStats{
		{Interval: 3, Correct: 1, Wrong: 2},
		{Interval: 7, Correct: 5, Wrong: 0},
	})
	b := insertAt(t, s, base.Add(time.Hour), []model.IntervalStats{
		{Interval: 3, Correct: 4, Wrong: 1},
	})
	insertAt(t, s, base.Add(2*time.Hour), []model.IntervalStats{
		{Interval: 3, Correct: 100, Wrong: 100},
	})

	aggs, err := s.ListIntervalAggregatesForSessions(context.Background(), []string{a, b})
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}
	if aggs[0] != (model.IntervalAggregate{Interval: 3, Correct: 5, Wrong: 3}) {
		t.Fatalf("unexpected aggregate: %+v", aggs[0])
	}
	if aggs[1] != (model.IntervalAggregate{Interval: 7, Correct: 5, Wrong: 0}) {
		t.Fatalf("unexpected aggregate: %+v", aggs[1])
	}

	empty, err := s.ListIntervalAggregatesForSessions(context.Background(), nil)
	if err != nil || empty != nil {
		t.Fatalf("expected nil result for no sessions, got %v %v", empty, err)
	}
}

func TestInsertSessionRollsBackOnIntervalError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ended := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	stats := model.SessionStats{StartedAt: ended.Add(-time.Minute), EndedAt: ended, Mode: model.ModeIntervals, DailyGoal: 10}

	_, err := s.InsertSession(ctx, stats, []model.IntervalStats{
		{Interval: 3, Correct: 1},
		{Interval: 3, Wrong: 1},
	})
	if err == nil {
		t.Fatalf("expected duplicate interval rows to fail")
	}

	sessions, err := s.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list after failed insert: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("failed insert should leave no session, got %d", len(sessions))
	}

	insertAt(t, s, ended.Add(time.Hour), []model.IntervalStats{{Interval: 3, Correct: 2}})
	sessions, err = s.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 || sessions[0].IntervalCorrect != 2 {
		t.Fatalf("unexpected sessions after retry %+v", sessions)
	}
}
