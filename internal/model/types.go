// Package model defines shared data structures.
package model

import "time"

// Mode selects the quiz category shown first in the practice UI.
type Mode string

const (
	ModeIntervals Mode = "intervals"
	ModeNotes     Mode = "notes"
	ModeChords    Mode = "chords"
	ModeScales    Mode = "scales"
)

// Modes lists every quiz category in tab order.
var Modes = []Mode{ModeIntervals, ModeNotes, ModeChords, ModeScales}

// Config defines practice settings.
type Config struct {
	Mode        Mode
	DailyGoal   int
	ClipDir     string
	PlayerCmd   string
	RecordPath  string
	CatalogPath string
	Seed        int64
}

// AudioConfig defines clip rendering settings.
type AudioConfig struct {
	ClipDir    string
	SampleRate int
	DurationMs int
	Amplitude  float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Cue is an ordered set of notes the audio layer should sound.
type Cue struct {
	Notes []string
	// Gap separates note onsets when Together is false.
	Gap      time.Duration
	Together bool
}

// Tally counts answers for a category without per-item detail.
type Tally struct {
	Correct int
	Wrong   int
}

// IntervalStats stores per-interval results for a session.
type IntervalStats struct {
	Interval int
	Correct  int
	Wrong    int
}

// SessionStats captures a completed practice session.
type SessionStats struct {
	StartedAt     time.Time
	EndedAt       time.Time
	Mode          Mode
	DailyGoal     int
	DailyProgress int
	MaxStreak     int
	Notes         Tally
	Chords        Tally
	Scales        Tally
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID       string
	EndedAt         time.Time
	IntervalCorrect int
	IntervalWrong   int
	MaxStreak       int
	DurationMs      int64
}

// IntervalAggregate aggregates interval stats across sessions.
type IntervalAggregate struct {
	Interval int
	Correct  int
	Wrong    int
}
