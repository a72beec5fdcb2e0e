// Package quiz implements the adaptive ear-training engine.
//
// An Engine holds four independent pending-question slots (interval, note,
// chord, scale) that share one set of interval statistics, streak counters
// and mistake queue. Only intervals feed the adaptive weights and
// achievements; notes, chords and scales are graded but not recorded.
package quiz

import (
	"time"

	"github.com/verte-zerg/tuear/internal/catalog"
	"github.com/verte-zerg/tuear/internal/model"
)

const (
	// DefaultDailyGoal is the number of correct intervals that completes a day.
	DefaultDailyGoal = 10
	// IntervalGap separates the two notes of an interval cue.
	IntervalGap = 400 * time.Millisecond
	// ScaleGap separates consecutive scale notes.
	ScaleGap = 250 * time.Millisecond
)

// Source is the random source the engine draws from.
type Source interface {
	Between(lo, hi int) int
	Intn(n int) int
	Weighted(weights []float64) int
}

// IntervalQuestion is a pending interval: two notes Interval semitones apart.
type IntervalQuestion struct {
	Base     int
	Interval int
}

// NoteQuestion is a pending single note.
type NoteQuestion struct {
	Note int
}

// ChordQuestion is a pending chord.
type ChordQuestion struct {
	Root  int
	Chord string
}

// ScaleQuestion is a pending scale.
type ScaleQuestion struct {
	Root  int
	Scale string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDailyGoal overrides DefaultDailyGoal. Non-positive values are ignored.
func WithDailyGoal(goal int) Option {
	return func(e *Engine) {
		if goal > 0 {
			e.dailyGoal = goal
		}
	}
}

// Engine generates quiz items and grades answers.
type Engine struct {
	catalog *catalog.Catalog
	src     Source

	stats         []IntervalStat
	streak        int
	maxStreak     int
	dailyGoal     int
	dailyProgress int
	mistakes      []int

	interval *IntervalQuestion
	note     *NoteQuestion
	chord    *ChordQuestion
	scale    *ScaleQuestion
}

// New returns an Engine with zeroed statistics.
func New(cat *catalog.Catalog, src Source, opts ...Option) *Engine {
	e := &Engine{
		catalog:   cat,
		src:       src,
		stats:     make([]IntervalStat, catalog.IntervalCount),
		dailyGoal: DefaultDailyGoal,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the tables the engine draws from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// GenerateInterval draws an interval biased toward ones answered wrongly,
// stores it as the pending interval and returns the cue to play.
func (e *Engine) GenerateInterval() (IntervalQuestion, model.Cue) {
	interval := e.src.Weighted(e.Weights())
	return e.setInterval(interval)
}

// CheckInterval grades guess against the pending interval. The pending
// question stays set, so a second call grades the same question again.
func (e *Engine) CheckInterval(guess int) Outcome {
	if e.interval == nil {
		return Outcome{Verdict: NoQuestion, Answer: -1}
	}
	want := e.interval.Interval
	out := Outcome{Answer: want, AnswerName: e.catalog.Interval(want)}
	if guess == want {
		e.stats[want].Correct++
		e.streak++
		if e.streak > e.maxStreak {
			e.maxStreak = e.streak
		}
		e.dailyProgress++
		out.Verdict = Correct
		return out
	}
	e.stats[want].Wrong++
	e.streak = 0
	e.mistakes = append(e.mistakes, want)
	out.Verdict = Wrong
	return out
}

// PendingInterval returns the interval awaiting an answer.
func (e *Engine) PendingInterval() (IntervalQuestion, bool) {
	if e.interval == nil {
		return IntervalQuestion{}, false
	}
	return *e.interval, true
}

// ReviewNextMistake pops the oldest wrongly answered interval, sets it as the
// pending interval on a freshly drawn base note and returns its cue. ok is
// false when there is nothing to review.
func (e *Engine) ReviewNextMistake() (q IntervalQuestion, cue model.Cue, ok bool) {
	if len(e.mistakes) == 0 {
		return IntervalQuestion{}, model.Cue{}, false
	}
	interval := e.mistakes[0]
	e.mistakes = e.mistakes[1:]
	q, cue = e.setInterval(interval)
	return q, cue, true
}

// Mistakes returns the queued interval ids, oldest first.
func (e *Engine) Mistakes() []int {
	return append([]int(nil), e.mistakes...)
}

func (e *Engine) setInterval(interval int) (IntervalQuestion, model.Cue) {
	base := e.src.Between(0, e.catalog.NoteCount()-1-interval)
	q := IntervalQuestion{Base: base, Interval: interval}
	e.interval = &q
	return q, e.IntervalCue(q)
}

// IntervalCue returns the base note followed by the note interval semitones above.
func (e *Engine) IntervalCue(q IntervalQuestion) model.Cue {
	return model.Cue{
		Notes: e.catalog.Transpose(q.Base, []int{0, q.Interval}),
		Gap:   IntervalGap,
	}
}

// GenerateNote draws a note uniformly and stores it as the pending note.
func (e *Engine) GenerateNote() (NoteQuestion, model.Cue) {
	q := NoteQuestion{Note: e.src.Intn(e.catalog.NoteCount())}
	e.note = &q
	return q, e.NoteCue(q)
}

// CheckNote grades a note index against the pending note.
func (e *Engine) CheckNote(guess int) Outcome {
	if e.note == nil {
		return Outcome{Verdict: NoQuestion, Answer: -1}
	}
	want := e.note.Note
	return verdict(guess == want, want, e.catalog.Note(want))
}

// NoteCue returns a single-note cue.
func (e *Engine) NoteCue(q NoteQuestion) model.Cue {
	return model.Cue{Notes: []string{e.catalog.Note(q.Note)}}
}

// GenerateChord draws a chord and a root that keeps every chord tone in range.
func (e *Engine) GenerateChord() (ChordQuestion, model.Cue) {
	shape := e.catalog.ChordAt(e.src.Intn(e.catalog.ChordCount()))
	q := ChordQuestion{
		Root:  e.src.Between(0, e.catalog.MaxChordRoot(shape)),
		Chord: shape.Name,
	}
	e.chord = &q
	return q, e.ChordCue(q)
}

// CheckChord grades a chord name against the pending chord.
func (e *Engine) CheckChord(guess string) Outcome {
	if e.chord == nil {
		return Outcome{Verdict: NoQuestion, Answer: -1}
	}
	return verdict(guess == e.chord.Chord, e.chordIndex(e.chord.Chord), e.chord.Chord)
}

// ChordCue returns every chord tone to be sounded together.
func (e *Engine) ChordCue(q ChordQuestion) model.Cue {
	shape, _ := e.catalog.Chord(q.Chord)
	return model.Cue{
		Notes:    e.catalog.Transpose(q.Root, shape.Offsets),
		Together: true,
	}
}

// GenerateScale draws a scale and a root that keeps the whole scale in range.
func (e *Engine) GenerateScale() (ScaleQuestion, model.Cue) {
	shape := e.catalog.ScaleAt(e.src.Intn(e.catalog.ScaleCount()))
	q := ScaleQuestion{
		Root:  e.src.Between(0, e.catalog.MaxScaleRoot(shape)),
		Scale: shape.Name,
	}
	e.scale = &q
	return q, e.ScaleCue(q)
}

// CheckScale grades a scale name against the pending scale.
func (e *Engine) CheckScale(guess string) Outcome {
	if e.scale == nil {
		return Outcome{Verdict: NoQuestion, Answer: -1}
	}
	return verdict(guess == e.scale.Scale, e.scaleIndex(e.scale.Scale), e.scale.Scale)
}

// ScaleCue returns the scale notes ascending.
func (e *Engine) ScaleCue(q ScaleQuestion) model.Cue {
	shape, _ := e.catalog.Scale(q.Scale)
	return model.Cue{
		Notes: e.catalog.Transpose(q.Root, shape.Offsets),
		Gap:   ScaleGap,
	}
}

func (e *Engine) chordIndex(name string) int {
	for i, sh := range e.catalog.Chords() {
		if sh.Name == name {
			return i
		}
	}
	return -1
}

func (e *Engine) scaleIndex(name string) int {
	for i, sh := range e.catalog.Scales() {
		if sh.Name == name {
			return i
		}
	}
	return -1
}

func verdict(ok bool, answer int, name string) Outcome {
	out := Outcome{Verdict: Wrong, Answer: answer, AnswerName: name}
	if ok {
		out.Verdict = Correct
	}
	return out
}
