package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuear/internal/catalog"
	"github.com/verte-zerg/tuear/internal/generator"
)

// scriptedSource replays queued draws and records the bounds it was asked for.
type scriptedSource struct {
	weighted    []int
	between     []int
	intn        []int
	lastWeights []float64
	betweenHi   []int
}

func (s *scriptedSource) Weighted(weights []float64) int {
	s.lastWeights = append([]float64(nil), weights...)
	return pop(&s.weighted)
}

func (s *scriptedSource) Between(lo, hi int) int {
	s.betweenHi = append(s.betweenHi, hi)
	if len(s.between) == 0 {
		return lo
	}
	return pop(&s.between)
}

func (s *scriptedSource) Intn(int) int {
	return pop(&s.intn)
}

func pop(q *[]int) int {
	if len(*q) == 0 {
		return 0
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func newScripted(src *scriptedSource, opts ...Option) *Engine {
	return New(catalog.Default(), src, opts...)
}

func TestGenerateIntervalSetsPendingAndCue(t *testing.T) {
	src := &scriptedSource{weighted: []int{7}, between: []int{2}}
	e := newScripted(src)

	q, cue := e.GenerateInterval()

	assert.Equal(t, IntervalQuestion{Base: 2, Interval: 7}, q)
	assert.Equal(t, []string{"D4", "A4"}, cue.Notes)
	assert.Equal(t, IntervalGap, cue.Gap)
	assert.False(t, cue.Together)
	assert.Equal(t, []int{14 - 7}, src.betweenHi)

	pending, ok := e.PendingInterval()
	require.True(t, ok)
	assert.Equal(t, q, pending)
}

func TestGenerateIntervalPassesWeights(t *testing.T) {
	src := &scriptedSource{weighted: []int{3, 3, 3}}
	e := newScripted(src)

	e.GenerateInterval()
	e.CheckInterval(0)
	e.GenerateInterval()
	e.CheckInterval(3)
	e.GenerateInterval()

	require.Len(t, src.lastWeights, catalog.IntervalCount)
	assert.InDelta(t, 1.0, src.lastWeights[0], 1e-9)
	assert.InDelta(t, 2.0/2.0, src.lastWeights[3], 1e-9)
	e.CheckInterval(1)
	assert.InDelta(t, 3.0/2.0, e.Weights()[3], 1e-9)
}

func TestCheckIntervalWithoutQuestion(t *testing.T) {
	e := newScripted(&scriptedSource{})

	out := e.CheckInterval(0)

	assert.Equal(t, NoQuestion, out.Verdict)
	assert.Equal(t, -1, out.Answer)
	assert.Equal(t, make([]IntervalStat, catalog.IntervalCount), e.Snapshot())
	assert.Equal(t, Progress{DailyGoal: DefaultDailyGoal}, e.StreakAndGoal())
	assert.Empty(t, e.Mistakes())
}

func TestCheckIntervalCorrect(t *testing.T) {
	e := newScripted(&scriptedSource{weighted: []int{5, 5}})

	e.GenerateInterval()
	out := e.CheckInterval(5)
	assert.Equal(t, Outcome{Verdict: Correct, Answer: 5, AnswerName: "P4"}, out)

	e.GenerateInterval()
	before := e.Snapshot()
	e.CheckInterval(5)
	after := e.Snapshot()

	assert.Equal(t, before[5].Correct+1, after[5].Correct)
	assert.Equal(t, before[5].Wrong, after[5].Wrong)
	p := e.StreakAndGoal()
	assert.Equal(t, 2, p.Streak)
	assert.Equal(t, 2, p.MaxStreak)
	assert.Equal(t, 2, p.DailyProgress)
	assert.Empty(t, e.Mistakes())
}

func TestCheckIntervalWrong(t *testing.T) {
	e := newScripted(&scriptedSource{weighted: []int{4, 9}})

	e.GenerateInterval()
	e.CheckInterval(4)
	e.GenerateInterval()
	out := e.CheckInterval(2)

	assert.Equal(t, Outcome{Verdict: Wrong, Answer: 9, AnswerName: "M6"}, out)
	stats := e.Snapshot()
	assert.Equal(t, 1, stats[9].Wrong)
	assert.Equal(t, 0, stats[2].Wrong)
	p := e.StreakAndGoal()
	assert.Equal(t, 0, p.Streak)
	assert.Equal(t, 1, p.MaxStreak)
	assert.Equal(t, 1, p.DailyProgress)
	assert.Equal(t, []int{9}, e.Mistakes())
}

func TestCheckIntervalRegradesSameQuestion(t *testing.T) {
	e := newScripted(&scriptedSource{weighted: []int{6}})

	e.GenerateInterval()
	assert.Equal(t, Wrong, e.CheckInterval(0).Verdict)
	assert.Equal(t, Correct, e.CheckInterval(6).Verdict)
	assert.Equal(t, IntervalStat{Correct: 1, Wrong: 1}, e.Snapshot()[6])
}

func TestUnisonNotGradedBeforeGenerate(t *testing.T) {
	e := newScripted(&scriptedSource{})

	assert.Equal(t, NoQuestion, e.CheckInterval(0).Verdict)
	assert.Equal(t, 0, e.Snapshot()[0].Correct)
}

func TestWeightIncreasesWithConsecutiveWrongs(t *testing.T) {
	for id := 0; id < catalog.IntervalCount; id++ {
		src := &scriptedSource{}
		e := newScripted(src)
		prev := e.Weights()[id]
		for k := 1; k <= 5; k++ {
			src.weighted = []int{id}
			e.GenerateInterval()
			e.CheckInterval((id + 1) % catalog.IntervalCount)
			w := e.Weights()[id]
			require.Greater(t, w, prev, "interval %d after %d wrongs", id, k)
			prev = w
		}
	}
}

func TestReviewNextMistakeFIFO(t *testing.T) {
	src := &scriptedSource{weighted: []int{3, 7, 3}}
	e := newScripted(src)
	for i := 0; i < 3; i++ {
		e.GenerateInterval()
		e.CheckInterval(12)
	}
	require.Equal(t, []int{3, 7, 3}, e.Mistakes())

	for _, want := range []int{3, 7, 3} {
		src.between = []int{1}
		q, cue, ok := e.ReviewNextMistake()
		require.True(t, ok)
		assert.Equal(t, want, q.Interval)
		assert.Equal(t, 1, q.Base)
		assert.Len(t, cue.Notes, 2)
		pending, _ := e.PendingInterval()
		assert.Equal(t, q, pending)
	}
	_, _, ok := e.ReviewNextMistake()
	assert.False(t, ok)
}

func TestReviewedMistakeIsGraded(t *testing.T) {
	e := newScripted(&scriptedSource{weighted: []int{8, 0}})
	e.GenerateInterval()
	e.CheckInterval(0)

	_, _, ok := e.ReviewNextMistake()
	require.True(t, ok)
	assert.Equal(t, Correct, e.CheckInterval(8).Verdict)
	assert.Equal(t, IntervalStat{Correct: 1, Wrong: 1}, e.Snapshot()[8])
}

func TestGenerateIntervalStaysInRange(t *testing.T) {
	e := New(catalog.Default(), generator.NewSeeded(11))
	for i := 0; i < 5000; i++ {
		q, cue := e.GenerateInterval()
		require.GreaterOrEqual(t, q.Base, 0)
		require.Less(t, q.Base+q.Interval, 15)
		require.Len(t, cue.Notes, 2)
		// Feed answers back so the weights move during the run.
		e.CheckInterval(i % catalog.IntervalCount)
	}
}

func TestNoteChordScaleWithoutQuestion(t *testing.T) {
	e := newScripted(&scriptedSource{})
	assert.Equal(t, NoQuestion, e.CheckNote(0).Verdict)
	assert.Equal(t, NoQuestion, e.CheckChord("Major").Verdict)
	assert.Equal(t, NoQuestion, e.CheckScale("Major").Verdict)
}

func TestNoteQuiz(t *testing.T) {
	e := newScripted(&scriptedSource{intn: []int{9}})

	q, cue := e.GenerateNote()
	assert.Equal(t, NoteQuestion{Note: 9}, q)
	assert.Equal(t, []string{"A4"}, cue.Notes)

	assert.Equal(t, Outcome{Verdict: Wrong, Answer: 9, AnswerName: "A4"}, e.CheckNote(8))
	assert.Equal(t, Correct, e.CheckNote(9).Verdict)
	assert.Equal(t, make([]IntervalStat, catalog.IntervalCount), e.Snapshot())
	assert.Equal(t, 0, e.StreakAndGoal().Streak)
}

func TestChordQuiz(t *testing.T) {
	src := &scriptedSource{intn: []int{3}, between: []int{6}}
	e := newScripted(src)

	q, cue := e.GenerateChord()
	assert.Equal(t, ChordQuestion{Root: 6, Chord: "Augmented"}, q)
	assert.Equal(t, []string{"Fs4", "As4", "D5"}, cue.Notes)
	assert.True(t, cue.Together)
	assert.Equal(t, []int{6}, src.betweenHi)

	assert.Equal(t, Outcome{Verdict: Wrong, Answer: 3, AnswerName: "Augmented"}, e.CheckChord("Major"))
	assert.Equal(t, Correct, e.CheckChord("Augmented").Verdict)
}

func TestScaleQuiz(t *testing.T) {
	src := &scriptedSource{intn: []int{1}, between: []int{2}}
	e := newScripted(src)

	q, cue := e.GenerateScale()
	assert.Equal(t, ScaleQuestion{Root: 2, Scale: "Natural Minor"}, q)
	assert.Equal(t, "D4", cue.Notes[0])
	assert.Equal(t, "D5", cue.Notes[len(cue.Notes)-1])
	assert.Equal(t, ScaleGap, cue.Gap)
	assert.Equal(t, []int{2}, src.betweenHi)

	assert.Equal(t, Correct, e.CheckScale("Natural Minor").Verdict)
	out := e.CheckScale("Pentatonic")
	assert.Equal(t, Wrong, out.Verdict)
	assert.Equal(t, 1, out.Answer)
}

func TestChordAndScaleRootsStayInRange(t *testing.T) {
	e := New(catalog.Default(), generator.NewSeeded(5))
	for i := 0; i < 2000; i++ {
		_, chord := e.GenerateChord()
		require.NotEmpty(t, chord.Notes)
		_, scale := e.GenerateScale()
		require.NotEmpty(t, scale.Notes)
		_, note := e.GenerateNote()
		require.Len(t, note.Notes, 1)
	}
}

func TestCategoriesAreIndependent(t *testing.T) {
	e := newScripted(&scriptedSource{weighted: []int{4}, intn: []int{2, 0}})

	e.GenerateInterval()
	e.GenerateNote()
	e.GenerateChord()

	assert.Equal(t, Correct, e.CheckNote(2).Verdict)
	assert.Equal(t, Correct, e.CheckChord("Major").Verdict)
	assert.Equal(t, Correct, e.CheckInterval(4).Verdict)
	assert.Equal(t, NoQuestion, e.CheckScale("Major").Verdict)
}

func TestWithDailyGoal(t *testing.T) {
	assert.Equal(t, 25, newScripted(&scriptedSource{}, WithDailyGoal(25)).StreakAndGoal().DailyGoal)
	assert.Equal(t, DefaultDailyGoal, newScripted(&scriptedSource{}, WithDailyGoal(0)).StreakAndGoal().DailyGoal)
}
