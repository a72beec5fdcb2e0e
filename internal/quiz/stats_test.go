package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answer generates interval id and grades guess against it.
func answer(e *Engine, src *scriptedSource, id, guess int) {
	src.weighted = append(src.weighted, id)
	e.GenerateInterval()
	e.CheckInterval(guess)
}

func TestAchievementForThresholds(t *testing.T) {
	tests := []struct {
		correct int
		want    Achievement
		label   string
	}{
		{0, AchievementNone, "keep practicing"},
		{9, AchievementNone, "keep practicing"},
		{10, AchievementBeginner, "Beginner"},
		{19, AchievementBeginner, "Beginner"},
		{20, AchievementSkilled, "Skilled"},
		{49, AchievementSkilled, "Skilled"},
		{50, AchievementMaster, "Master"},
		{500, AchievementMaster, "Master"},
	}
	for _, tt := range tests {
		got := AchievementFor(tt.correct)
		assert.Equal(t, tt.want, got, "correct=%d", tt.correct)
		assert.Equal(t, tt.label, got.String(), "correct=%d", tt.correct)
		assert.NotEmpty(t, got.Message())
	}
}

func TestEngineAchievementCountsCorrectIntervals(t *testing.T) {
	src := &scriptedSource{}
	e := newScripted(src)
	for i := 0; i < 9; i++ {
		answer(e, src, i%13, i%13)
	}
	answer(e, src, 2, 5)
	assert.Equal(t, AchievementNone, e.Achievement())

	answer(e, src, 2, 2)
	assert.Equal(t, AchievementBeginner, e.Achievement())
}

func TestHardestInterval(t *testing.T) {
	src := &scriptedSource{}
	e := newScripted(src)
	assert.Equal(t, 0, e.HardestInterval())

	answer(e, src, 4, 0)
	answer(e, src, 4, 0)
	answer(e, src, 9, 0)
	answer(e, src, 9, 0)
	assert.Equal(t, 4, e.HardestInterval())

	answer(e, src, 4, 4)
	assert.Equal(t, 9, e.HardestInterval())
}

func TestHardestIntervalNegativeScores(t *testing.T) {
	src := &scriptedSource{}
	e := newScripted(src)
	for id := 0; id < 13; id++ {
		answer(e, src, id, id)
	}
	answer(e, src, 0, 0)
	assert.Equal(t, 1, e.HardestInterval())
}

func TestSummaryEmpty(t *testing.T) {
	e := newScripted(&scriptedSource{})
	r := e.Summary()
	assert.Equal(t, 0, r.Attempts)
	assert.Equal(t, 0, r.Correct)
	assert.Equal(t, 0.0, r.Accuracy)
	assert.Empty(t, r.Intervals)
}

func TestSummaryBreakdown(t *testing.T) {
	src := &scriptedSource{}
	e := newScripted(src)
	answer(e, src, 7, 7)
	answer(e, src, 7, 7)
	answer(e, src, 7, 3)
	answer(e, src, 2, 3)

	r := e.Summary()
	assert.Equal(t, 4, r.Attempts)
	assert.Equal(t, 2, r.Correct)
	assert.InDelta(t, 50.0, r.Accuracy, 1e-9)
	require.Len(t, r.Intervals, 2)
	assert.Equal(t, IntervalLine{Interval: 2, Name: "M2", Correct: 0, Attempts: 1, Accuracy: 0}, r.Intervals[0])
	assert.Equal(t, IntervalLine{Interval: 7, Name: "P5", Correct: 2, Attempts: 3, Accuracy: 67}, r.Intervals[1])
}

func TestSummaryRoundsHalvesToEven(t *testing.T) {
	src := &scriptedSource{}
	e := newScripted(src)
	answer(e, src, 4, 4)
	for i := 0; i < 7; i++ {
		answer(e, src, 4, 0)
	}
	for i := 0; i < 3; i++ {
		answer(e, src, 9, 9)
	}
	for i := 0; i < 5; i++ {
		answer(e, src, 9, 0)
	}

	r := e.Summary()
	require.Len(t, r.Intervals, 2)
	assert.Equal(t, 12, r.Intervals[0].Accuracy, "1/8 is 12.5 percent")
	assert.Equal(t, 38, r.Intervals[1].Accuracy, "3/8 is 37.5 percent")
}

func TestIntervalStatWeight(t *testing.T) {
	assert.InDelta(t, 1.0, IntervalStat{}.Weight(), 1e-9)
	assert.InDelta(t, 4.0, IntervalStat{Wrong: 3}.Weight(), 1e-9)
	assert.InDelta(t, 0.25, IntervalStat{Correct: 3}.Weight(), 1e-9)
	assert.Equal(t, 5, IntervalStat{Correct: 2, Wrong: 3}.Attempts())
}

func TestSnapshotIsCopy(t *testing.T) {
	src := &scriptedSource{}
	e := newScripted(src)
	answer(e, src, 1, 1)
	snap := e.Snapshot()
	snap[1].Correct = 100
	assert.Equal(t, 1, e.Snapshot()[1].Correct)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "correct", Correct.String())
	assert.Equal(t, "wrong", Wrong.String())
	assert.Equal(t, "no question", NoQuestion.String())
}
