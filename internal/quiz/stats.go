package quiz

import "math"

// IntervalStat counts answers for one interval class.
type IntervalStat struct {
	Correct int
	Wrong   int
}

// Attempts returns the number of graded answers.
func (s IntervalStat) Attempts() int {
	return s.Correct + s.Wrong
}

// Weight is the Laplace-smoothed wrong/correct ratio. It is always positive
// and finite, and grows with every wrong answer.
func (s IntervalStat) Weight() float64 {
	return float64(s.Wrong+1) / float64(s.Correct+1)
}

// Weights returns the selection weight of every interval id.
func (e *Engine) Weights() []float64 {
	out := make([]float64, len(e.stats))
	for i, s := range e.stats {
		out[i] = s.Weight()
	}
	return out
}

// Snapshot returns a copy of the per-interval statistics indexed by id.
func (e *Engine) Snapshot() []IntervalStat {
	return append([]IntervalStat(nil), e.stats...)
}

// Achievement is a badge earned from total correct interval answers.
type Achievement int

const (
	AchievementNone Achievement = iota
	AchievementBeginner
	AchievementSkilled
	AchievementMaster
)

var achievementThresholds = []struct {
	min   int
	badge Achievement
}{
	{50, AchievementMaster},
	{20, AchievementSkilled},
	{10, AchievementBeginner},
}

// AchievementFor maps a total correct count to its badge.
func AchievementFor(totalCorrect int) Achievement {
	for _, th := range achievementThresholds {
		if totalCorrect >= th.min {
			return th.badge
		}
	}
	return AchievementNone
}

func (a Achievement) String() string {
	switch a {
	case AchievementMaster:
		return "Master"
	case AchievementSkilled:
		return "Skilled"
	case AchievementBeginner:
		return "Beginner"
	default:
		return "keep practicing"
	}
}

// Message returns the text shown to the user for the badge.
func (a Achievement) Message() string {
	switch a {
	case AchievementMaster:
		return "Master Listener: 50+ correct answers!"
	case AchievementSkilled:
		return "Skilled Ear: 20+ correct answers!"
	case AchievementBeginner:
		return "Beginner Badge: 10+ correct answers!"
	default:
		return "Keep practicing for achievements!"
	}
}

// Achievement returns the badge for the current total of correct intervals.
func (e *Engine) Achievement() Achievement {
	total := 0
	for _, s := range e.stats {
		total += s.Correct
	}
	return AchievementFor(total)
}

// HardestInterval returns the id with the largest wrong-minus-correct score.
// Ties go to the lowest id, so with no answers recorded it returns 0.
func (e *Engine) HardestInterval() int {
	best := 0
	bestScore := math.MinInt
	for i, s := range e.stats {
		if score := s.Wrong - s.Correct; score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// Progress is the streak and daily goal state.
type Progress struct {
	Streak        int
	MaxStreak     int
	DailyProgress int
	DailyGoal     int
}

// StreakAndGoal returns the current streak and daily goal progress.
func (e *Engine) StreakAndGoal() Progress {
	return Progress{
		Streak:        e.streak,
		MaxStreak:     e.maxStreak,
		DailyProgress: e.dailyProgress,
		DailyGoal:     e.dailyGoal,
	}
}

// IntervalLine is one row of the per-interval summary.
type IntervalLine struct {
	Interval int
	Name     string
	Correct  int
	Attempts int
	// Accuracy is a whole percent, rounded to nearest with halves to even.
	Accuracy int
}

// Report aggregates interval answers.
type Report struct {
	Attempts int
	Correct  int
	// Accuracy is a percent in [0, 100]; zero when nothing was answered.
	Accuracy  float64
	Intervals []IntervalLine
}

// Summary builds the accuracy report. Intervals never attempted are omitted.
func (e *Engine) Summary() Report {
	var r Report
	for i, s := range e.stats {
		attempts := s.Attempts()
		r.Attempts += attempts
		r.Correct += s.Correct
		if attempts == 0 {
			continue
		}
		r.Intervals = append(r.Intervals, IntervalLine{
			Interval: i,
			Name:     e.catalog.Interval(i),
			Correct:  s.Correct,
			Attempts: attempts,
			Accuracy: int(math.RoundToEven(float64(s.Correct) / float64(attempts) * 100)),
		})
	}
	if r.Attempts > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Attempts) * 100
	}
	return r
}
