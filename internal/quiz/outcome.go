package quiz

// Verdict is the result of grading a guess.
type Verdict int

const (
	// NoQuestion means nothing was pending for the category.
	NoQuestion Verdict = iota
	Correct
	Wrong
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	default:
		return "no question"
	}
}

// Outcome is the graded result of a check call. Answer is the index of the
// correct item in its catalog table, or -1 when no question was pending.
type Outcome struct {
	Verdict    Verdict
	Answer     int
	AnswerName string
}
