// Package stats contains history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuear/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionAccuracy returns the share of correct interval answers, 0 when no
// interval was answered.
func SessionAccuracy(correct, wrong int) float64 {
	total := correct + wrong
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for the listed sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var correct, wrong, bestStreak int
	var practiced int64
	accs := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		correct += s.IntervalCorrect
		wrong += s.IntervalWrong
		bestStreak = max(bestStreak, s.MaxStreak)
		practiced += s.DurationMs
		if s.IntervalCorrect+s.IntervalWrong > 0 {
			accs = append(accs, SessionAccuracy(s.IntervalCorrect, s.IntervalWrong)*100)
		}
	}

	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Intervals answered: %d", correct+wrong),
		fmt.Sprintf("Accuracy: %.2f%%", SessionAccuracy(correct, wrong)*100),
		fmt.Sprintf("Best streak: %d", bestStreak),
		fmt.Sprintf("Practice time: %s", formatMinutes(practiced)),
	}
	if len(accs) > 1 {
		lines = append(lines, fmt.Sprintf("Trend: [%s]", Sparkline(accs)))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatMinutes(ms int64) string {
	minutes := float64(ms) / 60000.0
	return fmt.Sprintf("%.1f min", minutes)
}

// RenderCurve prints the interval accuracy learning curve.
func RenderCurve(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurveWithSize(w, sessions, window, 0, defaultPlotHeight, false)
}

// RenderCurveWithSize prints the learning curve sized to a given total width.
func RenderCurveWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	accs := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		if s.IntervalCorrect+s.IntervalWrong == 0 {
			continue
		}
		accs = append(accs, SessionAccuracy(s.IntervalCorrect, s.IntervalWrong)*100)
	}
	if len(accs) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotPercent(w, "Learning Curve", []Series{
		{Name: "Accuracy", Values: accs},
		{Name: fmt.Sprintf("Avg(%d)", max(window, 1)), Values: MovingAverage(accs, window)},
	}, width, height, useColor)
}

// RenderIntervalTable prints per-interval aggregates, weakest first. names
// maps interval ids to their labels.
func RenderIntervalTable(w io.Writer, title string, aggs []model.IntervalAggregate, names []string) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No interval stats found.")
		return err
	}
	rows := make([]model.IntervalAggregate, len(aggs))
	copy(rows, aggs)
	sort.SliceStable(rows, func(i, j int) bool {
		ai, aj := aggregateAccuracy(rows[i]), aggregateAccuracy(rows[j])
		if ai == aj {
			return rows[i].Interval < rows[j].Interval
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Interval", "Accuracy", "Correct", "Wrong"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			intervalLabel(r.Interval, names),
			fmt.Sprintf("%.2f%%", aggregateAccuracy(r)*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Wrong),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func intervalLabel(id int, names []string) string {
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return fmt.Sprintf("#%d", id)
}

func aggregateAccuracy(agg model.IntervalAggregate) float64 {
	total := agg.Correct + agg.Wrong
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
