package stats

import (
	"sort"

	"github.com/verte-zerg/tuear/internal/model"
)

// WeakestIntervals returns up to n interval ids with the lowest accuracy.
// Ties go to the interval with more attempts, then to the lower id.
// Intervals never attempted are ignored.
func WeakestIntervals(aggs []model.IntervalAggregate, n int) []int {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	candidates := make([]model.IntervalAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Correct+agg.Wrong > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := aggregateAccuracy(candidates[i]), aggregateAccuracy(candidates[j])
		if ai != aj {
			return ai < aj
		}
		ti := candidates[i].Correct + candidates[i].Wrong
		tj := candidates[j].Correct + candidates[j].Wrong
		if ti != tj {
			return ti > tj
		}
		return candidates[i].Interval < candidates[j].Interval
	})
	n = min(n, len(candidates))
	out := make([]int, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.Interval)
	}
	return out
}
