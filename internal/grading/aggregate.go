package grading

import "math"

// Aggregate holds the weighted totals derived from an item list
type Aggregate struct {
	TotalWeight             float64 `json:"totalWeight"`
	CompletedWeight         float64 `json:"completedWeight"`
	RemainingWeight         float64 `json:"remainingWeight"`
	AccumulatedContribution float64 `json:"accumulatedContribution"`
}

// AggregateItems sums weights and graded contributions. Remaining weight is
// measured against a fixed 100 point scale, not against TotalWeight.
func AggregateItems(items []AssessmentItem) Aggregate {
	var agg Aggregate
	for _, item := range items {
		w := item.WeightValue()
		agg.TotalWeight += w
		if !item.Graded() {
			continue
		}
		agg.CompletedWeight += w
		agg.AccumulatedContribution += w * item.GradeValue() / 100
	}
	agg.RemainingWeight = ClampPercent(100 - agg.CompletedWeight)
	return agg
}

// FinalRange is the interval of reachable final subject grades
type FinalRange struct {
	Min float64 `json:"finalMin"`
	Max float64 `json:"finalMax"`
}

// ProjectRange assumes 0% on everything ungraded for the lower bound and
// 100% for the upper bound.
func ProjectRange(agg Aggregate) FinalRange {
	accumulated := ClampPercent(agg.AccumulatedContribution)
	return FinalRange{
		Min: accumulated,
		Max: ClampPercent(accumulated + agg.RemainingWeight),
	}
}

// Contains reports whether v lies within the range widened by eps.
func (r FinalRange) Contains(v, eps float64) bool {
	return v >= r.Min-eps && v <= r.Max+eps
}

// HurdleStatus summarises the must-pass items of a subject
type HurdleStatus struct {
	Count      int  `json:"count"`
	AnyFailed  bool `json:"anyFailed"`
	AnyMissing bool `json:"anyMissing"`
}

// EvaluateHurdles checks every hurdle item against HurdleThreshold.
func EvaluateHurdles(items []AssessmentItem) HurdleStatus {
	var st HurdleStatus
	for _, item := range items {
		if !item.IsHurdle {
			continue
		}
		st.Count++
		if !item.Graded() {
			st.AnyMissing = true
			continue
		}
		if item.GradeValue() < HurdleThreshold {
			st.AnyFailed = true
		}
	}
	return st
}

// PassRequirement is the average needed on the remaining weight to reach
// the target. Defined is false once nothing remains to influence the result.
type PassRequirement struct {
	Defined bool    `json:"defined"`
	Raw     float64 `json:"raw"`
	Clamped float64 `json:"clamped"`
}

// Unreachable reports whether the unclamped requirement exceeds 100%.
func (p PassRequirement) Unreachable() bool {
	return p.Defined && p.Raw > 100
}

// RequiredAverage solves (target - accumulated) / remaining for the average
// mark still needed.
func RequiredAverage(target float64, agg Aggregate) PassRequirement {
	if agg.RemainingWeight <= 0 {
		return PassRequirement{}
	}
	raw := (target - agg.AccumulatedContribution) / agg.RemainingWeight * 100
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return PassRequirement{}
	}
	return PassRequirement{
		Defined: true,
		Raw:     raw,
		Clamped: ClampPercent(raw),
	}
}
