package grading

import "math"

// OutOfRangeEpsilon widens the feasible range before a manual final grade
// is flagged as unreachable.
const OutOfRangeEpsilon = 0.05

// Summary holds everything derived from a planner state
type Summary struct {
	TotalWeight            float64         `json:"totalWeight"`
	CompletedWeight        float64         `json:"completedWeight"`
	RemainingWeight        float64         `json:"remainingWeight"`
	Accumulated            float64         `json:"accumulated"`
	FinalMin               float64         `json:"finalMin"`
	FinalMax               float64         `json:"finalMax"`
	RequiredAvgOnRemaining *float64        `json:"requiredAvgOnRemaining"`
	Outcome                OutcomeKind     `json:"outcome"`
	Message                string          `json:"message"`
	RequiredExamGrade      *float64        `json:"requiredExamGrade"`
	CanAutoCalcExam        bool            `json:"canAutoCalcExam"`
	ExamSolveStatus        ExamSolveStatus `json:"examSolveStatus"`
	ExamSolveReason        string          `json:"examSolveReason"`
	WeightWarning          bool            `json:"weightWarning"`
	ManualFinalOutOfRange  bool            `json:"manualFinalOutOfRange"`
	Hurdles                HurdleStatus    `json:"hurdles"`
}

// Evaluate runs the full pipeline over a state without modifying it.
func Evaluate(state PlannerState) Summary {
	target := state.Target()
	agg := AggregateItems(state.Items)
	rng := ProjectRange(agg)
	hurdles := EvaluateHurdles(state.Items)
	req := RequiredAverage(target, agg)
	exam := SolveExam(state)

	outcome := Classify(ClassifierInput{
		Target:      target,
		Aggregate:   agg,
		Range:       rng,
		Hurdles:     hurdles,
		Requirement: req,
	})

	sum := Summary{
		TotalWeight:     agg.TotalWeight,
		CompletedWeight: agg.CompletedWeight,
		RemainingWeight: agg.RemainingWeight,
		Accumulated:     ClampPercent(agg.AccumulatedContribution),
		FinalMin:        rng.Min,
		FinalMax:        rng.Max,
		Outcome:         outcome.Kind,
		Message:         outcome.Message,
		CanAutoCalcExam: exam.Solvable(),
		ExamSolveStatus: exam.Status,
		ExamSolveReason: exam.Status.Reason(),
		WeightWarning:   math.Abs(agg.TotalWeight-100) > FinalizedEpsilon,
		Hurdles:         hurdles,
	}
	if req.Defined {
		v := req.Clamped
		sum.RequiredAvgOnRemaining = &v
	}
	if exam.Solvable() {
		v := exam.RequiredGrade
		sum.RequiredExamGrade = &v
	}
	if final, ok := state.ManualFinalGrade(); ok {
		sum.ManualFinalOutOfRange = !rng.Contains(final, OutOfRangeEpsilon)
	}

	return sum
}
