package grading

import (
	"encoding/json"
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func item(kind ItemKind, weight, grade string) AssessmentItem {
	return AssessmentItem{ID: weight + "/" + grade + "/" + string(kind), Kind: kind, Weight: weight, Grade: grade}
}

func hurdle(weight, grade string) AssessmentItem {
	it := item(KindQuiz, weight, grade)
	it.IsHurdle = true
	return it
}

func TestAggregateItems(t *testing.T) {
	tests := []struct {
		name        string
		items       []AssessmentItem
		total       float64
		completed   float64
		remaining   float64
		accumulated float64
	}{
		{"Empty List", nil, 0, 0, 100, 0},
		{"Half Graded", []AssessmentItem{item(KindAssignment, "50", "80"), item(KindExam, "50", "")}, 100, 50, 50, 40},
		{"Fully Graded", []AssessmentItem{item(KindAssignment, "100", "85")}, 100, 100, 0, 85},
		{"Zero Grade Counts As Graded", []AssessmentItem{item(KindQuiz, "30", "0")}, 30, 30, 70, 0},
		{"Over Range Grade Clamped", []AssessmentItem{item(KindQuiz, "20", "150")}, 20, 20, 80, 20},
		{"Over Range Weight Clamped", []AssessmentItem{item(KindQuiz, "250", "50")}, 100, 100, 0, 50},
		{"Weights Above 100 Floor Remaining", []AssessmentItem{item(KindQuiz, "80", "50"), item(KindQuiz, "80", "50")}, 160, 160, 0, 80},
		{"Incomplete Weights Still Anchor To 100", []AssessmentItem{item(KindQuiz, "40", "")}, 40, 0, 100, 0},
		{"Comma Decimals", []AssessmentItem{item(KindQuiz, "12,5", "80")}, 12.5, 12.5, 87.5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := AggregateItems(tt.items)
			if !approx(agg.TotalWeight, tt.total) {
				t.Errorf("Expected total %v, got %v", tt.total, agg.TotalWeight)
			}
			if !approx(agg.CompletedWeight, tt.completed) {
				t.Errorf("Expected completed %v, got %v", tt.completed, agg.CompletedWeight)
			}
			if !approx(agg.RemainingWeight, tt.remaining) {
				t.Errorf("Expected remaining %v, got %v", tt.remaining, agg.RemainingWeight)
			}
			if !approx(agg.AccumulatedContribution, tt.accumulated) {
				t.Errorf("Expected accumulated %v, got %v", tt.accumulated, agg.AccumulatedContribution)
			}
		})
	}
}

func TestAggregateItems_Idempotent(t *testing.T) {
	items := []AssessmentItem{item(KindAssignment, "33.3", "71.9"), item(KindQuiz, "17", "44"), item(KindExam, "49.7", "")}
	first := AggregateItems(items)
	second := AggregateItems(items)
	if first != second {
		t.Errorf("Expected identical aggregates, got %+v and %+v", first, second)
	}
}

func TestProjectRange(t *testing.T) {
	t.Run("Bounds", func(t *testing.T) {
		rng := ProjectRange(AggregateItems([]AssessmentItem{item(KindAssignment, "50", "80"), item(KindExam, "50", "")}))
		if !approx(rng.Min, 40) || !approx(rng.Max, 90) {
			t.Errorf("Expected [40, 90], got [%v, %v]", rng.Min, rng.Max)
		}
	})

	t.Run("Collapses When Nothing Remains", func(t *testing.T) {
		rng := ProjectRange(AggregateItems([]AssessmentItem{item(KindAssignment, "60", "70"), item(KindExam, "40", "55")}))
		if rng.Min != rng.Max {
			t.Errorf("Expected min == max, got [%v, %v]", rng.Min, rng.Max)
		}
	})

	t.Run("Min Never Exceeds Max", func(t *testing.T) {
		lists := [][]AssessmentItem{
			nil,
			{item(KindQuiz, "100", "100")},
			{item(KindQuiz, "90", "100"), item(KindQuiz, "90", "")},
			{item(KindQuiz, "0", "50"), item(KindQuiz, "abc", "")},
		}
		for _, items := range lists {
			rng := ProjectRange(AggregateItems(items))
			if rng.Min > rng.Max {
				t.Errorf("Expected min <= max, got [%v, %v]", rng.Min, rng.Max)
			}
		}
	})
}

func TestMonotonicity(t *testing.T) {
	for g := 0; g < 100; g += 5 {
		low := []AssessmentItem{item(KindAssignment, "40", itoa(g)), item(KindExam, "60", "")}
		high := []AssessmentItem{item(KindAssignment, "40", itoa(g+5)), item(KindExam, "60", "")}

		aggLow, aggHigh := AggregateItems(low), AggregateItems(high)
		rLow, rHigh := ProjectRange(aggLow), ProjectRange(aggHigh)
		if aggHigh.AccumulatedContribution < aggLow.AccumulatedContribution {
			t.Errorf("Grade %d: accumulated decreased", g)
		}
		if rHigh.Min < rLow.Min || rHigh.Max < rLow.Max {
			t.Errorf("Grade %d: range decreased from %+v to %+v", g, rLow, rHigh)
		}
	}
}

func itoa(n int) string {
	return FormatGrade(float64(n))
}

func TestEvaluateHurdles(t *testing.T) {
	tests := []struct {
		name    string
		items   []AssessmentItem
		count   int
		failed  bool
		missing bool
	}{
		{"No Hurdles", []AssessmentItem{item(KindQuiz, "100", "10")}, 0, false, false},
		{"Cleared", []AssessmentItem{hurdle("50", "50")}, 1, false, false},
		{"Failed", []AssessmentItem{hurdle("50", "49.9")}, 1, true, false},
		{"Missing", []AssessmentItem{hurdle("50", "")}, 1, false, true},
		{"Zero Is Failed Not Missing", []AssessmentItem{hurdle("50", "0")}, 1, true, false},
		{"Mixed", []AssessmentItem{hurdle("20", "30"), hurdle("20", ""), hurdle("20", "90")}, 3, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := EvaluateHurdles(tt.items)
			if st.Count != tt.count || st.AnyFailed != tt.failed || st.AnyMissing != tt.missing {
				t.Errorf("Expected {%d %v %v}, got %+v", tt.count, tt.failed, tt.missing, st)
			}
		})
	}
}

func TestRequiredAverage(t *testing.T) {
	t.Run("Scenario A", func(t *testing.T) {
		agg := AggregateItems([]AssessmentItem{item(KindAssignment, "50", "80"), item(KindAssignment, "50", "")})
		req := RequiredAverage(70, agg)
		if !req.Defined || !approx(req.Clamped, 60) {
			t.Errorf("Expected 60, got %+v", req)
		}
	})

	t.Run("Unreachable Is Clamped For Display", func(t *testing.T) {
		agg := AggregateItems([]AssessmentItem{item(KindAssignment, "80", "30"), item(KindAssignment, "20", "")})
		req := RequiredAverage(70, agg)
		if !req.Unreachable() || req.Clamped != 100 {
			t.Errorf("Expected unreachable requirement clamped to 100, got %+v", req)
		}
	})

	t.Run("Already Above Target Clamps To Zero", func(t *testing.T) {
		agg := AggregateItems([]AssessmentItem{item(KindAssignment, "60", "100"), item(KindAssignment, "40", "")})
		req := RequiredAverage(50, agg)
		if req.Raw >= 0 || req.Clamped != 0 {
			t.Errorf("Expected negative raw and clamped 0, got %+v", req)
		}
	})

	t.Run("Undefined Without Remaining Weight", func(t *testing.T) {
		agg := AggregateItems([]AssessmentItem{item(KindAssignment, "100", "40")})
		if req := RequiredAverage(50, agg); req.Defined {
			t.Errorf("Expected undefined requirement, got %+v", req)
		}
	})
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		items    []AssessmentItem
		target   float64
		expected OutcomeKind
	}{
		{"Scenario A Needs Average", []AssessmentItem{item(KindAssignment, "50", "80"), item(KindAssignment, "50", "")}, 70, OutcomeNeedsAverage},
		{"Scenario B Impossible", []AssessmentItem{item(KindAssignment, "80", "30"), item(KindAssignment, "20", "")}, 70, OutcomeImpossible},
		{"Scenario C Already Passed", []AssessmentItem{item(KindAssignment, "100", "85")}, 50, OutcomeAlreadyPassed},
		{"Hurdle Veto", []AssessmentItem{item(KindAssignment, "90", "95"), hurdle("10", "40")}, 50, OutcomeHurdleBlocked},
		{"Hurdle Veto Beats Impossible", []AssessmentItem{item(KindAssignment, "80", "10"), hurdle("10", "40"), item(KindExam, "10", "")}, 50, OutcomeHurdleBlocked},
		{"Finalized Below Target", []AssessmentItem{item(KindAssignment, "100", "40")}, 50, OutcomeFinalized},
		{"Finalized With Missing Hurdle", []AssessmentItem{item(KindAssignment, "100", "90"), hurdle("0", "")}, 50, OutcomeFinalized},
		{"Passed Mark But Hurdle Missing", []AssessmentItem{item(KindAssignment, "60", "100"), hurdle("40", "")}, 50, OutcomeNeedsAverage},
		{"Passed Early", []AssessmentItem{item(KindAssignment, "60", "100"), item(KindExam, "40", "")}, 50, OutcomeAlreadyPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Evaluate(PlannerState{Items: tt.items, TargetPass: tt.target})
			if sum.Outcome != tt.expected {
				t.Errorf("Expected %s, got %s (range [%.2f, %.2f])", tt.expected, sum.Outcome, sum.FinalMin, sum.FinalMax)
			}
			if sum.Message == "" {
				t.Errorf("Expected a message for %s", sum.Outcome)
			}
		})
	}
}

func TestEvaluate_Fields(t *testing.T) {
	state := PlannerState{
		Items:             []AssessmentItem{item(KindAssignment, "50", "80"), item(KindExam, "50", "")},
		TargetPass:        70,
		FinalSubjectGrade: "70",
	}
	sum := Evaluate(state)

	if sum.RequiredAvgOnRemaining == nil || !approx(*sum.RequiredAvgOnRemaining, 60) {
		t.Errorf("Expected required average 60, got %v", sum.RequiredAvgOnRemaining)
	}
	if !sum.CanAutoCalcExam || sum.RequiredExamGrade == nil || !approx(*sum.RequiredExamGrade, 60) {
		t.Errorf("Expected exam grade 60, got %v (%s)", sum.RequiredExamGrade, sum.ExamSolveStatus)
	}
	if sum.WeightWarning {
		t.Error("Expected no weight warning for weights summing to 100")
	}
	if sum.ManualFinalOutOfRange {
		t.Error("Expected 70 to lie within [40, 90]")
	}
	if state.Items[1].Grade != "" {
		t.Error("Evaluate must not modify the exam item")
	}
}

func TestEvaluate_Warnings(t *testing.T) {
	t.Run("Weight Warning", func(t *testing.T) {
		sum := Evaluate(PlannerState{Items: []AssessmentItem{item(KindAssignment, "40", "")}, TargetPass: 50})
		if !sum.WeightWarning {
			t.Error("Expected weight warning when weights sum to 40")
		}
	})

	t.Run("Manual Final Out Of Range", func(t *testing.T) {
		state := PlannerState{
			Items:             []AssessmentItem{item(KindAssignment, "50", "80"), item(KindExam, "50", "")},
			TargetPass:        50,
			FinalSubjectGrade: "95",
		}
		if sum := Evaluate(state); !sum.ManualFinalOutOfRange {
			t.Error("Expected 95 to be outside [40, 90]")
		}
	})

	t.Run("Manual Final Within Epsilon", func(t *testing.T) {
		state := PlannerState{
			Items:             []AssessmentItem{item(KindAssignment, "50", "80"), item(KindExam, "50", "")},
			TargetPass:        50,
			FinalSubjectGrade: "90.04",
		}
		if sum := Evaluate(state); sum.ManualFinalOutOfRange {
			t.Error("Expected 90.04 to be tolerated")
		}
	})

	t.Run("No Requirement When Settled", func(t *testing.T) {
		sum := Evaluate(PlannerState{Items: []AssessmentItem{item(KindAssignment, "100", "40")}, TargetPass: 50})
		if sum.RequiredAvgOnRemaining != nil {
			t.Errorf("Expected nil requirement, got %v", *sum.RequiredAvgOnRemaining)
		}
	})
}

func TestSummary_JSONShape(t *testing.T) {
	data, err := json.Marshal(Evaluate(NewPlannerState([]AssessmentItem{item(KindExam, "100", "")})))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	var keys []string
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	want := []string{
		"accumulated", "canAutoCalcExam", "completedWeight", "examSolveReason",
		"examSolveStatus", "finalMax", "finalMin", "hurdles", "manualFinalOutOfRange",
		"message", "outcome", "remainingWeight", "requiredAvgOnRemaining",
		"requiredExamGrade", "totalWeight", "weightWarning",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("Summary fields mismatch (-want +got):\n%s", diff)
	}
}
