package grading

import "math"

// WriteBackEpsilon is the smallest change that causes a solved exam grade
// to be written back. It is what stops reconciliation from re-triggering.
const WriteBackEpsilon = 0.05

// ExamSolveStatus explains whether the exam grade can be back-solved
type ExamSolveStatus string

const (
	SolveOK             ExamSolveStatus = "ok"
	SolveNoFinalGrade   ExamSolveStatus = "no_final_grade"
	SolveNoExamItem     ExamSolveStatus = "no_exam_item"
	SolveZeroExamWeight ExamSolveStatus = "zero_exam_weight"
	SolveMissingGrades  ExamSolveStatus = "missing_grades"
)

// Reason returns the explanation shown next to the final grade field.
func (s ExamSolveStatus) Reason() string {
	switch s {
	case SolveOK:
		return "Exam grade can be calculated from your final subject grade."
	case SolveNoFinalGrade:
		return "Enter your final subject grade to calculate the exam mark."
	case SolveNoExamItem:
		return "Add an item of type Exam to calculate its mark."
	case SolveZeroExamWeight:
		return "The exam needs a weighting above 0% to be calculated."
	case SolveMissingGrades:
		return "Enter grades for every other weighted item first."
	default:
		return ""
	}
}

// ExamSolution is the outcome of back-solving the exam item
type ExamSolution struct {
	Status            ExamSolveStatus
	ExamIndex         int
	ExamWeight        float64
	OtherContribution float64
	RequiredGrade     float64
}

// Solvable reports whether RequiredGrade is meaningful.
func (e ExamSolution) Solvable() bool {
	return e.Status == SolveOK
}

// ExamIndex returns the position of the first Exam item, or -1.
func ExamIndex(items []AssessmentItem) int {
	for i, item := range items {
		if item.Kind == KindExam {
			return i
		}
	}
	return -1
}

// SolveExam derives the exam mark that turns every other grade into the
// manually entered final subject grade:
//
//	required = (final - otherContribution) / examWeight * 100
func SolveExam(state PlannerState) ExamSolution {
	sol := ExamSolution{ExamIndex: -1}

	final, ok := state.ManualFinalGrade()
	if !ok {
		sol.Status = SolveNoFinalGrade
		return sol
	}

	idx := ExamIndex(state.Items)
	if idx < 0 {
		sol.Status = SolveNoExamItem
		return sol
	}
	sol.ExamIndex = idx
	sol.ExamWeight = state.Items[idx].WeightValue()
	if sol.ExamWeight <= 0 {
		sol.Status = SolveZeroExamWeight
		return sol
	}

	for i, item := range state.Items {
		if i == idx {
			continue
		}
		w := item.WeightValue()
		if !item.Graded() {
			if w > 0 {
				sol.Status = SolveMissingGrades
				return sol
			}
			continue
		}
		sol.OtherContribution += w * item.GradeValue() / 100
	}

	sol.RequiredGrade = ClampPercent((final - sol.OtherContribution) / sol.ExamWeight * 100)
	sol.Status = SolveOK
	return sol
}

// ReconcileExamGrade keeps the exam item in step with the final subject
// grade while auto-calculation is on. It only writes when the stored grade
// is missing or off by more than WriteBackEpsilon, so calling it again on
// its own output is a no-op. The returned bool reports whether it wrote.
func ReconcileExamGrade(state PlannerState) (PlannerState, bool) {
	if !state.AutoCalcExamFromFinal {
		return state, false
	}
	sol := SolveExam(state)
	if !sol.Solvable() {
		return state, false
	}

	formatted := FormatGrade(sol.RequiredGrade)
	exam := state.Items[sol.ExamIndex]
	if exam.Graded() {
		if exam.Grade == formatted || math.Abs(exam.GradeValue()-sol.RequiredGrade) <= WriteBackEpsilon {
			return state, false
		}
	}

	out := state.Clone()
	out.Items[sol.ExamIndex].Grade = formatted
	return out, true
}
