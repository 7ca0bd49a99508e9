package grading

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultTargetPass is the pass threshold a new planner starts with.
const DefaultTargetPass = 50.0

// HurdleThreshold is the mark every graded hurdle item must reach.
const HurdleThreshold = 50.0

// ItemKind classifies an assessment item
type ItemKind string

const (
	KindAssignment ItemKind = "Assignment"
	KindExam       ItemKind = "Exam"
	KindQuiz       ItemKind = "Quiz"
	KindOther      ItemKind = "Other"
)

// ParseKind maps free text onto a known kind, falling back to Other.
func ParseKind(s string) ItemKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assignment":
		return KindAssignment
	case "exam":
		return KindExam
	case "quiz":
		return KindQuiz
	default:
		return KindOther
	}
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseKind(s)
	return nil
}

// AssessmentItem is one weighted piece of a subject. Weight and Grade hold
// the raw text the student typed; they are re-parsed on every read.
type AssessmentItem struct {
	ID       string   `json:"id" yaml:"-"`
	Name     string   `json:"name" yaml:"name"`
	Weight   string   `json:"weight" yaml:"weight"`
	Grade    string   `json:"grade" yaml:"grade"`
	Kind     ItemKind `json:"type" yaml:"type"`
	IsHurdle bool     `json:"isHurdle" yaml:"isHurdle"`
	DueDate  string   `json:"dueDate,omitempty" yaml:"dueDate"`
}

// Graded reports whether a grade has been entered. A blank grade is
// "not yet graded", which is different from a grade of 0.
func (i AssessmentItem) Graded() bool {
	return HasValue(i.Grade)
}

// WeightValue is the clamped numeric weight.
func (i AssessmentItem) WeightValue() float64 {
	return Percent(i.Weight)
}

// GradeValue is the clamped numeric grade; 0 when ungraded.
func (i AssessmentItem) GradeValue() float64 {
	if !i.Graded() {
		return 0
	}
	return Percent(i.Grade)
}

// PlannerState is everything the planner knows about one subject. The JSON
// shape is the persisted representation.
type PlannerState struct {
	Items                 []AssessmentItem `json:"items"`
	TargetPass            float64          `json:"targetPass"`
	FinalSubjectGrade     string           `json:"finalSubjectGrade"`
	AutoCalcExamFromFinal bool             `json:"autoCalcExamFromFinal"`
}

// UnmarshalJSON defaults a missing or null targetPass to DefaultTargetPass
// and accepts it either as a number or as lenient text.
func (s *PlannerState) UnmarshalJSON(data []byte) error {
	type plain PlannerState
	aux := struct {
		*plain
		TargetPass json.RawMessage `json:"targetPass"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.TargetPass = DefaultTargetPass
	if len(aux.TargetPass) == 0 || string(aux.TargetPass) == "null" {
		return nil
	}
	target, err := DecodeLenientNumber(aux.TargetPass)
	if err != nil {
		return fmt.Errorf("targetPass: %w", err)
	}
	s.TargetPass = target
	return nil
}

// DecodeLenientNumber reads a JSON number, or a JSON string through
// ParseLenient.
func DecodeLenientNumber(data []byte) (float64, error) {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f, nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return 0, fmt.Errorf("expected number or string: %w", err)
	}
	return ParseLenient(str), nil
}

// NewPlannerState returns a state seeded with items and the default target.
func NewPlannerState(items []AssessmentItem) PlannerState {
	return PlannerState{
		Items:      cloneItems(items),
		TargetPass: DefaultTargetPass,
	}
}

// ManualFinalGrade returns the entered final subject grade, if any.
func (s PlannerState) ManualFinalGrade() (float64, bool) {
	if !hasDigit(s.FinalSubjectGrade) {
		return 0, false
	}
	return Percent(s.FinalSubjectGrade), true
}

// Target is the clamped pass threshold.
func (s PlannerState) Target() float64 {
	return ClampPercent(s.TargetPass)
}

// Clone returns a deep copy so mutations never alias the caller's items.
func (s PlannerState) Clone() PlannerState {
	out := s
	out.Items = cloneItems(s.Items)
	return out
}

func cloneItems(items []AssessmentItem) []AssessmentItem {
	if items == nil {
		return []AssessmentItem{}
	}
	out := make([]AssessmentItem, len(items))
	copy(out, items)
	return out
}
