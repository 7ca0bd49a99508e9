package grading

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound = errors.New("assessment item not found")
	ErrInvalidMove  = errors.New("invalid item move")
)

// NewItem builds an item with a fresh identifier.
func NewItem(name string, kind ItemKind, weight, grade string) AssessmentItem {
	return AssessmentItem{
		ID:     uuid.NewString(),
		Name:   name,
		Weight: weight,
		Grade:  grade,
		Kind:   kind,
	}
}

// ItemPatch carries a partial edit; nil fields are left alone
type ItemPatch struct {
	Name     *string   `json:"name"`
	Weight   *string   `json:"weight"`
	Grade    *string   `json:"grade"`
	Kind     *ItemKind `json:"type"`
	IsHurdle *bool     `json:"isHurdle"`
	DueDate  *string   `json:"dueDate"`
}

// AddItem appends item, assigning an identifier if it has none. Identifiers
// are never reused, so a colliding one is replaced.
func AddItem(state PlannerState, item AssessmentItem) PlannerState {
	out := state.Clone()
	if item.ID == "" || indexOf(out.Items, item.ID) >= 0 {
		item.ID = uuid.NewString()
	}
	if item.Kind == "" {
		item.Kind = KindAssignment
	}
	out.Items = append(out.Items, item)
	return out
}

// UpdateItem applies patch to the item with the given id.
func UpdateItem(state PlannerState, id string, patch ItemPatch) (PlannerState, error) {
	idx := indexOf(state.Items, id)
	if idx < 0 {
		return state, ErrItemNotFound
	}
	out := state.Clone()
	item := &out.Items[idx]
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Weight != nil {
		item.Weight = *patch.Weight
	}
	if patch.Grade != nil {
		item.Grade = *patch.Grade
	}
	if patch.Kind != nil {
		item.Kind = *patch.Kind
	}
	if patch.IsHurdle != nil {
		item.IsHurdle = *patch.IsHurdle
	}
	if patch.DueDate != nil {
		item.DueDate = *patch.DueDate
	}
	return out, nil
}

// RemoveItem drops the item with the given id.
func RemoveItem(state PlannerState, id string) (PlannerState, error) {
	idx := indexOf(state.Items, id)
	if idx < 0 {
		return state, ErrItemNotFound
	}
	out := state.Clone()
	out.Items = append(out.Items[:idx], out.Items[idx+1:]...)
	return out, nil
}

// MoveItem relocates the item at from so that it ends up at index to. The
// order carries no computational meaning and is kept verbatim otherwise.
func MoveItem(state PlannerState, from, to int) (PlannerState, error) {
	n := len(state.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return state, ErrInvalidMove
	}
	out := state.Clone()
	if from == to {
		return out, nil
	}
	item := out.Items[from]
	out.Items = append(out.Items[:from], out.Items[from+1:]...)
	out.Items = append(out.Items[:to], append([]AssessmentItem{item}, out.Items[to:]...)...)
	return out, nil
}

// SetTargetPass stores a clamped pass threshold.
func SetTargetPass(state PlannerState, target float64) PlannerState {
	out := state.Clone()
	out.TargetPass = ClampPercent(target)
	return out
}

// SetFinalSubjectGrade stores the raw final grade text; blank clears it.
func SetFinalSubjectGrade(state PlannerState, raw string) PlannerState {
	out := state.Clone()
	out.FinalSubjectGrade = strings.TrimSpace(raw)
	return out
}

// SetAutoCalcExam toggles exam auto-calculation. Switching it off clears
// the exam grade it had been maintaining so a stale solved value is not
// mistaken for one the student typed.
func SetAutoCalcExam(state PlannerState, enabled bool) PlannerState {
	out := state.Clone()
	if out.AutoCalcExamFromFinal && !enabled {
		if idx := ExamIndex(out.Items); idx >= 0 {
			out.Items[idx].Grade = ""
		}
	}
	out.AutoCalcExamFromFinal = enabled
	return out
}

func indexOf(items []AssessmentItem, id string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
