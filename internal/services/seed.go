package services

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/gradeplanner/backend/internal/grading"
	"gopkg.in/yaml.v3"
)

// SeedTemplate is the item list a planner starts with the first time a
// subject is opened
type SeedTemplate struct {
	Items []grading.AssessmentItem `yaml:"items"`
}

// DefaultSeedTemplate returns the built-in starting items.
func DefaultSeedTemplate() SeedTemplate {
	return SeedTemplate{Items: []grading.AssessmentItem{
		{Name: "Assignment 1", Weight: "25", Kind: grading.KindAssignment},
		{Name: "Assignment 2", Weight: "25", Kind: grading.KindAssignment},
		{Name: "Final Exam", Weight: "50", Kind: grading.KindExam},
	}}
}

// LoadSeedTemplate reads a YAML seed file. An empty path yields the default.
//
//	items:
//	  - name: Lab report
//	    type: Assignment
//	    weight: 20
//	    isHurdle: true
func LoadSeedTemplate(path string) (SeedTemplate, error) {
	if path == "" {
		return DefaultSeedTemplate(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SeedTemplate{}, fmt.Errorf("read seed template: %w", err)
	}

	var tpl SeedTemplate
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return SeedTemplate{}, fmt.Errorf("parse seed template %s: %w", path, err)
	}
	for i := range tpl.Items {
		tpl.Items[i].Kind = grading.ParseKind(string(tpl.Items[i].Kind))
	}
	return tpl, nil
}

// Instantiate copies the template items with fresh identifiers.
func (t SeedTemplate) Instantiate() []grading.AssessmentItem {
	items := make([]grading.AssessmentItem, len(t.Items))
	for i, it := range t.Items {
		it.ID = uuid.NewString()
		items[i] = it
	}
	return items
}
