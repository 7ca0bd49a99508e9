package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/gradeplanner/backend/internal/grading"
	"github.com/gradeplanner/backend/internal/metrics"
	"github.com/gradeplanner/backend/internal/models"
	"github.com/gradeplanner/backend/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSubjectExists      = errors.New("subject already exists")
	ErrInvalidSubjectCode = errors.New("invalid subject code")
)

var subjectCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{1,32}$`)

// PlannerView is what every planner operation hands back to the caller
type PlannerView struct {
	Subject     models.Subject       `json:"subject"`
	State       grading.PlannerState `json:"state"`
	Summary     grading.Summary      `json:"summary"`
	ExamWritten bool                 `json:"examWritten"`
	Persisted   bool                 `json:"persisted"`
}

// LenientNumber accepts either a JSON number or raw text and reads it
// through the lenient parser.
type LenientNumber float64

func (n *LenientNumber) UnmarshalJSON(data []byte) error {
	f, err := grading.DecodeLenientNumber(data)
	if err != nil {
		return err
	}
	*n = LenientNumber(f)
	return nil
}

// SettingsPatch is a partial update of the scalar planner settings
type SettingsPatch struct {
	TargetPass            *LenientNumber `json:"targetPass"`
	FinalSubjectGrade     *string        `json:"finalSubjectGrade"`
	AutoCalcExamFromFinal *bool          `json:"autoCalcExamFromFinal"`
}

type PlannerService struct {
	store         storage.Store
	audit         Auditor
	seed          SeedTemplate
	defaultTarget float64
	log           *zap.Logger
	locks         *ownerLocks
}

func NewPlannerService(store storage.Store, audit Auditor, seed SeedTemplate, defaultTarget float64, log *zap.Logger) *PlannerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlannerService{
		store:         store,
		audit:         audit,
		seed:          seed,
		defaultTarget: grading.ClampPercent(defaultTarget),
		log:           log,
		locks:         newOwnerLocks(),
	}
}

func (s *PlannerService) ListSubjects(ctx context.Context, owner uuid.UUID) ([]models.Subject, error) {
	list, err := storage.GetJSON[[]models.Subject](ctx, s.store, storage.SubjectsKey(owner.String()))
	if errors.Is(err, storage.ErrNotFound) {
		return []models.Subject{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	return *list, nil
}

func (s *PlannerService) CreateSubject(ctx context.Context, owner uuid.UUID, code, name, ip string) (models.Subject, error) {
	code = storage.NormalizeCode(code)
	if !subjectCodePattern.MatchString(code) {
		return models.Subject{}, ErrInvalidSubjectCode
	}

	defer s.locks.lock(owner.String())()

	subjects, err := s.ListSubjects(ctx, owner)
	if err != nil {
		return models.Subject{}, err
	}
	if _, found := findSubject(subjects, code); found {
		return models.Subject{}, ErrSubjectExists
	}

	subject := models.Subject{Code: code, Name: name, CreatedAt: time.Now().UTC()}
	subjects = append(subjects, subject)
	if err := storage.PutJSON(ctx, s.store, storage.SubjectsKey(owner.String()), subjects); err != nil {
		return models.Subject{}, fmt.Errorf("save subjects: %w", err)
	}

	s.record(owner, "create", "subject", code, nil, models.ToJSONB(subject), ip)
	return subject, nil
}

// DeleteSubject removes the subject and its planner state.
func (s *PlannerService) DeleteSubject(ctx context.Context, owner uuid.UUID, code, ip string) error {
	code = storage.NormalizeCode(code)
	defer s.locks.lock(owner.String())()

	subjects, err := s.ListSubjects(ctx, owner)
	if err != nil {
		return err
	}
	idx, found := findSubject(subjects, code)
	if !found {
		return ErrSubjectNotFound
	}
	removed := subjects[idx]
	subjects = append(subjects[:idx], subjects[idx+1:]...)

	if err := storage.PutJSON(ctx, s.store, storage.SubjectsKey(owner.String()), subjects); err != nil {
		return fmt.Errorf("save subjects: %w", err)
	}
	if err := s.store.Delete(ctx, storage.PlannerKey(owner.String(), code)); err != nil {
		s.log.Warn("Failed to delete planner state", zap.String("subject", code), zap.Error(err))
	}

	s.record(owner, "delete", "subject", code, models.ToJSONB(removed), nil, ip)
	return nil
}

// Open returns the planner of a subject, seeding it on first use.
func (s *PlannerService) Open(ctx context.Context, owner uuid.UUID, code string) (*PlannerView, error) {
	return s.mutate(ctx, owner, code, func(st grading.PlannerState) (grading.PlannerState, error) {
		return st, nil
	})
}

func (s *PlannerService) AddItem(ctx context.Context, owner uuid.UUID, code string, item grading.AssessmentItem) (*PlannerView, error) {
	return s.mutate(ctx, owner, code, func(st grading.PlannerState) (grading.PlannerState, error) {
		item.ID = ""
		return grading.AddItem(st, item), nil
	})
}

func (s *PlannerService) UpdateItem(ctx context.Context, owner uuid.UUID, code, itemID string, patch grading.ItemPatch) (*PlannerView, error) {
	return s.mutate(ctx, owner, code, func(st grading.PlannerState) (grading.PlannerState, error) {
		return grading.UpdateItem(st, itemID, patch)
	})
}

func (s *PlannerService) RemoveItem(ctx context.Context, owner uuid.UUID, code, itemID string) (*PlannerView, error) {
	return s.mutate(ctx, owner, code, func(st grading.PlannerState) (grading.PlannerState, error) {
		return grading.RemoveItem(st, itemID)
	})
}

func (s *PlannerService) MoveItem(ctx context.Context, owner uuid.UUID, code string, from, to int) (*PlannerView, error) {
	return s.mutate(ctx, owner, code, func(st grading.PlannerState) (grading.PlannerState, error) {
		return grading.MoveItem(st, from, to)
	})
}

// UpdateSettings applies the target pass, then the final subject grade,
// then the auto-calculation toggle.
func (s *PlannerService) UpdateSettings(ctx context.Context, owner uuid.UUID, code string, patch SettingsPatch, ip string) (*PlannerView, error) {
	var before grading.PlannerState
	view, err := s.mutate(ctx, owner, code, func(st grading.PlannerState) (grading.PlannerState, error) {
		before = st
		if patch.TargetPass != nil {
			st = grading.SetTargetPass(st, float64(*patch.TargetPass))
		}
		if patch.FinalSubjectGrade != nil {
			st = grading.SetFinalSubjectGrade(st, *patch.FinalSubjectGrade)
		}
		if patch.AutoCalcExamFromFinal != nil {
			st = grading.SetAutoCalcExam(st, *patch.AutoCalcExamFromFinal)
		}
		return st, nil
	})
	if err != nil {
		return nil, err
	}

	s.record(owner, "update_settings", "planner", view.Subject.Code, settingsJSON(before), settingsJSON(view.State), ip)
	return view, nil
}

// Evaluate runs the planner on a posted state without storing anything.
func (s *PlannerService) Evaluate(state grading.PlannerState) *PlannerView {
	state, wrote := grading.ReconcileExamGrade(state.Clone())
	if wrote {
		metrics.ExamWriteBacks.Inc()
	}
	summary := grading.Evaluate(state)
	metrics.PlannerEvaluations.WithLabelValues(string(summary.Outcome)).Inc()
	return &PlannerView{State: state, Summary: summary, ExamWritten: wrote}
}

// mutate loads a planner, applies fn, reconciles the exam grade, stores the
// result and evaluates it. Write failures are logged and dropped; the view
// reports them through Persisted. Calls for the same owner run one at a time.
func (s *PlannerService) mutate(ctx context.Context, owner uuid.UUID, code string, fn func(grading.PlannerState) (grading.PlannerState, error)) (*PlannerView, error) {
	code = storage.NormalizeCode(code)
	defer s.locks.lock(owner.String())()

	subjects, err := s.ListSubjects(ctx, owner)
	if err != nil {
		return nil, err
	}
	idx, found := findSubject(subjects, code)
	if !found {
		return nil, ErrSubjectNotFound
	}

	key := storage.PlannerKey(owner.String(), code)
	state, seeded, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	next, err := fn(state)
	if err != nil {
		return nil, err
	}

	view := s.Evaluate(next)
	view.Subject = subjects[idx]
	view.Persisted = true
	if seeded || view.ExamWritten || !sameState(state, view.State) {
		view.Persisted = s.persist(ctx, key, view.State)
	}
	return view, nil
}

func (s *PlannerService) load(ctx context.Context, key string) (grading.PlannerState, bool, error) {
	stored, err := storage.GetJSON[grading.PlannerState](ctx, s.store, key)
	if errors.Is(err, storage.ErrNotFound) {
		state := grading.NewPlannerState(s.seed.Instantiate())
		state.TargetPass = s.defaultTarget
		return state, true, nil
	}
	if err != nil {
		return grading.PlannerState{}, false, fmt.Errorf("load planner: %w", err)
	}
	if stored.Items == nil {
		stored.Items = []grading.AssessmentItem{}
	}
	return *stored, false, nil
}

func (s *PlannerService) persist(ctx context.Context, key string, state grading.PlannerState) bool {
	if err := storage.PutJSON(ctx, s.store, key, state); err != nil {
		metrics.PersistFailures.Inc()
		s.log.Error("Failed to persist planner", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *PlannerService) record(owner uuid.UUID, action, resourceType, key string, before, after models.JSONB, ip string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(owner, action, resourceType, key, before, after, ip); err != nil {
		s.log.Warn("Failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func findSubject(subjects []models.Subject, code string) (int, bool) {
	for i, sub := range subjects {
		if sub.Code == code {
			return i, true
		}
	}
	return -1, false
}

func sameState(a, b grading.PlannerState) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}

func settingsJSON(st grading.PlannerState) models.JSONB {
	return models.JSONB{
		"targetPass":            st.TargetPass,
		"finalSubjectGrade":     st.FinalSubjectGrade,
		"autoCalcExamFromFinal": st.AutoCalcExamFromFinal,
	}
}
