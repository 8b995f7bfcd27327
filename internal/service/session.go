package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
)

var (
	// ErrGenerationInProgress is returned when a plan is requested while another is being generated
	ErrGenerationInProgress = errors.New("plan generation already in progress")
	// ErrStaleGeneration is returned when a generation result arrives after the wizard was dismissed
	ErrStaleGeneration = errors.New("generation result discarded")
	// ErrNoPlan is returned by progress operations before any plan exists
	ErrNoPlan = errors.New("no plan generated yet")
	// ErrIndexOutOfRange is returned when a completion index does not address the current plan
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Session is one user's planning state: intake, plans, progress and the wizard
type Session struct {
	mu sync.Mutex

	id         string
	createdAt  time.Time
	lastSeen   time.Time
	intake     *model.UserIntake
	plans      *model.Plans
	completion model.CompletionState
	wizard     *Wizard

	generating bool
	token      uint64
}

// SessionSnapshot is a copy of the session safe to serialise or hand to other goroutines
type SessionSnapshot struct {
	ID         string                `json:"id"`
	Intake     *model.UserIntake     `json:"intake"`
	Plans      *model.Plans          `json:"plans"`
	Completion model.CompletionState `json:"completion"`
	Generating bool                  `json:"generating"`
	CreatedAt  time.Time             `json:"created_at"`
}

// WizardView is the wizard's state as presented to clients
type WizardView struct {
	Step       WizardStep       `json:"step"`
	Total      int              `json:"total"`
	CanProceed bool             `json:"can_proceed"`
	IsFinal    bool             `json:"is_final"`
	IsComplete bool             `json:"is_complete"`
	Draft      model.UserIntake `json:"draft"`
}

// GenerationTicket identifies one plan generation and carries the intake it was started with
type GenerationTicket struct {
	Token  uint64
	Intake model.UserIntake
}

// NewSession creates an empty session
func NewSession(now time.Time) *Session {
	return &Session{
		id:         uuid.New().String(),
		createdAt:  now,
		lastSeen:   now,
		completion: emptyCompletion(),
		wizard:     NewWizard(),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a deep copy of the session state
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionSnapshot{
		ID:         s.id,
		Intake:     cloneIntake(s.intake),
		Plans:      clonePlans(s.plans),
		Completion: cloneCompletion(s.completion),
		Generating: s.generating,
		CreatedAt:  s.createdAt,
	}
}

// Wizard returns the current wizard state
func (s *Session) Wizard() WizardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizardView()
}

// SetIntakeField updates one field of the wizard draft
func (s *Session) SetIntakeField(name string, raw json.RawMessage) (WizardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wizard.SetField(name, raw); err != nil {
		return s.wizardView(), err
	}
	return s.wizardView(), nil
}

// ToggleIntakeItem flips membership of item in one of the draft's set fields
func (s *Session) ToggleIntakeItem(name, item string) (WizardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wizard.Toggle(name, item); err != nil {
		return s.wizardView(), err
	}
	return s.wizardView(), nil
}

// WizardNext advances the wizard one step
func (s *Session) WizardNext() (WizardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wizard.Next(); err != nil {
		return s.wizardView(), err
	}
	return s.wizardView(), nil
}

// WizardBack moves the wizard one step back
func (s *Session) WizardBack() WizardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wizard.Back()
	return s.wizardView()
}

// Dismiss closes the wizard. The draft is discarded and a generation still in
// flight will have its result dropped when it lands.
func (s *Session) Dismiss() WizardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		s.generating = false
		s.token++
	}
	s.resetWizard()
	return s.wizardView()
}

// ReplaceIntake swaps the committed intake, as the profile editor does. Plans are kept.
// The intake must satisfy every wizard step.
func (s *Session) ReplaceIntake(intake model.UserIntake) error {
	intake.Normalize()
	if err := intake.Validate(); err != nil {
		return err
	}
	if err := RequireComplete(intake); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.intake = &intake
	s.resetWizard()
	return nil
}

// BeginGeneration marks a generation as running and returns the draft to generate from
func (s *Session) BeginGeneration() (GenerationTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return GenerationTicket{}, ErrGenerationInProgress
	}
	if err := RequireComplete(s.wizard.Draft()); err != nil {
		return GenerationTicket{}, err
	}

	s.generating = true
	s.token++
	return GenerationTicket{Token: s.token, Intake: s.wizard.Draft()}, nil
}

// FinishGeneration commits the ticket's intake and plans unless the generation was dismissed
func (s *Session) FinishGeneration(ticket GenerationTicket, plans *model.Plans) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.generating || ticket.Token != s.token {
		return ErrStaleGeneration
	}

	intake := ticket.Intake
	s.intake = &intake
	s.replacePlans(plans)
	s.generating = false
	s.wizard = NewWizardFrom(intake)
	return nil
}

// AbortGeneration clears the in-progress flag after a failed generation
func (s *Session) AbortGeneration(ticket GenerationTicket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating && ticket.Token == s.token {
		s.generating = false
	}
}

// ReplacePlans overwrites the plan pair. Completion marks refer to plan
// positions, so they are cleared with it.
func (s *Session) ReplacePlans(plans *model.Plans) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replacePlans(plans)
}

// CompleteExercise marks exercise i of the current workout as done; repeating it is a no-op
func (s *Session) CompleteExercise(i int) (model.CompletionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plans == nil {
		return cloneCompletion(s.completion), ErrNoPlan
	}
	if i < 0 || i >= len(s.plans.Workout.Exercises) {
		return cloneCompletion(s.completion), fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, i)
	}
	s.completion.Exercises = addIndex(s.completion.Exercises, i)
	return cloneCompletion(s.completion), nil
}

// CompleteMeal marks meal i of the current diet as eaten; repeating it is a no-op
func (s *Session) CompleteMeal(i int) (model.CompletionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plans == nil {
		return cloneCompletion(s.completion), ErrNoPlan
	}
	if i < 0 || i >= len(s.plans.Diet.Meals) {
		return cloneCompletion(s.completion), fmt.Errorf("%w: meal %d", ErrIndexOutOfRange, i)
	}
	s.completion.Meals = addIndex(s.completion.Meals, i)
	return cloneCompletion(s.completion), nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) replacePlans(plans *model.Plans) {
	s.plans = clonePlans(plans)
	s.completion = emptyCompletion()
}

// resetWizard reopens the wizard on the committed intake, or empty when there is none
func (s *Session) resetWizard() {
	if s.intake != nil {
		s.wizard = NewWizardFrom(*s.intake)
		return
	}
	s.wizard = NewWizard()
}

func (s *Session) wizardView() WizardView {
	return WizardView{
		Step:       s.wizard.Current(),
		Total:      s.wizard.TotalSteps(),
		CanProceed: s.wizard.CanProceed(),
		IsFinal:    s.wizard.IsFinal(),
		IsComplete: s.wizard.IsComplete(),
		Draft:      s.wizard.Draft(),
	}
}

func addIndex(set []int, i int) []int {
	if slices.Contains(set, i) {
		return set
	}
	return append(set, i)
}

func emptyCompletion() model.CompletionState {
	return model.CompletionState{Exercises: []int{}, Meals: []int{}}
}

func cloneCompletion(c model.CompletionState) model.CompletionState {
	return model.CompletionState{
		Exercises: append([]int{}, c.Exercises...),
		Meals:     append([]int{}, c.Meals...),
	}
}

func cloneIntake(u *model.UserIntake) *model.UserIntake {
	if u == nil {
		return nil
	}
	c := *u
	if u.TargetWeight != nil {
		tw := *u.TargetWeight
		c.TargetWeight = &tw
	}
	c.Normalize()
	return &c
}

func clonePlans(p *model.Plans) *model.Plans {
	if p == nil {
		return nil
	}
	c := *p
	c.Workout.Exercises = slices.Clone(p.Workout.Exercises)
	c.Diet.Meals = make([]model.Meal, len(p.Diet.Meals))
	for i, meal := range p.Diet.Meals {
		meal.Foods = slices.Clone(meal.Foods)
		c.Diet.Meals[i] = meal
	}
	return &c
}
