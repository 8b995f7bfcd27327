package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vcscsvcscs/fitai-planner/pkg/model"
)

var (
	// ErrStepIncomplete is returned when the current step's required fields are missing
	ErrStepIncomplete = errors.New("wizard step incomplete")
	// ErrLastStep is returned by Next on the final step; generation takes over from there
	ErrLastStep = errors.New("already at last wizard step")
)

// WizardStep describes one page of the intake wizard
type WizardStep struct {
	Index       int                 `json:"index"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Fields      []string            `json:"fields"`
	Options     map[string][]string `json:"options,omitempty"`
	Optional    bool                `json:"optional"`

	ready func(u *model.UserIntake) bool
}

var (
	EquipmentOptions   = []string{"Halteres", "Barras", "Elásticos", "Kettlebell", "Máquinas", "Peso Corporal", "TRX", "Bicicleta", "Esteira"}
	InjuryOptions      = []string{"Joelho", "Ombro", "Costas", "Punho", "Tornozelo", "Pescoço", "Quadril", "Cotovelo", "Nenhuma"}
	RestrictionOptions = []string{"Lactose", "Glúten", "Vegetariano", "Vegano", "Diabetes", "Hipertensão", "Nenhuma"}
	PreferenceOptions  = []string{"Frango", "Peixe", "Carne Vermelha", "Ovos", "Frutas", "Vegetais", "Grãos", "Laticínios", "Nozes"}
)

var wizardSteps = []WizardStep{
	{
		Title:       "Informações Básicas",
		Description: "Vamos começar com seus dados pessoais",
		Fields:      []string{"name", "age", "gender", "height", "weight", "avatar"},
		ready: func(u *model.UserIntake) bool {
			return u.Name != "" && u.Age > 0 && u.Gender != "" && u.Height > 0 && u.Weight > 0
		},
	},
	{
		Title:       "Seus Objetivos",
		Description: "O que você quer alcançar?",
		Fields:      []string{"goal", "targetWeight", "timeline"},
		ready: func(u *model.UserIntake) bool {
			return u.Goal != "" && u.Timeline != ""
		},
	},
	{
		Title:       "Experiência e Disponibilidade",
		Description: "Qual seu nível e tempo disponível?",
		Fields:      []string{"fitnessLevel", "workoutDays", "workoutDuration"},
		ready: func(u *model.UserIntake) bool {
			return u.FitnessLevel != "" && len(u.WorkoutDays) > 0 && u.WorkoutDuration != ""
		},
	},
	{
		Title:       "Equipamentos e Local",
		Description: "Onde e com o que você vai treinar?",
		Fields:      []string{"workoutLocation", "equipment"},
		Options:     map[string][]string{"equipment": EquipmentOptions},
		ready: func(u *model.UserIntake) bool {
			return u.WorkoutLocation != "" && len(u.Equipment) > 0
		},
	},
	{
		Title:       "Restrições e Preferências",
		Description: "Alguma limitação ou preferência?",
		Fields:      []string{"injuries", "dietaryRestrictions", "foodPreferences"},
		Options: map[string][]string{
			"injuries":            InjuryOptions,
			"dietaryRestrictions": RestrictionOptions,
			"foodPreferences":     PreferenceOptions,
		},
		Optional: true,
		ready:    func(*model.UserIntake) bool { return true },
	},
	{
		Title:       "Estilo de Vida",
		Description: "Como é sua rotina atual?",
		Fields:      []string{"activityLevel", "sleepHours", "stressLevel"},
		ready: func(u *model.UserIntake) bool {
			return u.ActivityLevel != "" && u.StressLevel != ""
		},
	},
}

func init() {
	for i := range wizardSteps {
		wizardSteps[i].Index = i
	}
}

// Wizard walks a draft intake through the six collection steps.
// It is not safe for concurrent use; Session serialises access.
type Wizard struct {
	draft   model.UserIntake
	current int
}

// NewWizard creates a wizard on the first step with an empty draft
func NewWizard() *Wizard {
	return &Wizard{draft: model.NewUserIntake()}
}

// NewWizardFrom creates a wizard pre-filled with an existing intake, used for profile edits
func NewWizardFrom(intake model.UserIntake) *Wizard {
	intake.Normalize()
	return &Wizard{draft: intake}
}

// Steps returns the step catalogue
func (w *Wizard) Steps() []WizardStep {
	return wizardSteps
}

// Current returns the step being filled in
func (w *Wizard) Current() WizardStep {
	return wizardSteps[w.current]
}

// CurrentIndex returns the 0-based index of the current step
func (w *Wizard) CurrentIndex() int {
	return w.current
}

// TotalSteps returns the number of steps
func (w *Wizard) TotalSteps() int {
	return len(wizardSteps)
}

// CanProceed reports whether the current step's required fields are filled
func (w *Wizard) CanProceed() bool {
	return wizardSteps[w.current].ready(&w.draft)
}

// Next advances one step when the current step is complete
func (w *Wizard) Next() error {
	if w.IsFinal() {
		return ErrLastStep
	}
	if !w.CanProceed() {
		return ErrStepIncomplete
	}
	w.current++
	return nil
}

// Back moves one step back; it stays on the first step
func (w *Wizard) Back() {
	if w.current > 0 {
		w.current--
	}
}

// IsFinal reports whether the current step is the last one
func (w *Wizard) IsFinal() bool {
	return w.current == len(wizardSteps)-1
}

// IsComplete reports whether every step's predicate holds for the draft
func (w *Wizard) IsComplete() bool {
	for i := range wizardSteps {
		if !wizardSteps[i].ready(&w.draft) {
			return false
		}
	}
	return true
}

// FirstIncomplete returns the index of the first step whose predicate fails, or -1
func (w *Wizard) FirstIncomplete() int {
	for i := range wizardSteps {
		if !wizardSteps[i].ready(&w.draft) {
			return i
		}
	}
	return -1
}

// RequireComplete returns ErrStepIncomplete naming the first step the intake does not satisfy
func RequireComplete(intake model.UserIntake) error {
	if i := NewWizardFrom(intake).FirstIncomplete(); i >= 0 {
		return fmt.Errorf("%w: step %d", ErrStepIncomplete, i)
	}
	return nil
}

// Draft returns a copy of the intake collected so far
func (w *Wizard) Draft() model.UserIntake {
	d := w.draft
	if w.draft.TargetWeight != nil {
		tw := *w.draft.TargetWeight
		d.TargetWeight = &tw
	}
	// Normalize allocates fresh slices, so the copy shares nothing with the draft
	d.Normalize()
	return d
}

// SetField updates one draft field by its JSON name
func (w *Wizard) SetField(name string, raw json.RawMessage) error {
	return w.draft.SetField(name, raw)
}

// Toggle adds or removes an item from one of the draft's multi-select fields
func (w *Wizard) Toggle(name, item string) error {
	return w.draft.ToggleItem(name, item)
}

// Reset discards the draft and returns to the first step
func (w *Wizard) Reset() {
	w.draft = model.NewUserIntake()
	w.current = 0
}
