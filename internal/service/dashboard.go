package service

import (
	"github.com/vcscsvcscs/fitai-planner/internal/calc"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
	"go.uber.org/zap"
)

// DashboardService derives the progress figures shown on the dashboard, workout, diet and profile views
type DashboardService struct {
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(logger *zap.Logger) *DashboardService {
	return &DashboardService{
		logger: logger,
	}
}

// DashboardSummary represents the derived figures for one session
type DashboardSummary struct {
	Greeting         string             `json:"greeting"`
	HasPlan          bool               `json:"has_plan"`
	WorkoutDays      int                `json:"workout_days"`
	CurrentWeight    float64            `json:"current_weight"`
	BMI              *float64           `json:"bmi,omitempty"`
	ConsumedCalories float64            `json:"consumed_calories"`
	ConsumedMacros   calc.Macros        `json:"consumed_macros"`
	WorkoutMinutes   int                `json:"workout_minutes"`
	WeekProgress     []calc.DayProgress `json:"week_progress"`
	WorkoutProgress  int                `json:"workout_progress"`
	DietProgress     int                `json:"diet_progress"`
	Labels           *ProfileLabels     `json:"labels,omitempty"`
	// EstimatedDailyEnergy is informational; plans keep their flat per-goal targets
	EstimatedDailyEnergy *int `json:"estimated_daily_energy,omitempty"`
}

// GetSummary builds the dashboard figures from a session snapshot
func (s *DashboardService) GetSummary(snap SessionSnapshot) *DashboardSummary {
	summary := &DashboardSummary{
		Greeting:       "Bem-vindo de volta! 💪",
		HasPlan:        snap.Plans != nil,
		WorkoutMinutes: calc.WorkoutMinutes(""),
		WeekProgress:   calc.WeekProgress(nil),
	}

	if u := snap.Intake; u != nil {
		if u.Name != "" {
			summary.Greeting = "Olá, " + u.Name + "! 💪"
		}
		summary.WorkoutDays = len(u.WorkoutDays)
		summary.CurrentWeight = u.Weight
		summary.WorkoutMinutes = calc.WorkoutMinutes(u.WorkoutDuration)
		summary.WeekProgress = calc.WeekProgress(u.WorkoutDays)
		labels := LabelsFor(*u)
		summary.Labels = &labels

		if u.Height > 0 {
			bmi := calc.RoundTo(calc.BMI(u.Weight, u.Height), 1)
			summary.BMI = &bmi
		}
		if u.Weight > 0 && u.Height > 0 && u.Age > 0 {
			energy := calc.EstimatedDailyEnergy(u.Weight, u.Height, u.Age, u.Gender,
				calc.ActivityMultiplier(u.ActivityLevel), calc.EnergyGoalFor(u.Goal))
			summary.EstimatedDailyEnergy = &energy
		}
	}

	if p := snap.Plans; p != nil {
		summary.ConsumedCalories = calc.ConsumedCalories(&p.Diet, snap.Completion.Meals)
		summary.ConsumedMacros = calc.ConsumedMacros(&p.Diet, summary.ConsumedCalories)
		summary.WorkoutProgress = calc.CompletionPercentage(len(snap.Completion.Exercises), len(p.Workout.Exercises))
		summary.DietProgress = calc.CompletionPercentage(len(snap.Completion.Meals), len(p.Diet.Meals))
	}

	s.logger.Debug("dashboard summary built",
		zap.String("session_id", snap.ID),
		zap.Bool("has_plan", summary.HasPlan),
		zap.Int("workout_progress", summary.WorkoutProgress),
		zap.Int("diet_progress", summary.DietProgress),
	)

	return summary
}

// ProfileLabels are the display strings of the profile view
type ProfileLabels struct {
	Goal         string `json:"goal"`
	FitnessLevel string `json:"fitness_level"`
}

// LabelsFor maps intake enums to their profile display strings
func LabelsFor(u model.UserIntake) ProfileLabels {
	return ProfileLabels{
		Goal:         u.Goal.Label(),
		FitnessLevel: FitnessLevelLabel(u.FitnessLevel),
	}
}

// FitnessLevelLabel is the experience text used on the profile view
func FitnessLevelLabel(level model.FitnessLevel) string {
	switch level {
	case model.FitnessBeginner:
		return "Iniciante"
	case model.FitnessIntermediate:
		return "Intermediário"
	default:
		return "Avançado"
	}
}
