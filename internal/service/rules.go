package service

import (
	"fmt"
	"math"

	"github.com/vcscsvcscs/fitai-planner/pkg/model"
)

const (
	restrictionGluten   = "Glúten"
	restrictionLactose  = "Lactose"
	preferenceChicken   = "Frango"
	preferenceFish      = "Peixe"
	difficultyBeginner  = "Fácil"
	difficultyStandard  = "Médio"
	frequencySuffix     = "x por semana"
	workoutPlanPrefix   = "Plano "
	breakfastShare      = 0.25
	lunchShare          = 0.35
	afternoonSnackShare = 0.15
	dinnerShare         = 0.25
)

// BaseCalories returns the flat daily calorie target for a goal
func BaseCalories(goal model.Goal) float64 {
	switch goal {
	case model.GoalLoseWeight:
		return 1800
	case model.GoalGainMuscle:
		return 2500
	default:
		return 2200
	}
}

// GoalLabel returns the display label used in plan names and documents
func GoalLabel(goal model.Goal) string {
	switch goal {
	case model.GoalLoseWeight:
		return "Emagrecimento"
	case model.GoalGainMuscle:
		return "Ganho de Massa"
	default:
		return "Manutenção"
	}
}

// DefaultDietPlan builds the deterministic four-meal diet for an intake
func DefaultDietPlan(u model.UserIntake) model.DietPlan {
	base := BaseCalories(u.Goal)

	protein := 140.0
	if u.Goal == model.GoalGainMuscle {
		protein = 180
	}
	carbs, fat := 250.0, 90.0
	if u.Goal == model.GoalLoseWeight {
		carbs, fat = 150, 60
	}

	return model.DietPlan{
		TotalCalories: base,
		TotalProtein:  protein,
		TotalCarbs:    carbs,
		TotalFat:      fat,
		Meals: []model.Meal{
			{
				Name:     "Café da Manhã",
				Time:     "07:00",
				Calories: math.Round(base * breakfastShare),
				Protein:  25,
				Carbs:    35,
				Fat:      15,
				Foods: []string{
					"2 ovos mexidos",
					pick(u.HasRestriction(restrictionGluten), "Tapioca", "2 fatias de pão integral"),
					"1 banana média",
					pick(u.HasRestriction(restrictionLactose), "Leite vegetal", "1 copo de leite desnatado"),
				},
				Preparation: "Prepare os ovos mexidos com pouco óleo. Acompanhe com carboidrato de sua preferência.",
			},
			{
				Name:     "Almoço",
				Time:     "12:00",
				Calories: math.Round(base * lunchShare),
				Protein:  45,
				Carbs:    60,
				Fat:      20,
				Foods: []string{
					pick(u.HasPreference(preferenceChicken), "150g de peito de frango grelhado", "150g de peixe grelhado"),
					"1 xícara de arroz integral",
					"Salada verde à vontade",
					"Legumes cozidos",
				},
				Preparation: "Grelhe a proteína com temperos naturais. Cozinhe o arroz e prepare os vegetais no vapor.",
			},
			{
				Name:     "Lanche da Tarde",
				Time:     "16:00",
				Calories: math.Round(base * afternoonSnackShare),
				Protein:  20,
				Carbs:    25,
				Fat:      10,
				Foods: []string{
					pick(u.HasRestriction(restrictionLactose), "Iogurte vegetal", "1 pote de iogurte grego"),
					"1 porção de frutas",
					"1 punhado de castanhas",
				},
				Preparation: "Misture o iogurte com as frutas e adicione as castanhas.",
			},
			{
				Name:     "Jantar",
				Time:     "19:00",
				Calories: math.Round(base * dinnerShare),
				Protein:  40,
				Carbs:    30,
				Fat:      15,
				Foods: []string{
					pick(u.HasPreference(preferenceFish), "150g de salmão", "150g de frango"),
					"Batata doce assada",
					"Brócolis no vapor",
					"Salada verde",
				},
				Preparation: "Asse ou grelhe a proteína. Cozinhe os vegetais no vapor e tempere com azeite.",
			},
		},
	}
}

// DefaultWorkoutPlan builds the fixed two-exercise template for an intake
func DefaultWorkoutPlan(u model.UserIntake) model.WorkoutPlan {
	beginner := u.FitnessLevel == model.FitnessBeginner
	difficulty := pick(beginner, difficultyBeginner, difficultyStandard)

	return model.WorkoutPlan{
		Name:      workoutPlanPrefix + GoalLabel(u.Goal),
		Duration:  timelineLabel(u.Timeline),
		Frequency: fmt.Sprintf("%d%s", len(u.WorkoutDays), frequencySuffix),
		Exercises: []model.Exercise{
			{
				Name:         "Agachamento Livre",
				Sets:         pick(beginner, 3, 4),
				Reps:         pick(u.Goal == model.GoalGainMuscle, "8-10", "12-15"),
				Rest:         "90s",
				Difficulty:   difficulty,
				Muscle:       "Quadríceps e Glúteos",
				Instructions: "Mantenha os pés na largura dos ombros, desça até 90° e suba controladamente.",
			},
			{
				Name:         "Flexão de Braço",
				Sets:         pick(beginner, 2, 3),
				Reps:         pick(beginner, "8-12", "12-20"),
				Rest:         "60s",
				Difficulty:   difficulty,
				Muscle:       "Peito e Tríceps",
				Instructions: "Mantenha o corpo alinhado, desça até o peito quase tocar o chão.",
			},
		},
	}
}

// timelineLabel maps a timeline to its week count; 6 months and 1 year share 24 weeks
func timelineLabel(t model.Timeline) string {
	switch t {
	case model.TimelineOneMonth:
		return "4 semanas"
	case model.TimelineThreeMonths:
		return "12 semanas"
	default:
		return "24 semanas"
	}
}

func pick[T any](cond bool, yes, no T) T {
	if cond {
		return yes
	}
	return no
}
