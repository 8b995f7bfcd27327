// Package calc holds the numeric derivations shown on the dashboard and profile.
package calc

import (
	"math"
	"slices"
	"strconv"

	"github.com/vcscsvcscs/fitai-planner/pkg/model"
)

// EnergyGoal selects the caloric offset applied to the daily energy estimate
type EnergyGoal string

const (
	EnergyLose     EnergyGoal = "lose"
	EnergyMaintain EnergyGoal = "maintain"
	EnergyGain     EnergyGoal = "gain"
)

const (
	energyOffsetKcal       = 500
	defaultWorkoutMinutes  = 45
	fullDayProgressPercent = 100
)

var activityMultipliers = map[model.ActivityLevel]float64{
	model.ActivitySedentary:  1.2,
	model.ActivityLight:      1.375,
	model.ActivityModerate:   1.55,
	model.ActivityActive:     1.725,
	model.ActivityVeryActive: 1.9,
}

// WeekDays are the dashboard labels indexed by workout day (0 = Sunday)
var WeekDays = []string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

// BMI returns weight / (height in metres)^2. A zero height yields a non-finite result.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ActivityMultiplier returns the TDEE multiplier for level, 1.2 when unset
func ActivityMultiplier(level model.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[model.ActivitySedentary]
}

// EnergyGoalFor maps a plan goal to the caloric offset direction
func EnergyGoalFor(goal model.Goal) EnergyGoal {
	switch goal {
	case model.GoalLoseWeight:
		return EnergyLose
	case model.GoalGainMuscle:
		return EnergyGain
	default:
		return EnergyMaintain
	}
}

// EstimatedDailyEnergy estimates daily kcal with the Harris-Benedict equation.
// It is not used by the default diet, which keeps flat per-goal targets.
func EstimatedDailyEnergy(weight, height float64, age int, gender model.Gender, activityMultiplier float64, goal EnergyGoal) int {
	var bmr float64
	if gender == model.GenderMale {
		bmr = 88.362 + 13.397*weight + 4.799*height - 5.677*float64(age)
	} else {
		bmr = 447.593 + 9.247*weight + 3.098*height - 4.330*float64(age)
	}

	tdee := bmr * activityMultiplier

	switch goal {
	case EnergyLose:
		return int(math.Round(tdee - energyOffsetKcal))
	case EnergyGain:
		return int(math.Round(tdee + energyOffsetKcal))
	default:
		return int(math.Round(tdee))
	}
}

// CompletionPercentage returns done/total as a rounded percentage, 0 for an empty plan
func CompletionPercentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// ConsumedCalories sums the calories of the meals marked as eaten
func ConsumedCalories(diet *model.DietPlan, completedMeals []int) float64 {
	if diet == nil {
		return 0
	}
	var total float64
	for i, meal := range diet.Meals {
		if slices.Contains(completedMeals, i) {
			total += meal.Calories
		}
	}
	return total
}

// Macros is a protein/carbs/fat triple in grams
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// ConsumedMacros scales the plan's macro totals by the share of calories eaten
func ConsumedMacros(diet *model.DietPlan, consumedCalories float64) Macros {
	if diet == nil || diet.TotalCalories == 0 {
		return Macros{}
	}
	ratio := consumedCalories / diet.TotalCalories
	return Macros{
		Protein: int(math.Round(ratio * diet.TotalProtein)),
		Carbs:   int(math.Round(ratio * diet.TotalCarbs)),
		Fat:     int(math.Round(ratio * diet.TotalFat)),
	}
}

// DayProgress is one bar of the weekly progress chart
type DayProgress struct {
	Day       string `json:"day"`
	Completed bool   `json:"completed"`
	Progress  int    `json:"progress"`
}

// WeekProgress marks the selected workout days of the week
func WeekProgress(workoutDays []int) []DayProgress {
	out := make([]DayProgress, len(WeekDays))
	for i, day := range WeekDays {
		selected := slices.Contains(workoutDays, i)
		out[i] = DayProgress{Day: day, Completed: selected}
		if selected {
			out[i].Progress = fullDayProgressPercent
		}
	}
	return out
}

// WorkoutMinutes returns the selected session length, 45 when unset
func WorkoutMinutes(d model.WorkoutDuration) int {
	minutes, err := strconv.Atoi(string(d))
	if err != nil {
		return defaultWorkoutMinutes
	}
	return minutes
}
