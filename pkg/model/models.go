package model

import "time"

// Gender represents the biological sex used by the energy formulas
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Goal represents the user's fitness objective
type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalGainMuscle Goal = "gain_muscle"
	GoalMaintain   Goal = "maintain"
)

// Timeline represents how long the user wants the plan to run
type Timeline string

const (
	TimelineOneMonth    Timeline = "1_month"
	TimelineThreeMonths Timeline = "3_months"
	TimelineSixMonths   Timeline = "6_months"
	TimelineOneYear     Timeline = "1_year"
)

// FitnessLevel represents the user's training experience
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// WorkoutDuration represents the session length in minutes
type WorkoutDuration string

const (
	Duration30 WorkoutDuration = "30"
	Duration45 WorkoutDuration = "45"
	Duration60 WorkoutDuration = "60"
	Duration90 WorkoutDuration = "90"
)

// WorkoutLocation represents where the user trains
type WorkoutLocation string

const (
	LocationHome WorkoutLocation = "home"
	LocationGym  WorkoutLocation = "gym"
	LocationBoth WorkoutLocation = "both"
)

// ActivityLevel represents the user's daily activity outside training
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// StressLevel represents the user's self-reported stress
type StressLevel string

const (
	StressLow    StressLevel = "low"
	StressMedium StressLevel = "medium"
	StressHigh   StressLevel = "high"
)

// Valid reports whether g is unset or an allowed value
func (g Gender) Valid() bool {
	return g == "" || g == GenderMale || g == GenderFemale
}

// Valid reports whether g is unset or an allowed value
func (g Goal) Valid() bool {
	switch g {
	case "", GoalLoseWeight, GoalGainMuscle, GoalMaintain:
		return true
	}
	return false
}

// Label is the goal text shown on the profile and in exported documents
func (g Goal) Label() string {
	switch g {
	case GoalLoseWeight:
		return "Perder Peso"
	case GoalGainMuscle:
		return "Ganhar Massa"
	default:
		return "Manutenção"
	}
}

// Valid reports whether t is unset or an allowed value
func (t Timeline) Valid() bool {
	switch t {
	case "", TimelineOneMonth, TimelineThreeMonths, TimelineSixMonths, TimelineOneYear:
		return true
	}
	return false
}

// Valid reports whether f is unset or an allowed value
func (f FitnessLevel) Valid() bool {
	switch f {
	case "", FitnessBeginner, FitnessIntermediate, FitnessAdvanced:
		return true
	}
	return false
}

// Valid reports whether d is unset or an allowed value
func (d WorkoutDuration) Valid() bool {
	switch d {
	case "", Duration30, Duration45, Duration60, Duration90:
		return true
	}
	return false
}

// Valid reports whether l is unset or an allowed value
func (l WorkoutLocation) Valid() bool {
	switch l {
	case "", LocationHome, LocationGym, LocationBoth:
		return true
	}
	return false
}

// Valid reports whether a is unset or an allowed value
func (a ActivityLevel) Valid() bool {
	switch a {
	case "", ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// Valid reports whether s is unset or an allowed value
func (s StressLevel) Valid() bool {
	switch s {
	case "", StressLow, StressMedium, StressHigh:
		return true
	}
	return false
}

// Exercise is a single entry of a workout plan
type Exercise struct {
	Name         string `json:"name"`
	Sets         int    `json:"sets"`
	Reps         string `json:"reps"`
	Rest         string `json:"rest"`
	Difficulty   string `json:"difficulty"`
	Muscle       string `json:"muscle"`
	Instructions string `json:"instructions"`
}

// WorkoutPlan is the generated training plan
type WorkoutPlan struct {
	Name      string     `json:"name"`
	Duration  string     `json:"duration"`
	Frequency string     `json:"frequency"`
	Exercises []Exercise `json:"exercises"`
}

// Meal is a single entry of a diet plan
type Meal struct {
	Name        string   `json:"name"`
	Time        string   `json:"time"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Foods       []string `json:"foods"`
	Preparation string   `json:"preparation"`
}

// DietPlan is the generated nutrition plan
type DietPlan struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
	Meals         []Meal  `json:"meals"`
}

// PlanSource tells where a diet plan came from
type PlanSource string

const (
	PlanSourceAI       PlanSource = "ai"
	PlanSourceFallback PlanSource = "fallback"
)

// Plans is the workout/diet pair produced by one generation
type Plans struct {
	Workout        WorkoutPlan `json:"workout"`
	Diet           DietPlan    `json:"diet"`
	Source         PlanSource  `json:"source"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
	Advisory       string      `json:"advisory,omitempty"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

// CompletionState holds the exercises done and meals eaten for the current plan
type CompletionState struct {
	Exercises []int `json:"completed_exercises"`
	Meals     []int `json:"completed_meals"`
}
