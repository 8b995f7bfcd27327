package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

var (
	// ErrUnknownField is returned when an intake field name does not exist
	ErrUnknownField = errors.New("unknown intake field")
	// ErrInvalidValue is returned when a value is outside the field's allowed set
	ErrInvalidValue = errors.New("invalid intake value")
)

const (
	MinSleepHours     = 4
	MaxSleepHours     = 12
	DefaultSleepHours = 8
)

// UserIntake is the record collected by the planning wizard
type UserIntake struct {
	Name                string          `json:"name"`
	Age                 int             `json:"age"`
	Gender              Gender          `json:"gender"`
	Height              float64         `json:"height"`
	Weight              float64         `json:"weight"`
	Avatar              string          `json:"avatar,omitempty"`
	Goal                Goal            `json:"goal"`
	TargetWeight        *float64        `json:"targetWeight,omitempty"`
	Timeline            Timeline        `json:"timeline"`
	FitnessLevel        FitnessLevel    `json:"fitnessLevel"`
	WorkoutDays         []int           `json:"workoutDays"`
	WorkoutDuration     WorkoutDuration `json:"workoutDuration"`
	WorkoutLocation     WorkoutLocation `json:"workoutLocation"`
	Equipment           []string        `json:"equipment"`
	Injuries            []string        `json:"injuries"`
	DietaryRestrictions []string        `json:"dietaryRestrictions"`
	FoodPreferences     []string        `json:"foodPreferences"`
	ActivityLevel       ActivityLevel   `json:"activityLevel"`
	SleepHours          int             `json:"sleepHours"`
	StressLevel         StressLevel     `json:"stressLevel"`
}

// NewUserIntake returns the empty record the wizard starts from
func NewUserIntake() UserIntake {
	return UserIntake{
		WorkoutDays:         []int{},
		Equipment:           []string{},
		Injuries:            []string{},
		DietaryRestrictions: []string{},
		FoodPreferences:     []string{},
		SleepHours:          DefaultSleepHours,
	}
}

// Validate checks that every enum holds an allowed value and numerics are not negative.
// Unset values are accepted; completeness is the wizard's concern.
func (u *UserIntake) Validate() error {
	switch {
	case !u.Gender.Valid():
		return fmt.Errorf("%w: gender %q", ErrInvalidValue, u.Gender)
	case !u.Goal.Valid():
		return fmt.Errorf("%w: goal %q", ErrInvalidValue, u.Goal)
	case !u.Timeline.Valid():
		return fmt.Errorf("%w: timeline %q", ErrInvalidValue, u.Timeline)
	case !u.FitnessLevel.Valid():
		return fmt.Errorf("%w: fitnessLevel %q", ErrInvalidValue, u.FitnessLevel)
	case !u.WorkoutDuration.Valid():
		return fmt.Errorf("%w: workoutDuration %q", ErrInvalidValue, u.WorkoutDuration)
	case !u.WorkoutLocation.Valid():
		return fmt.Errorf("%w: workoutLocation %q", ErrInvalidValue, u.WorkoutLocation)
	case !u.ActivityLevel.Valid():
		return fmt.Errorf("%w: activityLevel %q", ErrInvalidValue, u.ActivityLevel)
	case !u.StressLevel.Valid():
		return fmt.Errorf("%w: stressLevel %q", ErrInvalidValue, u.StressLevel)
	case u.Age < 0:
		return fmt.Errorf("%w: age %d", ErrInvalidValue, u.Age)
	case u.Height < 0:
		return fmt.Errorf("%w: height %v", ErrInvalidValue, u.Height)
	case u.Weight < 0:
		return fmt.Errorf("%w: weight %v", ErrInvalidValue, u.Weight)
	case u.TargetWeight != nil && *u.TargetWeight < 0:
		return fmt.Errorf("%w: targetWeight %v", ErrInvalidValue, *u.TargetWeight)
	}
	for _, d := range u.WorkoutDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: workout day %d", ErrInvalidValue, d)
		}
	}
	return nil
}

// Normalize clamps sleep hours, de-duplicates the sets and replaces nil slices
func (u *UserIntake) Normalize() {
	u.SleepHours = clampSleep(u.SleepHours)
	u.WorkoutDays = uniqueDays(u.WorkoutDays)
	u.Equipment = uniqueStrings(u.Equipment)
	u.Injuries = uniqueStrings(u.Injuries)
	u.DietaryRestrictions = uniqueStrings(u.DietaryRestrictions)
	u.FoodPreferences = uniqueStrings(u.FoodPreferences)
	if u.TargetWeight != nil && *u.TargetWeight == 0 {
		u.TargetWeight = nil
	}
}

// HasRestriction reports whether the dietary restriction set contains r
func (u *UserIntake) HasRestriction(r string) bool {
	return slices.Contains(u.DietaryRestrictions, r)
}

// HasPreference reports whether the food preference set contains p
func (u *UserIntake) HasPreference(p string) bool {
	return slices.Contains(u.FoodPreferences, p)
}

// SetField replaces a single field, addressed by its JSON name
func (u *UserIntake) SetField(name string, raw json.RawMessage) error {
	next := *u

	var err error
	switch name {
	case "name":
		err = json.Unmarshal(raw, &next.Name)
	case "age":
		err = json.Unmarshal(raw, &next.Age)
	case "gender":
		err = json.Unmarshal(raw, &next.Gender)
	case "height":
		err = json.Unmarshal(raw, &next.Height)
	case "weight":
		err = json.Unmarshal(raw, &next.Weight)
	case "avatar":
		err = json.Unmarshal(raw, &next.Avatar)
	case "goal":
		err = json.Unmarshal(raw, &next.Goal)
	case "targetWeight":
		next.TargetWeight = nil
		err = json.Unmarshal(raw, &next.TargetWeight)
	case "timeline":
		err = json.Unmarshal(raw, &next.Timeline)
	case "fitnessLevel":
		err = json.Unmarshal(raw, &next.FitnessLevel)
	case "workoutDays":
		next.WorkoutDays = nil
		err = json.Unmarshal(raw, &next.WorkoutDays)
	case "workoutDuration":
		err = json.Unmarshal(raw, &next.WorkoutDuration)
	case "workoutLocation":
		err = json.Unmarshal(raw, &next.WorkoutLocation)
	case "equipment":
		next.Equipment = nil
		err = json.Unmarshal(raw, &next.Equipment)
	case "injuries":
		next.Injuries = nil
		err = json.Unmarshal(raw, &next.Injuries)
	case "dietaryRestrictions":
		next.DietaryRestrictions = nil
		err = json.Unmarshal(raw, &next.DietaryRestrictions)
	case "foodPreferences":
		next.FoodPreferences = nil
		err = json.Unmarshal(raw, &next.FoodPreferences)
	case "activityLevel":
		err = json.Unmarshal(raw, &next.ActivityLevel)
	case "sleepHours":
		err = json.Unmarshal(raw, &next.SleepHours)
	case "stressLevel":
		err = json.Unmarshal(raw, &next.StressLevel)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
	}

	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}

	*u = next
	return nil
}

// ToggleItem adds item to a set field when absent and removes it when present.
// For workoutDays the item is the weekday index as text.
func (u *UserIntake) ToggleItem(name, item string) error {
	switch name {
	case "workoutDays":
		day, err := strconv.Atoi(item)
		if err != nil || day < 0 || day > 6 {
			return fmt.Errorf("%w: workout day %q", ErrInvalidValue, item)
		}
		u.WorkoutDays = toggle(u.WorkoutDays, day)
		slices.Sort(u.WorkoutDays)
	case "equipment":
		u.Equipment = toggle(u.Equipment, item)
	case "injuries":
		u.Injuries = toggle(u.Injuries, item)
	case "dietaryRestrictions":
		u.DietaryRestrictions = toggle(u.DietaryRestrictions, item)
	case "foodPreferences":
		u.FoodPreferences = toggle(u.FoodPreferences, item)
	default:
		return fmt.Errorf("%w: %s is not a set field", ErrUnknownField, name)
	}
	return nil
}

func toggle[T comparable](set []T, item T) []T {
	if i := slices.Index(set, item); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), item)
}

func clampSleep(h int) int {
	return min(max(h, MinSleepHours), MaxSleepHours)
}

func uniqueDays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out
}

func uniqueStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
