package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserIntake_Defaults(t *testing.T) {
	u := NewUserIntake()

	assert.Equal(t, DefaultSleepHours, u.SleepHours)
	assert.Empty(t, u.WorkoutDays)
	assert.NotNil(t, u.DietaryRestrictions)
	assert.NoError(t, u.Validate())
}

func TestUserIntake_SetField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr error
		check   func(t *testing.T, u UserIntake)
	}{
		{
			name:  "age",
			field: "age",
			value: `30`,
			check: func(t *testing.T, u UserIntake) { assert.Equal(t, 30, u.Age) },
		},
		{
			name:  "valid goal",
			field: "goal",
			value: `"gain_muscle"`,
			check: func(t *testing.T, u UserIntake) { assert.Equal(t, GoalGainMuscle, u.Goal) },
		},
		{
			name:    "goal outside allowed set",
			field:   "goal",
			value:   `"bulk"`,
			wantErr: ErrInvalidValue,
		},
		{
			name:    "gender outside allowed set",
			field:   "gender",
			value:   `"other"`,
			wantErr: ErrInvalidValue,
		},
		{
			name:  "sleep hours clamped high",
			field: "sleepHours",
			value: `15`,
			check: func(t *testing.T, u UserIntake) { assert.Equal(t, MaxSleepHours, u.SleepHours) },
		},
		{
			name:  "sleep hours clamped low",
			field: "sleepHours",
			value: `1`,
			check: func(t *testing.T, u UserIntake) { assert.Equal(t, MinSleepHours, u.SleepHours) },
		},
		{
			name:  "workout days de-duplicated and sorted",
			field: "workoutDays",
			value: `[5,1,3,1]`,
			check: func(t *testing.T, u UserIntake) { assert.Equal(t, []int{1, 3, 5}, u.WorkoutDays) },
		},
		{
			name:    "workout day out of range",
			field:   "workoutDays",
			value:   `[7]`,
			wantErr: ErrInvalidValue,
		},
		{
			name:  "zero target weight is unset",
			field: "targetWeight",
			value: `0`,
			check: func(t *testing.T, u UserIntake) { assert.Nil(t, u.TargetWeight) },
		},
		{
			name:    "wrong type",
			field:   "age",
			value:   `"thirty"`,
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown field",
			field:   "shoeSize",
			value:   `42`,
			wantErr: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUserIntake()
			err := u.SetField(tt.field, json.RawMessage(tt.value))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, u)
		})
	}
}

func TestUserIntake_SetField_FailureLeavesRecordUntouched(t *testing.T) {
	u := NewUserIntake()
	require.NoError(t, u.SetField("goal", json.RawMessage(`"maintain"`)))

	err := u.SetField("goal", json.RawMessage(`"shred"`))

	assert.Error(t, err)
	assert.Equal(t, GoalMaintain, u.Goal)
}

func TestUserIntake_ToggleItem(t *testing.T) {
	u := NewUserIntake()

	require.NoError(t, u.ToggleItem("dietaryRestrictions", "Lactose"))
	assert.True(t, u.HasRestriction("Lactose"))

	require.NoError(t, u.ToggleItem("dietaryRestrictions", "Lactose"))
	assert.False(t, u.HasRestriction("Lactose"))

	require.NoError(t, u.ToggleItem("workoutDays", "5"))
	require.NoError(t, u.ToggleItem("workoutDays", "1"))
	assert.Equal(t, []int{1, 5}, u.WorkoutDays)

	assert.ErrorIs(t, u.ToggleItem("workoutDays", "9"), ErrInvalidValue)
	assert.ErrorIs(t, u.ToggleItem("goal", "maintain"), ErrUnknownField)
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, Goal("").Valid())
	assert.True(t, TimelineOneYear.Valid())
	assert.False(t, Timeline("2_years").Valid())
	assert.True(t, ActivityVeryActive.Valid())
	assert.False(t, ActivityLevel("couch").Valid())
	assert.True(t, Duration90.Valid())
	assert.False(t, WorkoutDuration("120").Valid())
	assert.False(t, StressLevel("extreme").Valid())
	assert.False(t, WorkoutLocation("park").Valid())
	assert.False(t, FitnessLevel("elite").Valid())
}

func TestGoal_Label(t *testing.T) {
	assert.Equal(t, "Perder Peso", GoalLoseWeight.Label())
	assert.Equal(t, "Ganhar Massa", GoalGainMuscle.Label())
	assert.Equal(t, "Manutenção", GoalMaintain.Label())
	assert.Equal(t, "Manutenção", Goal("").Label())
}
