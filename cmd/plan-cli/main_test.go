package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"go.uber.org/zap"
)

const intakeJSON = `{
  "name": "Ana Souza",
  "age": 30,
  "gender": "female",
  "height": 165,
  "weight": 70,
  "goal": "lose_weight",
  "timeline": "3_months",
  "fitnessLevel": "beginner",
  "workoutDays": [5, 1, 3, 3],
  "workoutDuration": "45",
  "workoutLocation": "home",
  "equipment": ["Halteres"],
  "dietaryRestrictions": ["Lactose"],
  "activityLevel": "moderate",
  "stressLevel": "medium"
}`

func TestRun_Offline(t *testing.T) {
	dir := t.TempDir()
	intakePath := filepath.Join(dir, "intake.json")
	require.NoError(t, os.WriteFile(intakePath, []byte(intakeJSON), 0o600))

	err := run(context.Background(), intakePath, dir, true, false, zap.NewNop())

	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "FitAI_Ana_Souza.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestReadIntake(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intake.json")
	require.NoError(t, os.WriteFile(path, []byte(intakeJSON), 0o600))

	intake, err := readIntake(path)

	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", intake.Name)
	assert.Equal(t, []int{1, 3, 5}, intake.WorkoutDays)
	assert.Equal(t, 8, intake.SleepHours)
}

func TestReadIntake_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))

	_, err := readIntake(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = readIntake(bad)
	assert.Error(t, err)
}

func TestRun_InvalidIntake(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intake.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"goal": "get_rich"}`), 0o600))

	err := run(context.Background(), path, dir, true, false, zap.NewNop())

	assert.Error(t, err)
}

func TestRun_IncompleteIntake(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intake.json")
	incomplete := strings.Replace(intakeJSON, `"workoutDays": [5, 1, 3, 3],`, `"workoutDays": [],`, 1)
	require.NotEqual(t, intakeJSON, incomplete)
	require.NoError(t, os.WriteFile(path, []byte(incomplete), 0o600))

	err := run(context.Background(), path, dir, true, false, zap.NewNop())

	assert.ErrorIs(t, err, service.ErrStepIncomplete)
	assert.NoFileExists(t, filepath.Join(dir, "FitAI_Ana_Souza.pdf"))
}
