package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
	"go.uber.org/zap"
)

func sessionWithPlans(t *testing.T) *Session {
	t.Helper()
	sess := NewSession(time.Now())
	intake := completeIntake()
	plans := &model.Plans{
		Workout: DefaultWorkoutPlan(intake),
		Diet:    DefaultDietPlan(intake),
		Source:  model.PlanSourceFallback,
	}
	sess.ReplacePlans(plans)
	return sess
}

func completedWizardSession(t *testing.T) *Session {
	t.Helper()
	sess := NewSession(time.Now())
	for name, value := range map[string]any{
		"name": "Ana", "age": 30, "gender": "female", "height": 165, "weight": 70,
		"goal": "lose_weight", "timeline": "3_months",
		"fitnessLevel": "beginner", "workoutDays": []int{1, 3, 5}, "workoutDuration": "45",
		"workoutLocation": "home", "equipment": []string{"Halteres"},
		"dietaryRestrictions": []string{"Lactose"},
		"activityLevel":       "moderate", "stressLevel": "low",
	} {
		raw, err := json.Marshal(value)
		require.NoError(t, err)
		_, err = sess.SetIntakeField(name, raw)
		require.NoError(t, err, name)
	}
	return sess
}

func TestNewSession(t *testing.T) {
	sess := NewSession(time.Now())

	snap := sess.Snapshot()

	assert.NotEmpty(t, snap.ID)
	assert.Nil(t, snap.Intake)
	assert.Nil(t, snap.Plans)
	assert.Empty(t, snap.Completion.Exercises)
	assert.NotNil(t, snap.Completion.Exercises)
	assert.False(t, snap.Generating)
	assert.Equal(t, 0, sess.Wizard().Step.Index)
}

func TestSession_CompleteExercise_Idempotent(t *testing.T) {
	sess := sessionWithPlans(t)

	state, err := sess.CompleteExercise(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, state.Exercises)

	state, err = sess.CompleteExercise(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, state.Exercises)

	state, err = sess.CompleteExercise(0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, state.Exercises)
}

func TestSession_CompleteMeal(t *testing.T) {
	sess := sessionWithPlans(t)

	state, err := sess.CompleteMeal(3)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, state.Meals)
	assert.Empty(t, state.Exercises)

	_, err = sess.CompleteMeal(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = sess.CompleteMeal(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSession_CompleteWithoutPlan(t *testing.T) {
	sess := NewSession(time.Now())

	_, err := sess.CompleteExercise(0)
	assert.ErrorIs(t, err, ErrNoPlan)

	_, err = sess.CompleteMeal(0)
	assert.ErrorIs(t, err, ErrNoPlan)
}

func TestSession_ReplacePlansClearsCompletion(t *testing.T) {
	sess := sessionWithPlans(t)
	_, err := sess.CompleteExercise(0)
	require.NoError(t, err)
	_, err = sess.CompleteMeal(2)
	require.NoError(t, err)

	sess.ReplacePlans(&model.Plans{Workout: DefaultWorkoutPlan(completeIntake())})

	snap := sess.Snapshot()
	assert.Empty(t, snap.Completion.Exercises)
	assert.Empty(t, snap.Completion.Meals)
}

func TestSession_SnapshotIsDeepCopy(t *testing.T) {
	sess := sessionWithPlans(t)
	_, err := sess.CompleteMeal(0)
	require.NoError(t, err)

	snap := sess.Snapshot()
	snap.Plans.Diet.Meals[0].Foods[0] = "changed"
	snap.Plans.Workout.Exercises[0].Name = "changed"
	snap.Completion.Meals[0] = 99

	again := sess.Snapshot()
	assert.Equal(t, "2 ovos mexidos", again.Plans.Diet.Meals[0].Foods[0])
	assert.Equal(t, "Agachamento Livre", again.Plans.Workout.Exercises[0].Name)
	assert.Equal(t, []int{0}, again.Completion.Meals)
}

func TestSession_ReplaceIntake(t *testing.T) {
	sess := sessionWithPlans(t)
	intake := completeIntake()
	intake.Weight = 68

	require.NoError(t, sess.ReplaceIntake(intake))

	snap := sess.Snapshot()
	require.NotNil(t, snap.Intake)
	assert.Equal(t, 68.0, snap.Intake.Weight)
	assert.NotNil(t, snap.Plans, "profile edits keep the current plan")
	assert.Equal(t, 68.0, sess.Wizard().Draft.Weight)

	intake.Gender = "other"
	assert.ErrorIs(t, sess.ReplaceIntake(intake), model.ErrInvalidValue)
	assert.Equal(t, 68.0, sess.Snapshot().Intake.Weight)
}

func TestSession_ReplaceIntake_RejectsIncomplete(t *testing.T) {
	partial := model.NewUserIntake()
	partial.Name = "Ana"

	fresh := NewSession(time.Now())
	assert.ErrorIs(t, fresh.ReplaceIntake(partial), ErrStepIncomplete)
	assert.Nil(t, fresh.Snapshot().Intake)

	sess := sessionWithPlans(t)
	require.NoError(t, sess.ReplaceIntake(completeIntake()))

	noEquipment := completeIntake()
	noEquipment.Equipment = nil
	err := sess.ReplaceIntake(noEquipment)

	assert.ErrorIs(t, err, ErrStepIncomplete)
	snap := sess.Snapshot()
	require.NotNil(t, snap.Intake)
	assert.Equal(t, []string{"Halteres"}, snap.Intake.Equipment)
	assert.Equal(t, 30, snap.Intake.Age)
}

func TestSession_SetIntakeField(t *testing.T) {
	sess := NewSession(time.Now())

	view, err := sess.SetIntakeField("name", json.RawMessage(`"Bruno"`))
	require.NoError(t, err)
	assert.Equal(t, "Bruno", view.Draft.Name)

	_, err = sess.SetIntakeField("favouriteColour", json.RawMessage(`"blue"`))
	assert.ErrorIs(t, err, model.ErrUnknownField)

	_, err = sess.SetIntakeField("age", json.RawMessage(`"thirty"`))
	assert.ErrorIs(t, err, model.ErrInvalidValue)
}

func TestSession_WizardNavigation(t *testing.T) {
	sess := NewSession(time.Now())

	_, err := sess.WizardNext()
	assert.ErrorIs(t, err, ErrStepIncomplete)

	for name, value := range map[string]string{"name": `"Ana"`, "age": `30`, "gender": `"female"`, "height": `165`, "weight": `70`} {
		_, err := sess.SetIntakeField(name, json.RawMessage(value))
		require.NoError(t, err)
	}

	view, err := sess.WizardNext()
	require.NoError(t, err)
	assert.Equal(t, 1, view.Step.Index)

	view = sess.WizardBack()
	assert.Equal(t, 0, view.Step.Index)
}

func TestSession_GenerationLifecycle(t *testing.T) {
	sess := completedWizardSession(t)

	ticket, err := sess.BeginGeneration()
	require.NoError(t, err)
	assert.True(t, sess.Snapshot().Generating)

	_, err = sess.BeginGeneration()
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	plans := &model.Plans{Workout: DefaultWorkoutPlan(ticket.Intake), Diet: DefaultDietPlan(ticket.Intake)}
	require.NoError(t, sess.FinishGeneration(ticket, plans))

	snap := sess.Snapshot()
	assert.False(t, snap.Generating)
	require.NotNil(t, snap.Intake)
	assert.Equal(t, "Ana", snap.Intake.Name)
	require.NotNil(t, snap.Plans)
	assert.Equal(t, "3x por semana", snap.Plans.Workout.Frequency)
}

func TestSession_BeginGenerationRequiresCompleteWizard(t *testing.T) {
	sess := NewSession(time.Now())

	_, err := sess.BeginGeneration()

	assert.ErrorIs(t, err, ErrStepIncomplete)
	assert.False(t, sess.Snapshot().Generating)
}

func TestSession_DismissDropsLateResult(t *testing.T) {
	sess := completedWizardSession(t)
	ticket, err := sess.BeginGeneration()
	require.NoError(t, err)

	view := sess.Dismiss()

	assert.Equal(t, "", view.Draft.Name, "dismiss discards the draft")
	err = sess.FinishGeneration(ticket, &model.Plans{})
	assert.ErrorIs(t, err, ErrStaleGeneration)

	snap := sess.Snapshot()
	assert.Nil(t, snap.Plans)
	assert.Nil(t, snap.Intake)
	assert.False(t, snap.Generating)
}

func TestSession_AbortGeneration(t *testing.T) {
	sess := completedWizardSession(t)
	ticket, err := sess.BeginGeneration()
	require.NoError(t, err)

	sess.AbortGeneration(ticket)

	assert.False(t, sess.Snapshot().Generating)
	_, err = sess.BeginGeneration()
	assert.NoError(t, err)
}

func TestPlanService_GenerateForSession(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("forced failure"))
	svc := NewPlanService(client, zap.NewNop())
	sess := completedWizardSession(t)
	_, err := sess.CompleteExercise(0)
	require.ErrorIs(t, err, ErrNoPlan)

	plans, err := svc.GenerateForSession(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, model.PlanSourceFallback, plans.Source)
	assert.Equal(t, 1800.0, plans.Diet.TotalCalories)
	assert.Contains(t, plans.Diet.Meals[2].Foods, "Iogurte vegetal")

	snap := sess.Snapshot()
	assert.Equal(t, plans.Diet, snap.Plans.Diet)
	assert.False(t, snap.Generating)
}

func TestPlanService_GenerateForSession_Incomplete(t *testing.T) {
	client := new(MockCompletionClient)
	svc := NewPlanService(client, zap.NewNop())

	_, err := svc.GenerateForSession(context.Background(), NewSession(time.Now()))

	assert.ErrorIs(t, err, ErrStepIncomplete)
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestProperty_CompletingTwiceIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("marking the same exercise twice leaves the set unchanged", prop.ForAll(
		func(indices []int, repeat int) bool {
			sess := sessionWithPlans(t)
			for _, i := range indices {
				_, _ = sess.CompleteExercise(i)
			}
			before := sess.Snapshot().Completion.Exercises

			_, _ = sess.CompleteExercise(repeat)
			once := sess.Snapshot().Completion.Exercises
			_, _ = sess.CompleteExercise(repeat)
			twice := sess.Snapshot().Completion.Exercises

			if len(once) < len(before) {
				return false
			}
			return assert.ObjectsAreEqual(once, twice)
		},
		gen.SliceOf(gen.IntRange(0, 1)),
		gen.IntRange(0, 1),
	))

	properties.Property("completion sets never contain duplicates", prop.ForAll(
		func(indices []int) bool {
			sess := sessionWithPlans(t)
			for _, i := range indices {
				_, _ = sess.CompleteMeal(i)
			}
			seen := map[int]bool{}
			for _, i := range sess.Snapshot().Completion.Meals {
				if seen[i] {
					return false
				}
				seen[i] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-1, 5)),
	))

	properties.TestingRun(t)
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	store := NewSessionStore(time.Hour, zap.NewNop())

	sess := store.Create()
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, store.Delete(sess.ID()))
	assert.Equal(t, 0, store.Len())

	_, err = store.Get(sess.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(sess.ID()), ErrSessionNotFound)
}

func TestSessionStore_Sweep(t *testing.T) {
	store := NewSessionStore(30*time.Minute, zap.NewNop())
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	idle := store.Create()
	active := store.Create()

	clock = clock.Add(20 * time.Minute)
	_, err := store.Get(active.ID())
	require.NoError(t, err)

	clock = clock.Add(15 * time.Minute)
	removed := store.Sweep()

	assert.Equal(t, 1, removed)
	_, err = store.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(active.ID())
	assert.NoError(t, err)
}

func TestSessionStore_SweepDisabled(t *testing.T) {
	store := NewSessionStore(0, zap.NewNop())
	store.Create()
	store.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_RunSweeperStopsOnCancel(t *testing.T) {
	store := NewSessionStore(time.Millisecond, zap.NewNop())
	store.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
