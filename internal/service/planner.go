package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/vcscsvcscs/fitai-planner/internal/observability"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
	"go.uber.org/zap"
)

// FallbackAdvisory is shown to the user when the diet comes from the local rules
const FallbackAdvisory = "Erro ao gerar plano com IA. Usando plano padrão personalizado."

const nutritionistSystemPrompt = "Você é um nutricionista especializado em criar planos alimentares personalizados. Retorne APENAS um JSON válido com o plano de dieta."

const dietJSONStructure = `{
  "totalCalories": número,
  "totalProtein": número,
  "totalCarbs": número,
  "totalFat": número,
  "meals": [
    {
      "name": "Nome da refeição",
      "time": "HH:MM",
      "calories": número,
      "protein": número,
      "carbs": número,
      "fat": número,
      "foods": ["alimento 1", "alimento 2"],
      "preparation": "Instruções de preparo"
    }
  ]
}`

var errCompletionNotConfigured = errors.New("completion client not configured")

// CompletionClient sends chat messages to a language model and returns the reply text
type CompletionClient interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
}

// PlanService produces a workout and diet for a completed intake
type PlanService struct {
	client CompletionClient
	logger *zap.Logger
	now    func() time.Time
}

// NewPlanService creates a new PlanService. A nil client makes every diet come from the local rules.
func NewPlanService(client CompletionClient, logger *zap.Logger) *PlanService {
	return &PlanService{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Generate builds the workout locally and asks the completion service for the diet.
// Completion failures are absorbed into the fallback diet; only an invalid or incomplete intake is returned as an error.
func (s *PlanService) Generate(ctx context.Context, intake model.UserIntake) (*model.Plans, error) {
	if err := intake.Validate(); err != nil {
		return nil, fmt.Errorf("invalid intake: %w", err)
	}
	if err := RequireComplete(intake); err != nil {
		return nil, fmt.Errorf("incomplete intake: %w", err)
	}

	s.logger.Info("generating plan",
		zap.String("goal", string(intake.Goal)),
		zap.String("fitness_level", string(intake.FitnessLevel)),
		zap.Int("workout_days", len(intake.WorkoutDays)),
	)

	plans := &model.Plans{
		Workout:     DefaultWorkoutPlan(intake),
		GeneratedAt: s.now().UTC(),
	}

	diet, err := s.requestDiet(ctx, intake)
	if err != nil {
		s.logger.Warn("diet generation failed, using default plan",
			zap.Error(err),
		)
		plans.Diet = DefaultDietPlan(intake)
		plans.Source = model.PlanSourceFallback
		plans.FallbackReason = err.Error()
		plans.Advisory = FallbackAdvisory
	} else {
		plans.Diet = *diet
		plans.Source = model.PlanSourceAI
	}

	observability.RecordPlanGeneration(string(plans.Source))

	s.logger.Info("plan generated",
		zap.String("source", string(plans.Source)),
		zap.Int("meals", len(plans.Diet.Meals)),
		zap.Float64("total_calories", plans.Diet.TotalCalories),
	)

	return plans, nil
}

// GenerateForSession generates plans from the session's completed wizard and stores them.
// Only one generation may run per session; a result that lands after Dismiss is dropped.
func (s *PlanService) GenerateForSession(ctx context.Context, sess *Session) (*model.Plans, error) {
	ticket, err := sess.BeginGeneration()
	if err != nil {
		return nil, err
	}

	plans, err := s.Generate(ctx, ticket.Intake)
	if err != nil {
		sess.AbortGeneration(ticket)
		s.logger.Error("plan generation failed",
			zap.Error(err),
			zap.String("session_id", sess.ID()),
		)
		return nil, err
	}

	if err := sess.FinishGeneration(ticket, plans); err != nil {
		s.logger.Info("discarding plan for dismissed wizard",
			zap.String("session_id", sess.ID()),
		)
		return nil, err
	}

	return plans, nil
}

// requestDiet performs one completion call and parses the reply
func (s *PlanService) requestDiet(ctx context.Context, intake model.UserIntake) (*model.DietPlan, error) {
	if s.client == nil {
		return nil, errCompletionNotConfigured
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(nutritionistSystemPrompt),
		openai.UserMessage(buildDietPrompt(intake)),
	}

	start := time.Now()
	response, err := s.client.Complete(ctx, messages)
	observability.ObserveCompletion(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	diet, err := parseDietResponse(response)
	if err != nil {
		s.logger.Debug("unusable completion response",
			zap.String("response", response),
		)
		return nil, err
	}

	return diet, nil
}

// buildDietPrompt renders the nutritionist request for an intake
func buildDietPrompt(u model.UserIntake) string {
	var b strings.Builder

	b.WriteString("Crie um plano alimentar detalhado para:\n")
	fmt.Fprintf(&b, "- Nome: %s\n", u.Name)
	fmt.Fprintf(&b, "- Idade: %d anos\n", u.Age)
	fmt.Fprintf(&b, "- Peso: %skg\n", formatNumber(u.Weight))
	fmt.Fprintf(&b, "- Altura: %scm\n", formatNumber(u.Height))
	fmt.Fprintf(&b, "- Objetivo: %s\n", promptGoal(u.Goal))
	fmt.Fprintf(&b, "- Nível de atividade: %s\n", u.ActivityLevel)
	fmt.Fprintf(&b, "- Restrições alimentares: %s\n", joinOrNone(u.DietaryRestrictions))
	fmt.Fprintf(&b, "- Preferências: %s\n", joinOrNone(u.FoodPreferences))
	b.WriteString("\nRetorne um JSON com esta estrutura exata:\n")
	b.WriteString(dietJSONStructure)

	return b.String()
}

func promptGoal(goal model.Goal) string {
	switch goal {
	case model.GoalLoseWeight:
		return "Perder peso"
	case model.GoalGainMuscle:
		return "Ganhar massa muscular"
	default:
		return "Manter peso"
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "Nenhuma"
	}
	return strings.Join(items, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
