// Command plan-cli generates a workout and diet plan from an intake JSON file
// and writes the plan document next to it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vcscsvcscs/fitai-planner/internal/config"
	"github.com/vcscsvcscs/fitai-planner/internal/llm"
	"github.com/vcscsvcscs/fitai-planner/internal/pdf"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
)

func main() {
	intakePath := pflag.StringP("intake", "i", "", "path to the intake JSON file")
	outDir := pflag.StringP("out", "o", ".", "directory for the generated PDF")
	offline := pflag.Bool("offline", false, "skip the completion service and use the rule-based diet")
	printJSON := pflag.Bool("json", false, "print the generated plans as JSON")
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *intakePath == "" {
		pflag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	if err := run(context.Background(), *intakePath, *outDir, *offline, *printJSON, logger); err != nil {
		logger.Fatal("plan generation failed", zap.Error(err))
	}
}

func run(ctx context.Context, intakePath, outDir string, offline, printJSON bool, logger *zap.Logger) error {
	intake, err := readIntake(intakePath)
	if err != nil {
		return err
	}

	var completion service.CompletionClient
	if !offline {
		completion, err = completionFromEnv(logger)
		if err != nil {
			return err
		}
	}

	plans, err := service.NewPlanService(completion, logger).Generate(ctx, intake)
	if err != nil {
		return fmt.Errorf("failed to generate plans: %w", err)
	}

	logger.Info("plans generated",
		zap.String("source", string(plans.Source)),
		zap.String("workout", plans.Workout.Name),
		zap.Int("exercises", len(plans.Workout.Exercises)),
		zap.Int("meals", len(plans.Diet.Meals)),
		zap.Float64("total_calories", plans.Diet.TotalCalories),
	)
	if plans.Advisory != "" {
		logger.Warn(plans.Advisory, zap.String("reason", plans.FallbackReason))
	}

	if printJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plans); err != nil {
			return fmt.Errorf("failed to print plans: %w", err)
		}
	}

	exporter := service.NewExportService(pdf.NewPDFGenerator(logger), nil, logger)
	result, err := exporter.Export(ctx, service.SessionSnapshot{
		ID:     "cli",
		Intake: &intake,
		Plans:  plans,
	})
	if err != nil {
		return fmt.Errorf("failed to export plan: %w", err)
	}

	path := filepath.Join(outDir, result.FileName)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info("plan document written", zap.String("path", path))
	return nil
}

func readIntake(path string) (model.UserIntake, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.UserIntake{}, fmt.Errorf("failed to read intake: %w", err)
	}

	intake := model.NewUserIntake()
	if err := json.Unmarshal(raw, &intake); err != nil {
		return model.UserIntake{}, fmt.Errorf("failed to parse intake: %w", err)
	}
	intake.Normalize()
	return intake, nil
}

// completionFromEnv builds a client from the server's environment configuration.
// It returns nil when no API key is set.
func completionFromEnv(logger *zap.Logger) (service.CompletionClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.CompletionEnabled() {
		logger.Info("no completion API key set, using the rule-based diet")
		return nil, nil
	}

	client, err := llm.NewOpenAIClient(llm.ClientConfig{
		Provider:    cfg.Completion.Provider,
		BaseURL:     cfg.Completion.BaseURL,
		Endpoint:    cfg.Completion.Endpoint,
		APIKey:      cfg.Completion.APIKey,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		MaxAttempts: cfg.Completion.MaxAttempts,
		Timeout:     cfg.Completion.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}
