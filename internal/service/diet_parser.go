package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
)

// ErrInvalidDietResponse is returned when the completion text is not a usable diet plan
var ErrInvalidDietResponse = errors.New("invalid diet plan response")

// dietPlanSchema describes the JSON object the nutritionist prompt asks for
var dietPlanSchema = newDietPlanSchema()

func newDietPlanSchema() *openapi3.Schema {
	nonNegative := func() *openapi3.Schema {
		return openapi3.NewFloat64Schema().WithMin(0)
	}

	meal := openapi3.NewObjectSchema().WithProperties(map[string]*openapi3.Schema{
		"name":        openapi3.NewStringSchema().WithMinLength(1),
		"time":        openapi3.NewStringSchema().WithPattern(`^([01]\d|2[0-3]):[0-5]\d$`),
		"calories":    nonNegative(),
		"protein":     nonNegative(),
		"carbs":       nonNegative(),
		"fat":         nonNegative(),
		"foods":       openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()),
		"preparation": openapi3.NewStringSchema(),
	})
	meal.Required = []string{"name", "time", "calories", "protein", "carbs", "fat", "foods"}

	plan := openapi3.NewObjectSchema().WithProperties(map[string]*openapi3.Schema{
		"totalCalories": nonNegative(),
		"totalProtein":  nonNegative(),
		"totalCarbs":    nonNegative(),
		"totalFat":      nonNegative(),
		"meals":         openapi3.NewArraySchema().WithItems(meal).WithMinItems(1),
	})
	plan.Required = []string{"totalCalories", "totalProtein", "totalCarbs", "totalFat", "meals"}

	return plan
}

// parseDietResponse decodes completion text into a DietPlan after checking it against the schema
func parseDietResponse(response string) (*model.DietPlan, error) {
	// Models sometimes wrap JSON in markdown fences even in JSON mode
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var raw any
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal JSON: %v", ErrInvalidDietResponse, err)
	}

	if err := dietPlanSchema.VisitJSON(raw); err != nil {
		return nil, fmt.Errorf("%w: schema violation: %v", ErrInvalidDietResponse, err)
	}

	var plan model.DietPlan
	if err := json.Unmarshal([]byte(response), &plan); err != nil {
		return nil, fmt.Errorf("%w: failed to decode diet plan: %v", ErrInvalidDietResponse, err)
	}

	for i := range plan.Meals {
		if plan.Meals[i].Foods == nil {
			plan.Meals[i].Foods = []string{}
		}
	}

	return &plan, nil
}
