package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
)

var bmiResourceTypes = []string{"all", "categories", "health-risks", "calculation-guide", "healthy-weight-tips"}

func categoriesResource() map[string]any {
	return map[string]any{
		"title":        "WHO BMI Categories and Ranges",
		"description":  "Official Body Mass Index categories as defined by the World Health Organization",
		"last_updated": "2024",
		"source":       "World Health Organization",
		"categories":   bmiCategories,
	}
}

func healthRisksResource() map[string]any {
	return map[string]any{
		"title":        "Health Risks Associated with BMI Categories",
		"description":  "Medical information about health risks for different BMI ranges",
		"disclaimer":   "This information is for educational purposes only and should not replace professional medical advice",
		"last_updated": "2024",
		"health_risks": bmiHealthRisks,
	}
}

func calculationGuideResource() map[string]any {
	return map[string]any{
		"title":       "BMI Calculation Guide",
		"description": "Complete guide to calculating Body Mass Index",
		"formula": map[string]string{
			"metric":   "BMI = weight (kg) / height (m)²",
			"imperial": "BMI = (weight (lbs) / height (inches)²) × 703",
		},
		"unit_conversions": map[string]any{
			"weight": map[string]string{
				"pounds_to_kg": "pounds ÷ 2.205",
				"kg_to_pounds": "kg × 2.205",
			},
			"height": map[string]string{
				"inches_to_meters":      "inches × 0.0254",
				"feet_inches_to_meters": "(feet × 12 + inches) × 0.0254",
				"cm_to_meters":          "cm ÷ 100",
			},
		},
		"examples": []map[string]string{
			{
				"description": "Person weighing 70kg and 1.75m tall",
				"calculation": "70 ÷ (1.75)² = 70 ÷ 3.0625 = 22.86",
				"category":    "Normal weight",
			},
			{
				"description": "Person weighing 154lbs and 5'9\" tall",
				"calculation": "(154 ÷ 69²) × 703 = (154 ÷ 4761) × 703 = 22.74",
				"category":    "Normal weight",
			},
		},
		"limitations": []string{
			"Does not distinguish between muscle and fat mass",
			"May not be accurate for athletes with high muscle mass",
			"Age and gender are not considered",
			"May not be suitable for pregnant women",
			"Children and adolescents require different calculations",
		},
	}
}

func healthyWeightTipsResource() map[string]any {
	return map[string]any{
		"title":       "Healthy Weight Management Tips",
		"description": "Evidence-based recommendations for achieving and maintaining a healthy weight",
		"general_tips": []string{
			"Eat a balanced diet rich in fruits, vegetables, whole grains, and lean proteins",
			"Stay hydrated by drinking plenty of water throughout the day",
			"Engage in regular physical activity (at least 150 minutes of moderate exercise per week)",
			"Get adequate sleep (7-9 hours per night for adults)",
			"Manage stress through healthy coping mechanisms",
			"Monitor portion sizes and practice mindful eating",
		},
		"category_specific_advice": map[string][]string{
			"underweight": {
				"Consult with a healthcare provider to rule out underlying conditions",
				"Focus on nutrient-dense, calorie-rich foods",
				"Include healthy fats like nuts, avocados, and olive oil",
				"Consider strength training to build muscle mass",
				"Eat frequent, smaller meals throughout the day",
			},
			"normal": {
				"Maintain current healthy habits",
				"Continue regular exercise routine",
				"Monitor weight regularly but don't obsess",
				"Focus on overall health rather than just weight",
			},
			"overweight": {
				"Create a modest caloric deficit through diet and exercise",
				"Increase physical activity gradually",
				"Focus on sustainable lifestyle changes",
				"Consider working with a registered dietitian",
				"Track food intake to identify patterns",
			},
			"obese": {
				"Consult with healthcare professionals for a comprehensive plan",
				"Consider medical evaluation for weight-related health conditions",
				"Focus on gradual, sustainable weight loss (1-2 pounds per week)",
				"May benefit from structured weight loss programs",
				"Address emotional and behavioral factors related to eating",
			},
		},
		"when_to_seek_help": []string{
			"BMI below 18.5 or above 30",
			"Rapid unexplained weight changes",
			"Difficulty losing weight despite lifestyle changes",
			"Weight-related health problems",
			"Eating disorders or unhealthy relationships with food",
		},
	}
}

type bmiResourcesInput struct {
	ResourceType string `json:"resource_type"`
}

// GetBMIResources returns one of the static BMI reference documents, or
// all of them nested under their URIs.
func (ts *Toolset) GetBMIResources(ctx context.Context, req *registry.Request, input bmiResourcesInput) (any, error) {
	switch input.ResourceType {
	case "categories":
		return categoriesResource(), nil
	case "health-risks":
		return healthRisksResource(), nil
	case "calculation-guide":
		return calculationGuideResource(), nil
	case "healthy-weight-tips":
		return healthyWeightTipsResource(), nil
	case "all":
		return map[string]any{
			"bmi_resources": map[string]any{
				"categories":          categoriesResource(),
				"health_risks":        healthRisksResource(),
				"calculation_guide":   calculationGuideResource(),
				"healthy_weight_tips": healthyWeightTipsResource(),
			},
			"resource_uris": []string{
				"bmi://categories",
				"bmi://health-risks",
				"bmi://calculation-guide",
				"bmi://healthy-weight-tips",
			},
		}, nil
	default:
		return nil, fmt.Errorf("invalid resource type: %s (valid types: %s)",
			input.ResourceType, strings.Join(bmiResourceTypes, ", "))
	}
}

type greetInput struct {
	Name string `json:"name"`
}

// Greet returns a personalized greeting
func (ts *Toolset) Greet(ctx context.Context, req *registry.Request, input greetInput) (any, error) {
	return map[string]any{
		"message": fmt.Sprintf("Hello, %s!", input.Name),
	}, nil
}
