package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/upskilling-lab/mcp-toolserver/internal/registry"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

const bmiDisclaimer = "This BMI calculation is for informational purposes only and should not replace professional medical advice. Consult healthcare professionals for personalized health recommendations."

type bmiCategory struct {
	Range       string `json:"range"`
	Description string `json:"description"`
}

// WHO BMI classification
var bmiCategories = map[string]bmiCategory{
	"underweight":   {Range: "< 18.5", Description: "Below normal weight"},
	"normal":        {Range: "18.5 - 24.9", Description: "Normal weight"},
	"overweight":    {Range: "25.0 - 29.9", Description: "Above normal weight"},
	"obese_class_1": {Range: "30.0 - 34.9", Description: "Obesity Class I (Moderately obese)"},
	"obese_class_2": {Range: "35.0 - 39.9", Description: "Obesity Class II (Severely obese)"},
	"obese_class_3": {Range: "≥ 40.0", Description: "Obesity Class III (Very severely obese)"},
}

// Health risks are grouped coarser than the categories: the three obesity
// classes share one risk list.
var bmiHealthRisks = map[string][]string{
	"underweight": {
		"Increased risk of malnutrition",
		"Weakened immune system",
		"Increased risk of infections",
		"Delayed wound healing",
		"Loss of bone density",
	},
	"normal": {
		"Lowest risk of weight-related health problems",
		"Optimal health range for most people",
	},
	"overweight": {
		"Increased risk of type 2 diabetes",
		"Increased risk of high blood pressure",
		"Increased risk of heart disease",
		"Sleep apnea risk",
	},
	"obese": {
		"High risk of type 2 diabetes",
		"High risk of cardiovascular disease",
		"Increased risk of certain cancers",
		"Sleep apnea and breathing problems",
		"Osteoarthritis",
		"Fatty liver disease",
		"Kidney disease",
	},
}

var bmiResourceURIs = map[string]string{
	"categories":          "bmi://categories",
	"health_risks":        "bmi://health-risks",
	"calculation_guide":   "bmi://calculation-guide",
	"healthy_weight_tips": "bmi://healthy-weight-tips",
}

// classifyBMI maps a BMI value onto its WHO category. categoryKey indexes
// bmiCategories, riskKey indexes bmiHealthRisks.
func classifyBMI(bmi float64) (label, categoryKey, riskKey string) {
	switch {
	case bmi < 18.5:
		return "Underweight", "underweight", "underweight"
	case bmi < 25:
		return "Normal weight", "normal", "normal"
	case bmi < 30:
		return "Overweight", "overweight", "overweight"
	case bmi < 35:
		return "Obesity Class I", "obese_class_1", "obese"
	case bmi < 40:
		return "Obesity Class II", "obese_class_2", "obese"
	default:
		return "Obesity Class III", "obese_class_3", "obese"
	}
}

type calculateBMIInput struct {
	WeightKg float64 `json:"weight_kg"`
	HeightM  float64 `json:"height_m"`
}

// CalculateBMI computes the Body Mass Index and enriches it with the WHO
// category, healthy weight range, health risks and recommendations.
func (ts *Toolset) CalculateBMI(ctx context.Context, req *registry.Request, input calculateBMIInput) (any, error) {
	if input.WeightKg <= 0 || input.HeightM <= 0 {
		return nil, fmt.Errorf("%w: height and weight must be positive numbers", mcpErrors.ErrInvalidArguments)
	}

	bmi := input.WeightKg / (input.HeightM * input.HeightM)
	label, categoryKey, riskKey := classifyBMI(bmi)
	category := bmiCategories[categoryKey]

	healthyMin := round1(18.5 * input.HeightM * input.HeightM)
	healthyMax := round1(24.9 * input.HeightM * input.HeightM)

	return map[string]any{
		"bmi":            round2(bmi),
		"category":       label,
		"category_range": category.Range,
		"weight_kg":      input.WeightKg,
		"height_m":       input.HeightM,
		"calculation":    fmt.Sprintf("%g / (%g)² = %.2f", input.WeightKg, input.HeightM, bmi),
		"healthy_weight_range": map[string]any{
			"min_kg": healthyMin,
			"max_kg": healthyMax,
			"description": fmt.Sprintf("For your height (%gm), a healthy weight range is %g-%g kg",
				input.HeightM, healthyMin, healthyMax),
		},
		"health_information": map[string]any{
			"risks":          bmiHealthRisks[riskKey],
			"interpretation": category.Description,
		},
		"recommendations": map[string]any{
			"consult_healthcare": bmi < 18.5 || bmi >= 30,
			"lifestyle_focus":    "Maintain a balanced diet and regular physical activity",
			"monitoring":         "Regular BMI monitoring can help track health progress",
		},
		"resources":  bmiResourceURIs,
		"disclaimer": bmiDisclaimer,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
