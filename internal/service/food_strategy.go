package service

import "carbon_quiz_backend/internal/model"

const foodFactorUnit = "kg CO2e/year or kg CO2e/kg"

// 排放因子为示意常量，非精确科学数据
var foodFactors = map[string]float64{
	"highMeat":      2555,
	"moderateMeat":  1460,
	"lowMeat":       547.5,
	"vegetarian":    292,
	"localFood":     0.9,
	"processedFood": 2.5,
}

type FoodStrategy struct{}

func NewFoodStrategy() *FoodStrategy {
	return &FoodStrategy{}
}

func (s *FoodStrategy) Category() model.CategoryType {
	return model.CategoryFood
}

func (s *FoodStrategy) Validate(activity model.Activity) bool {
	if activity.Category != model.CategoryFood {
		return false
	}
	_, ok := foodFactors[activity.Type]
	return ok && activity.Amount > 0
}

func (s *FoodStrategy) Calculate(activity model.Activity) model.ActivityResult {
	if !s.Validate(activity) {
		return model.ActivityResult{
			Activity:   activity,
			Emissions:  0,
			Factor:     0,
			FactorUnit: foodFactorUnit,
		}
	}

	factor := foodFactors[activity.Type]
	return model.ActivityResult{
		Activity:   activity,
		Emissions:  activity.Amount * factor,
		Factor:     factor,
		FactorUnit: foodFactorUnit,
	}
}
