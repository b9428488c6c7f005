package service

import "carbon_quiz_backend/internal/model"

// 饮食年化常量：365天，与能源路径的×12年化口径一致
const dietDaysPerYear = 365

// Vegetarian和Vegan共用vegetarian因子，问卷仍展示两个选项
var dietMap = map[string]string{
	"High meat consumption (meat multiple times per day)": "highMeat",
	"Moderate meat consumption (meat once per day)":       "moderateMeat",
	"Low meat consumption (meat few times per week)":      "lowMeat",
	"Vegetarian (no meat, but dairy and eggs)":            "vegetarian",
	"Vegan (no animal products)":                          "vegetarian",
}

var energyMap = map[string]string{
	"Renewable energy (solar, wind, hydro)":     "renewable",
	"Natural gas":                               "naturalGas",
	"Coal-based electricity":                    "coal",
	"Nuclear power":                             "nuclear",
	"Mixed grid electricity (standard utility)": "mixedGrid",
}

type ConverterService struct{}

func NewConverterService() *ConverterService {
	return &ConverterService{}
}

// ConvertToActivities 将问卷答案映射为计算活动
// 未知选项和缺失输入静默丢弃，输出顺序固定为food在前energy在后
// food_source的答案只做展示用途，不参与换算
func (s *ConverterService) ConvertToActivities(answers map[string]interface{}) []model.Activity {
	activities := make([]model.Activity, 0, 2)

	if food := s.convertDietAnswer(answers["diet_type"]); food != nil {
		activities = append(activities, *food)
	}

	if energy := s.convertEnergyAnswers(answers["energy_source"], answers["monthly_kwh"]); energy != nil {
		activities = append(activities, *energy)
	}

	return activities
}

func (s *ConverterService) convertDietAnswer(dietAnswer interface{}) *model.Activity {
	dietType, ok := dietAnswer.(string)
	if !ok || dietType == "" {
		return nil
	}

	mapped, ok := dietMap[dietType]
	if !ok {
		return nil
	}

	return &model.Activity{
		Category: model.CategoryFood,
		Type:     mapped,
		Amount:   dietDaysPerYear,
		Unit:     "days",
	}
}

func (s *ConverterService) convertEnergyAnswers(sourceAnswer, monthlyAnswer interface{}) *model.Activity {
	source, ok := sourceAnswer.(string)
	if !ok || source == "" {
		return nil
	}

	mapped, ok := energyMap[source]
	if !ok {
		return nil
	}

	monthlyKwh, ok := coerceNumber(monthlyAnswer)
	if !ok {
		return nil
	}

	annualKwh := monthlyKwh * 12
	if annualKwh <= 0 {
		return nil
	}

	return &model.Activity{
		Category: model.CategoryEnergy,
		Type:     mapped,
		Amount:   annualKwh,
		Unit:     "kWh",
	}
}
