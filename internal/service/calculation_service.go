package service

import (
	"carbon_quiz_backend/internal/model"
	"carbon_quiz_backend/internal/util"
	"fmt"
)

type CalculationService struct {
	strategies map[model.CategoryType]CalculationStrategy
}

func NewCalculationService() *CalculationService {
	s := &CalculationService{
		strategies: make(map[model.CategoryType]CalculationStrategy),
	}
	s.RegisterStrategy(NewFoodStrategy())
	s.RegisterStrategy(NewEnergyStrategy())
	return s
}

// RegisterStrategy 注册分类策略，覆盖同类别的已有策略
func (s *CalculationService) RegisterStrategy(strategy CalculationStrategy) {
	s.strategies[strategy.Category()] = strategy
}

// Calculate 按输入顺序逐条计算并聚合
// 已知类别内的非法type/amount降级为零排放，未注册类别为硬错误
func (s *CalculationService) Calculate(req model.CalculationRequest) (*model.CalculationResult, error) {
	activityResults := make([]model.ActivityResult, 0, len(req.Activities))
	categoryBreakdown := make(map[model.CategoryType]float64)

	for _, activity := range req.Activities {
		strategy, ok := s.strategies[activity.Category]
		if !ok {
			return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedCategory, activity.Category)
		}

		result := strategy.Calculate(activity)
		activityResults = append(activityResults, result)
		categoryBreakdown[activity.Category] += result.Emissions
	}

	var total float64
	for _, r := range activityResults {
		total += r.Emissions
	}

	return &model.CalculationResult{
		TotalCarbonFootprint: total,
		CategoryBreakdown:    categoryBreakdown,
		DailyAverage:         total / 365,
		AnnualEstimate:       total,
		Activities:           activityResults,
		Recommendations:      []string{},
		CalculatedAt:         model.NowISO(),
	}, nil
}
