package service

import "carbon_quiz_backend/internal/model"

const energyFactorUnit = "kg CO2e/kWh"

var energyFactors = map[string]float64{
	"coal":       0.82,
	"naturalGas": 0.35,
	"renewable":  0.02,
	"mixedGrid":  0.45,
	"nuclear":    0.01,
	"oil":        0.68,
	"propane":    0.61,
	"electric":   0.45,
	"wood":       0.39,
}

type EnergyStrategy struct{}

func NewEnergyStrategy() *EnergyStrategy {
	return &EnergyStrategy{}
}

func (s *EnergyStrategy) Category() model.CategoryType {
	return model.CategoryEnergy
}

func (s *EnergyStrategy) Validate(activity model.Activity) bool {
	if activity.Category != model.CategoryEnergy {
		return false
	}
	_, ok := energyFactors[activity.Type]
	return ok && activity.Amount > 0
}

func (s *EnergyStrategy) Calculate(activity model.Activity) model.ActivityResult {
	if !s.Validate(activity) {
		return model.ActivityResult{
			Activity:   activity,
			Emissions:  0,
			Factor:     0,
			FactorUnit: energyFactorUnit,
		}
	}

	factor := energyFactors[activity.Type]
	return model.ActivityResult{
		Activity:   activity,
		Emissions:  activity.Amount * factor,
		Factor:     factor,
		FactorUnit: energyFactorUnit,
	}
}
