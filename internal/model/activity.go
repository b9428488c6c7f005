package model

import "time"

// CategoryType 活动类别，闭集，新增类别需要注册对应策略
type CategoryType string

const (
	CategoryFood   CategoryType = "food"
	CategoryEnergy CategoryType = "energy"
)

// swagger:model Activity
type Activity struct {
	Category CategoryType `json:"category" binding:"required"`
	Type     string       `json:"type" binding:"required"`
	Amount   float64      `json:"amount" binding:"required,gt=0"`
	Unit     string       `json:"unit,omitempty"`
}

// swagger:model ActivityResult
type ActivityResult struct {
	Activity   Activity `json:"activity"`
	Emissions  float64  `json:"emissions"`
	Factor     float64  `json:"factor"`
	FactorUnit string   `json:"factorUnit"`
}

// swagger:model CalculationRequest
type CalculationRequest struct {
	Activities []Activity `json:"activities" binding:"required,min=1,dive"`
}

// swagger:model CalculationResult
type CalculationResult struct {
	TotalCarbonFootprint float64                  `json:"totalCarbonFootprint"`
	CategoryBreakdown    map[CategoryType]float64 `json:"categoryBreakdown"`
	DailyAverage         float64                  `json:"dailyAverage"`
	AnnualEstimate       float64                  `json:"annualEstimate"`
	Activities           []ActivityResult         `json:"activities"`
	Recommendations      []string                 `json:"recommendations"`
	CalculatedAt         string                   `json:"calculatedAt"`
}

// NowISO 统一结果时间戳格式
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
