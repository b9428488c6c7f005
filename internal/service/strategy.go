package service

import "carbon_quiz_backend/internal/model"

// CalculationStrategy 分类计算策略，系统唯一的扩展点
// 新增类别时实现该接口并在CalculationService注册即可
type CalculationStrategy interface {
	Category() model.CategoryType
	Validate(activity model.Activity) bool
	Calculate(activity model.Activity) model.ActivityResult
}
