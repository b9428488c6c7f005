package controller

import (
	"carbon_quiz_backend/internal/model"
	"carbon_quiz_backend/internal/service"
	"carbon_quiz_backend/internal/util"
	"carbon_quiz_backend/pkg/logger"
	"carbon_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CalculationController struct {
	Service *service.CalculationService
}

func NewCalculationController(svc *service.CalculationService) *CalculationController {
	return &CalculationController{Service: svc}
}

// @Summary 计算碳足迹
// @Description 根据活动列表计算年度碳足迹
// @Tags 碳足迹计算
// @Accept json
// @Produce json
// @Param body body model.CalculationRequest true "活动列表"
// @Success 200 {object} util.Response{data=model.CalculationResult}
// @Failure 400 {object} util.Response
// @Router /calculate [post]
func (c *CalculationController) Calculate(ctx *gin.Context) {
	var req model.CalculationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Calculate(req)
	if err != nil {
		// 未注册类别属于硬错误，对外只暴露通用失败
		monitoring.CalculationCounter.WithLabelValues("error").Inc()
		logger.Log.Error("Calculation failed", zap.Error(err))
		util.Error(ctx, 500, "Failed to calculate carbon footprint")
		return
	}

	monitoring.CalculationCounter.WithLabelValues("success").Inc()
	util.Success(ctx, result)
}
