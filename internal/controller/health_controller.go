package controller

import (
	"carbon_quiz_backend/internal/repository"
	"carbon_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Sessions *repository.SessionRepository
}

func NewHealthController(sessions *repository.SessionRepository) *HealthController {
	return &HealthController{Sessions: sessions}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"quizSessions": c.Sessions.Count(),
		},
	})
}
