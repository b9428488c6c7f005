package app

import (
	"carbon_quiz_backend/docs"
	"carbon_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 碳足迹计算
		api.POST("/calculate", c.calculation.Calculate)

		// 问卷会话
		quiz := api.Group("/quiz")
		{
			quiz.POST("/start", c.quiz.StartQuiz)
			quiz.POST("/answer", c.quiz.SubmitAnswer)
			quiz.POST("/calculate", c.quiz.CalculateQuiz)
			quiz.GET("/status/:sessionId", c.quiz.GetQuizStatus)
		}
	}
}
