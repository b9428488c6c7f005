package controller

import (
	"carbon_quiz_backend/internal/model"
	"carbon_quiz_backend/internal/service"
	"carbon_quiz_backend/internal/util"
	"carbon_quiz_backend/pkg/logger"
	"carbon_quiz_backend/pkg/monitoring"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizController struct {
	Quiz        *service.QuizService
	Calculation *service.CalculationService
	Converter   *service.ConverterService
	AI          *service.AIService
}

func NewQuizController(quiz *service.QuizService, calculation *service.CalculationService, converter *service.ConverterService, ai *service.AIService) *QuizController {
	return &QuizController{
		Quiz:        quiz,
		Calculation: calculation,
		Converter:   converter,
		AI:          ai,
	}
}

type QuizAnswerRequest struct {
	SessionID string      `json:"sessionId" binding:"required"`
	Answer    interface{} `json:"answer"`
}

type QuizCalculateRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// @Summary 开始问卷会话
// @Description 创建新会话并返回第一道题
// @Tags 问卷
// @Produce json
// @Success 200 {object} util.Response
// @Router /quiz/start [post]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	sessionID := c.Quiz.StartSession()
	question := c.Quiz.GetCurrentQuestion(sessionID)

	monitoring.QuizSessionsStarted.Inc()
	util.Success(ctx, gin.H{
		"sessionId": sessionID,
		"question":  question,
	})
}

// @Summary 提交答案
// @Description 校验答案并返回下一题或完成标记
// @Tags 问卷
// @Accept json
// @Produce json
// @Param body body QuizAnswerRequest true "会话ID和答案"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/answer [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	var req QuizAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Answer == nil {
		util.BadRequest(ctx, "sessionId and answer are required")
		return
	}

	result, err := c.Quiz.SubmitAnswer(req.SessionID, normalizeAnswer(req.Answer))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx, "Session not found")
		case errors.Is(err, util.ErrQuizAlreadyCompleted):
			util.BadRequest(ctx, "Quiz already completed")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if !result.Success {
		util.BadRequest(ctx, result.Error)
		return
	}

	if result.Completed {
		monitoring.QuizSessionsCompleted.Inc()
		util.Success(ctx, gin.H{
			"completed": true,
			"message":   "Quiz completed! Ready for calculation.",
		})
		return
	}

	util.Success(ctx, gin.H{
		"completed": false,
		"question":  result.NextQuestion,
	})
}

// @Summary 计算问卷结果
// @Description 将已完成会话的答案换算为活动并计算碳足迹，附带AI建议
// @Tags 问卷
// @Accept json
// @Produce json
// @Param body body QuizCalculateRequest true "会话ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/calculate [post]
func (c *QuizController) CalculateQuiz(ctx *gin.Context) {
	var req QuizCalculateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answers := c.Quiz.GetSessionAnswers(req.SessionID)
	if answers == nil {
		util.NotFound(ctx, "Session not found")
		return
	}

	if !c.Quiz.IsSessionCompleted(req.SessionID) {
		util.BadRequest(ctx, "Quiz not completed yet")
		return
	}

	activities := c.Converter.ConvertToActivities(answers)

	calculation, err := c.Calculation.Calculate(model.CalculationRequest{Activities: activities})
	if err != nil {
		monitoring.CalculationCounter.WithLabelValues("error").Inc()
		logger.Log.Error("Quiz calculation failed", zap.String("sessionId", req.SessionID), zap.Error(err))
		util.Error(ctx, 500, "Failed to calculate results")
		return
	}
	monitoring.CalculationCounter.WithLabelValues("success").Inc()

	// AI生成失败不影响计算结果返回
	response := gin.H{
		"sessionId":   req.SessionID,
		"calculation": calculation,
		"answers":     answers,
	}

	answersJSON, _ := json.Marshal(answers)
	aiResponse, err := c.AI.GenerateRecommendation(ctx.Request.Context(), calculation,
		"User completed carbon footprint quiz with the following answers: "+string(answersJSON))
	if err != nil {
		logger.Log.Warn("Recommendation generation failed", zap.String("sessionId", req.SessionID), zap.Error(err))
		response["aiError"] = "Recommendation generation unavailable"
	} else {
		response["aiResponse"] = aiResponse
	}

	util.Success(ctx, response)
}

// @Summary 查询问卷状态
// @Description 返回会话完成状态和当前题目
// @Tags 问卷
// @Produce json
// @Param sessionId path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/status/{sessionId} [get]
func (c *QuizController) GetQuizStatus(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")

	currentQuestion := c.Quiz.GetCurrentQuestion(sessionID)
	completed := c.Quiz.IsSessionCompleted(sessionID)

	if currentQuestion == nil && !completed {
		util.NotFound(ctx, "Session not found")
		return
	}

	util.Success(ctx, gin.H{
		"sessionId":       sessionID,
		"completed":       completed,
		"currentQuestion": currentQuestion,
	})
}

// normalizeAnswer 统一JSON绑定产物，json.Number等一律转为float64或string
func normalizeAnswer(answer interface{}) interface{} {
	if num, ok := answer.(json.Number); ok {
		if f, err := num.Float64(); err == nil {
			return f
		}
		return num.String()
	}
	return answer
}
