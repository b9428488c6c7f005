package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carbon_quiz_backend/internal/config"
	"carbon_quiz_backend/internal/repository"
	"carbon_quiz_backend/internal/service"
	"carbon_quiz_backend/internal/util"
	"carbon_quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(aiBaseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	sessions := repository.NewSessionRepository(0)
	calculation := service.NewCalculationService()
	quiz := service.NewQuizService(sessions)
	converter := service.NewConverterService()
	ai := service.NewAIService(config.AIConfig{
		BaseURL:        aiBaseURL,
		APIKey:         "test-key",
		Model:          "gpt-3.5-turbo",
		TimeoutSeconds: 2 * time.Second,
	})

	calculationCtl := NewCalculationController(calculation)
	quizCtl := NewQuizController(quiz, calculation, converter, ai)
	healthCtl := NewHealthController(sessions)

	router := gin.New()
	api := router.Group("/api")
	{
		api.GET("/health", healthCtl.HealthCheck)
		api.POST("/calculate", calculationCtl.Calculate)
		api.POST("/quiz/start", quizCtl.StartQuiz)
		api.POST("/quiz/answer", quizCtl.SubmitAnswer)
		api.POST("/quiz/calculate", quizCtl.CalculateQuiz)
		api.GET("/quiz/status/:sessionId", quizCtl.GetQuizStatus)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func newAIStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestCalculateEndpoint(t *testing.T) {
	router := newTestRouter("http://unused")

	t.Run("valid request", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/api/calculate", gin.H{
			"activities": []gin.H{
				{"category": "food", "type": "moderateMeat", "amount": 365},
				{"category": "energy", "type": "mixedGrid", "amount": 12000},
			},
		})

		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, 538300.0, data["totalCarbonFootprint"])
		breakdown := data["categoryBreakdown"].(map[string]interface{})
		assert.Equal(t, 532900.0, breakdown["food"])
		assert.Equal(t, 5400.0, breakdown["energy"])
		assert.Len(t, data["activities"], 2)
	})

	t.Run("empty activities rejected by schema", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/calculate", gin.H{"activities": []gin.H{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported category is a generic failure", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/api/calculate", gin.H{
			"activities": []gin.H{
				{"category": "transportation", "type": "car", "amount": 1000},
			},
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to calculate carbon footprint", resp.Message)
	})
}

func TestQuizFlow(t *testing.T) {
	aiStub := newAIStub(t, "Great job, here are three recommendations.")
	defer aiStub.Close()
	router := newTestRouter(aiStub.URL)

	// 开始会话
	w, resp := doJSON(t, router, http.MethodPost, "/api/quiz/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	sessionID := data["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	question := data["question"].(map[string]interface{})
	assert.Equal(t, "diet_type", question["id"])

	// 无效答案不推进
	w, resp = doJSON(t, router, http.MethodPost, "/api/quiz/answer", gin.H{
		"sessionId": sessionID,
		"answer":    "Fruitarian",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid option selected", resp.Message)

	answers := []interface{}{
		"Vegetarian (no meat, but dairy and eggs)",
		"Sometimes (50% local/organic)",
		"Mixed grid electricity (standard utility)",
		"500",
	}
	nextIDs := []string{"food_source", "energy_source", "monthly_kwh"}

	for i, answer := range answers {
		w, resp = doJSON(t, router, http.MethodPost, "/api/quiz/answer", gin.H{
			"sessionId": sessionID,
			"answer":    answer,
		})
		require.Equal(t, http.StatusOK, w.Code)
		data = resp.Data.(map[string]interface{})

		if i < len(nextIDs) {
			assert.Equal(t, false, data["completed"])
			q := data["question"].(map[string]interface{})
			assert.Equal(t, nextIDs[i], q["id"])
		} else {
			assert.Equal(t, true, data["completed"])
		}
	}

	// 完成后的状态查询
	w, resp = doJSON(t, router, http.MethodGet, "/api/quiz/status/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["completed"])
	assert.Nil(t, data["currentQuestion"])

	// 完成后再提交被拒绝
	w, resp = doJSON(t, router, http.MethodPost, "/api/quiz/answer", gin.H{
		"sessionId": sessionID,
		"answer":    "anything",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Quiz already completed", resp.Message)

	// 结果计算
	w, resp = doJSON(t, router, http.MethodPost, "/api/quiz/calculate", gin.H{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, w.Code)
	data = resp.Data.(map[string]interface{})

	calculation := data["calculation"].(map[string]interface{})
	assert.Equal(t, 365*292+6000*0.45, calculation["totalCarbonFootprint"])
	assert.Equal(t, "Great job, here are three recommendations.", data["aiResponse"])

	gotAnswers := data["answers"].(map[string]interface{})
	assert.Equal(t, "500", gotAnswers["monthly_kwh"])
	assert.Len(t, gotAnswers, 4)
}

func TestQuizFlow_AIFailureDoesNotLoseCalculation(t *testing.T) {
	aiStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer aiStub.Close()
	router := newTestRouter(aiStub.URL)

	_, resp := doJSON(t, router, http.MethodPost, "/api/quiz/start", nil)
	sessionID := resp.Data.(map[string]interface{})["sessionId"].(string)

	for _, answer := range []interface{}{
		"Vegan (no animal products)",
		"Always (100% local/organic)",
		"Natural gas",
		"300",
	} {
		w, _ := doJSON(t, router, http.MethodPost, "/api/quiz/answer", gin.H{
			"sessionId": sessionID,
			"answer":    answer,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, resp := doJSON(t, router, http.MethodPost, "/api/quiz/calculate", gin.H{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})

	calculation := data["calculation"].(map[string]interface{})
	assert.Equal(t, 365*292+3600*0.35, calculation["totalCarbonFootprint"])
	assert.Equal(t, "Recommendation generation unavailable", data["aiError"])
	assert.Nil(t, data["aiResponse"])
}

func TestQuizEndpoints_ErrorPaths(t *testing.T) {
	router := newTestRouter("http://unused")

	t.Run("answer for unknown session", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/api/quiz/answer", gin.H{
			"sessionId": "missing",
			"answer":    "x",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Session not found", resp.Message)
	})

	t.Run("answer without body fields", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/quiz/answer", gin.H{"answer": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, resp := doJSON(t, router, http.MethodPost, "/api/quiz/answer", gin.H{"sessionId": "s"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "sessionId and answer are required", resp.Message)
	})

	t.Run("calculate for unknown session", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/api/quiz/calculate", gin.H{"sessionId": "missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Session not found", resp.Message)
	})

	t.Run("calculate before completion", func(t *testing.T) {
		_, resp := doJSON(t, router, http.MethodPost, "/api/quiz/start", nil)
		sessionID := resp.Data.(map[string]interface{})["sessionId"].(string)

		w, resp := doJSON(t, router, http.MethodPost, "/api/quiz/calculate", gin.H{"sessionId": sessionID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Quiz not completed yet", resp.Message)
	})

	t.Run("status for unknown session", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodGet, "/api/quiz/status/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("status mid-quiz", func(t *testing.T) {
		_, resp := doJSON(t, router, http.MethodPost, "/api/quiz/start", nil)
		sessionID := resp.Data.(map[string]interface{})["sessionId"].(string)

		w, resp := doJSON(t, router, http.MethodGet, "/api/quiz/status/"+sessionID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, false, data["completed"])
		q := data["currentQuestion"].(map[string]interface{})
		assert.Equal(t, "diet_type", q["id"])
	})

	t.Run("health reports session count", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "ok", data["status"])
	})
}
