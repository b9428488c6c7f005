package service

import (
	"carbon_quiz_backend/internal/model"
	"carbon_quiz_backend/internal/repository"
	"carbon_quiz_backend/internal/util"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func floatPtr(v float64) *float64 { return &v }

// quizCatalog 固定有序题目目录，顺序即答题顺序，无分支
var quizCatalog = []model.QuizQuestion{
	{
		ID:       "diet_type",
		Category: model.CategoryFood,
		Question: "What best describes your diet?",
		Type:     model.QuestionSingleChoice,
		Options: []string{
			"High meat consumption (meat multiple times per day)",
			"Moderate meat consumption (meat once per day)",
			"Low meat consumption (meat few times per week)",
			"Vegetarian (no meat, but dairy and eggs)",
			"Vegan (no animal products)",
		},
	},
	{
		ID:       "food_source",
		Category: model.CategoryFood,
		Question: "How often do you eat locally sourced/organic food?",
		Type:     model.QuestionSingleChoice,
		Options: []string{
			"Always (100% local/organic)",
			"Often (75% local/organic)",
			"Sometimes (50% local/organic)",
			"Rarely (25% local/organic)",
			"Never (0% local/organic)",
		},
	},
	{
		ID:       "energy_source",
		Category: model.CategoryEnergy,
		Question: "What is your primary energy source?",
		Type:     model.QuestionSingleChoice,
		Options: []string{
			"Renewable energy (solar, wind, hydro)",
			"Natural gas",
			"Coal-based electricity",
			"Nuclear power",
			"Mixed grid electricity (standard utility)",
		},
	},
	{
		ID:       "monthly_kwh",
		Category: model.CategoryEnergy,
		Question: "What is your approximate monthly electricity consumption in kWh?",
		Type:     model.QuestionNumber,
		Validation: &model.ValidationRule{
			Min:      floatPtr(0),
			Max:      floatPtr(5000),
			Required: true,
		},
	},
}

type QuizService struct {
	sessions *repository.SessionRepository
	catalog  []model.QuizQuestion
}

func NewQuizService(sessions *repository.SessionRepository) *QuizService {
	return &QuizService{
		sessions: sessions,
		catalog:  quizCatalog,
	}
}

// Catalog 返回题目目录副本
func (s *QuizService) Catalog() []model.QuizQuestion {
	out := make([]model.QuizQuestion, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *QuizService) StartSession() string {
	sessionID := fmt.Sprintf("quiz_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	s.sessions.Create(&model.QuizSession{
		SessionID:            sessionID,
		CurrentQuestionIndex: 0,
		Answers:              make(map[string]interface{}),
		Completed:            false,
		CreatedAt:            time.Now(),
	})
	return sessionID
}

// GetCurrentQuestion 会话不存在或已完成时返回nil
// 两种情况的区分交给IsSessionCompleted
func (s *QuizService) GetCurrentQuestion(sessionID string) *model.QuizQuestion {
	session, ok := s.sessions.Get(sessionID)
	if !ok || session.Completed {
		return nil
	}
	if session.CurrentQuestionIndex >= len(s.catalog) {
		return nil
	}
	q := s.catalog[session.CurrentQuestionIndex]
	return &q
}

// SubmitAnswer 校验通过才推进游标，失败时会话状态不变
// 游标到达目录末尾与completed置位在同一持锁步骤内完成
func (s *QuizService) SubmitAnswer(sessionID string, answer interface{}) (*model.QuizSubmissionResult, error) {
	var result *model.QuizSubmissionResult

	err := s.sessions.Mutate(sessionID, func(session *model.QuizSession) error {
		if session.Completed {
			return util.ErrQuizAlreadyCompleted
		}
		if session.CurrentQuestionIndex >= len(s.catalog) {
			return util.ErrNoCurrentQuestion
		}

		question := s.catalog[session.CurrentQuestionIndex]
		if errMsg := validateAnswer(question, answer); errMsg != "" {
			result = &model.QuizSubmissionResult{Success: false, Error: errMsg}
			return nil
		}

		session.Answers[question.ID] = answer
		session.CurrentQuestionIndex++

		if session.CurrentQuestionIndex >= len(s.catalog) {
			session.Completed = true
			result = &model.QuizSubmissionResult{Success: true, Completed: true}
			return nil
		}

		next := s.catalog[session.CurrentQuestionIndex]
		result = &model.QuizSubmissionResult{Success: true, NextQuestion: &next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetSessionAnswers 返回已收集的答案，未完成也返回，会话不存在时返回nil
func (s *QuizService) GetSessionAnswers(sessionID string) map[string]interface{} {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil
	}
	return session.Answers
}

// IsSessionCompleted 会话不存在时返回false，不报错
func (s *QuizService) IsSessionCompleted(sessionID string) bool {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false
	}
	return session.Completed
}

// validateAnswer 逐题校验，返回空串表示通过
func validateAnswer(question model.QuizQuestion, answer interface{}) string {
	required := true
	if question.Validation != nil {
		required = question.Validation.Required
	}
	if required && (answer == nil || answer == "") {
		return "Answer is required"
	}

	switch question.Type {
	case model.QuestionSingleChoice:
		str, ok := answer.(string)
		if !ok {
			return "Invalid option selected"
		}
		for _, option := range question.Options {
			if option == str {
				return ""
			}
		}
		return "Invalid option selected"

	case model.QuestionNumber:
		num, ok := coerceNumber(answer)
		if !ok {
			return "Answer must be a number"
		}
		if question.Validation != nil {
			// 先数值转换再边界检查，"Infinity"会解析为+Inf并触发max失败
			if question.Validation.Min != nil && num < *question.Validation.Min {
				return fmt.Sprintf("Answer must be at least %s", formatBound(*question.Validation.Min))
			}
			if question.Validation.Max != nil && num > *question.Validation.Max {
				return fmt.Sprintf("Answer must be at most %s", formatBound(*question.Validation.Max))
			}
		}
	}

	return ""
}

// coerceNumber 接受数值和数字字符串（小数、指数、首尾空白均可）
func coerceNumber(answer interface{}) (float64, bool) {
	switch v := answer.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case int:
		return float64(v), true
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(num) {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
