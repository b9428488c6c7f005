package model

import "time"

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionNumber       QuestionType = "number"
)

// ValidationRule 仅对number类型的min/max有意义，required两类通用
type ValidationRule struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Required bool     `json:"required"`
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	ID         string          `json:"id"`
	Category   CategoryType    `json:"category"`
	Question   string          `json:"question"`
	Type       QuestionType    `json:"type"`
	Options    []string        `json:"options,omitempty"`
	Validation *ValidationRule `json:"validation,omitempty"`
}

// QuizSession 单个答题者的运行状态，仅由QuizService修改
type QuizSession struct {
	SessionID            string                 `json:"sessionId"`
	CurrentQuestionIndex int                    `json:"currentQuestionIndex"`
	Answers              map[string]interface{} `json:"answers"`
	Completed            bool                   `json:"completed"`
	CreatedAt            time.Time              `json:"createdAt"`
}

// QuizSubmissionResult 答案提交结果，Error为校验失败原因
type QuizSubmissionResult struct {
	Success      bool          `json:"success"`
	NextQuestion *QuizQuestion `json:"nextQuestion,omitempty"`
	Completed    bool          `json:"completed,omitempty"`
	Error        string        `json:"error,omitempty"`
}
