package service

import (
	"bytes"
	"carbon_quiz_backend/internal/config"
	"carbon_quiz_backend/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const recommendationSystemPrompt = `You are an expert Carbon Footprint Analyst who provides personalized, encouraging, and actionable sustainability guidance.

Start from the total annual footprint in tons CO2e and compare it to benchmarks: global average (4.5t), US average (14t), Paris Agreement target (2.3t by 2030). Identify the two highest-impact categories from the breakdown, acknowledge what the user is already doing well, then give exactly three prioritized recommendations (quick win within 30 days, lifestyle shift within 6 months, system change beyond 6 months), each with a quantified CO2e reduction and one or two practical first steps. Close with the combined potential reduction translated into a relatable comparison and one action the user can take today.

Avoid judgment words, overwhelming statistics and generic advice without numbers.

Reference data:
- Food: Vegan (1.5t), Vegetarian (2.5t), Pescatarian (3.2t), Omnivore (4.8t), High Meat (7.2t)
- Energy: Renewable (0.02kg/kWh), Nuclear (0.06kg/kWh), Natural Gas (0.35kg/kWh), Coal (0.82kg/kWh)`

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.TimeoutSeconds},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateRecommendation 根据计算结果生成建议文案
// 超时和失败都不影响已完成的计算结果，由调用方决定降级方式
func (s *AIService) GenerateRecommendation(ctx context.Context, result *model.CalculationResult, userContext string) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", err
	}

	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{
				Role:    "system",
				Content: recommendationSystemPrompt,
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Calculation result: %s\nUser context: %s", resultJSON, userContext),
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", err
	}

	if len(completion.Choices) > 0 {
		return completion.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}
