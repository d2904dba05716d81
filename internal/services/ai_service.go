package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AIService handles interactions with an OpenAI compatible API. It assists
// the editor with SEO descriptions and section drafts; failures surface as
// dashboard messages and never block saving.
type AIService struct {
	Client *http.Client
}

// NewAIService creates a new AIService.
func NewAIService() *AIService {
	return &AIService{
		Client: &http.Client{Timeout: 120 * time.Second}, // generation can be slow
	}
}

// OpenAI API request structure
type openAIRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAI API response structure
type openAIResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message message `json:"message"`
}

// GenerateDescription asks the model for an SEO summary of at most 160
// characters for the given post.
func (s *AIService) GenerateDescription(title, content, baseURL, token, model string) (string, error) {
	prompt := fmt.Sprintf(
		"Napiši SEO opis (meta description) za spodnji blog zapis. Opis mora imeti največ 160 znakov, biti mora v istem jeziku kot članek in vrni samo opis brez dodatnih pojasnil.\n\nNaslov: %s\n\nVsebina:\n%s",
		title, content)

	out, err := s.complete(prompt, baseURL, token, model)
	if err != nil {
		return "", err
	}

	// Models occasionally overshoot the limit anyway; trim to the SEO cap.
	runes := []rune(strings.TrimSpace(out))
	if len(runes) > 160 {
		runes = runes[:160]
	}
	return string(runes), nil
}

// GenerateSectionDraft asks the model to draft the body of one section.
func (s *AIService) GenerateSectionDraft(title, heading, baseURL, token, model string) (string, error) {
	prompt := fmt.Sprintf(
		"Pišem blog zapis z naslovom »%s«. Napiši osnutek poglavja z naslovom »%s« v Markdown obliki, dolg dva do tri odstavke. Vrni samo besedilo poglavja, brez naslova.",
		title, heading)

	return s.complete(prompt, baseURL, token, model)
}

func (s *AIService) complete(prompt, baseURL, token, model string) (string, error) {
	if baseURL == "" || token == "" || model == "" {
		return "", errors.New("AI settings are not configured")
	}

	reqBody := openAIRequest{
		Model: model,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to AI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API returned non-200 status code %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode AI API response: %w", err)
	}

	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", errors.New("AI API returned no choices or an empty message")
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
