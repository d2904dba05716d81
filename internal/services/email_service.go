package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmailMessage is one outbound transactional email.
type EmailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// EmailService is a thin client for a Resend-compatible transactional email
// API. Delivery guarantees are the provider's; we only submit.
type EmailService struct {
	BaseURL string
	APIKey  string
	From    string
	Client  *http.Client
}

func NewEmailService(baseURL, apiKey, from string) *EmailService {
	return &EmailService{
		BaseURL: baseURL,
		APIKey:  apiKey,
		From:    from,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Send submits a single message.
func (s *EmailService) Send(msg EmailMessage) error {
	if msg.From == "" {
		msg.From = s.From
	}
	return s.post("/emails", msg)
}

// SendBatch submits all messages as one provider batch call. A batch of zero
// messages is a no-op.
func (s *EmailService) SendBatch(msgs []EmailMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	for i := range msgs {
		if msgs[i].From == "" {
			msgs[i].From = s.From
		}
	}
	return s.post("/emails/batch", msgs)
}

func (s *EmailService) post(path string, payload interface{}) error {
	if s.APIKey == "" {
		return errors.New("email provider API key is not configured")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach email provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email provider returned %s: %s", resp.Status, string(body))
	}
	return nil
}
