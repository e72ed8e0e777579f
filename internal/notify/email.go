package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// EmailSender dispatches one rendered email.
type EmailSender interface {
	SendEmail(to, subject, htmlBody string) error
}

// SendGridSender talks to a SendGrid-style v3 mail-send endpoint. When no
// API key is configured it logs the message and reports success, which keeps
// development environments working without provider credentials.
type SendGridSender struct {
	APIKey    string
	APIURL    string
	FromEmail string
	Client    *http.Client
	Log       *zap.Logger
}

func NewSendGridSender(apiKey, apiURL, fromEmail string, log *zap.Logger) *SendGridSender {
	return &SendGridSender{
		APIKey:    apiKey,
		APIURL:    apiURL,
		FromEmail: fromEmail,
		Client:    &http.Client{Timeout: 30 * time.Second},
		Log:       log,
	}
}

type sendGridPayload struct {
	Personalizations []struct {
		To []map[string]string `json:"to"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Subject string            `json:"subject"`
	Content []map[string]string `json:"content"`
}

func (s *SendGridSender) SendEmail(to, subject, htmlBody string) error {
	if s.APIKey == "" {
		s.Log.Info("email dev mode, not sending",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	payload := sendGridPayload{
		From:    map[string]string{"email": s.FromEmail},
		Subject: subject,
		Content: []map[string]string{{"type": "text/html", "value": htmlBody}},
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []map[string]string `json:"to"`
	}{To: []map[string]string{{"email": to}}})

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.APIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}

var _ EmailSender = (*SendGridSender)(nil)
