package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// WhatsAppSender dispatches one rendered WhatsApp text message.
type WhatsAppSender interface {
	SendMessage(phone, message string) error
}

// GraphAPISender talks to the WhatsApp Business (Graph) messages endpoint.
// Missing credentials put it in dev mode: log and succeed.
type GraphAPISender struct {
	AccessToken   string
	PhoneNumberID string
	APIVersion    string
	BaseURL       string
	Client        *http.Client
	Log           *zap.Logger
}

func NewGraphAPISender(accessToken, phoneNumberID, apiVersion string, log *zap.Logger) *GraphAPISender {
	return &GraphAPISender{
		AccessToken:   accessToken,
		PhoneNumberID: phoneNumberID,
		APIVersion:    apiVersion,
		BaseURL:       "https://graph.facebook.com",
		Client:        &http.Client{Timeout: 30 * time.Second},
		Log:           log,
	}
}

func (s *GraphAPISender) SendMessage(phone, message string) error {
	if s.AccessToken == "" || s.PhoneNumberID == "" {
		s.Log.Info("whatsapp dev mode, not sending",
			zap.String("to", phone), zap.Int("message_len", len(message)))
		return nil
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                strings.TrimPrefix(phone, "+"),
		"type":              "text",
		"text":              map[string]string{"body": message},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/messages", s.BaseURL, s.APIVersion, s.PhoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}

var _ WhatsAppSender = (*GraphAPISender)(nil)
