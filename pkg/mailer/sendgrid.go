package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	sendGridAPIURL       = "https://api.sendgrid.com"
	pathSendGridMailSend = "/v3/mail/send"
	headerMessageID      = "X-Message-Id"
)

// SendGridProvider delivers through the SendGrid v3 mail API.
type SendGridProvider struct {
	apiKey string
	apiURL string
}

type SendGridConfig struct {
	APIKey string
	APIURL string
}

func NewSendGridProvider(config SendGridConfig) *SendGridProvider {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = sendGridAPIURL
	}
	return &SendGridProvider{apiKey: config.APIKey, apiURL: apiURL}
}

func (p *SendGridProvider) Name() string {
	return ProviderSendGrid
}

func (p *SendGridProvider) Send(msg *Message) (*Result, error) {
	if p.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	toList := make([]map[string]string, len(msg.To))
	for i, email := range msg.To {
		toList[i] = map[string]string{"email": email}
	}

	content := []map[string]string{
		{"type": mimeTextHTML, "value": msg.HTML},
	}
	if msg.Text != "" {
		// SendGrid requires text/plain before text/html.
		content = []map[string]string{
			{"type": mimeTextPlain, "value": msg.Text},
			{"type": mimeTextHTML, "value": msg.HTML},
		}
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{{"to": toList}},
		"from":             map[string]string{"email": msg.From},
		"subject":          msg.Subject,
		"content":          content,
	}
	if msg.ReplyTo != "" {
		payload["reply_to"] = map[string]string{"email": msg.ReplyTo}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf(errMarshalPayloadFmt, err)
	}

	req, err := http.NewRequest(http.MethodPost, p.apiURL+pathSendGridMailSend, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf(errBuildRequestFmt, err)
	}

	req.Header.Set(headerAuthorization, bearerPrefix+p.apiKey)
	req.Header.Set(headerContentType, mimeApplicationJSON)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errRequestFailedFmt, err)
	}
	defer resp.Body.Close()

	if !isHTTPSuccess(resp.StatusCode) {
		return nil, errAPIStatus(ProviderSendGrid, resp.StatusCode)
	}

	return &Result{MessageID: resp.Header.Get(headerMessageID), Provider: ProviderSendGrid}, nil
}
