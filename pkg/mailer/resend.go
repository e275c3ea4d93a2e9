package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	resendAPIURL     = "https://api.resend.com"
	pathResendEmails = "/emails"
)

// ResendProvider delivers through the Resend HTTP API.
type ResendProvider struct {
	apiKey string
	apiURL string
}

type ResendConfig struct {
	APIKey string
	APIURL string
}

func NewResendProvider(config ResendConfig) *ResendProvider {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = resendAPIURL
	}
	return &ResendProvider{apiKey: config.APIKey, apiURL: apiURL}
}

func (p *ResendProvider) Name() string {
	return ProviderResend
}

func (p *ResendProvider) Send(msg *Message) (*Result, error) {
	if p.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	payload := map[string]interface{}{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if msg.Text != "" {
		payload["text"] = msg.Text
	}
	if msg.ReplyTo != "" {
		payload["reply_to"] = msg.ReplyTo
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf(errMarshalPayloadFmt, err)
	}

	req, err := http.NewRequest(http.MethodPost, p.apiURL+pathResendEmails, bytes.NewBuffer(jsonData))
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

	body, _ := io.ReadAll(resp.Body)

	if !isHTTPSuccess(resp.StatusCode) {
		return nil, errAPIStatus(ProviderResend, resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	return &Result{MessageID: result.ID, Provider: ProviderResend}, nil
}
