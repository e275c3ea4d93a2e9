// Package mailer sends transactional email through pluggable HTTP
// providers with failover between them.
package mailer

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

const (
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"

	providerLabelNone     = "none"
	providerLabelFailover = "failover"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	bearerPrefix        = "Bearer "
	mimeApplicationJSON = "application/json"
	mimeTextHTML        = "text/html"
	mimeTextPlain       = "text/plain"
)

const (
	errProviderAPIFmt    = "%s API error: %d - %s"
	errMarshalPayloadFmt = "failed to marshal payload: %v"
	errBuildRequestFmt   = "failed to create request: %v"
	errRequestFailedFmt  = "request failed: %v"
	messageSeparator     = "; "
)

var (
	ErrNoProviders      = errors.New("no email providers configured")
	ErrAllProvidersDown = errors.New("all email providers failed")
	ErrAPIKeyRequired   = errors.New("api key is required")
	ErrRecipientMissing = errors.New("at least one recipient required")
	ErrFromMissing      = errors.New("from address is required")
	ErrSubjectMissing   = errors.New("subject is required")
	ErrBodyMissing      = errors.New("html body is required")
)

func errAPIStatus(provider string, status int) error {
	return fmt.Errorf("%s returned status %d", provider, status)
}

// Message is one outbound email. HTML is required; Text is an optional
// plain alternative for clients that want it.
type Message struct {
	To      []string
	From    string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Result reports which provider accepted the message.
type Result struct {
	MessageID string
	Provider  string
}

// Provider delivers a single message through one upstream API.
type Provider interface {
	Send(msg *Message) (*Result, error)
	Name() string
}

// httpClient is shared by the HTTP providers. Provider APIs answer in
// well under this; a hung connection must not stall a signup.
var httpClient = &http.Client{Timeout: 10 * time.Second}

func isHTTPSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// Mailer fans a message out to providers in order until one accepts
// it.
type Mailer struct {
	providers   []Provider
	defaultFrom string
}

func New(defaultFrom string, providers ...Provider) (*Mailer, error) {
	list := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return nil, ErrNoProviders
	}

	if defaultFrom != "" {
		if _, err := mail.ParseAddress(defaultFrom); err != nil {
			return nil, fmt.Errorf("invalid default from address: %w", err)
		}
	}

	return &Mailer{providers: list, defaultFrom: defaultFrom}, nil
}

// Send validates the message and tries each provider in order. The
// returned Result names the provider that accepted it; on total
// failure the error carries each provider's reason.
func (m *Mailer) Send(msg *Message) (*Result, error) {
	send := *msg
	if send.From == "" {
		send.From = m.defaultFrom
	}

	if err := validateMessage(&send); err != nil {
		return nil, err
	}

	var failures []string
	for _, provider := range m.providers {
		result, err := provider.Send(&send)
		if err == nil {
			return result, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", provider.Name(), err))
	}

	return nil, fmt.Errorf("%w: %s", ErrAllProvidersDown, strings.Join(failures, messageSeparator))
}

func validateMessage(msg *Message) error {
	if len(msg.To) == 0 {
		return ErrRecipientMissing
	}
	for _, to := range msg.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", to, err)
		}
	}
	if msg.From == "" {
		return ErrFromMissing
	}
	if _, err := mail.ParseAddress(msg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if msg.Subject == "" {
		return ErrSubjectMissing
	}
	if msg.HTML == "" {
		return ErrBodyMissing
	}
	if msg.ReplyTo != "" {
		if _, err := mail.ParseAddress(msg.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	return nil
}
