package mailer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	name string
	sent []*Message
	err  error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Send(msg *Message) (*Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.sent = append(p.sent, msg)
	return &Result{MessageID: "msg_1", Provider: p.name}, nil
}

func validMessage() *Message {
	return &Message{
		To:      []string{"user@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hello</p>",
	}
}

func TestNewRequiresProvider(t *testing.T) {
	_, err := New("noreply@example.com")
	assert.ErrorIs(t, err, ErrNoProviders)

	_, err = New("noreply@example.com", nil)
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestNewRejectsBadDefaultFrom(t *testing.T) {
	_, err := New("not-an-address", &stubProvider{name: "a"})
	assert.Error(t, err)
}

func TestSendAppliesDefaultFrom(t *testing.T) {
	primary := &stubProvider{name: "a"}
	m, err := New("noreply@example.com", primary)
	assert.NoError(t, err)

	result, err := m.Send(validMessage())
	assert.NoError(t, err)
	assert.Equal(t, "a", result.Provider)
	assert.Equal(t, "noreply@example.com", primary.sent[0].From)
}

func TestSendValidation(t *testing.T) {
	m, err := New("noreply@example.com", &stubProvider{name: "a"})
	assert.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr error
	}{
		{"no recipients", func(msg *Message) { msg.To = nil }, ErrRecipientMissing},
		{"no subject", func(msg *Message) { msg.Subject = "" }, ErrSubjectMissing},
		{"no html", func(msg *Message) { msg.HTML = "" }, ErrBodyMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(msg)
			_, err := m.Send(msg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	m, err := New("noreply@example.com", &stubProvider{name: "a"})
	assert.NoError(t, err)

	msg := validMessage()
	msg.To = []string{"not an address"}
	_, err = m.Send(msg)
	assert.Error(t, err)
}

func TestSendFailsOverToNextProvider(t *testing.T) {
	primary := &stubProvider{name: "a", err: errors.New("rate limited")}
	secondary := &stubProvider{name: "b"}
	m, err := New("noreply@example.com", primary, secondary)
	assert.NoError(t, err)

	result, err := m.Send(validMessage())
	assert.NoError(t, err)
	assert.Equal(t, "b", result.Provider)
	assert.Len(t, secondary.sent, 1)
}

func TestSendAllProvidersFailed(t *testing.T) {
	primary := &stubProvider{name: "a", err: errors.New("down")}
	secondary := &stubProvider{name: "b", err: errors.New("also down")}
	m, err := New("noreply@example.com", primary, secondary)
	assert.NoError(t, err)

	_, err = m.Send(validMessage())
	assert.ErrorIs(t, err, ErrAllProvidersDown)
	assert.Contains(t, err.Error(), "a: down")
	assert.Contains(t, err.Error(), "b: also down")
}

func TestVerificationCodeTemplate(t *testing.T) {
	tmpl, err := VerificationCodeTemplate()
	assert.NoError(t, err)

	html, text, err := tmpl.Render(VerificationCodeContext{
		Company:       "Salon",
		UserName:      "Priya",
		Code:          "482913",
		ExpiryMinutes: 10,
	})
	assert.NoError(t, err)
	assert.Contains(t, html, "482913")
	assert.Contains(t, html, "Hi Priya,")
	assert.Contains(t, text, "482913")
	assert.Contains(t, text, "10 minutes")
}

func TestVerificationCodeTemplateValidation(t *testing.T) {
	tmpl, err := VerificationCodeTemplate()
	assert.NoError(t, err)

	_, _, err = tmpl.Render(VerificationCodeContext{Company: "Salon"})
	assert.ErrorIs(t, err, ErrCodeRequired)

	_, _, err = tmpl.Render(VerificationCodeContext{Code: "482913"})
	assert.ErrorIs(t, err, ErrCompanyRequired)
}

func TestVerificationSender(t *testing.T) {
	primary := &stubProvider{name: "a"}
	m, err := New("noreply@example.com", primary)
	assert.NoError(t, err)

	sender, err := NewVerificationSender(m, "Salon")
	assert.NoError(t, err)

	err = sender.SendVerificationCode("user@example.com", "Priya", "482913", 10*time.Minute)
	assert.NoError(t, err)
	assert.Len(t, primary.sent, 1)
	assert.Equal(t, []string{"user@example.com"}, primary.sent[0].To)
	assert.Contains(t, primary.sent[0].HTML, "482913")
}

func TestReceiptTemplate(t *testing.T) {
	tmpl, err := ReceiptTemplate()
	assert.NoError(t, err)

	html, text, err := tmpl.Render(ReceiptContext{
		Company:  "Salon",
		UserName: "Priya",
		Plan:     "pro",
		Amount:   "₹999",
		PeriodTo: "30 Sep 2026",
	})
	assert.NoError(t, err)
	assert.Contains(t, html, "pro")
	assert.Contains(t, html, "30 Sep 2026")
	assert.Contains(t, text, "₹999")
}
