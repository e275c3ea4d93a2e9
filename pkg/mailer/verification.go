package mailer

import (
	"fmt"
	"time"
)

const verificationSubject = "Your verification code"

// VerificationSender sends one-time verification codes. It satisfies
// the code-sender contract the auth layer expects.
type VerificationSender struct {
	mailer   *Mailer
	template *TypedTemplate[VerificationCodeContext]
	company  string
}

func NewVerificationSender(m *Mailer, company string) (*VerificationSender, error) {
	tmpl, err := VerificationCodeTemplate()
	if err != nil {
		return nil, err
	}
	return &VerificationSender{mailer: m, template: tmpl, company: company}, nil
}

func (s *VerificationSender) SendVerificationCode(to, name, code string, expiry time.Duration) error {
	html, text, err := s.template.Render(VerificationCodeContext{
		Company:       s.company,
		UserName:      name,
		Code:          code,
		ExpiryMinutes: int(expiry.Minutes()),
	})
	if err != nil {
		return err
	}

	_, err = s.mailer.Send(&Message{
		To:      []string{to},
		Subject: verificationSubject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}
