package mailer

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
)

var (
	ErrCompanyRequired = errors.New("company is required")
	ErrCodeRequired    = errors.New("verification code is required")
)

// Parser normalizes and validates a template context before render.
type Parser[T any] func(context T) (T, error)

// TypedTemplate pairs an HTML and plain-text template over a shared
// context type.
type TypedTemplate[T any] struct {
	Name         string
	HTMLTemplate *template.Template
	TextTemplate *template.Template
	Parse        Parser[T]
}

func (t *TypedTemplate[T]) Render(context T) (string, string, error) {
	if t.Parse != nil {
		parsed, err := t.Parse(context)
		if err != nil {
			return "", "", err
		}
		context = parsed
	}

	var htmlBuf bytes.Buffer
	if err := t.HTMLTemplate.Execute(&htmlBuf, context); err != nil {
		return "", "", err
	}

	var textBuf bytes.Buffer
	if t.TextTemplate != nil {
		if err := t.TextTemplate.Execute(&textBuf, context); err != nil {
			return "", "", err
		}
	}

	return htmlBuf.String(), textBuf.String(), nil
}

func NewTemplate[T any](name string, htmlTmpl string, textTmpl string, parser Parser[T]) (*TypedTemplate[T], error) {
	htmlTemplate, err := template.New(name + "_html").Parse(htmlTmpl)
	if err != nil {
		return nil, err
	}

	var textTemplate *template.Template
	if textTmpl != "" {
		textTemplate, err = template.New(name + "_text").Parse(textTmpl)
		if err != nil {
			return nil, err
		}
	}

	return &TypedTemplate[T]{
		Name:         name,
		HTMLTemplate: htmlTemplate,
		TextTemplate: textTemplate,
		Parse:        parser,
	}, nil
}

type VerificationCodeContext struct {
	Company       string
	UserName      string
	Code          string
	ExpiryMinutes int
}

// VerificationCodeTemplate builds the one-time-code email sent after
// signup and on resend.
func VerificationCodeTemplate() (*TypedTemplate[VerificationCodeContext], error) {
	htmlTmpl := `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Verify Your Email</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>{{.Company}}</h2>
		<p>{{if .UserName}}Hi {{.UserName}},{{else}}Hi there,{{end}}</p>
		<p>Use this code to verify your email address:</p>
		<div style="text-align: center; margin: 30px 0;">
			<span style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">{{.Code}}</span>
		</div>
		<p>This code will expire in {{if .ExpiryMinutes}}{{.ExpiryMinutes}}{{else}}10{{end}} minutes.</p>
		<p>If you didn't create an account, you can safely ignore this email.</p>
	</div>
</body>
</html>
`

	textTmpl := `
Verify Your Email

{{if .UserName}}Hi {{.UserName}},{{else}}Hi there,{{end}}

Your {{.Company}} verification code is:

{{.Code}}

This code will expire in {{if .ExpiryMinutes}}{{.ExpiryMinutes}}{{else}}10{{end}} minutes.

If you didn't create an account, you can safely ignore this email.
`

	parser := func(context VerificationCodeContext) (VerificationCodeContext, error) {
		context.Company = strings.TrimSpace(context.Company)
		context.UserName = strings.TrimSpace(context.UserName)
		context.Code = strings.TrimSpace(context.Code)

		if context.Company == "" {
			return context, ErrCompanyRequired
		}
		if context.Code == "" {
			return context, ErrCodeRequired
		}
		return context, nil
	}

	return NewTemplate("verification-code", htmlTmpl, textTmpl, parser)
}

type ReceiptContext struct {
	Company  string
	UserName string
	Plan     string
	Amount   string
	PeriodTo string
}

// ReceiptTemplate builds the payment confirmation sent after a
// subscription charge.
func ReceiptTemplate() (*TypedTemplate[ReceiptContext], error) {
	htmlTmpl := `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Payment Received</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>{{.Company}}</h2>
		<p>{{if .UserName}}Hi {{.UserName}},{{else}}Hi there,{{end}}</p>
		<p>We received your payment{{if .Amount}} of {{.Amount}}{{end}} for the {{.Plan}} plan.</p>
		{{if .PeriodTo}}<p>Your subscription is paid through {{.PeriodTo}}.</p>{{end}}
		<p>Thank you for your business.</p>
	</div>
</body>
</html>
`

	textTmpl := `
Payment Received

{{if .UserName}}Hi {{.UserName}},{{else}}Hi there,{{end}}

We received your payment{{if .Amount}} of {{.Amount}}{{end}} for the {{.Plan}} plan on {{.Company}}.
{{if .PeriodTo}}
Your subscription is paid through {{.PeriodTo}}.
{{end}}
Thank you for your business.
`

	parser := func(context ReceiptContext) (ReceiptContext, error) {
		context.Company = strings.TrimSpace(context.Company)
		if context.Company == "" {
			return context, ErrCompanyRequired
		}
		return context, nil
	}

	return NewTemplate("payment-receipt", htmlTmpl, textTmpl, parser)
}
