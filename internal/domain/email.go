package domain

import "context"

// Mailer sends a single email (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RSVPConfirmationEmailData holds data for the RSVP confirmation email.
type RSVPConfirmationEmailData struct {
	Email       string
	DisplayName string
	EventName   string
	Date        string
	StartTime   string
	Address     string
	Link        string
}

// EmailService sends domain-level emails.
type EmailService interface {
	SendRSVPConfirmation(ctx context.Context, data *RSVPConfirmationEmailData) error
}
