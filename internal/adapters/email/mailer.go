package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"sheeets/internal/domain"
)

const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"

	charset     = "UTF-8"
	sendTimeout = 10 * time.Second
)

// SESConfig holds the AWS settings for the SES mailer.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MailerConfig selects and configures the outgoing mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// sesAPI is the part of the SES client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// NewMailer returns the mailer for config.Provider. An empty or unknown
// provider falls back to the no-op mailer, so RSVPs never fail on mail setup.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch config.Provider {
	case ProviderSES:
		if config.SES.Region == "" {
			return nil, fmt.Errorf("ses mailer: region is required")
		}
		if config.FromAddress == "" {
			return nil, fmt.Errorf("ses mailer: from address is required")
		}
		client := ses.NewFromConfig(aws.Config{
			Region: config.SES.Region,
			Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
				config.SES.AccessKeyID, config.SES.SecretAccessKey, "",
			)),
		})
		return newSESMailer(client, config, logger), nil
	case ProviderNoop, "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown mail provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

type sesMailer struct {
	client sesAPI
	source string
	logger *slog.Logger
}

func newSESMailer(client sesAPI, config MailerConfig, logger *slog.Logger) *sesMailer {
	source := config.FromAddress
	if config.FromName != "" {
		source = (&mail.Address{Name: config.FromName, Address: config.FromAddress}).String()
	}
	return &sesMailer{client: client, source: source, logger: logger}
}

func (m *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	body := &types.Body{Html: content(html), Text: content(text)}
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(m.source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message:     &types.Message{Subject: content(subject), Body: body},
	})
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	m.logger.InfoContext(ctx, "email sent", "provider", ProviderSES, "message_id", aws.ToString(out.MessageId))
	return nil
}

// content wraps s for SES; empty parts are left out of the message.
func content(s string) *types.Content {
	if s == "" {
		return nil
	}
	return &types.Content{Data: aws.String(s), Charset: aws.String(charset)}
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	n.logger.InfoContext(ctx, "email skipped", "provider", ProviderNoop, "to", to, "subject", subject)
	return nil
}
