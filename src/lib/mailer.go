package lib

import (
	"context"

	"github.com/wneessen/go-mail"

	"github.com/theleywin/Backend-Skill-Swap/config"
)

// SMTPMailer sends transactional mail (OTP codes) through the configured
// SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Mail.Port)}
	if cfg.Mail.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Mail.Username),
			mail.WithPassword(cfg.Mail.Password),
		)
	}

	client, err := mail.NewClient(cfg.Mail.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &SMTPMailer{client: client, from: cfg.Mail.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	return m.client.DialAndSendWithContext(ctx, msg)
}
