package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// EmailNotifier sends digests over SMTP.
type EmailNotifier struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
	log      *logrus.Entry
	// send delivers a built message. Replaced in tests.
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewEmailNotifier creates an SMTP notifier.
func NewEmailNotifier(host, port, username, password, from string, to []string, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		To:       to,
		log:      logger.WithField("component", "email"),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// Notify sends body as the HTML part with a plain-text alternative.
// SMTP sends are not cancellable; ctx is only checked before dialing.
func (n *EmailNotifier) Notify(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := n.build(subject, body)

	addr := fmt.Sprintf("%s:%s", n.Host, n.Port)
	var auth smtp.Auth
	if n.Username != "" {
		auth = smtp.PlainAuth("", n.Username, n.Password, n.Host)
	}
	if err := n.send(e, addr, auth); err != nil {
		n.log.WithError(err).WithField("to", strings.Join(n.To, ",")).Error("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}
	n.log.WithField("subject", subject).Info("email sent")
	return nil
}

func (n *EmailNotifier) build(subject, body string) *email.Email {
	e := email.NewEmail()
	e.From = n.From
	e.To = n.To
	e.Subject = subject
	e.Text = []byte(StripTags(body))
	e.HTML = []byte("<html><body><pre style=\"font-family: sans-serif\">" + body + "</pre></body></html>")
	return e
}
