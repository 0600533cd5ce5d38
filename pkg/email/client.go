package email

import (
	"context"
	"crypto/tls"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/medibook_backend/config"
)

// Client delivers operations mail over SMTP.
type Client struct {
	cfg Config
}

// NewFromCentral creates a new email client from central config
func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

// New validates cfg. A disabled client needs no SMTP settings.
func New(cfg Config) (*Client, error) {
	cfg.OpsRecipients = cleanAddrs(cfg.OpsRecipients)
	if cfg.Enabled {
		if strings.TrimSpace(cfg.From) == "" {
			return nil, ErrInvalidConfig{Reason: "from is required"}
		}
		if strings.TrimSpace(cfg.SMTPHost) == "" {
			return nil, ErrInvalidConfig{Reason: "smtp host is required"}
		}
	}
	return &Client{cfg: cfg}, nil
}

// OpsRecipients returns the addresses that receive payment escalations.
func (c *Client) OpsRecipients() []string {
	return c.cfg.OpsRecipients
}

// Enabled reports whether Send will attempt delivery.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled
}

// Send delivers m, giving up at the SMTP timeout or when ctx ends, whichever
// comes first. gomail has no context support, so an abandoned dial finishes
// in the background.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled{}
	}

	msg, err := buildMessage(c.cfg.From, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	d := c.newDialer()
	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Host: c.cfg.SMTPHost, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) newDialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	// Port 465 speaks TLS from the first byte; other ports upgrade via STARTTLS.
	d.SSL = c.cfg.SMTPUseTLS && c.cfg.SMTPPort == 465
	d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	return d
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, ErrInvalidMessage{Reason: "from is required"}
	}
	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	}
	subj := strings.TrimSpace(m.Subject)
	if subj == "" {
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subj)
	for k, v := range m.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			msg.SetHeader(k, v)
		}
	}

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}
	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
