package distribution

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

// EmailChannel is the terminal fallback: it mails the full rendered issue
// to the operator so a run never silently loses content.
type EmailChannel struct {
	cfg  *config.Config
	send func(*gomail.Message) error
}

func NewEmailChannel(cfg *config.Config) *EmailChannel {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.NotifyEmail, cfg.NotifyPassword)
	return &EmailChannel{
		cfg:  cfg,
		send: func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Publish(issue *models.Issue, live bool) (*models.DeliveryResult, error) {
	if !c.cfg.HasSMTPCredentials() {
		return nil, ErrUnavailable
	}

	body := fmt.Sprintf(
		"<p><strong>Manual action needed:</strong> no publishing channel succeeded. "+
			"Paste the content below into the dashboard.</p><hr>%s<hr><h2>Premium section</h2>%s",
		issue.FreeHTML, issue.PremiumHTML)

	m := gomail.NewMessage()
	m.SetHeader("From", c.cfg.NotifyEmail)
	m.SetHeader("To", c.cfg.NotifyEmail)
	m.SetHeader("Subject", "[Manual publish] "+issue.Title)
	m.SetBody("text/html", body)

	if err := c.send(m); err != nil {
		return nil, fmt.Errorf("email fallback delivery: %w", err)
	}

	// No public locator exists for an emailed issue; downstream consumers
	// substitute the homepage for the missing URL.
	return &models.DeliveryResult{PostID: "email-delivery"}, nil
}
