// Package notify closes every run with exactly one operator email: a
// draft-ready summary, a manual-action fallback carrying the full content,
// or a failure report. Notification delivery failure is itself non-fatal.
package notify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

const beehiivDrafts = "https://app.beehiiv.com/posts?tab=draft"

// Outcome carries everything the notifier needs about a finished run.
type Outcome struct {
	Issue    *models.Issue
	Delivery *models.DeliveryResult
	Attempts []models.DistributionAttempt
	Warnings []string
	Decision *models.MonetizationDecision
	Summary  string

	SocialDrafts   string
	OutreachDrafts []string

	FailedStage string
	Err         error
}

// Notifier sends the per-run oversight email.
type Notifier struct {
	cfg    *config.Config
	logger *zap.Logger
	send   func(*gomail.Message) error
}

func New(cfg *config.Config, logger *zap.Logger) *Notifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.NotifyEmail, cfg.NotifyPassword)
	return &Notifier{cfg: cfg, logger: logger, send: func(m *gomail.Message) error { return dialer.DialAndSend(m) }}
}

// Notify picks the outcome shape and sends one email. Missing credentials
// or a send failure are logged and swallowed; the run outcome stands.
func (n *Notifier) Notify(outcome Outcome) {
	if !n.cfg.HasSMTPCredentials() {
		n.logger.Warn("notification skipped, SMTP credentials not configured")
		return
	}

	var subject, body string
	switch {
	case outcome.Err != nil:
		subject, body = n.failureEmail(outcome)
	case outcome.Delivery != nil && outcome.Delivery.Channel == "email":
		subject, body = n.manualFallbackEmail(outcome)
	default:
		subject, body = n.draftReadyEmail(outcome)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.NotifyEmail)
	m.SetHeader("To", n.cfg.NotifyEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.send(m); err != nil {
		n.logger.Warn("oversight notification failed", zap.Error(err))
	}
}

func (n *Notifier) draftReadyEmail(outcome Outcome) (string, string) {
	title := "(untitled)"
	if outcome.Issue != nil {
		title = outcome.Issue.Title
	}

	cta := beehiivDrafts
	channel := "unknown"
	postID := ""
	if outcome.Delivery != nil {
		channel = outcome.Delivery.Channel
		postID = outcome.Delivery.PostID
		if outcome.Delivery.PostURL != "" {
			cta = outcome.Delivery.PostURL
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Draft ready: %s</h2>", title)
	fmt.Fprintf(&b, `<p>Delivered via <strong>%s</strong>. <a href="%s">Review and send</a>.</p>`, channel, cta)
	if postID != "" {
		fmt.Fprintf(&b, "<p>Post ID: <code>%s</code></p>", postID)
	}
	if outcome.Summary != "" {
		fmt.Fprintf(&b, "<p>%s</p>", outcome.Summary)
	}
	if outcome.Decision != nil {
		fmt.Fprintf(&b, "<p>Upsell score %d, strategy <strong>%s</strong>, pricing window %s.</p>",
			outcome.Decision.Score, outcome.Decision.Strategy, outcome.Decision.Window)
	}
	if outcome.SocialDrafts != "" {
		fmt.Fprintf(&b, "<h3>Social drafts</h3><pre>%s</pre>", outcome.SocialDrafts)
	}
	if len(outcome.OutreachDrafts) > 0 {
		b.WriteString("<h3>Partner outreach drafts</h3>")
		for _, draft := range outcome.OutreachDrafts {
			fmt.Fprintf(&b, "<pre>%s</pre>", draft)
		}
	}
	writeWarnings(&b, outcome.Warnings)

	return "[Draft ready] " + title, b.String()
}

func (n *Notifier) manualFallbackEmail(outcome Outcome) (string, string) {
	title := "(untitled)"
	if outcome.Issue != nil {
		title = outcome.Issue.Title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Manual action needed: %s</h2>", title)
	b.WriteString("<p>No programmatic channel succeeded; the full issue was emailed separately. Paste it into the dashboard.</p>")
	for _, att := range outcome.Attempts {
		if att.Err != "" {
			fmt.Fprintf(&b, "<p><strong>%s</strong>: %s</p>", att.Channel, att.Err)
		}
	}
	writeWarnings(&b, outcome.Warnings)

	return "[Manual action] " + title, b.String()
}

func (n *Notifier) failureEmail(outcome Outcome) (string, string) {
	stage := outcome.FailedStage
	if stage == "" {
		stage = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Pipeline failed at %s</h2>", stage)
	fmt.Fprintf(&b, "<p><code>%v</code></p>", outcome.Err)
	for _, att := range outcome.Attempts {
		if att.Err != "" {
			fmt.Fprintf(&b, "<p><strong>%s</strong>: %s</p>", att.Channel, att.Err)
		}
	}
	writeWarnings(&b, outcome.Warnings)

	return fmt.Sprintf("[Pipeline FAILED] stage: %s", stage), b.String()
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("<h3>Warnings</h3><ul>")
	for _, w := range warnings {
		fmt.Fprintf(b, "<li>%s</li>", w)
	}
	b.WriteString("</ul>")
}
