package distribution

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

const (
	beehiivApp  = "https://app.beehiiv.com"
	navTimeout  = 60 * time.Second
	elemTimeout = 15 * time.Second
)

// BrowserChannel drives the Beehiiv dashboard through headless Chrome when
// the API channel is unavailable. It relies on a trusted session persisted
// by the setup command; an expired session fails and falls through, it
// never attempts an interactive challenge mid-run.
type BrowserChannel struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewBrowserChannel(cfg *config.Config, logger *zap.Logger) *BrowserChannel {
	return &BrowserChannel{cfg: cfg, logger: logger}
}

func (c *BrowserChannel) Name() string { return "beehiiv_browser" }

func (c *BrowserChannel) Publish(issue *models.Issue, live bool) (result *models.DeliveryResult, err error) {
	if !c.cfg.HasBrowserCredentials() {
		return nil, ErrUnavailable
	}
	cookies, err := loadCookies(c.cfg.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("no persisted session, run setup first: %w", ErrUnavailable)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("browser automation: %v", r)
		}
	}()

	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	if err := browser.SetCookies(cookies); err != nil {
		return nil, fmt.Errorf("restore session cookies: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.Timeout(navTimeout).Navigate(beehiivApp + "/posts/new"); err != nil {
		return nil, fmt.Errorf("open editor: %w", err)
	}
	page.Timeout(navTimeout).WaitLoad()

	if c.onSignInPage(page) {
		return nil, fmt.Errorf("persisted session expired, run setup to refresh it")
	}

	if err := c.fillEditor(page, issue); err != nil {
		return nil, err
	}

	postURL, err := c.finalize(page, live)
	if err != nil {
		return nil, err
	}

	// Refresh the persisted session so the next run inherits extended
	// cookie lifetimes.
	if err := saveCookies(browser, c.cfg.SessionPath); err != nil {
		c.logger.Warn("could not refresh persisted session", zap.Error(err))
	}

	// A missing URL is still a successful publish; the caller substitutes
	// a safe default link.
	return &models.DeliveryResult{
		PostID:  "browser-post",
		PostURL: postURL,
	}, nil
}

func (c *BrowserChannel) onSignInPage(page *rod.Page) bool {
	info, err := page.Info()
	if err != nil {
		return false
	}
	has, _, _ := page.Has(`input[type="email"], input[name="email"]`)
	return has || strings.Contains(info.URL, "sign-in") || strings.Contains(info.URL, "login")
}

func (c *BrowserChannel) fillEditor(page *rod.Page, issue *models.Issue) error {
	titleEl, err := page.Timeout(elemTimeout).Element(`textarea[placeholder*="title" i], [data-testid="post-title"], h1[contenteditable="true"]`)
	if err != nil {
		return fmt.Errorf("post editor did not load: %w", err)
	}
	if err := titleEl.Input(issue.Title); err != nil {
		return fmt.Errorf("enter title: %w", err)
	}

	bodyEl, err := page.Timeout(elemTimeout).Element(`[contenteditable="true"].ProseMirror, [data-testid="editor"] [contenteditable="true"]`)
	if err != nil {
		return fmt.Errorf("editor body not found: %w", err)
	}
	// The rich editor accepts pasted HTML; set it directly on the node.
	combined := issue.FreeHTML + issue.PremiumHTML
	if _, err := bodyEl.Eval(`(html) => { this.innerHTML = html }`, combined); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (c *BrowserChannel) finalize(page *rod.Page, live bool) (string, error) {
	label := "Save draft"
	if live {
		label = "Publish"
	}
	btn, err := page.Timeout(elemTimeout).ElementR("button", label)
	if err != nil {
		return "", fmt.Errorf("%s control not found: %w", label, err)
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", fmt.Errorf("click %s: %w", label, err)
	}
	page.Timeout(navTimeout).WaitLoad()

	info, err := page.Info()
	if err != nil {
		return "", nil
	}
	// Editor URLs are internal; only a public post URL is worth recording.
	if strings.Contains(info.URL, "/posts/") && !strings.Contains(info.URL, "/new") {
		return info.URL, nil
	}
	return "", nil
}

// Login establishes the trusted session interactively in a visible browser
// window and persists its cookies. Called from the setup command only.
func (c *BrowserChannel) Login() error {
	if !c.cfg.HasBrowserCredentials() {
		return fmt.Errorf("BEEHIIV_EMAIL and BEEHIIV_PASSWORD must be set")
	}

	controlURL, err := launcher.New().Headless(false).Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: beehiivApp + "/sign-in"})
	if err != nil {
		return fmt.Errorf("open sign-in page: %w", err)
	}
	page.Timeout(navTimeout).WaitLoad()

	emailEl, err := page.Timeout(elemTimeout).Element(`input[type="email"], input[name="email"]`)
	if err != nil {
		return fmt.Errorf("sign-in form not found: %w", err)
	}
	if err := emailEl.Input(c.cfg.BeehiivEmail); err != nil {
		return fmt.Errorf("enter email: %w", err)
	}

	// Two-step layouts reveal the password field after the first submit.
	if has, pwdEl, _ := page.Has(`input[type="password"]`); has {
		if err := pwdEl.Input(c.cfg.BeehiivPassword); err != nil {
			return fmt.Errorf("enter password: %w", err)
		}
		if err := submitForm(page); err != nil {
			return err
		}
	} else {
		if err := submitForm(page); err != nil {
			return err
		}
		pwdEl, err := page.Timeout(elemTimeout).Element(`input[type="password"]`)
		if err != nil {
			return fmt.Errorf("password field did not appear: %w", err)
		}
		if err := pwdEl.Input(c.cfg.BeehiivPassword); err != nil {
			return fmt.Errorf("enter password: %w", err)
		}
		if err := submitForm(page); err != nil {
			return err
		}
	}

	// Give the operator time to clear any verification challenge manually.
	if _, err := page.Timeout(2 * time.Minute).Element(`nav, [data-testid="sidebar"], a[href*="/posts"]`); err != nil {
		return fmt.Errorf("login did not reach the dashboard: %w", err)
	}

	if err := saveCookies(browser, c.cfg.SessionPath); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	c.logger.Info("trusted browser session persisted", zap.String("path", c.cfg.SessionPath))
	return nil
}

func submitForm(page *rod.Page) error {
	btn, err := page.Timeout(elemTimeout).Element(`button[type="submit"]`)
	if err != nil {
		return fmt.Errorf("submit control not found: %w", err)
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("submit form: %w", err)
	}
	page.Timeout(navTimeout).WaitLoad()
	return nil
}

func loadCookies(path string) ([]*proto.NetworkCookieParam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cookies []*proto.NetworkCookieParam
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("session file holds no cookies")
	}
	return cookies, nil
}

func saveCookies(browser *rod.Browser, path string) error {
	cookies, err := browser.GetCookies()
	if err != nil {
		return err
	}

	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, ck := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     ck.Name,
			Value:    ck.Value,
			Domain:   ck.Domain,
			Path:     ck.Path,
			Expires:  ck.Expires,
			HTTPOnly: ck.HTTPOnly,
			Secure:   ck.Secure,
			SameSite: ck.SameSite,
			Priority: ck.Priority,
		})
	}

	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
