package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/africagold/goldintel/internal/config"
)

// runSetupPrompts collects credentials interactively and writes them to a
// .env file in the working directory. Existing values are offered as
// defaults so re-running setup never wipes configuration.
func runSetupPrompts(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name: "beehiiv_api_key",
			Prompt: &survey.Input{
				Message: "Beehiiv API key (blank to skip the API channel):",
				Default: cfg.BeehiivAPIKey,
			},
		},
		{
			Name: "beehiiv_pub_id",
			Prompt: &survey.Input{
				Message: "Beehiiv publication ID:",
				Default: cfg.BeehiivPubID,
			},
		},
		{
			Name: "beehiiv_email",
			Prompt: &survey.Input{
				Message: "Beehiiv dashboard email (for the browser channel):",
				Default: cfg.BeehiivEmail,
			},
		},
		{
			Name:   "beehiiv_password",
			Prompt: &survey.Password{Message: "Beehiiv dashboard password:"},
		},
		{
			Name: "notify_email",
			Prompt: &survey.Input{
				Message: "Gmail address for oversight notifications:",
				Default: cfg.NotifyEmail,
			},
			Validate: func(val interface{}) error {
				str := strings.TrimSpace(val.(string))
				if str != "" && !strings.Contains(str, "@") {
					return fmt.Errorf("not an email address")
				}
				return nil
			},
		},
		{
			Name:   "notify_password",
			Prompt: &survey.Password{Message: "Gmail app password:"},
		},
	}

	answers := struct {
		BeehiivAPIKey   string `survey:"beehiiv_api_key"`
		BeehiivPubID    string `survey:"beehiiv_pub_id"`
		BeehiivEmail    string `survey:"beehiiv_email"`
		BeehiivPassword string `survey:"beehiiv_password"`
		NotifyEmail     string `survey:"notify_email"`
		NotifyPassword  string `survey:"notify_password"`
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	apply := func(dst *string, val string) {
		if strings.TrimSpace(val) != "" {
			*dst = strings.TrimSpace(val)
		}
	}
	apply(&cfg.BeehiivAPIKey, answers.BeehiivAPIKey)
	apply(&cfg.BeehiivPubID, answers.BeehiivPubID)
	apply(&cfg.BeehiivEmail, answers.BeehiivEmail)
	apply(&cfg.BeehiivPassword, answers.BeehiivPassword)
	apply(&cfg.NotifyEmail, answers.NotifyEmail)
	apply(&cfg.NotifyPassword, answers.NotifyPassword)

	if err := writeEnvFile(cfg); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Credentials written to .env"))
	return nil
}

func promptConfirm(message string) (bool, error) {
	confirmed := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: true}, &confirmed)
	return confirmed, err
}

// writeEnvFile persists credentials with owner-only permissions. Only keys
// with values are written.
func writeEnvFile(cfg *config.Config) error {
	entries := [][2]string{
		{"BEEHIIV_API_KEY", cfg.BeehiivAPIKey},
		{"BEEHIIV_PUB_ID", cfg.BeehiivPubID},
		{"BEEHIIV_EMAIL", cfg.BeehiivEmail},
		{"BEEHIIV_PASSWORD", cfg.BeehiivPassword},
		{"NOTIFY_EMAIL", cfg.NotifyEmail},
		{"NOTIFY_PASSWORD", cfg.NotifyPassword},
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", entry[0], entry[1])
	}

	if err := os.WriteFile(".env", []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}
	return nil
}
