package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D4AF37")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D4AF37")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D4AF37")).
			Padding(0, 2).
			Width(72)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

var statusStyles = map[models.RunStatus]lipgloss.Style{
	models.StatusSuccess: successStyle,
	models.StatusFailed:  errorStyle,
	models.StatusHalted:  warnStyle,
	models.StatusDryRun:  dimStyle,
}

func displayRunBanner(postType string, dryRun, live bool) {
	mode := "draft"
	if live {
		mode = "LIVE"
	}
	if dryRun {
		mode = "dry run"
	}
	edition := postType
	if edition == "" {
		edition = "scheduled"
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Africa Gold Intelligence · %s edition · %s", edition, mode)))
}

// displayRunLog prints recent run records, newest last.
func displayRunLog(records []models.RunRecord) {
	if len(records) == 0 {
		fmt.Println(dimStyle.Render("no runs recorded yet"))
		return
	}

	fmt.Println(titleStyle.Render("Recent pipeline runs"))
	for _, rec := range records {
		style, ok := statusStyles[rec.Status]
		if !ok {
			style = dimStyle
		}

		line := fmt.Sprintf("%s  %-8s %-20s", rec.Timestamp.Format("2006-01-02 15:04"), rec.Status, rec.PostType)
		if rec.GoldPrice > 0 {
			line += fmt.Sprintf("  $%.2f (%+.2f%%)", rec.GoldPrice, rec.DayPct)
		}
		if rec.Channel != "" {
			line += "  via " + rec.Channel
		}
		if rec.UpsellStrategy != "" && rec.UpsellStrategy != "none" {
			line += "  upsell:" + rec.UpsellStrategy
		}
		fmt.Println(style.Render(line))

		if rec.Error != "" {
			fmt.Println(dimStyle.Render("    " + rec.Error))
		}
		for _, w := range rec.Warnings {
			fmt.Println(warnStyle.Render("    warn: " + w))
		}
	}
}

func displayConfig(cfg *config.Config) {
	fmt.Println(titleStyle.Render("goldintel configuration"))
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("Data directory:     %s\n", cfg.DataDir)
	fmt.Printf("Cache directory:    %s\n", cfg.CacheDir)
	fmt.Printf("Run log:            %s\n", cfg.LogPath)
	fmt.Printf("Session file:       %s\n", cfg.SessionPath)
	fmt.Println()
	fmt.Printf("Price band:         $%.0f - $%.0f\n", cfg.PriceFloor, cfg.PriceCeiling)
	fmt.Printf("Day move limit:     %.0f%%\n", cfg.DayMovePctLimit)
	fmt.Printf("Promo cooldown:     %d days\n", cfg.PromoCooldownDays)
	fmt.Printf("Hard cooldown:      %d days\n", cfg.HardCooldownDays)
	fmt.Printf("Pricing:            $%.0f/mo, $%.0f/yr, $%.0f promo\n", cfg.MonthlyPrice, cfg.AnnualPrice, cfg.PromoPrice)
	fmt.Println()
	fmt.Printf("Cache enabled:      %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug:              %t\n", cfg.Debug)
	fmt.Println()

	fmt.Println(titleStyle.Render("Credentials"))
	fmt.Println(strings.Repeat("─", 48))
	printCredential("Beehiiv API", cfg.HasAPICredentials())
	printCredential("Beehiiv browser login", cfg.HasBrowserCredentials())
	printCredential("SMTP notifications", cfg.HasSMTPCredentials())
}

func printCredential(name string, configured bool) {
	if configured {
		fmt.Printf("%-24s %s\n", name+":", successStyle.Render("configured"))
		return
	}
	fmt.Printf("%-24s %s\n", name+":", dimStyle.Render("not configured"))
}
