// Package cli wires the cobra command tree around the pipeline.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/distribution"
	"github.com/africagold/goldintel/internal/models"
	"github.com/africagold/goldintel/internal/pipeline"
	"github.com/africagold/goldintel/internal/runlog"
)

const version = "1.2.0"

// NewRootCmd creates the root command and all subcommands.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "goldintel",
		Short: "Africa Gold Intelligence - automated gold newsletter pipeline",
		Long: `goldintel runs the daily Africa Gold Intelligence newsletter pipeline:
it fetches gold market data, builds the day's edition, publishes it through
the Beehiiv channel chain, and records every run in an append-only log.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newLogCmd(cfg))
	rootCmd.AddCommand(newSetupCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daily newsletter pipeline once",
		Long: `Run one pipeline pass for today's scheduled edition.
Example: goldintel run --dry-run --post-type=macro_outlook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			live, _ := cmd.Flags().GetBool("publish")
			postType, _ := cmd.Flags().GetString("post-type")

			logger, err := buildLogger(cmd, cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			displayRunBanner(postType, dryRun, live)

			orch := pipeline.New(cfg, logger)
			if err := orch.Run(pipeline.Options{DryRun: dryRun, Live: live, PostType: postType}); err != nil {
				fmt.Println(errorStyle.Render("pipeline failed: " + err.Error()))
				return err
			}
			if dryRun {
				fmt.Println(successStyle.Render("Dry run complete, previews written under " + cfg.DataDir))
			} else {
				fmt.Println(successStyle.Render("Run complete, check your inbox for the oversight summary"))
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Build content and stop before distribution")
	cmd.Flags().Bool("publish", false, "Publish immediately instead of leaving a draft")
	cmd.Flags().String("post-type", "", fmt.Sprintf("Override the weekday schedule, one of: %v", models.ValidPostTypeNames()))

	return cmd
}

func newLogCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			records, err := runlog.New(cfg.LogPath).Recent(limit)
			if err != nil {
				return fmt.Errorf("read run log: %w", err)
			}
			displayRunLog(records)
			return nil
		},
	}
	cmd.Flags().Int("limit", 14, "Number of recent runs to show")
	return cmd
}

func newSetupCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive credential setup and Beehiiv browser login",
		Long: `Walk through credential configuration, write the .env file, and
optionally open a browser to capture a Beehiiv dashboard session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(cmd, cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := runSetupPrompts(cfg); err != nil {
				return err
			}

			doLogin, err := promptConfirm("Log in to Beehiiv now to capture a browser session?")
			if err != nil {
				return err
			}
			if !doLogin {
				fmt.Println(successStyle.Render("Setup complete"))
				return nil
			}

			browser := distribution.NewBrowserChannel(cfg, logger)
			if err := browser.Login(); err != nil {
				return fmt.Errorf("beehiiv login: %w", err)
			}
			fmt.Println(successStyle.Render("Session saved to " + cfg.SessionPath))
			return nil
		},
	}
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			displayConfig(cfg)
		},
	})

	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("goldintel v%s\n", version)
			fmt.Println("Africa Gold Intelligence newsletter pipeline")
		},
	}
}

func buildLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	debug := cfg.Debug
	if flag, _ := cmd.Flags().GetBool("debug"); flag {
		debug = true
	}
	if debug {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	return zcfg.Build()
}
