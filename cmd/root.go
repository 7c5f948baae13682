package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/abhisek/studyquiz/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyquiz",
	Short: "Turn study notes into editable quizzes",
	Long: "StudyQuiz sends pasted notes or a document to a quiz generation service,\n" +
		"lets you review and edit every version it returns, and exports the result\n" +
		"as PDF, DOCX or TXT.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("base-url", "", "Quiz service base URL (overrides STUDYQUIZ_BASE_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (overrides STUDYQUIZ_TIMEOUT)")
	rootCmd.PersistentFlags().String("download-dir", "", "Directory for exported files (overrides STUDYQUIZ_DOWNLOAD_DIR)")
	rootCmd.PersistentFlags().String("log-file", "", "Write structured logs to this file (overrides STUDYQUIZ_LOG_FILE)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration: defaults, then the --config file,
// then .env and STUDYQUIZ_* variables, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Service.Timeout = v
	}
	if v, _ := cmd.Flags().GetString("download-dir"); v != "" {
		cfg.Download.Dir = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// serviceHost returns the host part of the service URL for display.
func serviceHost(cfg config.Config) string {
	u, err := url.Parse(cfg.Service.BaseURL)
	if err != nil || u.Host == "" {
		return cfg.Service.BaseURL
	}
	return u.Host
}

func formatLatency(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
