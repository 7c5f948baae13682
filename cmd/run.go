package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/studyquiz/internal/app"
	"github.com/abhisek/studyquiz/internal/config"
	"github.com/abhisek/studyquiz/internal/download"
	"github.com/abhisek/studyquiz/internal/logging"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/store"
	"github.com/spf13/cobra"
)

// runApp builds the session dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Sync()

	// Request history lives for this session only.
	st, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	sink, err := download.FromConfig(ctx, cfg.Download)
	if err != nil {
		return fmt.Errorf("configure downloads: %w", err)
	}

	svc := quizapi.WithRecording(newClient(cfg), eventRepo, log)
	sess := session.New(svc, sink, eventRepo, log)

	log.Info("studyquiz started", "version", version, "service", cfg.Service.BaseURL)
	if err := app.Run(sess, serviceHost(cfg)); err != nil {
		return err
	}
	if cfg.Log.File != "" {
		fmt.Fprintln(os.Stderr, "Log written to", cfg.Log.File)
	}
	return nil
}

func newClient(cfg config.Config) *quizapi.Client {
	return quizapi.NewClient(cfg.Service.BaseURL,
		quizapi.WithPaths(cfg.Service.GeneratePath, cfg.Service.ExportPath),
		quizapi.WithTimeout(cfg.Service.Timeout),
		quizapi.WithMaxResponseBytes(int64(cfg.Service.MaxResponseMB)<<20),
	)
}
