package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/studyquiz/internal/download"
	"github.com/abhisek/studyquiz/internal/logging"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <quiz.json>",
	Short: "Export one version of a saved quiz as PDF, DOCX or TXT",
	Example: "  studyquiz export quiz.json --format pdf\n" +
		"  studyquiz export quiz.json --format all --version 2",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer log.Sync()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read quiz: %w", err)
		}
		result, err := quizapi.DecodeResult(data)
		if err != nil {
			return err
		}

		versionNum, _ := cmd.Flags().GetInt("version")
		questions, err := versionQuestions(result, versionNum)
		if err != nil {
			return err
		}

		formatFlag, _ := cmd.Flags().GetString("format")
		formats, err := parseFormats(formatFlag)
		if err != nil {
			return err
		}

		sink, err := download.FromConfig(cmd.Context(), cfg.Download)
		if err != nil {
			return fmt.Errorf("configure downloads: %w", err)
		}

		svc := quizapi.WithRecording(newClient(cfg), nil, log)
		return exportFormats(cmd.Context(), svc, sink, questions, formats, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", string(quizapi.FormatPDF), "Export format: pdf, docx, txt or all")
	exportCmd.Flags().Int("version", 1, "Quiz version to export")
}

// versionQuestions returns the questions of the version numbered n.
func versionQuestions(result quiz.Result, n int) ([]quiz.Question, error) {
	for _, v := range result {
		if v.Number == n {
			if len(v.Questions) == 0 {
				return nil, quizapi.ErrNoQuestions
			}
			return v.Questions, nil
		}
	}
	return nil, fmt.Errorf("quiz has no version %d (it has %d)", n, len(result))
}

func parseFormats(s string) ([]quizapi.Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return quizapi.Formats, nil
	}
	f, err := quizapi.ParseFormat(s)
	if err != nil {
		return nil, err
	}
	return []quizapi.Format{f}, nil
}

// exportFormats exports questions in each format in turn and reports where
// each file was saved. It stops at the first failure.
func exportFormats(ctx context.Context, svc quizapi.Service, sink download.Sink, questions []quiz.Question, formats []quizapi.Format, w io.Writer) error {
	for _, f := range formats {
		loc, err := session.ExportTo(ctx, svc, sink, questions, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s to %s\n", f.FileName(), loc)
	}
	return nil
}
