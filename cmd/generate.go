package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/studyquiz/internal/logging"
	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/source"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz without the TUI and print it as JSON",
	Example: "  studyquiz generate --file notes.pdf -n 15 --types mixed -v 2 -o quiz.json\n" +
		"  studyquiz generate --text \"Photosynthesis converts light into energy.\"",
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

		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		src, err := selectSource(text, file)
		if err != nil {
			return err
		}

		opts, err := optionsFromFlags(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("out")

		svc := quizapi.WithRecording(newClient(cfg), nil, log)
		start := time.Now()
		n, err := generateTo(cmd.Context(), svc, src, opts, path, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d version(s) in %s\n", n, formatLatency(time.Since(start)))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("text", "", "Study material as text")
	generateCmd.Flags().String("file", "", "Study material file (PDF, DOCX, PPTX or TXT)")
	generateCmd.Flags().IntP("questions", "n", options.Default().QuestionCount, "Number of questions per version (1-40)")
	generateCmd.Flags().StringP("types", "t", string(options.Default().TypeMix), "Question types: mcq_only, fill_only or mixed")
	generateCmd.Flags().IntP("versions", "v", options.Default().VersionCount, "Number of quiz versions (1-7)")
	generateCmd.Flags().StringP("out", "o", "", "Write the quiz JSON to this file instead of stdout")
	generateCmd.MarkFlagsMutuallyExclusive("text", "file")
	generateCmd.MarkFlagsOneRequired("text", "file")
}

// selectSource builds the source the same way the TUI does, so the same
// limits and accepted types apply.
func selectSource(text, file string) (source.Source, error) {
	var sel source.Selector
	if file != "" {
		f, err := source.LoadFile(file)
		if err != nil {
			return nil, err
		}
		sel.SetMode(source.ModeFile)
		if err := sel.SelectFile(f); err != nil {
			return nil, err
		}
	} else if err := sel.SelectText(text); err != nil {
		return nil, err
	}
	if !sel.Ready() {
		return nil, quizapi.ErrNoSource
	}
	return sel.Current(), nil
}

func optionsFromFlags(cmd *cobra.Command) (options.Options, error) {
	n, _ := cmd.Flags().GetInt("questions")
	v, _ := cmd.Flags().GetInt("versions")
	t, _ := cmd.Flags().GetString("types")
	return buildOptions(n, t, v)
}

func buildOptions(questions int, types string, versions int) (options.Options, error) {
	if questions < options.MinQuestions || questions > options.MaxQuestions {
		return options.Options{}, fmt.Errorf("questions must be between %d and %d, got %d", options.MinQuestions, options.MaxQuestions, questions)
	}
	if versions < options.MinVersions || versions > options.MaxVersions {
		return options.Options{}, fmt.Errorf("versions must be between %d and %d, got %d", options.MinVersions, options.MaxVersions, versions)
	}
	mix, err := options.ParseTypeMix(types)
	if err != nil {
		return options.Options{}, err
	}
	return options.Default().
		WithQuestionCount(questions).
		WithTypeMix(mix).
		WithVersionCount(versions), nil
}

// generateTo runs one generation and writes the result as JSON to path, or
// to stdout when path is empty. Nothing is written unless the generation
// succeeds. It returns the number of versions written.
func generateTo(ctx context.Context, svc quizapi.Service, src source.Source, opts options.Options, path string, stdout io.Writer) (int, error) {
	result, err := svc.Generate(ctx, src, opts)
	if err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, errors.New("service returned no quiz versions")
	}
	data, err := quizapi.EncodeResult(result)
	if err != nil {
		return 0, fmt.Errorf("encode quiz: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return 0, fmt.Errorf("write quiz: %w", err)
		}
		return len(result), nil
	}
	if err := writeFileAtomic(path, data); err != nil {
		return 0, err
	}
	return len(result), nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so an existing file is either fully replaced or left as it was.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".studyquiz-*.json")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}
