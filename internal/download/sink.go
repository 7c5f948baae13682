// Package download saves exported quiz documents.
package download

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/studyquiz/internal/config"
)

// ErrBadName is returned for names that are not a plain file name.
var ErrBadName = errors.New("invalid file name")

// Sink stores a finished document and returns where it ended up.
// contentType is the document's media type; an empty value lets the sink
// detect it. A failed Save leaves nothing behind under name.
type Sink interface {
	Save(ctx context.Context, name, contentType string, data []byte) (location string, err error)
}

// FromConfig returns the S3 sink when a bucket is configured, else a
// filesystem sink rooted at cfg.Dir.
func FromConfig(ctx context.Context, cfg config.DownloadConfig) (Sink, error) {
	if cfg.S3.Enabled() {
		return NewS3Sink(ctx, cfg.S3)
	}
	return NewFSSink(cfg.Dir)
}

// FSSink writes documents into a directory.
type FSSink struct {
	dir string
}

// NewFSSink creates dir if needed and returns a sink writing into it.
func NewFSSink(dir string) (*FSSink, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve download dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	return &FSSink{dir: abs}, nil
}

// Dir returns the absolute directory documents are written to.
func (s *FSSink) Dir() string { return s.dir }

// Save writes data to a temporary file next to the target, verifies it and
// renames it into place, replacing any earlier document of the same name.
func (s *FSSink) Save(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp(s.dir, ".studyquiz-export-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	tmpFile := filepath.Join(tmpDir, name)
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	written, err := os.ReadFile(tmpFile)
	if err != nil {
		return "", fmt.Errorf("re-read temp file: %w", err)
	}
	want, got := sha256.Sum256(data), sha256.Sum256(written)
	if !bytes.Equal(want[:], got[:]) {
		return "", errors.New("temp file does not match exported document")
	}

	target := filepath.Join(s.dir, name)
	if err := os.Rename(tmpFile, target); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}
	return target, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}
