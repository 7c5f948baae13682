package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/api/generate-quiz", cfg.Service.GeneratePath)
	assert.False(t, cfg.Download.S3.Enabled())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STUDYQUIZ_BASE_URL":        "https://quiz.example.com",
		"STUDYQUIZ_TIMEOUT":         "45s",
		"STUDYQUIZ_MAX_RESPONSE_MB": "8",
		"STUDYQUIZ_S3_BUCKET":       "exports",
		"STUDYQUIZ_S3_PATH_STYLE":   "true",
		"STUDYQUIZ_LOG_LEVEL":       "debug",
	}

	cfg, err := applyEnv(DefaultConfig(), func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "https://quiz.example.com", cfg.Service.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Service.Timeout)
	assert.Equal(t, 8, cfg.Service.MaxResponseMB)
	assert.True(t, cfg.Download.S3.Enabled())
	assert.True(t, cfg.Download.S3.UsePathStyle)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/api/export-quiz", cfg.Service.ExportPath, "unset keeps default")
}

func TestApplyEnv_ReportsMalformed(t *testing.T) {
	env := map[string]string{
		"STUDYQUIZ_TIMEOUT":         "soon",
		"STUDYQUIZ_MAX_RESPONSE_MB": "lots",
		"STUDYQUIZ_S3_PATH_STYLE":   "maybe",
		"STUDYQUIZ_LOG_LEVEL":       "warn",
	}
	cfg, err := applyEnv(DefaultConfig(), func(k string) string { return env[k] })
	require.Error(t, err)
	assert.ErrorContains(t, err, "STUDYQUIZ_TIMEOUT")
	assert.ErrorContains(t, err, "STUDYQUIZ_MAX_RESPONSE_MB")
	assert.ErrorContains(t, err, "STUDYQUIZ_S3_PATH_STYLE")
	assert.Equal(t, DefaultConfig().Service.Timeout, cfg.Service.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MalformedEnvFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STUDYQUIZ_TIMEOUT", "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, "STUDYQUIZ_TIMEOUT")
}

func TestLoadFile_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyquiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  base_url: http://quiz.internal:8080
  timeout: 90s
download:
  dir: /tmp/quizzes
  s3:
    bucket: team-quizzes
    endpoint: https://acct.r2.cloudflarestorage.com
log:
  file: /tmp/studyquiz.log
`), 0o644))

	cfg, err := LoadFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "http://quiz.internal:8080", cfg.Service.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.Service.Timeout)
	assert.Equal(t, "/api/generate-quiz", cfg.Service.GeneratePath)
	assert.Equal(t, "/tmp/quizzes", cfg.Download.Dir)
	assert.Equal(t, "team-quizzes", cfg.Download.S3.Bucket)
	assert.Equal(t, "auto", cfg.Download.S3.Region)
	assert.Equal(t, "/tmp/studyquiz.log", cfg.Log.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), DefaultConfig())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [unterminated"), 0o644))
	_, err = LoadFile(path, DefaultConfig())
	assert.Error(t, err)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service:\n  base_url: http://from-file:1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STUDYQUIZ_LOG_LEVEL=warn\n"), 0o644))
	t.Setenv("STUDYQUIZ_BASE_URL", "http://from-env:2")
	t.Cleanup(func() { os.Unsetenv("STUDYQUIZ_LOG_LEVEL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:2", cfg.Service.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad base url", func(c *Config) { c.Service.BaseURL = "quiz.example.com" }},
		{"relative path", func(c *Config) { c.Service.ExportPath = "api/export" }},
		{"zero timeout", func(c *Config) { c.Service.Timeout = 0 }},
		{"zero response cap", func(c *Config) { c.Service.MaxResponseMB = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
		{"no download dir", func(c *Config) { c.Download.Dir = "" }},
		{"half credentials", func(c *Config) {
			c.Download.S3.Bucket = "b"
			c.Download.S3.AccessKeyID = "id"
		}},
		{"bad endpoint", func(c *Config) {
			c.Download.S3.Bucket = "b"
			c.Download.S3.Endpoint = "::"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
