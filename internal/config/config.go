// Package config loads studyquiz settings from defaults, an optional YAML
// file, a .env file and STUDYQUIZ_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "STUDYQUIZ_"

// Config holds all studyquiz configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Download DownloadConfig `yaml:"download"`
	Log      LogConfig      `yaml:"log"`
}

// ServiceConfig locates the quiz generation and export endpoints.
type ServiceConfig struct {
	BaseURL      string        `yaml:"base_url"`
	GeneratePath string        `yaml:"generate_path"`
	ExportPath   string        `yaml:"export_path"`
	Timeout      time.Duration `yaml:"timeout"`
	// MaxResponseMB caps the size of a service response body.
	MaxResponseMB int `yaml:"max_response_mb"`
}

// DownloadConfig controls where exported documents are saved.
type DownloadConfig struct {
	// Dir receives exported files when no bucket is configured.
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

// S3Config configures the optional bucket sink. Exports go to the bucket
// only when Bucket is set.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // e.g. https://<account>.r2.cloudflarestorage.com
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// Enabled reports whether exports should be uploaded to a bucket.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// LogConfig configures the file logger.
type LogConfig struct {
	File  string `yaml:"file"` // empty disables logging
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:      "http://127.0.0.1:5000",
			GeneratePath: "/api/generate-quiz",
			ExportPath:   "/api/export-quiz",
			Timeout:       5 * time.Minute,
			MaxResponseMB: 64,
		},
		Download: DownloadConfig{
			Dir: ".",
			S3: S3Config{
				Region: "auto",
				Prefix: "studyquiz/",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the .env file in the working directory if present, overlays
// the YAML file at path (when non-empty) on the defaults, then applies the
// environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path, cfg); err != nil {
			return Config{}, err
		}
	}
	cfg, err := applyEnv(cfg, os.Getenv)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path on base. Keys absent from the
// file keep base's values.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides cfg with the STUDYQUIZ_* variables that getenv reports.
// Values that fail to parse are reported together; cfg is returned with the
// well-formed values applied.
func applyEnv(cfg Config, getenv func(string) string) (Config, error) {
	var errs []error
	lookup := func(name string) string {
		return strings.TrimSpace(getenv(EnvPrefix + name))
	}
	str := func(name string, dst *string) {
		if v := lookup(name); v != "" {
			*dst = v
		}
	}

	str("BASE_URL", &cfg.Service.BaseURL)
	str("GENERATE_PATH", &cfg.Service.GeneratePath)
	str("EXPORT_PATH", &cfg.Service.ExportPath)
	if v := lookup("TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		} else {
			cfg.Service.Timeout = d
		}
	}
	if v := lookup("MAX_RESPONSE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_RESPONSE_MB: %w", EnvPrefix, err))
		} else {
			cfg.Service.MaxResponseMB = n
		}
	}

	str("DOWNLOAD_DIR", &cfg.Download.Dir)
	str("S3_BUCKET", &cfg.Download.S3.Bucket)
	str("S3_REGION", &cfg.Download.S3.Region)
	str("S3_ENDPOINT", &cfg.Download.S3.Endpoint)
	str("S3_ACCESS_KEY_ID", &cfg.Download.S3.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &cfg.Download.S3.SecretAccessKey)
	str("S3_PREFIX", &cfg.Download.S3.Prefix)
	if v := lookup("S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err != nil {
			errs = append(errs, fmt.Errorf("%sS3_PATH_STYLE: %w", EnvPrefix, err))
		} else {
			cfg.Download.S3.UsePathStyle = b
		}
	}

	str("LOG_FILE", &cfg.Log.File)
	str("LOG_LEVEL", &cfg.Log.Level)

	if err := errors.Join(errs...); err != nil {
		return cfg, fmt.Errorf("malformed environment: %w", err)
	}
	return cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%sBASE_URL must be an http(s) URL, got %q", EnvPrefix, c.Service.BaseURL)
	}
	for name, p := range map[string]string{"GENERATE_PATH": c.Service.GeneratePath, "EXPORT_PATH": c.Service.ExportPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s%s must start with /, got %q", EnvPrefix, name, p)
		}
	}
	if c.Service.Timeout <= 0 {
		return fmt.Errorf("%sTIMEOUT must be positive, got %s", EnvPrefix, c.Service.Timeout)
	}
	if c.Service.MaxResponseMB <= 0 {
		return fmt.Errorf("%sMAX_RESPONSE_MB must be positive, got %d", EnvPrefix, c.Service.MaxResponseMB)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%sLOG_LEVEL must be debug, info, warn or error, got %q", EnvPrefix, c.Log.Level)
	}

	s3 := c.Download.S3
	if !s3.Enabled() {
		if c.Download.Dir == "" {
			return fmt.Errorf("%sDOWNLOAD_DIR is required when no bucket is configured", EnvPrefix)
		}
		return nil
	}
	if (s3.AccessKeyID == "") != (s3.SecretAccessKey == "") {
		return fmt.Errorf("%sS3_ACCESS_KEY_ID and %sS3_SECRET_ACCESS_KEY must be set together", EnvPrefix, EnvPrefix)
	}
	if s3.Endpoint != "" {
		if u, err := url.Parse(s3.Endpoint); err != nil || u.Host == "" {
			return fmt.Errorf("%sS3_ENDPOINT is not a valid URL: %q", EnvPrefix, s3.Endpoint)
		}
	}
	return nil
}
