package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Directories. The fallback pair is used when InputDir does not exist.
	InputDir          string
	OutputDir         string
	FallbackInputDir  string
	FallbackOutputDir string

	// Glob patterns matched against file names in the input directory.
	InputPatterns []string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Classification
	MaxCandidateLength    int
	TitleFallback         bool
	MetadataTitleFallback bool

	// json, markdown or html
	OutputFormat string

	// HTTP
	Port           string
	APIKey         string
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Watch mode
	WatchDebounce time.Duration

	// Logging
	LogFormat string
	LogLevel  string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		InputDir:          "/app/input",
		OutputDir:         "/app/output",
		FallbackInputDir:  "./input",
		FallbackOutputDir: "./output",
		InputPatterns:     []string{"*.pdf"},

		WorkerCount:  1,
		MaxQueueSize: 100,

		MaxCandidateLength: 100,

		OutputFormat: "json",

		Port:           "8090",
		MaxUploadBytes: 52428800, // 50MB

		JobTTL:        1 * time.Hour,
		WatchDebounce: 500 * time.Millisecond,

		LogFormat: "json",
		LogLevel:  "info",
	}
}

// Load reads the configuration from the environment only.
func Load() Config {
	cfg := Defaults()
	cfg.applyEnv()
	cfg.normalize()
	return cfg
}

// LoadFile layers a TOML or YAML file between the defaults and the
// environment. An empty path is the same as Load.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.InputDir = envOr("INPUT_DIR", c.InputDir)
	c.OutputDir = envOr("OUTPUT_DIR", c.OutputDir)
	c.FallbackInputDir = envOr("FALLBACK_INPUT_DIR", c.FallbackInputDir)
	c.FallbackOutputDir = envOr("FALLBACK_OUTPUT_DIR", c.FallbackOutputDir)
	c.InputPatterns = envList("INPUT_PATTERNS", c.InputPatterns)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)

	c.MaxCandidateLength = envInt("MAX_CANDIDATE_LENGTH", c.MaxCandidateLength)
	c.TitleFallback = envBool("TITLE_FALLBACK", c.TitleFallback)
	c.MetadataTitleFallback = envBool("METADATA_TITLE_FALLBACK", c.MetadataTitleFallback)

	c.OutputFormat = envOr("OUTPUT_FORMAT", c.OutputFormat)

	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("API_KEY", c.APIKey)
	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)

	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)
	c.WatchDebounce = envDuration("WATCH_DEBOUNCE", c.WatchDebounce)

	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
}

// normalize restores defaults for values that cannot be zero.
func (c *Config) normalize() {
	d := Defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = d.WatchDebounce
	}
	if len(c.InputPatterns) == 0 {
		c.InputPatterns = d.InputPatterns
	}
	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

func (c Config) Validate() error {
	switch c.OutputFormat {
	case "json", "markdown", "md", "html":
	default:
		return fmt.Errorf("OUTPUT_FORMAT must be json, markdown or html, got %q", c.OutputFormat)
	}
	if c.MaxCandidateLength <= 0 {
		return fmt.Errorf("MAX_CANDIDATE_LENGTH must be positive, got %d", c.MaxCandidateLength)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		if list := splitList(v); len(list) > 0 {
			return list
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
