package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for TOML and YAML files. Pointer fields tell an
// absent key apart from a zero value.
type fileConfig struct {
	InputDir          *string  `toml:"input_dir" yaml:"input_dir"`
	OutputDir         *string  `toml:"output_dir" yaml:"output_dir"`
	FallbackInputDir  *string  `toml:"fallback_input_dir" yaml:"fallback_input_dir"`
	FallbackOutputDir *string  `toml:"fallback_output_dir" yaml:"fallback_output_dir"`
	InputPatterns     []string `toml:"input_patterns" yaml:"input_patterns"`

	WorkerCount  *int `toml:"worker_count" yaml:"worker_count"`
	MaxQueueSize *int `toml:"max_queue_size" yaml:"max_queue_size"`

	MaxCandidateLength    *int  `toml:"max_candidate_length" yaml:"max_candidate_length"`
	TitleFallback         *bool `toml:"title_fallback" yaml:"title_fallback"`
	MetadataTitleFallback *bool `toml:"metadata_title_fallback" yaml:"metadata_title_fallback"`

	OutputFormat *string `toml:"output_format" yaml:"output_format"`

	Port           *string `toml:"port" yaml:"port"`
	APIKey         *string `toml:"api_key" yaml:"api_key"`
	MaxUploadBytes *int64  `toml:"max_upload_bytes" yaml:"max_upload_bytes"`

	JobTTL        *string `toml:"job_ttl" yaml:"job_ttl"`
	WatchDebounce *string `toml:"watch_debounce" yaml:"watch_debounce"`

	LogFormat *string `toml:"log_format" yaml:"log_format"`
	LogLevel  *string `toml:"log_level" yaml:"log_level"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("config %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return c.merge(fc)
}

func (c *Config) merge(fc fileConfig) error {
	setString(&c.InputDir, fc.InputDir)
	setString(&c.OutputDir, fc.OutputDir)
	setString(&c.FallbackInputDir, fc.FallbackInputDir)
	setString(&c.FallbackOutputDir, fc.FallbackOutputDir)
	if len(fc.InputPatterns) > 0 {
		c.InputPatterns = fc.InputPatterns
	}

	setInt(&c.WorkerCount, fc.WorkerCount)
	setInt(&c.MaxQueueSize, fc.MaxQueueSize)
	setInt(&c.MaxCandidateLength, fc.MaxCandidateLength)
	if fc.TitleFallback != nil {
		c.TitleFallback = *fc.TitleFallback
	}
	if fc.MetadataTitleFallback != nil {
		c.MetadataTitleFallback = *fc.MetadataTitleFallback
	}

	setString(&c.OutputFormat, fc.OutputFormat)
	setString(&c.Port, fc.Port)
	setString(&c.APIKey, fc.APIKey)
	if fc.MaxUploadBytes != nil {
		c.MaxUploadBytes = *fc.MaxUploadBytes
	}

	if err := setDuration(&c.JobTTL, fc.JobTTL, "job_ttl"); err != nil {
		return err
	}
	if err := setDuration(&c.WatchDebounce, fc.WatchDebounce, "watch_debounce"); err != nil {
		return err
	}

	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.LogLevel, fc.LogLevel)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("config %s: %w", key, err)
	}
	*dst = d
	return nil
}
