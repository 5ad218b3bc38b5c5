// Package config loads textract-annotator settings from files, environment
// variables and flags, and converts them into the types used by the other packages.
package config

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
	"github.com/MeKo-Tech/textract-annotator/internal/batch"
	"github.com/MeKo-Tech/textract-annotator/internal/ocr"
	"github.com/MeKo-Tech/textract-annotator/internal/version"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Retry: RetryConfig{
			MaxRetries: ocr.DefaultMaxRetries,
			BaseDelay:  ocr.DefaultBaseDelay,
		},
		Annotation: AnnotationConfig{
			Color: "#FF0000",
			Width: 2,
		},
		Batch: BatchConfig{
			Workers:         1,
			Recursive:       false,
			ContinueOnError: false,
			SummaryFormat:   "text",
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Retry.MaxRetries < 1 {
		return fmt.Errorf("invalid retry.max_retries: %d (must be at least 1)", c.Retry.MaxRetries)
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("invalid retry.base_delay: %s (must not be negative)", c.Retry.BaseDelay)
	}
	if c.Retry.BaseDelay > time.Hour {
		return fmt.Errorf("invalid retry.base_delay: %s (must be at most 1h)", c.Retry.BaseDelay)
	}

	if _, err := annotate.ParseHexColor(c.Annotation.Color); err != nil {
		return fmt.Errorf("invalid annotation.color: %w", err)
	}
	if c.Annotation.Width < 1 || c.Annotation.Width > 50 {
		return fmt.Errorf("invalid annotation.width: %d (must be between 1 and 50)", c.Annotation.Width)
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}
	validFormats := []string{"text", "json", "csv"}
	if c.Batch.SummaryFormat != "" && !slices.Contains(validFormats, c.Batch.SummaryFormat) {
		return fmt.Errorf("invalid batch summary format: %s (must be one of: %s)", c.Batch.SummaryFormat, strings.Join(validFormats, ", "))
	}

	return nil
}

// EffectiveLogLevel returns "debug" when verbose is set, otherwise the configured level.
func (c *Config) EffectiveLogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.LogLevel
}

// ToRetryPolicy converts to the OCR client's retry policy.
func (c *Config) ToRetryPolicy() ocr.RetryPolicy {
	return ocr.RetryPolicy{
		MaxRetries: c.Retry.MaxRetries,
		BaseDelay:  c.Retry.BaseDelay,
	}
}

// ToStyle converts to the annotators' rectangle style.
func (c *Config) ToStyle() (annotate.Style, error) {
	col, err := annotate.ParseHexColor(c.Annotation.Color)
	if err != nil {
		return annotate.Style{}, err
	}
	return annotate.Style{Color: col, Width: c.Annotation.Width}, nil
}

// ToBatchConfig converts to batch.Config.
func (c *Config) ToBatchConfig() *batch.Config {
	return &batch.Config{
		Workers:         c.Batch.Workers,
		ContinueOnError: c.Batch.ContinueOnError,
		Recursive:       c.Batch.Recursive,
		OutputDir:       c.Batch.OutputDir,
	}
}

// LoadAWSConfig resolves credentials and region through the SDK's default
// chain, honoring the configured profile and region.
func (c *Config) LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithAppID(version.AppID()),
	}
	if c.AWS.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.AWS.Region))
	}
	if c.AWS.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.AWS.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return cfg, nil
}
