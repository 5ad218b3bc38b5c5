//nolint:lll
package config

import "time"

// Config represents the complete configuration for the textract-annotator CLI.
// It includes settings for all commands (annotate, batch, config) and
// supports loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// AWS client configuration
	AWS AWSConfig `mapstructure:"aws" yaml:"aws" json:"aws"`

	// Throttling retry policy
	Retry RetryConfig `mapstructure:"retry" yaml:"retry" json:"retry"`

	// Rectangle style
	Annotation AnnotationConfig `mapstructure:"annotation" yaml:"annotation" json:"annotation"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// AWSConfig contains credentials and endpoint settings shared by the Textract and S3 clients.
type AWSConfig struct {
	Region      string `mapstructure:"region" yaml:"region" json:"region"`
	Profile     string `mapstructure:"profile" yaml:"profile" json:"profile"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	S3Endpoint  string `mapstructure:"s3_endpoint" yaml:"s3_endpoint" json:"s3_endpoint"`
	S3PathStyle bool   `mapstructure:"s3_path_style" yaml:"s3_path_style" json:"s3_path_style"`
}

// RetryConfig contains the backoff settings for throttled Textract calls.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay" yaml:"base_delay" json:"base_delay"`
}

// AnnotationConfig contains the rectangle style.
type AnnotationConfig struct {
	Color string `mapstructure:"color" yaml:"color" json:"color"`
	Width int    `mapstructure:"width" yaml:"width" json:"width"`
}

// OutputConfig contains output settings.
type OutputConfig struct {
	Report          string `mapstructure:"report" yaml:"report" json:"report"`
	MetricsTextfile string `mapstructure:"metrics_textfile" yaml:"metrics_textfile" json:"metrics_textfile"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool   `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
	SummaryFormat   string `mapstructure:"summary_format" yaml:"summary_format" json:"summary_format"`
}
