package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// newTestLoader returns a loader on a fresh viper instance rooted in an empty directory.
func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return NewLoaderWithViper(viper.New())
}

// TestNewLoader tests loader creation.
func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v != viper.GetViper() {
		t.Error("NewLoader() should use the global viper instance")
	}
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	cfg, err := newTestLoader(t).Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got %s", cfg.LogLevel)
	}
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay != 2*time.Second {
		t.Errorf("Expected default base delay 2s, got %s", cfg.Retry.BaseDelay)
	}
	if cfg.Annotation.Color != "#FF0000" {
		t.Errorf("Expected default color #FF0000, got %s", cfg.Annotation.Color)
	}
}

// TestLoadFromSearchPath tests that textract-annotator.yaml in the working directory is picked up.
func TestLoadFromSearchPath(t *testing.T) {
	loader := newTestLoader(t)

	yamlContent := `
log_level: debug
aws:
  region: us-west-2
retry:
  max_retries: 5
  base_delay: 500ms
annotation:
  color: "#00FF00"
  width: 3
batch:
  workers: 4
  recursive: true
`
	if err := os.WriteFile(ConfigFileName+".yaml", []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.AWS.Region != "us-west-2" {
		t.Errorf("Expected region us-west-2, got %s", cfg.AWS.Region)
	}
	if cfg.Retry.MaxRetries != 5 || cfg.Retry.BaseDelay != 500*time.Millisecond {
		t.Errorf("Unexpected retry config: %+v", cfg.Retry)
	}
	if cfg.Annotation.Color != "#00FF00" || cfg.Annotation.Width != 3 {
		t.Errorf("Unexpected annotation config: %+v", cfg.Annotation)
	}
	if cfg.Batch.Workers != 4 || !cfg.Batch.Recursive {
		t.Errorf("Unexpected batch config: %+v", cfg.Batch)
	}
	if !strings.HasSuffix(loader.GetConfigFileUsed(), ConfigFileName+".yaml") {
		t.Errorf("Unexpected config file used: %s", loader.GetConfigFileUsed())
	}
}

// TestLoadWithEnvironmentVariables tests environment variable overrides.
func TestLoadWithEnvironmentVariables(t *testing.T) {
	loader := newTestLoader(t)
	t.Setenv("TEXTRACT_ANNOTATOR_LOG_LEVEL", "warn")
	t.Setenv("TEXTRACT_ANNOTATOR_RETRY_MAX_RETRIES", "7")
	t.Setenv("TEXTRACT_ANNOTATOR_RETRY_BASE_DELAY", "1s")
	t.Setenv("TEXTRACT_ANNOTATOR_AWS_S3_PATH_STYLE", "true")
	t.Setenv("TEXTRACT_ANNOTATOR_BATCH_CONTINUE_ON_ERROR", "true")

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn', got %s", cfg.LogLevel)
	}
	if cfg.Retry.MaxRetries != 7 {
		t.Errorf("Expected max retries 7, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay != time.Second {
		t.Errorf("Expected base delay 1s, got %s", cfg.Retry.BaseDelay)
	}
	if !cfg.AWS.S3PathStyle {
		t.Error("Expected s3_path_style true from environment")
	}
	if !cfg.Batch.ContinueOnError {
		t.Error("Expected continue_on_error true from environment")
	}
}

// TestLoadWithFile tests loading an explicit config file.
func TestLoadWithFile(t *testing.T) {
	loader := newTestLoader(t)
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(configFile, []byte("output:\n  report: words.json\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := loader.LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if cfg.Output.Report != "words.json" {
		t.Errorf("Expected report words.json, got %s", cfg.Output.Report)
	}
}

// TestLoadWithMissingFile tests that an explicit missing file is an error.
func TestLoadWithMissingFile(t *testing.T) {
	_, err := newTestLoader(t).LoadWithFile("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadInvalidValues tests that validation runs after loading.
func TestLoadInvalidValues(t *testing.T) {
	loader := newTestLoader(t)
	t.Setenv("TEXTRACT_ANNOTATOR_ANNOTATION_WIDTH", "0")

	if _, err := loader.Load(); err == nil {
		t.Fatal("Expected validation error")
	}

	cfg, err := NewLoaderWithViper(viper.New()).LoadWithoutValidation()
	if err != nil {
		t.Fatalf("LoadWithoutValidation() unexpected error: %v", err)
	}
	if cfg.Annotation.Width != 0 {
		t.Errorf("Expected width 0 without validation, got %d", cfg.Annotation.Width)
	}
}

// TestLoadMalformedYAML tests that parse errors are reported.
func TestLoadMalformedYAML(t *testing.T) {
	loader := newTestLoader(t)
	if err := os.WriteFile(ConfigFileName+".yaml", []byte("retry: [unclosed"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := loader.Load(); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

// TestGenerateDefaultConfigFile tests that the generated file loads back to the defaults.
func TestGenerateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")
	if err := GenerateDefaultConfigFile(path); err != nil {
		t.Fatalf("GenerateDefaultConfigFile() unexpected error: %v", err)
	}

	cfg, err := newTestLoader(t).LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Retry != def.Retry || cfg.Annotation != def.Annotation || cfg.Batch != def.Batch {
		t.Errorf("Generated config differs from defaults: %+v", cfg)
	}
}

// TestMarshal tests the YAML rendering used by "config show".
func TestMarshal(t *testing.T) {
	cfg := DefaultConfig()
	data, err := Marshal(&cfg)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	out := string(data)
	for _, want := range []string{"base_delay: 2s", "max_retries: 3", "width: 2", "workers: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, out)
		}
	}
}

// TestGetConfigSearchPaths tests the search path order.
func TestGetConfigSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	paths := GetConfigSearchPaths()

	if paths[0] != "." {
		t.Errorf("Expected first path '.', got %s", paths[0])
	}
	if paths[len(paths)-1] != "/etc/textract-annotator" {
		t.Errorf("Expected last path /etc/textract-annotator, got %s", paths[len(paths)-1])
	}
	found := false
	for _, p := range paths {
		if p == filepath.Join("/xdg", "textract-annotator") {
			found = true
		}
	}
	if !found {
		t.Errorf("XDG path missing from %v", paths)
	}
}
