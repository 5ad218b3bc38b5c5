package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
	"github.com/MeKo-Tech/textract-annotator/internal/config"
	"github.com/MeKo-Tech/textract-annotator/internal/source"
	"github.com/MeKo-Tech/textract-annotator/internal/testutil"
	"github.com/MeKo-Tech/textract-annotator/internal/version"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFakes swaps the AWS-backed constructors for in-process fakes and
// isolates the test from config files in the working directory and $HOME.
func useFakes(t *testing.T, det *testutil.FakeDetector) *config.Config {
	t.Helper()

	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var captured config.Config
	origLoad, origDet, origStore := loadAWSConfig, newDetector, newStore
	loadAWSConfig = func(context.Context, *config.Config) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	newDetector = func(_ aws.Config, cfg *config.Config) annotate.Detector {
		captured = *cfg
		return det
	}
	newStore = func(aws.Config, *config.Config) annotate.Store {
		return source.New(nil)
	}
	t.Cleanup(func() {
		loadAWSConfig, newDetector, newStore = origLoad, origDet, origStore
		resetFlags(rootCmd)
		clearConfigFile()
	})
	resetFlags(rootCmd)
	clearConfigFile()
	return &captured
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// since cobra keeps flag state between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// clearConfigFile drops values read from a previous test's config file;
// viper keeps them when the next search finds no file.
func clearConfigFile() {
	viper.SetConfigType("yaml")
	_ = viper.ReadConfig(strings.NewReader(""))
}

// executeCommand runs the root command with args and returns stdout, stderr and the error.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(os.Stderr)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "textract-annotator", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Same(t, rootCmd, GetRootCommand())
}

func TestRootCommandHelp(t *testing.T) {
	useFakes(t, &testutil.FakeDetector{})

	out, _, err := executeCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Amazon Textract")
	assert.Contains(t, out, "retried with exponential backoff")
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	useFakes(t, &testutil.FakeDetector{})

	out, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Version)
}

func TestRootCommandSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, expected := range []string{"annotate", "batch", "config"} {
		assert.Contains(t, names, expected, "Expected subcommand '%s' not found", expected)
	}
}

func TestRootCommandInvalidFlag(t *testing.T) {
	useFakes(t, &testutil.FakeDetector{})

	_, _, err := executeCommand(t, "--invalid-flag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestRootCommandPersistentFlags(t *testing.T) {
	for _, name := range []string{
		"config", "verbose", "log-level", "region", "profile", "endpoint", "s3-endpoint",
		"s3-path-style", "max-retries", "base-delay", "color", "width", "report", "metrics-textfile",
	} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "3", rootCmd.PersistentFlags().Lookup("max-retries").DefValue)
	assert.Equal(t, "2s", rootCmd.PersistentFlags().Lookup("base-delay").DefValue)
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { setupLogging(&config.Config{LogLevel: "info"}) })
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.LogLevel = "error"
	setupLogging(&cfg)
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelWarn))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelError))

	cfg.Verbose = true
	setupLogging(&cfg)
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
}
