package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/textract-annotator/internal/config"
	"github.com/MeKo-Tech/textract-annotator/internal/ocr"
	"github.com/MeKo-Tech/textract-annotator/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "textract-annotator",
	Short: "Draw Amazon Textract word boxes onto PDFs and images",
	Long: `textract-annotator sends a single-page PDF or a raster image to
Amazon Textract, receives the bounding box of every detected word, and writes
a copy of the document with an unfilled rectangle drawn around each word.

Throttled Textract calls are retried with exponential backoff. Inputs and
outputs may be local paths or s3://bucket/key URIs.

Examples:
  textract-annotator annotate invoice.pdf
  textract-annotator annotate scan.png --output-path out/scan-boxes.png
  textract-annotator batch scans/ --recursive --workers 2 --report words.json
  textract-annotator config show`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "",
		"config file (default is textract-annotator.yaml in ., $HOME, $XDG_CONFIG_HOME/textract-annotator, /etc/textract-annotator)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")

	// AWS
	pf.String("region", "", "AWS region (default from the AWS SDK chain)")
	pf.String("profile", "", "AWS shared config profile")
	pf.String("endpoint", "", "custom Textract endpoint URL")
	pf.String("s3-endpoint", "", "custom S3 endpoint URL")
	pf.Bool("s3-path-style", false, "use path-style S3 addressing")

	// Retry policy
	pf.Int("max-retries", ocr.DefaultMaxRetries, "total Textract attempts when throttled")
	pf.Duration("base-delay", ocr.DefaultBaseDelay, "backoff before the first retry; doubles on each further retry")

	// Annotation style
	pf.String("color", "#FF0000", "rectangle color as #RRGGBB")
	pf.Int("width", 2, "rectangle line width (points for PDF, pixels for images)")

	// Outputs
	pf.String("report", "", "write detected words to this file (.json, .yaml or .yml)")
	pf.String("metrics-textfile", "", "write Prometheus metrics to this file on exit")

	bindFlags(map[string]string{
		"verbose":                 "verbose",
		"log_level":               "log-level",
		"aws.region":              "region",
		"aws.profile":             "profile",
		"aws.endpoint":            "endpoint",
		"aws.s3_endpoint":         "s3-endpoint",
		"aws.s3_path_style":       "s3-path-style",
		"retry.max_retries":       "max-retries",
		"retry.base_delay":        "base-delay",
		"annotation.color":        "color",
		"annotation.width":        "width",
		"output.report":           "report",
		"output.metrics_textfile": "metrics-textfile",
	}, rootCmd)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Initialize configuration if not already done
		if globalConfig == nil {
			initConfig()
		}
		setupLogging(GetConfig())
	}
}

// bindFlags binds persistent or local flags of cmd to viper keys.
func bindFlags(keys map[string]string, cmd *cobra.Command) {
	for key, name := range keys {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			f = cmd.Flags().Lookup(name)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// setupLogging installs the JSON slog handler on stderr at the configured level.
func setupLogging(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.EffectiveLogLevel() {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	globalConfig, err = configLoader.LoadWithFileWithoutValidation(cfgFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	// Reload configuration to ensure CLI flags are included
	// This is necessary because flag binding happens after initial config loading
	var cfg config.Config
	if err := GetConfigLoader().GetViper().Unmarshal(&cfg); err != nil {
		slog.Warn("Error unmarshaling updated configuration", "error", err)
		return globalConfig
	}

	return &cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// validatedConfig returns the resolved configuration after validation.
func validatedConfig() (*config.Config, error) {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
