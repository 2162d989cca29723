package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/waxatomic/atomicassets"
	"github.com/s0up4200/waxatomic/config"
)

var (
	cfgFile    string
	jsonOutput bool
	cfg        *config.Config
	logger     zerolog.Logger
	client     atomicassets.API

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "waxatomic",
	Short: "Query the AtomicAssets NFT API on the WAX chain",
	Long: `waxatomic is a CLI for the AtomicAssets REST API. It looks up assets,
owners, collections and authorized accounts on the WAX chain, retrying
transient gateway failures with exponential backoff.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records the build information reported by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if cmd.Flags().Changed("json") && jsonOutput {
		cfg.Output.Format = "json"
	}

	c, err := atomicassets.NewClient(cfg.API.APIKey, logger, cfg.API.ClientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create AtomicAssets client: %w", err)
	}
	client = c

	logger.Debug().
		Str("base_url", c.BaseURL()).
		Int("retries", c.RetryPolicy().Retries).
		Msg("AtomicAssets client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// printResult writes v as indented JSON when JSON output is selected,
// otherwise it calls text.
func printResult(cmd *cobra.Command, v any, text func()) error {
	if cfg != nil && cfg.Output.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}
