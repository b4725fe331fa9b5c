package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alturanft/alturanft-go/altura"
	"github.com/alturanft/alturanft-go/config"
)

var (
	cfgFile string
	apiKey  string
	debug   bool

	cfg    *config.Config
	logger zerolog.Logger
	client *altura.Client

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "alturanft",
	Short: "Command line client for the Altura NFT platform",
	Long: `alturanft drives the Altura NFT platform API from a shell.

It fetches collections, verifies the configured API key against its user
and transfers items between wallets. Results are printed as JSON or
projected with an expression via --query.`,
	SilenceUsage: true,
}

// SetVersion records build information for the version and update commands
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
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
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Altura API key (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging and raw response logging")
}

// initializeApp loads the configuration and creates the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile, config.WithAPIKey(apiKey), config.WithDebug(debug))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	creds := altura.InitCredentials(altura.NewCredentials(cfg.API.APIKey, cfg.API.Source))

	client, err = altura.NewClient(creds, logger,
		altura.WithBaseURL(cfg.API.BaseURL),
		altura.WithHTTPTimeout(cfg.API.Timeout),
		altura.WithUserSettingsWatchdog(cfg.User.Watchdog),
		altura.WithTelemetry(cfg.Telemetry.Enabled),
		altura.WithRawResponseLogging(cfg.Debug.RawResponse),
		altura.WithHost(altura.HostFunc(func(container string, immediate bool) {
			logger.Debug().Str("container", container).Bool("immediate", immediate).Msg("Operation released")
		})),
	)
	if err != nil {
		return fmt.Errorf("failed to create Altura client: %w", err)
	}

	logger.Debug().Str("base_url", client.BaseURL()).Msg("Client initialized")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
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

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
