package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qm4/xtxid/internal/config"
)

var (
	globalCfg   *config.Config
	logger      = zap.NewNop()
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "xtxid",
	Short: "Generate X (Twitter) x-client-transaction-id headers",
	Long: `xtxid derives the x-client-transaction-id header that X's web API
expects on every request. It reads the verification key and loading
animations from the x.com home page and the ondemand.s script, replays
the animation and signs each method/path pair.

Usage:
  xtxid generate GET /i/api/1.1/jot/client_event.json
  xtxid generate --html home.html --js ondemand.js POST /i/api/graphql/x/CreateTweet
  xtxid ondemand-url --html home.html
  xtxid inspect`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		globalCfg = config.Load()
		if flagVerbose {
			globalCfg.Verbose = true
		}

		var err error
		logger, err = newLogger(globalCfg.Verbose)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// logf adapts the zap logger to the printf-style hook used by txid and
// cookies.
func logf(format string, args ...any) {
	logger.Sugar().Debugf(format, args...)
}

// requestTimeout returns the configured timeout as time.Duration.
func requestTimeout() time.Duration {
	return time.Duration(globalCfg.Timeout) * time.Second
}
