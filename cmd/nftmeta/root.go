package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nft-metadata-api/internal/config"
	"nft-metadata-api/internal/logging"
)

// app carries the settings resolved before any subcommand runs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	envFile     string
	rpcEndpoint string
	wsEndpoint  string
	rpcTimeout  time.Duration
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "nftmeta",
		Short: "Resolve Metaplex token metadata for Solana mints",
		Long: `nftmeta derives the Metaplex metadata account of a mint, fetches it from a
Solana RPC node and decodes it into name, symbol, uri, royalties and creators.

Settings are read from the environment (and a .env file), then overridden by flags:
	` + config.EnvRPCEndpoint + `, ` + config.EnvWSEndpoint + `, ` + config.EnvRPCTimeout + `,
	` + config.EnvHTTPAddr + `, ` + config.EnvAPIKey + `, ` + config.EnvCORSOrigins + `,
	` + config.EnvJournalBackend + `, ` + config.EnvPostgresDSN + `, ` + config.EnvClickhouseDSN + `,
	` + config.EnvLogLevel + `, ` + config.EnvLogFormat,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "file of KEY=VALUE pairs loaded before reading the environment")
	pf.StringVar(&a.rpcEndpoint, "rpc-endpoint", "", "Solana RPC HTTP endpoint (default "+config.DefaultRPCEndpoint+")")
	pf.StringVar(&a.wsEndpoint, "ws-endpoint", "", "Solana WebSocket endpoint (default derived from the RPC endpoint)")
	pf.DurationVar(&a.rpcTimeout, "rpc-timeout", config.DefaultRPCTimeout, "deadline of a single RPC call")
	pf.StringVar(&a.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", config.DefaultLogFormat, "log format: json or console")

	root.AddCommand(
		newServeCmd(a),
		newResolveCmd(a),
		newDeriveCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads .env and the environment, applies flags that were set and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("rpc-endpoint") {
		cfg.RPCEndpoint = a.rpcEndpoint
	}
	if flags.Changed("ws-endpoint") {
		cfg.WSEndpoint = a.wsEndpoint
	}
	if flags.Changed("rpc-timeout") {
		cfg.RPCTimeout = a.rpcTimeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}
