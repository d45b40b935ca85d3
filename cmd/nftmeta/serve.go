package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nft-metadata-api/internal/api"
	"nft-metadata-api/internal/config"
	"nft-metadata-api/internal/observability"
	"nft-metadata-api/internal/resolver"
	"nft-metadata-api/internal/solana"
	"nft-metadata-api/internal/storage"
	chstore "nft-metadata-api/internal/storage/clickhouse"
	"nft-metadata-api/internal/storage/memory"
	"nft-metadata-api/internal/storage/migrations"
	pgstore "nft-metadata-api/internal/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		httpAddr      string
		corsOrigins   string
		journal       string
		postgresDSN   string
		clickhouseDSN string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			if flags.Changed("http-addr") {
				cfg.HTTPAddr = httpAddr
			}
			if flags.Changed("cors-origins") {
				cfg.CORSOrigins = config.SplitList(corsOrigins)
			}
			if flags.Changed("journal") {
				cfg.JournalBackend = journal
			}
			if flags.Changed("postgres-dsn") {
				cfg.PostgresDSN = postgresDSN
			}
			if flags.Changed("clickhouse-dsn") {
				cfg.ClickhouseDSN = clickhouseDSN
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, a.logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&httpAddr, "http-addr", config.DefaultHTTPAddr, "HTTP listen address")
	f.StringVar(&corsOrigins, "cors-origins", "", "comma-separated allowed CORS origins (default any)")
	f.StringVar(&journal, "journal", config.BackendMemory, "lookup journal backend: memory, postgres, clickhouse, none")
	f.StringVar(&postgresDSN, "postgres-dsn", "", "PostgreSQL connection string for the postgres journal")
	f.StringVar(&clickhouseDSN, "clickhouse-dsn", "", "ClickHouse connection string for the clickhouse journal")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	observability.SetStartTime(time.Now().Unix())

	store, closeStore, err := openJournal(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer closeStore()

	rpc := solana.NewHTTPClient(cfg.RPCEndpoint, solana.WithTimeout(cfg.RPCTimeout))

	opts := []resolver.Option{resolver.WithLogger(logger)}
	if store != nil {
		opts = append(opts, resolver.WithJournal(store, cfg.JournalBackend))
	}
	res := resolver.New(rpc, opts...)

	srv := api.NewServer(res, store, rpc, api.Config{
		APIKey:         cfg.APIKey,
		CORSOrigins:    cfg.CORSOrigins,
		JournalBackend: cfg.JournalBackend,
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// One RPC round trip plus encoding.
		WriteTimeout: cfg.RPCTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("rpc_endpoint", cfg.RPCEndpoint),
			zap.String("journal", cfg.JournalBackend),
			zap.Bool("api_key", cfg.APIKey != ""),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// openJournal connects the configured journal backend and applies its
// migrations. The store is nil for the none backend.
func openJournal(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.LookupStore, func(), error) {
	switch cfg.JournalBackend {
	case config.BackendNone:
		return nil, func() {}, nil

	case config.BackendMemory:
		return memory.NewLookupStore(), func() {}, nil

	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("postgres journal ready")
		return pgstore.NewLookupStore(pool), pool.Close, nil

	case config.BackendClickhouse:
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("clickhouse journal ready")
		closeConn := func() {
			if err := conn.Close(); err != nil {
				logger.Warn("close clickhouse", zap.Error(err))
			}
		}
		return chstore.NewLookupStore(conn), closeConn, nil
	}
	return nil, nil, fmt.Errorf("unknown journal backend %q", cfg.JournalBackend)
}
