package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nft-metadata-api/internal/config"
	"nft-metadata-api/internal/domain"
	"nft-metadata-api/internal/metaplex"
	"nft-metadata-api/internal/resolver"
	"nft-metadata-api/internal/solana"
)

// watchEvent is one line of watch output.
type watchEvent struct {
	Slot     int64                 `json:"slot"`
	Metadata *domain.TokenMetadata `json:"metadata"`
}

func newWatchCmd(a *app) *cobra.Command {
	var commitment string

	cmd := &cobra.Command{
		Use:   "watch <mint>",
		Short: "Stream metadata updates of a mint over WebSocket",
		Long: `watch subscribes to the metadata account of a mint (accountSubscribe) and
prints the decoded metadata as one JSON line per change until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := solana.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("mint: %w", err)
			}
			pda, ok := metaplex.DeriveMetadataAddress(mint)
			if !ok {
				return fmt.Errorf("no metadata address for mint %s", mint)
			}

			endpoint := a.cfg.WebsocketEndpoint()
			if endpoint == "" {
				return fmt.Errorf("no websocket endpoint; set --ws-endpoint or %s", config.EnvWSEndpoint)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			wsConfig := solana.DefaultWSConfig()
			wsConfig.Commitment = commitment
			wsConfig.Logger = a.logger
			client, err := solana.NewWSClient(ctx, endpoint, &wsConfig)
			if err != nil {
				return fmt.Errorf("connect %s: %w", endpoint, err)
			}
			defer client.Close()

			a.logger.Info("watching metadata account",
				zap.String("mint", mint.String()),
				zap.String("metadata_address", pda.String()),
			)
			return watch(ctx, client, pda, func(ev watchEvent) error {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(ev)
			}, a.logger)
		},
	}

	cmd.Flags().StringVar(&commitment, "commitment", solana.CommitmentConfirmed, "subscription commitment: processed, confirmed, finalized")
	return cmd
}

// watch forwards every decodable notification for pda to emit until ctx ends
// or the subscription closes. Undecodable updates are logged and skipped.
func watch(ctx context.Context, client solana.WSClient, pda solana.Address, emit func(watchEvent) error, logger *zap.Logger) error {
	ch, err := client.SubscribeAccount(ctx, pda)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-ch:
			if !ok {
				return nil
			}
			decoded, err := metaplex.Decode(n.Data)
			if err != nil {
				logger.Warn("skipping undecodable update", zap.Int64("slot", n.Slot), zap.Error(err))
				continue
			}
			if err := emit(watchEvent{Slot: n.Slot, Metadata: resolver.Sanitize(decoded)}); err != nil {
				return err
			}
		}
	}
}
