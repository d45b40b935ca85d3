package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"nft-metadata-api/internal/resolver"
	"nft-metadata-api/internal/solana"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <mint>",
		Short: "Fetch and print the metadata of a mint as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rpc := solana.NewHTTPClient(a.cfg.RPCEndpoint, solana.WithTimeout(a.cfg.RPCTimeout))
			res := resolver.New(rpc, resolver.WithLogger(a.logger))

			meta, err := res.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(meta); err != nil {
				return fmt.Errorf("write metadata: %w", err)
			}
			return nil
		},
	}
}
