package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nft-metadata-api/internal/metaplex"
	"nft-metadata-api/internal/solana"
)

func newDeriveCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "derive <mint>",
		Short: "Print the metadata account address of a mint (no network)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := solana.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("mint: %w", err)
			}

			pda, bump, err := metaplex.DeriveMetadataAddressWithBump(mint)
			if err != nil {
				return fmt.Errorf("derive metadata address: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mint:             %s\n", mint)
			fmt.Fprintf(out, "program:          %s\n", metaplex.ProgramID)
			fmt.Fprintf(out, "metadata address: %s\n", pda)
			fmt.Fprintf(out, "bump:             %d\n", bump)
			return nil
		},
	}
}
