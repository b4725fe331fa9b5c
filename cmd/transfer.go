package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	transferChainID  string
	transferAddress  string
	transferTokenIDs string
	transferAmounts  string
	transferTo       string
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer items of a collection to another wallet",
	Long: `Transfer items of a collection to another wallet.

Token IDs and amounts are passed to the platform as given, e.g.
  alturanft transfer --address 0xT --token-ids 5 --amounts 1 --to 0xD`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeApp,
	RunE:              runTransfer,
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().StringVar(&transferChainID, "chain-id", "", "chain the collection lives on")
	transferCmd.Flags().StringVar(&transferAddress, "address", "", "collection address")
	transferCmd.Flags().StringVar(&transferTokenIDs, "token-ids", "", "token IDs to transfer")
	transferCmd.Flags().StringVar(&transferAmounts, "amounts", "", "amount per token ID")
	transferCmd.Flags().StringVar(&transferTo, "to", "", "destination wallet address")

	for _, name := range []string{"address", "token-ids", "amounts", "to"} {
		_ = transferCmd.MarkFlagRequired(name)
	}
}

func runTransfer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger.Info().
		Str("collection", transferAddress).
		Str("token_ids", transferTokenIDs).
		Str("to", transferTo).
		Msg("Transferring items")

	op := client.NewTransferItems(true).
		SetChainID(transferChainID).
		SetParameters(transferAddress, transferTokenIDs, transferAmounts, transferTo)
	op.Run(ctx)
	if err := op.Wait(ctx); err != nil {
		return err
	}

	outcome := op.Outcome()
	if !outcome.OK() {
		return fmt.Errorf("transfer failed: %w", outcome.Failure)
	}

	if !outcome.Model.HasTxHash() {
		logger.Warn().Msg("Transfer accepted without a transaction hash")
	}
	return printResult(cmd.OutOrStdout(), outcome.Model, "")
}
