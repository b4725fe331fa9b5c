package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alturanft/alturanft-go/altura"
	"github.com/alturanft/alturanft-go/query"
)

var (
	collectionQuery       string
	collectionWhere       string
	collectionConcurrency int
)

// collectionCmd groups collection commands
var collectionCmd = &cobra.Command{
	Use:               "collection",
	Short:             "Work with NFT collections",
	PersistentPreRunE: initializeApp,
}

var collectionGetCmd = &cobra.Command{
	Use:   "get <address>...",
	Short: "Fetch one or more collections by address",
	Long: `Fetch collections by contract address. Several addresses are fetched
concurrently.

Examples:
  alturanft collection get 0x8b4d...
  alturanft collection get 0xA 0xB --where 'holders > 100' --query name`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCollectionGet,
}

func init() {
	rootCmd.AddCommand(collectionCmd)
	collectionCmd.AddCommand(collectionGetCmd)

	collectionGetCmd.Flags().StringVarP(&collectionQuery, "query", "q", "", "expression to print for each collection")
	collectionGetCmd.Flags().StringVarP(&collectionWhere, "where", "w", "", "only print collections matching this expression")
	collectionGetCmd.Flags().IntVar(&collectionConcurrency, "concurrency", altura.DefaultBatchConcurrency, "number of collections fetched at once")
}

func runCollectionGet(cmd *cobra.Command, args []string) error {
	var where *query.Program
	if collectionWhere != "" {
		var err error
		where, err = compiler.CompilePredicate(collectionWhere)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
	}

	logger.Info().Int("count", len(args)).Msg("Fetching collections")

	results, err := client.FetchCollections(cmd.Context(), args, collectionConcurrency)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, result := range results {
		if result.Failure != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", result.Address, result.Failure.Reason)
			continue
		}

		if where != nil {
			matched, err := where.Match(result.Collection)
			if err != nil {
				return err
			}
			if !matched {
				continue
			}
		}

		if err := printResult(out, result.Collection, collectionQuery); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d collections could not be fetched", failed, len(results))
	}
	return nil
}
