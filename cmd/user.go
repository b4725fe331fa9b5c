package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var userQuery string

// userCmd groups user commands
var userCmd = &cobra.Command{
	Use:               "user",
	Short:             "Work with the user behind the API key",
	PersistentPreRunE: initializeApp,
}

var userVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the API key and print its user",
	Args:  cobra.NoArgs,
	RunE:  runUserVerify,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userVerifyCmd)

	userVerifyCmd.Flags().StringVarP(&userQuery, "query", "q", "", "expression to print instead of the whole user")
}

func runUserVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	op := client.UserSettings(true)
	op.Run(ctx)
	if err := op.Wait(ctx); err != nil {
		return err
	}

	outcome := op.Outcome()
	if !outcome.OK() {
		if outcome.Failure.IsUnauthorized() {
			return fmt.Errorf("API key rejected: %w", outcome.Failure)
		}
		return fmt.Errorf("failed to verify API key: %w", outcome.Failure)
	}

	logger.Info().Str("user", outcome.Model.GetDisplayName()).Msg("API key verified")
	return printResult(cmd.OutOrStdout(), outcome.Model, userQuery)
}
