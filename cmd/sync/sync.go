// Package sync implements the sync command, which pulls the bank feed and
// reconciles the ledger in one pass.
package sync

import (
	"fmt"

	"github.com/spf13/cobra"

	"restobook/recon/cmd/root"
	"restobook/recon/internal/bankfeed"
)

var accountUID string

// Cmd is the sync command.
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the bank feed, import its transactions and reconcile the balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		if accountUID == "" {
			return fmt.Errorf("--account is required")
		}

		svc, _, err := root.OpenService()
		if err != nil {
			return err
		}

		client := bankfeed.NewClient(
			root.Cfg.Bank.BaseURL,
			root.Cfg.Bank.Token,
			root.Cfg.Bank.SessionID,
			root.Log,
		)

		result, err := svc.SyncBank(cmd.Context(), client, accountUID)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d, skipped %d duplicates, %d errors\n",
			result.Import.Imported, result.Import.Skipped, result.Import.Errors)
		if result.Balance.Applied {
			fmt.Printf("Balance adjusted by %s (reported %s, local %s)\n",
				result.Balance.Diff, result.Balance.Reported, result.Balance.LocalSum)
		} else {
			fmt.Println("Balance already within tolerance")
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&accountUID, "account", "a", "", "bank account UID to synchronize")
}
