// Package reconcile implements the reconcile command, which reconciles the
// ledger against a manually supplied reported balance.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"restobook/recon/cmd/root"
)

var reportedBalance string

// Cmd is the reconcile command.
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the ledger against a reported bank balance",
	Long: `Reconcile compares the given reported balance with the sum of all bank
transactions. Any difference beyond the tolerance is concentrated into the
sentinel adjustment entry; historical transactions are never rewritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reported, err := decimal.NewFromString(reportedBalance)
		if err != nil {
			return fmt.Errorf("invalid --balance %q: %w", reportedBalance, err)
		}

		svc, _, err := root.OpenService()
		if err != nil {
			return err
		}

		result, err := svc.ReconcileBalance(reported)
		if err != nil {
			return err
		}

		if !result.Applied {
			fmt.Printf("Already reconciled (diff %s within tolerance)\n", result.Diff)
			return nil
		}
		action := "updated"
		if result.Created {
			action = "created"
		}
		fmt.Printf("Adjustment %s: diff %s (reported %s, local %s)\n",
			action, result.Diff, result.Reported, result.LocalSum)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&reportedBalance, "balance", "b", "", "reported bank balance, e.g. 1234.56")
	_ = Cmd.MarkFlagRequired("balance")
}
