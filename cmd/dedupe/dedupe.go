// Package dedupe implements the dedupe command, which sweeps existing
// fingerprint duplicates out of the ledger.
package dedupe

import (
	"fmt"

	"github.com/spf13/cobra"

	"restobook/recon/cmd/root"
)

// Cmd is the dedupe command.
var Cmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate transactions already present in the ledger",
	Long: `Dedupe scans the whole ledger and deletes every transaction that shares a
fingerprint (day, amount, description) with an earlier one. The first
occurrence of each fingerprint is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := root.OpenService()
		if err != nil {
			return err
		}

		deleted, err := svc.RemoveDuplicates()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d duplicate transactions\n", deleted)
		return nil
	},
}
